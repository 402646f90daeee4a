package forge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v66/github"

	"shipit/internal/model"
)

func setup(t *testing.T) (*GitHub, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := github.NewClient(nil)
	base, _ := url.Parse(srv.URL + "/")
	c.BaseURL = base
	return NewGitHub(c, "octo", "shipit"), mux
}

func TestGitHub_ListIssuesSkipsPullRequestsAndPaginates(t *testing.T) {
	g, mux := setup(t)
	g.WithPageSize(2)

	mux.HandleFunc("/repos/octo/shipit/issues", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("state"); got != "closed" {
			t.Errorf("state = %q, want closed", got)
		}
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"id":30,"number":3,"title":"third","state":"closed"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
		fmt.Fprint(w, `[
			{"id":10,"number":1,"title":"first","state":"closed","user":{"login":"ann"},
			 "labels":[{"name":"bug"}],"assignees":[{"login":"bob"}],"milestone":{"title":"v1"},"comments":4},
			{"id":20,"number":2,"title":"a pr","state":"closed","pull_request":{"url":"x"}}
		]`)
	})

	issues, err := g.ListIssues(context.Background(), model.StateClosed)
	if err != nil {
		t.Fatalf("ListIssues() error: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	first := issues[0]
	if first.Key() != 10 || first.Author != "ann" || first.Comments != 4 || first.Milestone != "v1" {
		t.Errorf("first = %+v", first.Info)
	}
	if len(first.Labels) != 1 || first.Labels[0] != "bug" || first.Assignees[0] != "bob" {
		t.Errorf("labels/assignees = %v %v", first.Labels, first.Assignees)
	}
	if issues[1].Number != 3 {
		t.Errorf("second page not fetched: %+v", issues[1].Info)
	}
}

func TestGitHub_ListPullRequests(t *testing.T) {
	g, mux := setup(t)
	mux.HandleFunc("/repos/octo/shipit/pulls", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":7,"number":5,"title":"feat","state":"open","draft":true,
			"head":{"ref":"feat"},"base":{"ref":"main"}}]`)
	})

	prs, err := g.ListPullRequests(context.Background())
	if err != nil {
		t.Fatalf("ListPullRequests() error: %v", err)
	}
	if len(prs) != 1 || !prs[0].IsPullRequest() || !prs[0].Draft || prs[0].HeadRef != "feat" || prs[0].BaseRef != "main" {
		t.Errorf("prs = %+v", prs)
	}
	if prs[0].Mergeable != nil {
		t.Error("mergeable should be unknown from the list endpoint")
	}
}

func TestGitHub_CreateIssue(t *testing.T) {
	g, mux := setup(t)
	mux.HandleFunc("/repos/octo/shipit/issues", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var req github.IssueRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.GetTitle() != "Fix crash" || req.GetBody() != "Steps" {
			t.Errorf("request = %+v", req)
		}
		fmt.Fprint(w, `{"id":99,"number":12,"title":"Fix crash","body":"Steps","state":"open"}`)
	})

	is, err := g.CreateIssue(context.Background(), "Fix crash", "Steps")
	if err != nil {
		t.Fatalf("CreateIssue() error: %v", err)
	}
	if is.Key() != 99 || is.Number != 12 || !model.IsOpen(is) {
		t.Errorf("issue = %+v", is.Info)
	}
}

func TestGitHub_CloseUsesKindEndpoint(t *testing.T) {
	g, mux := setup(t)
	mux.HandleFunc("/repos/octo/shipit/issues/1", func(w http.ResponseWriter, r *http.Request) {
		var req github.IssueRequest
		json.NewDecoder(r.Body).Decode(&req)
		if r.Method != http.MethodPatch || req.GetState() != "closed" || req.Title != nil {
			t.Errorf("%s %+v", r.Method, req)
		}
		fmt.Fprint(w, `{"id":10,"number":1,"state":"closed"}`)
	})
	mux.HandleFunc("/repos/octo/shipit/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		fmt.Fprint(w, `{"id":7,"number":5,"state":"closed"}`)
	})

	got, err := g.Close(context.Background(), &model.Issue{Info: model.Info{ID: 10, Number: 1, State: model.StateOpen}})
	if err != nil {
		t.Fatalf("Close(issue) error: %v", err)
	}
	if !model.IsClosed(got) || got.IsPullRequest() {
		t.Errorf("Close(issue) = %+v", got.Details())
	}

	got, err = g.Close(context.Background(), &model.PullRequest{Info: model.Info{ID: 7, Number: 5, State: model.StateOpen}})
	if err != nil {
		t.Fatalf("Close(pr) error: %v", err)
	}
	if !model.IsClosed(got) || !got.IsPullRequest() || got.Key() != 7 {
		t.Errorf("Close(pr) = %+v", got.Details())
	}
}

func TestGitHub_Comments(t *testing.T) {
	g, mux := setup(t)
	mux.HandleFunc("/repos/octo/shipit/issues/1/comments", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			fmt.Fprint(w, `{"id":3,"body":"thanks","user":{"login":"me"}}`)
			return
		}
		if r.URL.Query().Get("direction") != "asc" {
			t.Errorf("direction = %q", r.URL.Query().Get("direction"))
		}
		fmt.Fprint(w, `[{"id":1,"body":"one"},{"id":2,"body":"two"}]`)
	})

	item := &model.Issue{Info: model.Info{ID: 10, Number: 1}}
	comments, err := g.Comments(context.Background(), item)
	if err != nil {
		t.Fatalf("Comments() error: %v", err)
	}
	if len(comments) != 2 || comments[0].Body != "one" || comments[1].Body != "two" {
		t.Errorf("comments = %+v", comments)
	}

	c, err := g.CreateComment(context.Background(), item, "thanks")
	if err != nil {
		t.Fatalf("CreateComment() error: %v", err)
	}
	if c.ID != 3 || c.Author != "me" {
		t.Errorf("comment = %+v", c)
	}
}

func TestGitHub_Diff(t *testing.T) {
	g, mux := setup(t)
	mux.HandleFunc("/repos/octo/shipit/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/vnd.github.v3.diff" {
			t.Errorf("Accept = %q", got)
		}
		fmt.Fprint(w, "diff --git a/x b/x\n")
	})

	diff, err := g.Diff(context.Background(), &model.PullRequest{Info: model.Info{Number: 5}})
	if err != nil {
		t.Fatalf("Diff() error: %v", err)
	}
	if diff != "diff --git a/x b/x\n" {
		t.Errorf("Diff() = %q", diff)
	}
}

func TestGitHub_RemoteError(t *testing.T) {
	g, mux := setup(t)
	mux.HandleFunc("/repos/octo/shipit/pulls", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	})

	_, err := g.ListPullRequests(context.Background())
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want *RemoteError", err)
	}
	if re.Op != "list pull requests" {
		t.Errorf("Op = %q", re.Op)
	}
	var ge *github.ErrorResponse
	if !errors.As(err, &ge) {
		t.Error("RemoteError should unwrap to the go-github error")
	}
}

func TestGitHub_WithPageSizeBounds(t *testing.T) {
	g := NewGitHub(github.NewClient(nil), "o", "r")
	g.WithPageSize(0).WithPageSize(500)
	if g.pageSize != defaultPageSize {
		t.Errorf("pageSize = %d", g.pageSize)
	}
	g.WithPageSize(30)
	if g.pageSize != 30 {
		t.Errorf("pageSize = %d", g.pageSize)
	}
}
