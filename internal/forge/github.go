package forge

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"shipit/internal/model"
)

var logger = log.WithField("package", "forge")

const defaultPageSize = 100

// NewClient returns a go-github client authenticated with token.
func NewClient(ctx context.Context, token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// CurrentUser returns the login of the authenticated user.
func CurrentUser(ctx context.Context, c *github.Client) (string, error) {
	u, _, err := c.Users.Get(ctx, "")
	if err != nil {
		return "", remoteErr("get authenticated user", err)
	}
	return u.GetLogin(), nil
}

// GitHub is a Repository backed by the GitHub REST API.
type GitHub struct {
	client   *github.Client
	owner    string
	name     string
	pageSize int
}

// Ensure GitHub implements Repository
var _ Repository = (*GitHub)(nil)

// NewGitHub returns the repository owner/name.
func NewGitHub(c *github.Client, owner, name string) *GitHub {
	return &GitHub{client: c, owner: owner, name: name, pageSize: defaultPageSize}
}

// WithPageSize sets how many items are requested per page.
func (g *GitHub) WithPageSize(n int) *GitHub {
	if n > 0 && n <= 100 {
		g.pageSize = n
	}
	return g
}

func (g *GitHub) Owner() string { return g.owner }
func (g *GitHub) Name() string  { return g.name }

// ListIssues returns every issue in the given state. Pull requests, which
// the issues endpoint also returns, are skipped.
func (g *GitHub) ListIssues(ctx context.Context, state model.State) ([]*model.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       string(state),
		ListOptions: github.ListOptions{PerPage: g.pageSize},
	}

	var out []*model.Issue
	for {
		issues, resp, err := g.client.Issues.ListByRepo(ctx, g.owner, g.name, opts)
		if err != nil {
			return nil, remoteErr("list issues", err)
		}
		for _, is := range issues {
			if is.IsPullRequest() {
				continue
			}
			out = append(out, toIssue(is))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.WithField("state", state).WithField("count", len(out)).Debug("listed issues")
	return out, nil
}

// ListPullRequests returns every open pull request.
func (g *GitHub) ListPullRequests(ctx context.Context) ([]*model.PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: g.pageSize},
	}

	var out []*model.PullRequest
	for {
		prs, resp, err := g.client.PullRequests.List(ctx, g.owner, g.name, opts)
		if err != nil {
			return nil, remoteErr("list pull requests", err)
		}
		for _, pr := range prs {
			out = append(out, toPullRequest(pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.WithField("count", len(out)).Debug("listed pull requests")
	return out, nil
}

// PullRequest fetches a single pull request with its merge and diff stats,
// which the list endpoint leaves out.
func (g *GitHub) PullRequest(ctx context.Context, number int) (*model.PullRequest, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, g.owner, g.name, number)
	if err != nil {
		return nil, remoteErr(fmt.Sprintf("get pull request #%d", number), err)
	}
	return toPullRequest(pr), nil
}

func (g *GitHub) CreateIssue(ctx context.Context, title, body string) (*model.Issue, error) {
	req := &github.IssueRequest{Title: github.String(title), Body: github.String(body)}
	is, _, err := g.client.Issues.Create(ctx, g.owner, g.name, req)
	if err != nil {
		return nil, remoteErr("create issue", err)
	}
	logger.WithField("number", is.GetNumber()).Info("created issue")
	return toIssue(is), nil
}

func (g *GitHub) Close(ctx context.Context, item model.Item) (model.Item, error) {
	return g.setState(ctx, item, model.StateClosed)
}

func (g *GitHub) Reopen(ctx context.Context, item model.Item) (model.Item, error) {
	return g.setState(ctx, item, model.StateOpen)
}

func (g *GitHub) setState(ctx context.Context, item model.Item, state model.State) (model.Item, error) {
	number := item.Details().Number
	logger.WithField("number", number).WithField("state", state).Info("changing state")

	if item.IsPullRequest() {
		pr, _, err := g.client.PullRequests.Edit(ctx, g.owner, g.name, number, &github.PullRequest{State: github.String(string(state))})
		if err != nil {
			return nil, remoteErr(fmt.Sprintf("set #%d %s", number, state), err)
		}
		return toPullRequest(pr), nil
	}

	is, _, err := g.client.Issues.Edit(ctx, g.owner, g.name, number, &github.IssueRequest{State: github.String(string(state))})
	if err != nil {
		return nil, remoteErr(fmt.Sprintf("set #%d %s", number, state), err)
	}
	return toIssue(is), nil
}

func (g *GitHub) Edit(ctx context.Context, item model.Item, title, body string) (model.Item, error) {
	number := item.Details().Number

	if item.IsPullRequest() {
		pr, _, err := g.client.PullRequests.Edit(ctx, g.owner, g.name, number, &github.PullRequest{
			Title: github.String(title),
			Body:  github.String(body),
		})
		if err != nil {
			return nil, remoteErr(fmt.Sprintf("edit #%d", number), err)
		}
		return toPullRequest(pr), nil
	}

	is, _, err := g.client.Issues.Edit(ctx, g.owner, g.name, number, &github.IssueRequest{
		Title: github.String(title),
		Body:  github.String(body),
	})
	if err != nil {
		return nil, remoteErr(fmt.Sprintf("edit #%d", number), err)
	}
	return toIssue(is), nil
}

// Comments returns the comments on item, oldest first.
func (g *GitHub) Comments(ctx context.Context, item model.Item) ([]*model.Comment, error) {
	number := item.Details().Number
	opts := &github.IssueListCommentsOptions{
		Sort:        github.String("created"),
		Direction:   github.String("asc"),
		ListOptions: github.ListOptions{PerPage: g.pageSize},
	}

	var out []*model.Comment
	for {
		comments, resp, err := g.client.Issues.ListComments(ctx, g.owner, g.name, number, opts)
		if err != nil {
			return nil, remoteErr(fmt.Sprintf("list comments on #%d", number), err)
		}
		for _, c := range comments {
			out = append(out, toComment(c))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (g *GitHub) CreateComment(ctx context.Context, item model.Item, body string) (*model.Comment, error) {
	number := item.Details().Number
	c, _, err := g.client.Issues.CreateComment(ctx, g.owner, g.name, number, &github.IssueComment{Body: github.String(body)})
	if err != nil {
		return nil, remoteErr(fmt.Sprintf("comment on #%d", number), err)
	}
	logger.WithField("number", number).Info("created comment")
	return toComment(c), nil
}

// Diff returns the unified diff of a pull request.
func (g *GitHub) Diff(ctx context.Context, pr *model.PullRequest) (string, error) {
	diff, _, err := g.client.PullRequests.GetRaw(ctx, g.owner, g.name, pr.Number, github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", remoteErr(fmt.Sprintf("diff #%d", pr.Number), err)
	}
	return diff, nil
}

func toIssue(is *github.Issue) *model.Issue {
	info := model.Info{
		ID:        is.GetID(),
		Number:    is.GetNumber(),
		Title:     is.GetTitle(),
		Body:      is.GetBody(),
		Author:    is.GetUser().GetLogin(),
		CreatedAt: is.GetCreatedAt().Time,
		State:     model.State(is.GetState()),
		Comments:  is.GetComments(),
		URL:       is.GetHTMLURL(),
		Milestone: is.GetMilestone().GetTitle(),
	}
	for _, l := range is.Labels {
		info.Labels = append(info.Labels, l.GetName())
	}
	for _, u := range is.Assignees {
		info.Assignees = append(info.Assignees, u.GetLogin())
	}
	return &model.Issue{Info: info}
}

func toPullRequest(pr *github.PullRequest) *model.PullRequest {
	info := model.Info{
		ID:        pr.GetID(),
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		Author:    pr.GetUser().GetLogin(),
		CreatedAt: pr.GetCreatedAt().Time,
		State:     model.State(pr.GetState()),
		Comments:  pr.GetComments(),
		URL:       pr.GetHTMLURL(),
		Milestone: pr.GetMilestone().GetTitle(),
	}
	for _, l := range pr.Labels {
		info.Labels = append(info.Labels, l.GetName())
	}
	for _, u := range pr.Assignees {
		info.Assignees = append(info.Assignees, u.GetLogin())
	}
	return &model.PullRequest{
		Info:      info,
		Draft:     pr.GetDraft(),
		Mergeable: pr.Mergeable,
		Commits:   pr.GetCommits(),
		Additions: pr.GetAdditions(),
		Deletions: pr.GetDeletions(),
		HeadRef:   pr.GetHead().GetRef(),
		BaseRef:   pr.GetBase().GetRef(),
	}
}

func toComment(c *github.IssueComment) *model.Comment {
	return &model.Comment{
		ID:        c.GetID(),
		Author:    c.GetUser().GetLogin(),
		Body:      c.GetBody(),
		CreatedAt: c.GetCreatedAt().Time,
	}
}
