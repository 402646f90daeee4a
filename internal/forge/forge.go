package forge

import (
	"context"
	"fmt"

	"shipit/internal/model"
)

// Repository abstracts the remote tracker for one repository.
type Repository interface {
	Owner() string
	Name() string

	ListIssues(ctx context.Context, state model.State) ([]*model.Issue, error)
	ListPullRequests(ctx context.Context) ([]*model.PullRequest, error)
	PullRequest(ctx context.Context, number int) (*model.PullRequest, error)

	CreateIssue(ctx context.Context, title, body string) (*model.Issue, error)
	Close(ctx context.Context, item model.Item) (model.Item, error)
	Reopen(ctx context.Context, item model.Item) (model.Item, error)
	Edit(ctx context.Context, item model.Item, title, body string) (model.Item, error)

	Comments(ctx context.Context, item model.Item) ([]*model.Comment, error)
	CreateComment(ctx context.Context, item model.Item, body string) (*model.Comment, error)

	Diff(ctx context.Context, pr *model.PullRequest) (string, error)
}

// RemoteError wraps any failure reported by the remote tracker.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func remoteErr(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}
