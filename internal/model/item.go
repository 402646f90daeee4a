package model

import "time"

// State is the open/closed state shared by issues and pull requests.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Info holds the attributes common to issues and pull requests.
type Info struct {
	ID        int64 // stable across fetches; the identity used for deduplication
	Number    int
	Title     string
	Body      string
	Author    string
	CreatedAt time.Time
	State     State
	Comments  int
	URL       string
	Labels    []string
	Assignees []string
	Milestone string
}

// Item is an issue or a pull request. Two items are the same entity iff their
// keys are equal; structural equality is never used.
type Item interface {
	Key() int64
	Details() Info
	IsPullRequest() bool
}

// Issue is a tracker issue.
type Issue struct {
	Info
}

func (i *Issue) Key() int64          { return i.ID }
func (i *Issue) Details() Info       { return i.Info }
func (i *Issue) IsPullRequest() bool { return false }

// PullRequest is a tracker pull request. The diff is fetched on demand.
type PullRequest struct {
	Info
	Draft     bool
	Mergeable *bool // nil while GitHub is still computing it
	Commits   int
	Additions int
	Deletions int
	HeadRef   string
	BaseRef   string
}

func (p *PullRequest) Key() int64          { return p.ID }
func (p *PullRequest) Details() Info       { return p.Info }
func (p *PullRequest) IsPullRequest() bool { return true }

// Comment is a single comment on an issue or pull request.
type Comment struct {
	ID        int64
	Author    string
	Body      string
	CreatedAt time.Time
}

// IsOpen reports whether the item is open.
func IsOpen(it Item) bool { return it.Details().State == StateOpen }

// IsClosed reports whether the item is closed.
func IsClosed(it Item) bool { return it.Details().State == StateClosed }

// IsIssue reports whether the item is a plain issue.
func IsIssue(it Item) bool { return !it.IsPullRequest() }
