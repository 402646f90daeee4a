package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"shipit/internal/model"
)

// Mode is what the main pane shows.
type Mode int

const (
	ListView Mode = iota
	IssueDetail
	PullRequestDetail
	PullRequestDiff
)

func (m Mode) String() string {
	switch m {
	case ListView:
		return "list"
	case IssueDetail:
		return "issue"
	case PullRequestDetail:
		return "pull request"
	case PullRequestDiff:
		return "diff"
	default:
		return "unknown"
	}
}

// transition runs an action. Guards on the focused item live inside the
// handler; a handler that cannot act returns nil.
type transition func(m *Model) tea.Cmd

// transitions is the complete dispatch table. A (mode, action) pair that is
// not listed does nothing.
var transitions = map[Mode]map[Action]transition{
	ListView: {
		NewIssue:           (*Model).newIssue,
		CloseItem:          (*Model).closeItem,
		ReopenItem:         (*Model).reopenItem,
		ShowDetail:         (*Model).showDetail,
		EditItem:           (*Model).editItem,
		CommentOn:          (*Model).commentOn,
		OpenInBrowser:      (*Model).openInBrowser,
		YankURL:            (*Model).yankURL,
		ToggleOpenIssues:   (*Model).toggleOpenIssues,
		ToggleClosedIssues: (*Model).toggleClosedIssues,
		TogglePullRequests: (*Model).togglePullRequests,
		Refresh:            (*Model).refresh,
		ToggleHelp:         (*Model).toggleHelp,
		Quit:               (*Model).quit,
	},
	IssueDetail: {
		CloseItem:     (*Model).closeItem,
		ReopenItem:    (*Model).reopenItem,
		Back:          (*Model).backToList,
		EditItem:      (*Model).editItem,
		CommentOn:     (*Model).commentOn,
		OpenInBrowser: (*Model).openInBrowser,
		YankURL:       (*Model).yankURL,
		ToggleHelp:    (*Model).toggleHelp,
		Quit:          (*Model).quit,
	},
	PullRequestDetail: {
		CloseItem:     (*Model).closeItem,
		ReopenItem:    (*Model).reopenItem,
		Back:          (*Model).backToList,
		EditItem:      (*Model).editItem,
		CommentOn:     (*Model).commentOn,
		ShowDiff:      (*Model).showDiff,
		OpenInBrowser: (*Model).openInBrowser,
		YankURL:       (*Model).yankURL,
		ToggleHelp:    (*Model).toggleHelp,
		Quit:          (*Model).quit,
	},
	PullRequestDiff: {
		Back:          (*Model).backToPullRequest,
		ShowDiff:      (*Model).pageDiff,
		OpenInBrowser: (*Model).openInBrowser,
		YankURL:       (*Model).yankURL,
		ToggleHelp:    (*Model).toggleHelp,
		Quit:          (*Model).quit,
	},
}

func detailMode(it model.Item) Mode {
	if it.IsPullRequest() {
		return PullRequestDetail
	}
	return IssueDetail
}
