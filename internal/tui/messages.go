package tui

import (
	"shipit/internal/listsync"
	"shipit/internal/model"
)

type tickMsg struct{}

type fetchDoneMsg struct {
	result listsync.FetchResult
}

type issueComposedMsg struct {
	text string
	err  error
}

type issueCreatedMsg struct {
	issue *model.Issue
	err   error
}

type editComposedMsg struct {
	item model.Item
	text string
	err  error
}

type commentComposedMsg struct {
	item model.Item
	text string
	err  error
}

// itemUpdatedMsg carries the repository's copy after close, reopen or edit.
type itemUpdatedMsg struct {
	op   string
	item model.Item
	err  error
}

type commentCreatedMsg struct {
	item model.Item
	err  error
}

type detailLoadedMsg struct {
	key      int64
	pr       *model.PullRequest
	comments []*model.Comment
	err      error
}

type diffLoadedMsg struct {
	key  int64
	diff string
	err  error
}

type pagerExitedMsg struct {
	err error
}

type statusMsg struct {
	text string
	err  error
}
