package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"shipit/internal/model"
	"shipit/internal/timeutil"
)

// listItem adapts an issue or pull request to bubbles/list.
type listItem struct {
	item model.Item
}

func (i listItem) Title() string {
	d := i.item.Details()
	prefix := ""
	if i.item.IsPullRequest() {
		prefix = "PR "
	}
	title := fmt.Sprintf("%s#%d ─ %s", prefix, d.Number, d.Title)
	if len(d.Labels) > 0 {
		title += "    " + strings.Join(d.Labels, ",")
	}
	return title
}

func (i listItem) Description() string {
	d := i.item.Details()
	desc := fmt.Sprintf("by %s  %s", d.Author, timeutil.Since(d.CreatedAt))
	if d.Comments > 0 {
		desc += fmt.Sprintf("      %d comments", d.Comments)
	}
	if model.IsClosed(i.item) {
		desc += "  closed"
	}
	return desc
}

func (i listItem) FilterValue() string { return i.item.Details().Title }

func toListItems(items []model.Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = listItem{item: it}
	}
	return out
}
