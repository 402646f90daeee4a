package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a user intent, decoupled from the keys that trigger it.
type Action int

const (
	NewIssue Action = iota
	CloseItem
	ReopenItem
	ShowDetail
	Back
	EditItem
	CommentOn
	ShowDiff
	OpenInBrowser
	YankURL
	ToggleOpenIssues
	ToggleClosedIssues
	TogglePullRequests
	Refresh
	ToggleHelp
	Quit

	actionCount
)

var actionNames = [actionCount]string{
	NewIssue:           "new_issue",
	CloseItem:          "close",
	ReopenItem:         "reopen",
	ShowDetail:         "detail",
	Back:               "back",
	EditItem:           "edit",
	CommentOn:          "comment",
	ShowDiff:           "diff",
	OpenInBrowser:      "open_in_browser",
	YankURL:            "yank",
	ToggleOpenIssues:   "toggle_open",
	ToggleClosedIssues: "toggle_closed",
	TogglePullRequests: "toggle_prs",
	Refresh:            "refresh",
	ToggleHelp:         "help",
	Quit:               "quit",
}

func (a Action) String() string {
	if a >= 0 && a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

type binding struct {
	keys []string
	desc string
}

var defaultBindings = [actionCount]binding{
	NewIssue:           {[]string{"n"}, "new issue"},
	CloseItem:          {[]string{"C"}, "close"},
	ReopenItem:         {[]string{"O"}, "reopen"},
	ShowDetail:         {[]string{"enter"}, "detail"},
	Back:               {[]string{"esc"}, "back"},
	EditItem:           {[]string{"e"}, "edit"},
	CommentOn:          {[]string{"c"}, "comment"},
	ShowDiff:           {[]string{"d"}, "diff"},
	OpenInBrowser:      {[]string{"o"}, "open in browser"},
	YankURL:            {[]string{"y"}, "copy url"},
	ToggleOpenIssues:   {[]string{"1"}, "open issues"},
	ToggleClosedIssues: {[]string{"2"}, "closed issues"},
	TogglePullRequests: {[]string{"3"}, "pull requests"},
	Refresh:            {[]string{"r"}, "refresh"},
	ToggleHelp:         {[]string{"?"}, "help"},
	Quit:               {[]string{"q", "ctrl+c"}, "quit"},
}

// keyMap binds every action to its keys.
type keyMap [actionCount]key.Binding

// newKeyMap builds the default bindings with overrides applied. Overrides
// are keyed by action name.
func newKeyMap(overrides map[string][]string) (keyMap, error) {
	byName := make(map[string]Action, actionCount)
	for a := Action(0); a < actionCount; a++ {
		byName[a.String()] = a
	}

	keys := defaultBindings
	for name, ks := range overrides {
		a, ok := byName[name]
		if !ok {
			return keyMap{}, fmt.Errorf("unknown action %q in key bindings", name)
		}
		keys[a].keys = ks
	}

	var km keyMap
	for a := Action(0); a < actionCount; a++ {
		b := keys[a]
		km[a] = key.NewBinding(key.WithKeys(b.keys...), key.WithHelp(strings.Join(b.keys, "/"), b.desc))
	}
	return km, nil
}

// match returns the first action bound to msg.
func (k keyMap) match(msg tea.KeyMsg) (Action, bool) {
	for a := Action(0); a < actionCount; a++ {
		if key.Matches(msg, k[a]) {
			return a, true
		}
	}
	return 0, false
}

// modeHelp shows only the bindings that do something in mode.
type modeHelp struct {
	keys keyMap
	mode Mode
}

func (h modeHelp) available() []key.Binding {
	var out []key.Binding
	for a := Action(0); a < actionCount; a++ {
		if _, ok := transitions[h.mode][a]; ok {
			out = append(out, h.keys[a])
		}
	}
	return out
}

func (h modeHelp) ShortHelp() []key.Binding {
	var out []key.Binding
	for a := Action(0); a < ToggleHelp && len(out) < 6; a++ {
		if _, ok := transitions[h.mode][a]; ok {
			out = append(out, h.keys[a])
		}
	}
	return append(out, h.keys[ToggleHelp], h.keys[Quit])
}

func (h modeHelp) FullHelp() [][]key.Binding {
	all := h.available()
	var cols [][]key.Binding
	for len(all) > 0 {
		n := min(4, len(all))
		cols = append(cols, all[:n])
		all = all[n:]
	}
	return cols
}
