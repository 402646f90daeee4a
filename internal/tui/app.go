package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"shipit/internal/editor"
	"shipit/internal/events"
	"shipit/internal/forge"
	"shipit/internal/listsync"
	"shipit/internal/model"
)

var logger = log.WithField("package", "tui")

const newIssueTemplate = `
<!--
Write the issue title on the first line and the description below it.
Lines inside comment markers are ignored. Leave the title empty to cancel.
-->
`

// Composer runs the external editor and pager.
type Composer interface {
	Compose(seed string, done func(text string, err error) tea.Msg) tea.Cmd
	Page(text string, done func(err error) tea.Msg) tea.Cmd
}

// Options tunes the session.
type Options struct {
	Workers      int
	Keys         map[string][]string
	Markdown     bool
	GlamourStyle string
}

// Model is the session controller.
type Model struct {
	repo     forge.Repository
	composer Composer
	bus      *events.Bus
	sync     *listsync.Synchronizer
	keys     keyMap

	list     list.Model
	viewport viewport.Model
	help     help.Model

	markdown     bool
	glamourStyle string

	mode          Mode
	focused       model.Item // item shown outside ListView
	comments      []*model.Comment
	detailLoading bool
	diff          string

	busy         int
	status       string
	statusErr    bool
	width        int
	height       int
	spinnerFrame int
}

// New builds the controller and wires the event bus to the synchronizer.
func New(repo forge.Repository, composer Composer, opts Options) (*Model, error) {
	keys, err := newKeyMap(opts.Keys)
	if err != nil {
		return nil, err
	}
	style := opts.GlamourStyle
	if style == "" {
		style = "dark"
	}

	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	m := &Model{
		repo:         repo,
		composer:     composer,
		bus:          events.New(),
		sync:         listsync.New(repo, opts.Workers),
		keys:         keys,
		list:         l,
		viewport:     viewport.New(0, 0),
		help:         help.New(),
		markdown:     opts.Markdown,
		glamourStyle: style,
	}
	m.sync.OnChange(m.setItems)

	subs := []struct {
		ev events.Event
		fn func()
	}{
		{events.ShowOpenIssues, m.sync.ShowOpenIssues},
		{events.HideOpenIssues, m.sync.HideOpenIssues},
		{events.ShowClosedIssues, m.sync.ShowClosedIssues},
		{events.HideClosedIssues, m.sync.HideClosedIssues},
		{events.ShowPullRequests, m.sync.ShowPullRequests},
		{events.HidePullRequests, m.sync.HidePullRequests},
	}
	for _, s := range subs {
		fn := s.fn
		if err := m.bus.Subscribe(s.ev, func(...any) { fn() }); err != nil {
			m.sync.Close()
			return nil, fmt.Errorf("subscribe %s: %w", s.ev, err)
		}
	}
	return m, nil
}

// Mode returns the current mode.
func (m *Model) Mode() Mode { return m.mode }

// Items returns the displayed collection.
func (m *Model) Items() []model.Item { return m.sync.Items() }

// Close stops background work.
func (m *Model) Close() { m.sync.Close() }

func (m *Model) setItems(items []model.Item) {
	m.list.SetItems(toListItems(items))
}

// currentSelection is the list item under the cursor.
func (m *Model) currentSelection() model.Item {
	if li, ok := m.list.SelectedItem().(listItem); ok {
		return li.item
	}
	return nil
}

// focusedItem is the item actions apply to in the current mode.
func (m *Model) focusedItem() model.Item {
	if m.mode == ListView {
		return m.currentSelection()
	}
	return m.focused
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(err error) {
	logger.WithError(err).Warn("action failed")
	m.status = err.Error()
	m.statusErr = true
}

// composeFailed reports an abandoned editor session.
func (m *Model) composeFailed(err error) {
	switch {
	case errors.Is(err, editor.ErrCancelled):
		m.setStatus("cancelled")
	case errors.Is(err, editor.ErrInvalidInput):
		m.status = "nothing to submit"
		m.statusErr = true
	default:
		m.setError(err)
	}
}

// — tea.Model ———————————————————————————————————————————————————————————————

func (m *Model) Init() tea.Cmd {
	if err := m.bus.Publish(events.ShowOpenIssues); err != nil {
		m.setError(err)
	}
	return tea.Batch(waitForResult(m.sync.Results()), tickCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshPane()
		return m, nil

	case tickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, tickCmd()

	case fetchDoneMsg:
		if err := m.sync.Apply(msg.result); err != nil {
			m.setError(err)
		}
		return m, waitForResult(m.sync.Results())

	case issueComposedMsg:
		if msg.err != nil {
			m.composeFailed(msg.err)
			return m, nil
		}
		title, body, err := editor.ParseIssue(msg.text)
		if err != nil {
			m.composeFailed(err)
			return m, nil
		}
		m.busy++
		m.setStatus("creating issue…")
		return m, createIssueCmd(m.repo, title, body)

	case issueCreatedMsg:
		m.busy--
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.sync.Add(msg.issue)
		m.setStatus("created #%d", msg.issue.Number)
		return m, m.enterDetail(msg.issue)

	case editComposedMsg:
		if msg.err != nil {
			m.composeFailed(msg.err)
			return m, nil
		}
		title, body, err := editor.ParseEdit(msg.text)
		if err != nil {
			m.composeFailed(err)
			return m, nil
		}
		m.busy++
		return m, editCmd(m.repo, msg.item, title, body)

	case itemUpdatedMsg:
		m.busy--
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.sync.Replace(msg.item)
		if m.focused != nil && m.focused.Key() == msg.item.Key() {
			m.focused = msg.item
			m.refreshPane()
		}
		m.setStatus("%s #%d", msg.op, msg.item.Details().Number)
		return m, nil

	case commentComposedMsg:
		if msg.err != nil {
			m.composeFailed(msg.err)
			return m, nil
		}
		body, err := editor.ParseComment(msg.text)
		if err != nil {
			m.composeFailed(err)
			return m, nil
		}
		m.busy++
		return m, createCommentCmd(m.repo, msg.item, body)

	case commentCreatedMsg:
		m.busy--
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("commented on #%d", msg.item.Details().Number)
		return m, m.enterDetail(msg.item)

	case detailLoadedMsg:
		if m.mode == ListView || m.focused == nil || m.focused.Key() != msg.key {
			return m, nil
		}
		m.detailLoading = false
		if msg.err != nil {
			m.setError(msg.err)
			m.refreshPane()
			return m, nil
		}
		m.comments = msg.comments
		if msg.pr != nil {
			m.focused = msg.pr
			m.sync.Replace(msg.pr)
		}
		m.refreshPane()
		return m, nil

	case diffLoadedMsg:
		m.busy--
		if m.mode != PullRequestDetail || m.focused == nil || m.focused.Key() != msg.key {
			return m, nil
		}
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.diff = msg.diff
		m.mode = PullRequestDiff
		m.viewport.GotoTop()
		m.refreshPane()
		return m, m.pageDiff()

	case pagerExitedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}
		return m, nil

	case statusMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus("%s", msg.text)
		}
		return m, nil

	case tea.KeyMsg:
		if act, ok := m.keys.match(msg); ok {
			logger.WithField("mode", m.mode).WithField("action", act).Debug("key")
			if t, ok := transitions[m.mode][act]; ok {
				return m, t(m)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.mode == ListView {
		m.list, cmd = m.list.Update(msg)
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize() {
	helpLines := 1
	if m.help.ShowAll {
		helpLines = 4
	}
	h := max(m.height-chrome-helpLines, 1)
	m.list.SetSize(m.width, h)
	m.viewport.Width = m.width
	m.viewport.Height = h
	m.help.Width = m.width
}

// refreshPane re-renders the viewport for the current mode.
func (m *Model) refreshPane() {
	switch m.mode {
	case IssueDetail, PullRequestDetail:
		m.viewport.SetContent(m.renderDetail())
	case PullRequestDiff:
		m.viewport.SetContent(renderDiff(m.diff))
	}
}

// enterDetail shows it and starts loading its comments.
func (m *Model) enterDetail(it model.Item) tea.Cmd {
	m.focused = it
	m.comments = nil
	m.detailLoading = true
	m.diff = ""
	m.mode = detailMode(it)
	m.viewport.GotoTop()
	m.refreshPane()
	return loadDetailCmd(m.repo, it)
}

// — transitions —————————————————————————————————————————————————————————————

func (m *Model) newIssue() tea.Cmd {
	return m.composer.Compose(newIssueTemplate, func(text string, err error) tea.Msg {
		return issueComposedMsg{text: text, err: err}
	})
}

func (m *Model) closeItem() tea.Cmd {
	it := m.focusedItem()
	if it == nil || !model.IsOpen(it) {
		return nil
	}
	m.busy++
	return closeCmd(m.repo, it)
}

func (m *Model) reopenItem() tea.Cmd {
	it := m.focusedItem()
	if it == nil || !model.IsClosed(it) {
		return nil
	}
	m.busy++
	return reopenCmd(m.repo, it)
}

func (m *Model) showDetail() tea.Cmd {
	it := m.currentSelection()
	if it == nil {
		return nil
	}
	return m.enterDetail(it)
}

func (m *Model) backToList() tea.Cmd {
	m.mode = ListView
	m.focused = nil
	m.comments = nil
	m.diff = ""
	return nil
}

func (m *Model) backToPullRequest() tea.Cmd {
	m.mode = PullRequestDetail
	m.viewport.GotoTop()
	m.refreshPane()
	return nil
}

func (m *Model) editItem() tea.Cmd {
	it := m.focusedItem()
	if it == nil {
		return nil
	}
	d := it.Details()
	seed := d.Title + "\n\n" + d.Body + "\n"
	return m.composer.Compose(seed, func(text string, err error) tea.Msg {
		return editComposedMsg{item: it, text: text, err: err}
	})
}

func (m *Model) commentOn() tea.Cmd {
	it := m.focusedItem()
	if it == nil {
		return nil
	}
	var comments []*model.Comment
	if m.focused != nil && m.focused.Key() == it.Key() {
		comments = m.comments
	}
	return m.composer.Compose(commentSeed(it, comments), func(text string, err error) tea.Msg {
		return commentComposedMsg{item: it, text: text, err: err}
	})
}

// commentSeed quotes the thread so far inside comment markers, which are
// stripped before the comment is posted.
func commentSeed(it model.Item, comments []*model.Comment) string {
	d := it.Details()
	var b strings.Builder
	b.WriteString("\n\n<!--\n")
	fmt.Fprintf(&b, "#%d %s\n\n", d.Number, d.Title)
	fmt.Fprintf(&b, "%s wrote:\n%s\n", d.Author, editor.Quote(d.Body))
	for _, c := range comments {
		fmt.Fprintf(&b, "\n%s wrote:\n%s\n", c.Author, editor.Quote(c.Body))
	}
	b.WriteString("-->\n")
	return b.String()
}

func (m *Model) showDiff() tea.Cmd {
	pr, ok := m.focused.(*model.PullRequest)
	if !ok {
		return nil
	}
	m.busy++
	return loadDiffCmd(m.repo, pr)
}

func (m *Model) pageDiff() tea.Cmd {
	if m.diff == "" {
		return nil
	}
	return m.composer.Page(m.diff, func(err error) tea.Msg {
		return pagerExitedMsg{err: err}
	})
}

func (m *Model) openInBrowser() tea.Cmd {
	it := m.focusedItem()
	if it == nil || it.Details().URL == "" {
		return nil
	}
	return openURLCmd(it.Details().URL)
}

func (m *Model) yankURL() tea.Cmd {
	it := m.focusedItem()
	if it == nil || it.Details().URL == "" {
		return nil
	}
	return yankCmd(it.Details().URL)
}

func (m *Model) toggleOpenIssues() tea.Cmd {
	return m.toggle(listsync.OpenIssues, events.ShowOpenIssues, events.HideOpenIssues)
}

func (m *Model) toggleClosedIssues() tea.Cmd {
	return m.toggle(listsync.ClosedIssues, events.ShowClosedIssues, events.HideClosedIssues)
}

func (m *Model) togglePullRequests() tea.Cmd {
	return m.toggle(listsync.PullRequests, events.ShowPullRequests, events.HidePullRequests)
}

func (m *Model) toggle(c listsync.Class, show, hide events.Event) tea.Cmd {
	ev := show
	if m.sync.Filters().Enabled(c) {
		ev = hide
	}
	if err := m.bus.Publish(ev); err != nil {
		m.setError(err)
	}
	return nil
}

func (m *Model) refresh() tea.Cmd {
	m.sync.Refresh()
	m.setStatus("refreshing")
	return nil
}

func (m *Model) toggleHelp() tea.Cmd {
	m.help.ShowAll = !m.help.ShowAll
	m.resize()
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.sync.Close()
	return tea.Quit
}
