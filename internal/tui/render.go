package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"shipit/internal/model"
	"shipit/internal/timeutil"
)

// — styles ——————————————————————————————————————————————————————————————————

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	dimStyle      = lipgloss.NewStyle().Faint(true)
	boldStyle     = lipgloss.NewStyle().Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	labelStyle    = lipgloss.NewStyle().Faint(true)
	filterOnStyle = lipgloss.NewStyle().Underline(true)

	helpStyle = lipgloss.NewStyle().PaddingLeft(1)

	addStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	delStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

const divider = "─"

// chrome is the number of lines taken by the header and status line.
const chrome = 3

func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	if m.mode == ListView {
		body = m.list.View()
	} else {
		body = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		body,
		m.renderStatus(),
		helpStyle.Render(m.help.View(modeHelp{keys: m.keys, mode: m.mode})),
	)
}

func (m *Model) renderHeader() string {
	header := fmt.Sprintf("%s/%s", m.repo.Owner(), m.repo.Name())
	if m.mode != ListView && m.focused != nil {
		d := m.focused.Details()
		header += fmt.Sprintf(" ─ #%d: %s", d.Number, d.Title)
	}

	f := m.sync.Filters()
	toggle := func(on bool, label string) string {
		if on {
			return filterOnStyle.Render(label)
		}
		return dimStyle.Render(label)
	}
	filters := strings.Join([]string{
		toggle(f.OpenIssues, "open"),
		toggle(f.ClosedIssues, "closed"),
		toggle(f.PullRequests, "pulls"),
	}, " ")

	spin := " "
	if m.busy > 0 || m.sync.Pending() > 0 {
		spin = spinnerFrames[m.spinnerFrame]
	}

	right := filters + " " + spin
	room := m.width - lipgloss.Width(right) - 1
	if room < 1 {
		room = 1
	}
	left := titleStyle.Render(truncate.StringWithTail(header, uint(room), "…"))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return errStyle.Render(truncate.StringWithTail(m.status, uint(max(m.width, 1)), "…"))
	}
	return okStyle.Render(truncate.StringWithTail(m.status, uint(max(m.width, 1)), "…"))
}

// renderDetail renders the focused item and its comments.
func (m *Model) renderDetail() string {
	it := m.focused
	if it == nil {
		return ""
	}
	d := it.Details()
	width := max(m.width-2, 20)
	rule := dimStyle.Render(strings.Repeat(divider, width))

	kind := "issue"
	if it.IsPullRequest() {
		kind = "pull request"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s opened this %s %s\n", userStyle.Render(d.Author), kind, dimStyle.Render(timeutil.Since(d.CreatedAt)))
	b.WriteString(boldStyle.Render(wordwrap.String(d.Title, width)) + "\n")

	state := okStyle.Render(string(d.State))
	if model.IsClosed(it) {
		state = errStyle.Render(string(d.State))
	}
	b.WriteString(labelStyle.Render("State      ") + state + "\n")
	if len(d.Assignees) > 0 {
		b.WriteString(labelStyle.Render("Assignees  ") + strings.Join(d.Assignees, ", ") + "\n")
	}
	if d.Milestone != "" {
		b.WriteString(labelStyle.Render("Milestone  ") + d.Milestone + "\n")
	}
	if len(d.Labels) > 0 {
		b.WriteString(labelStyle.Render("Labels     ") + strings.Join(d.Labels, ", ") + "\n")
	}
	if pr, ok := it.(*model.PullRequest); ok {
		b.WriteString(renderPullRequest(pr))
	}

	b.WriteString("\n" + m.renderMarkdown(d.Body, width) + "\n")
	b.WriteString(rule + "\n")

	switch {
	case m.detailLoading:
		b.WriteString(dimStyle.Render("Loading comments…") + "\n")
	case len(m.comments) == 0:
		b.WriteString(dimStyle.Render("No comments") + "\n")
	}
	for _, c := range m.comments {
		fmt.Fprintf(&b, "%s commented  %s\n", userStyle.Render(c.Author), dimStyle.Render(timeutil.Since(c.CreatedAt)))
		b.WriteString(indent.String(m.renderMarkdown(c.Body, width-1), 1) + "\n")
		b.WriteString(rule + "\n")
	}
	return b.String()
}

func renderPullRequest(pr *model.PullRequest) string {
	row := func(lbl, val string) string {
		return labelStyle.Render(lbl) + val + "\n"
	}

	var merge string
	switch {
	case pr.Mergeable == nil:
		merge = dimStyle.Render("unknown")
	case *pr.Mergeable:
		merge = okStyle.Render("mergeable")
	default:
		merge = warnStyle.Render("conflicts")
	}

	var b strings.Builder
	if pr.HeadRef != "" {
		b.WriteString(row("Branch     ", fmt.Sprintf("%s → %s", pr.HeadRef, pr.BaseRef)))
	}
	if pr.Draft {
		b.WriteString(row("Draft      ", warnStyle.Render("yes")))
	}
	b.WriteString(row("Merge      ", merge))
	b.WriteString(row("Changes    ", fmt.Sprintf("%d commits  %s %s",
		pr.Commits,
		addStyle.Render(fmt.Sprintf("+%d", pr.Additions)),
		delStyle.Render(fmt.Sprintf("-%d", pr.Deletions)))))
	return b.String()
}

// renderMarkdown renders text with glamour when enabled, falling back to
// plain word wrapping.
func (m *Model) renderMarkdown(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return dimStyle.Render("No description provided.")
	}
	if m.markdown {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.glamourStyle),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			if out, err := r.Render(text); err == nil {
				return strings.Trim(out, "\n")
			}
		}
	}
	return wordwrap.String(text, width)
}

func renderDiff(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"), strings.HasPrefix(l, "diff "):
			lines[i] = boldStyle.Render(l)
		case strings.HasPrefix(l, "+"):
			lines[i] = addStyle.Render(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = delStyle.Render(l)
		case strings.HasPrefix(l, "@@"):
			lines[i] = hunkStyle.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}
