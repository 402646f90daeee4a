package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"shipit/internal/forge"
	"shipit/internal/listsync"
	"shipit/internal/model"
)

const remoteTimeout = 30 * time.Second

var spinnerFrames = []string{"|", "/", "-", "\\"}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// waitForResult delivers the next completed fetch to Update. It is re-armed
// after every fetchDoneMsg.
func waitForResult(ch <-chan listsync.FetchResult) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return fetchDoneMsg{result: r}
	}
}

func createIssueCmd(repo forge.Repository, title, body string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		is, err := repo.CreateIssue(ctx, title, body)
		return issueCreatedMsg{issue: is, err: err}
	}
}

func closeCmd(repo forge.Repository, it model.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		updated, err := repo.Close(ctx, it)
		return itemUpdatedMsg{op: "closed", item: updated, err: err}
	}
}

func reopenCmd(repo forge.Repository, it model.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		updated, err := repo.Reopen(ctx, it)
		return itemUpdatedMsg{op: "reopened", item: updated, err: err}
	}
}

func editCmd(repo forge.Repository, it model.Item, title, body string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		updated, err := repo.Edit(ctx, it, title, body)
		return itemUpdatedMsg{op: "edited", item: updated, err: err}
	}
}

func createCommentCmd(repo forge.Repository, it model.Item, body string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		_, err := repo.CreateComment(ctx, it, body)
		return commentCreatedMsg{item: it, err: err}
	}
}

// loadDetailCmd fetches the comments of it and, for a pull request, the
// full record with merge and diff stats, in parallel.
func loadDetailCmd(repo forge.Repository, it model.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		var (
			comments []*model.Comment
			pr       *model.PullRequest
		)
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			comments, err = repo.Comments(ctx, it)
			return err
		})
		if it.IsPullRequest() {
			g.Go(func() error {
				var err error
				pr, err = repo.PullRequest(ctx, it.Details().Number)
				return err
			})
		}
		err := g.Wait()
		return detailLoadedMsg{key: it.Key(), pr: pr, comments: comments, err: err}
	}
}

func loadDiffCmd(repo forge.Repository, pr *model.PullRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		diff, err := repo.Diff(ctx, pr)
		return diffLoadedMsg{key: pr.Key(), diff: diff, err: err}
	}
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		if err := cmd.Run(); err != nil {
			return statusMsg{err: fmt.Errorf("open %s: %w", url, err)}
		}
		return statusMsg{text: "opened " + url}
	}
}

func yankCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(url); err != nil {
			return statusMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return statusMsg{text: "copied " + url}
	}
}
