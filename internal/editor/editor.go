// Package editor exchanges text with the user's external editor and pager
// through scratch files.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "editor")

const (
	DefaultEditor = "vim"
	DefaultPager  = "less"
)

// ErrCancelled is returned when the editor exits with a non-zero status.
var ErrCancelled = errors.New("cancelled")

// Editor runs the configured editor and pager. Commands may carry arguments,
// e.g. "code --wait".
type Editor struct {
	Command string
	Pager   string
	TempDir string // "" means os.TempDir()
}

// New resolves the editor and pager commands. Empty values fall back to
// $VISUAL/$EDITOR and $PAGER, then to vim and less.
func New(command, pager string) *Editor {
	if command == "" {
		command = os.Getenv("VISUAL")
	}
	if command == "" {
		command = os.Getenv("EDITOR")
	}
	if command == "" {
		command = DefaultEditor
	}
	if pager == "" {
		pager = os.Getenv("PAGER")
	}
	if pager == "" {
		pager = DefaultPager
	}
	return &Editor{Command: command, Pager: pager}
}

// Compose writes seed to a scratch file and opens it in the editor. The
// terminal UI is suspended until the editor exits. done receives the final
// file contents, or ErrCancelled if the editor failed.
func (e *Editor) Compose(seed string, done func(text string, err error) tea.Msg) tea.Cmd {
	path, err := e.scratch("shipit-*.md", seed)
	if err != nil {
		return func() tea.Msg { return done("", err) }
	}
	cmd, err := command(e.Command, path)
	if err != nil {
		_ = os.Remove(path)
		return func() tea.Msg { return done("", err) }
	}
	return tea.ExecProcess(cmd, func(runErr error) tea.Msg {
		text, err := collect(path, runErr)
		logger.WithField("editor", e.Command).WithError(err).Debug("editor exited")
		return done(text, err)
	})
}

// Page shows text in the pager. The scratch file is removed once the pager
// exits, whatever its status.
func (e *Editor) Page(text string, done func(err error) tea.Msg) tea.Cmd {
	path, err := e.scratch("shipit-*.diff", text)
	if err != nil {
		return func() tea.Msg { return done(err) }
	}
	cmd, err := command(e.Pager, path)
	if err != nil {
		_ = os.Remove(path)
		return func() tea.Msg { return done(err) }
	}
	return tea.ExecProcess(cmd, func(runErr error) tea.Msg {
		_ = os.Remove(path)
		logger.WithField("pager", e.Pager).WithError(runErr).Debug("pager exited")
		if runErr != nil {
			return done(fmt.Errorf("pager: %w", runErr))
		}
		return done(nil)
	})
}

// scratch creates a process-unique temp file holding content.
func (e *Editor) scratch(pattern, content string) (string, error) {
	f, err := os.CreateTemp(e.TempDir, pattern)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close scratch file: %w", err)
	}
	return f.Name(), nil
}

// collect reads back the scratch file after the editor exits and removes it.
func collect(path string, runErr error) (string, error) {
	defer os.Remove(path)

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("run editor: %w", runErr)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read scratch file: %w", err)
	}
	return string(b), nil
}

func command(line, path string) (*exec.Cmd, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil, errors.New("no editor configured")
	}
	args := append(parts[1:], path)
	return exec.Command(parts[0], args...), nil
}
