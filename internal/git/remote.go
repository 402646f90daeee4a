package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrNotInRepo means the working directory is not inside a git repository.
	ErrNotInRepo = errors.New("not in a git repository")
	// ErrNoGitHubRemote means no remote points at GitHub.
	ErrNoGitHubRemote = errors.New("no GitHub remote found")
	// ErrNoOrigin means GitHub remotes exist but none is named origin.
	ErrNoOrigin = errors.New("no origin remote found")
)

// RepoRoot returns the absolute path of the current git repository root.
func RepoRoot() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", ErrNotInRepo)
	}
	return strings.TrimSpace(string(out)), nil
}

// Remotes runs git remote -v in dir and returns the GitHub remotes by name.
func Remotes(dir string) (map[string]string, error) {
	cmd := exec.Command("git", "remote", "-v")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git remote: %w", ErrNotInRepo)
	}
	return parseRemotes(string(out)), nil
}

func parseRemotes(raw string) map[string]string {
	remotes := map[string]string{}
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.Contains(fields[1], "github") {
			continue
		}
		remotes[fields[0]] = fields[1]
	}
	return remotes
}

// Origin resolves owner and repository name from the origin remote of the
// repository in dir.
func Origin(dir string) (owner, repo string, err error) {
	remotes, err := Remotes(dir)
	if err != nil {
		return "", "", err
	}
	if len(remotes) == 0 {
		return "", "", ErrNoGitHubRemote
	}
	url, ok := remotes["origin"]
	if !ok {
		return "", "", ErrNoOrigin
	}
	return ParseRemote(url)
}

// ParseRemote extracts owner and repository from a git://, http(s):// or
// scp-style ssh remote URL.
func ParseRemote(url string) (owner, repo string, err error) {
	var path string
	switch {
	case strings.HasPrefix(url, "git://"), strings.HasPrefix(url, "http://"),
		strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "ssh://"):
		_, rest, _ := strings.Cut(url, "://")
		_, path, _ = strings.Cut(rest, "/")
	default:
		_, path, _ = strings.Cut(url, ":")
	}

	path = strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GitHub remote: %s", url)
	}
	return parts[0], parts[1], nil
}

// ParseSlug splits a user/repo argument. A bare name has an empty owner.
func ParseSlug(arg string) (owner, repo string, err error) {
	parts := strings.Split(arg, "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return "", parts[0], nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return parts[0], parts[1], nil
	}
	return "", "", fmt.Errorf("invalid repository %q, want user/repository", arg)
}
