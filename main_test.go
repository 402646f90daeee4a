package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"shipit/internal/git"
)

func TestRun_OutsideRepositoryFailsBeforeAuth(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GIT_CEILING_DIRECTORIES", dir)
	// neither git nor gh can be found
	t.Setenv("PATH", "")
	t.Chdir(dir)

	err := run(context.Background(), &options{}, nil)
	if !errors.Is(err, git.ErrNotInRepo) {
		t.Fatalf("run() error = %v, want %v", err, git.ErrNotInRepo)
	}
	if code := exitCode(err); code != exitNotInRepo {
		t.Errorf("exitCode() = %d, want %d", code, exitNotInRepo)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{git.ErrNotInRepo, exitNotInRepo},
		{git.ErrNoGitHubRemote, exitNoGitHubRemote},
		{git.ErrNoOrigin, exitOriginNotFound},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
