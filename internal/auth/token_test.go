package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestResolver_Order(t *testing.T) {
	ghOK := func(context.Context) (string, error) { return "from-gh", nil }
	ghFail := func(context.Context) (string, error) { return "", errors.New("not logged in") }

	tests := []struct {
		name  string
		env   map[string]string
		saved string
		gh    func(context.Context) (string, error)
		want  string
	}{
		{"GH_TOKEN wins", map[string]string{"GH_TOKEN": "a", "GITHUB_TOKEN": "b"}, "c", ghOK, "a"},
		{"GITHUB_TOKEN", map[string]string{"GITHUB_TOKEN": "b"}, "c", ghOK, "b"},
		{"credentials file", nil, "c", ghOK, "c"},
		{"gh cli", nil, "", ghOK, "from-gh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.saved != "" {
				if err := SaveCredentials(dir, &Credentials{Token: tt.saved}); err != nil {
					t.Fatal(err)
				}
			}
			r := &Resolver{Dir: dir, Getenv: env(tt.env), GH: tt.gh}
			got, err := r.Token(context.Background())
			if err != nil {
				t.Fatalf("Token() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Token() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("nothing available", func(t *testing.T) {
		r := &Resolver{Dir: t.TempDir(), Getenv: env(nil), GH: ghFail}
		if _, err := r.Token(context.Background()); !errors.Is(err, ErrNoToken) {
			t.Errorf("Token() error = %v, want ErrNoToken", err)
		}
	})
}

func TestResolver_PromptSavesToken(t *testing.T) {
	dir := t.TempDir()
	r := &Resolver{
		Dir:    dir,
		Getenv: env(nil),
		Prompt: func() (string, error) { return "typed", nil },
	}

	got, err := r.Token(context.Background())
	if err != nil || got != "typed" {
		t.Fatalf("Token() = %q, %v", got, err)
	}

	info, err := os.Stat(filepath.Join(dir, credentialsFile))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("credentials mode = %o, want 600", perm)
	}

	r.Prompt = func() (string, error) { t.Error("prompted twice"); return "", nil }
	if got, _ := r.Token(context.Background()); got != "typed" {
		t.Errorf("second Token() = %q", got)
	}
}

func TestResolver_EmptyPrompt(t *testing.T) {
	r := &Resolver{Dir: t.TempDir(), Getenv: env(nil), Prompt: func() (string, error) { return "", nil }}
	if _, err := r.Token(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Errorf("Token() error = %v, want ErrNoToken", err)
	}
}

func TestLoadCredentials_Malformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, credentialsFile), []byte("token: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCredentials(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestPromptToken_NonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("  ghp_secret  \n")
	f.Seek(0, 0)
	defer f.Close()

	out, err := os.CreateTemp(t.TempDir(), "stdout")
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	got, err := PromptToken(f, out)
	if err != nil {
		t.Fatalf("PromptToken() error: %v", err)
	}
	if got != "ghp_secret" {
		t.Errorf("PromptToken() = %q", got)
	}
}
