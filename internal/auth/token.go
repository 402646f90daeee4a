// Package auth resolves the GitHub token used for API calls.
package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var logger = log.WithField("package", "auth")

// ErrNoToken is returned when no source produced a token.
var ErrNoToken = errors.New("no GitHub token found; set GH_TOKEN or run `gh auth login`")

const credentialsFile = "credentials.yaml"

// Credentials is the on-disk token store.
type Credentials struct {
	Token string `yaml:"token"`
}

// LoadCredentials reads credentials.yaml from dir. A missing file yields
// empty credentials.
func LoadCredentials(dir string) (*Credentials, error) {
	data, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{}, nil
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	var c Credentials
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return &c, nil
}

// SaveCredentials writes c to dir with owner-only permissions.
func SaveCredentials(dir string, c *Credentials) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, credentialsFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// Resolver tries each token source in turn: environment, credentials file,
// the gh CLI, then an interactive prompt.
type Resolver struct {
	Dir    string
	Getenv func(string) string
	// GH returns the gh CLI token. Nil skips that source.
	GH func(ctx context.Context) (string, error)
	// Prompt asks the user. Nil skips that source.
	Prompt func() (string, error)
}

// NewResolver returns a Resolver wired to the process environment and
// terminal.
func NewResolver(dir string) *Resolver {
	r := &Resolver{Dir: dir, Getenv: os.Getenv, GH: ghToken}
	if isatty.IsTerminal(os.Stdin.Fd()) {
		r.Prompt = func() (string, error) { return PromptToken(os.Stdin, os.Stderr) }
	}
	return r
}

// Token returns the first token found. A prompted token is saved so the
// next run finds it in the credentials file.
func (r *Resolver) Token(ctx context.Context) (string, error) {
	for _, key := range []string{"GH_TOKEN", "GITHUB_TOKEN"} {
		if tok := strings.TrimSpace(r.Getenv(key)); tok != "" {
			logger.WithField("source", key).Debug("token resolved")
			return tok, nil
		}
	}

	creds, err := LoadCredentials(r.Dir)
	if err != nil {
		return "", err
	}
	if creds.Token != "" {
		logger.WithField("source", credentialsFile).Debug("token resolved")
		return creds.Token, nil
	}

	if r.GH != nil {
		if tok, err := r.GH(ctx); err == nil && tok != "" {
			logger.WithField("source", "gh").Debug("token resolved")
			return tok, nil
		} else if err != nil {
			logger.WithError(err).Debug("gh auth token unavailable")
		}
	}

	if r.Prompt == nil {
		return "", ErrNoToken
	}
	tok, err := r.Prompt()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if tok == "" {
		return "", ErrNoToken
	}
	if err := SaveCredentials(r.Dir, &Credentials{Token: tok}); err != nil {
		logger.WithError(err).Warn("could not save token")
	}
	return tok, nil
}

func ghToken(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		return "", fmt.Errorf("gh auth token: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// PromptToken asks for a token on out and reads it from in without echo
// when in is a terminal.
func PromptToken(in *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "GitHub personal access token: ")
	defer fmt.Fprintln(out)

	if term.IsTerminal(int(in.Fd())) {
		b, err := term.ReadPassword(int(in.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
