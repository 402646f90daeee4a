package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"shipit/internal/auth"
	"shipit/internal/config"
	"shipit/internal/editor"
	"shipit/internal/forge"
	"shipit/internal/git"
	"shipit/internal/logging"
	"shipit/internal/tui"
)

var version = "dev"

// Exit codes for repository resolution failures.
const (
	exitNotInRepo      = 1
	exitNoGitHubRemote = 2
	exitOriginNotFound = 3
)

type options struct {
	configPath string
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, git.ErrNoGitHubRemote):
		return exitNoGitHubRemote
	case errors.Is(err, git.ErrNoOrigin):
		return exitOriginNotFound
	default:
		return exitNotInRepo
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "shipit [user/repository]",
		Short: "Browse and edit GitHub issues and pull requests from the terminal",
		Long: `shipit opens an interactive session on the issues and pull requests of a
GitHub repository. With no argument the repository is taken from the origin
remote of the current git checkout; a bare name is looked up under the
authenticated user.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/shipit/config.yaml)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "write debug output to the log file")

	return cmd
}

func run(ctx context.Context, opts *options, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	logFile, err := logging.Setup(cfg.LogFile, opts.debug)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := log.WithField("package", "main")
	logger.WithField("version", version).Info("starting")

	owner, name, err := resolveRepository(args)
	if err != nil {
		return err
	}

	token, err := auth.NewResolver(cfg.Dir).Token(ctx)
	if err != nil {
		return err
	}
	client := forge.NewClient(ctx, token)
	if owner == "" {
		if owner, err = forge.CurrentUser(ctx, client); err != nil {
			return err
		}
	}
	logger.WithField("repository", owner+"/"+name).Info("resolved repository")

	repo := forge.NewGitHub(client, owner, name).WithPageSize(cfg.PageSize)
	m, err := tui.New(repo, editor.New(cfg.Editor, cfg.Pager), tui.Options{
		Workers:      cfg.Workers,
		Keys:         cfg.Keys,
		Markdown:     cfg.Markdown,
		GlamourStyle: cfg.GlamourStyle,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	logger.Info("exiting")
	return nil
}

// resolveRepository reads owner and name from the argument, or from the
// origin remote when there is none. An empty owner means the authenticated
// user.
func resolveRepository(args []string) (owner, name string, err error) {
	if len(args) == 1 {
		return git.ParseSlug(args[0])
	}
	root, err := git.RepoRoot()
	if err != nil {
		return "", "", err
	}
	return git.Origin(root)
}
