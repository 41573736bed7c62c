// ABOUTME: Root Cobra command for coach CLI.
// ABOUTME: Loads config, sets up logging, and manages the service lifecycle via PersistentPre/PostRunE.
package main

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/harperreed/coach/internal/config"
	"github.com/harperreed/coach/internal/engine"
	"github.com/harperreed/coach/internal/logging"
	"github.com/harperreed/coach/internal/storage"
)

// skipStorage marks commands that must not open the data store.
const skipStorage = "skip-storage"

var (
	cfg       *config.Config
	repo      storage.Repository
	svc       *engine.Service
	logCloser io.Closer

	userFlag    string
	backendFlag string
)

var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "Adaptive weekly training coach",
	Long: `Coach is a CLI tool that plans your training one week at a time.

Each week you report how many sessions you finished and, optionally, how you
slept, how stressed you were, how ready you felt, your energy, and anything
that hurt. Coach decides whether to progress, hold, or scale back, and
prescribes next week's sessions.

QUICK START:

  $ coach init                                  # Start in the onboarding phase
  $ coach plan                                  # See this week's sessions
  $ coach week 3                                # Finished 3 sessions this week
  $ coach week 2 --sleep poor --stress high --readiness drag
  $ coach week 1 --pain knee                    # Something hurt
  $ coach status                                # Phase, program, adherence
  $ coach history                               # Every recorded week

USERS:

  Commands act on --user, then $COACH_USER, then default_user from the config
  file, then "me".

MCP INTEGRATION:

  Run 'coach mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "coach": { "command": "coach", "args": ["mcp"] }
    }
  }

CONFIGURATION:

  ~/.config/coach/config.json selects the backend (sqlite, charm, postgres),
  the data directory, logging, and engine thresholds.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Annotations[skipStorage] == "true" {
			return nil
		}
		return setup(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}

	logCloser = logging.Setup(cfg.LoggerParams())

	repo, err = cfg.OpenStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	locker, err := cfg.OpenLocker(ctx)
	if err != nil {
		return closeOpened(err, repo)
	}

	e, err := cfg.NewEngine(log.StandardLogger())
	if err != nil {
		return closeOpened(err, repo, locker)
	}

	svc = engine.NewService(e, repo, locker)
	return nil
}

// closeOpened closes every resource that holds one, folding close errors into err.
func closeOpened(err error, resources ...any) error {
	for _, r := range resources {
		if c, ok := r.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}

func teardown() error {
	var err error
	if svc != nil {
		err = svc.Close()
		svc, repo = nil, nil
	}
	if logCloser != nil {
		err = multierr.Append(err, logCloser.Close())
		logCloser = nil
	}
	return err
}

// currentUser is the user the running command acts on.
func currentUser() string {
	return cfg.GetUser(userFlag)
}

func init() {
	// PersistentPostRunE is skipped when a command fails.
	cobra.OnFinalize(func() {
		if err := teardown(); err != nil {
			log.WithError(err).Warn("failed to close storage")
		}
	})

	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user to act on")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend override (sqlite, charm, postgres)")
}
