// ABOUTME: Root Cobra command for the sleepcoach server.
// ABOUTME: Loads config and owns the repository lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/sleepcoach/internal/config"
	"github.com/harperreed/sleepcoach/internal/storage"
)

var (
	cfg  *config.Config
	repo storage.Repository
)

var rootCmd = &cobra.Command{
	Use:   "sleepcoach",
	Short: "Personal sleep & exercise dashboard",
	Long: `Sleepcoach serves a personal web dashboard for sleep and exercise habits.

WHAT IT DOES:

  Log      nightly sleep (hours plus a 1-5 quality score) and exercise sessions
  Trends   averages, streaks, consistency, and goal progress over a window
  Coach    rule-based advice, optionally sharpened by an LLM

QUICK START:

  $ sleepcoach serve                          # http://localhost:8799
  $ sleepcoach serve --addr :9000             # pick another port
  $ OPENAI_API_KEY=sk-... sleepcoach serve    # enable AI coaching

STORAGE:

  Entries live in per-user JSON files under ~/.local/share/sleepcoach/users/.
  Set "backend": "sqlite" in the config to use a SQLite database instead.

  $ sleepcoach migrate json sqlite    # copy data between backends

CONFIG:

  ~/.config/sleepcoach/config.json holds the backend, listen address, web
  asset directory, advice thresholds, and coach settings. A missing file
  means defaults.

All data entry happens in the browser; there are no data-entry subcommands.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "completion":
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// migrate opens its own source and destination backends
		if cmd.Name() == "migrate" {
			return nil
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}
