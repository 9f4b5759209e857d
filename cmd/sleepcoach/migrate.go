// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Opens both backends under the configured data dir and copies per user.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/sleepcoach/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <from> <to>",
	Short: "Copy all data between storage backends",
	Long: `Copy every user's data from one storage backend to the other.

Both backends live under the configured data directory. Writes use the
same last-write-wins rules as the dashboard, so re-running a migration
on top of existing data is safe.

BACKENDS:

  json      one JSON file per user under <data-dir>/users/
  sqlite    a single database at <data-dir>/sleepcoach.db

EXAMPLES:

  sleepcoach migrate json sqlite    # move to SQLite
  sleepcoach migrate sqlite json    # back to JSON files

Remember to flip the "backend" field in the config afterwards so serve
picks up the new backend.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"json", "sqlite"},
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := args[0], args[1]
		if from == to {
			return fmt.Errorf("source and destination are both %q", from)
		}

		src, err := cfg.OpenBackend(from)
		if err != nil {
			return fmt.Errorf("open source %s: %w", from, err)
		}
		defer src.Close()

		dst, err := cfg.OpenBackend(to)
		if err != nil {
			return fmt.Errorf("open destination %s: %w", to, err)
		}
		defer dst.Close()

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migrate %s to %s: %w", from, to, err)
		}

		color.Green("✓ migrated %d users: %d sleep entries, %d exercise sessions, %d goals",
			summary.Users, summary.Sleep, summary.Exercise, summary.Goals)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
