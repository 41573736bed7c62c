// ABOUTME: CLI command for copying users between storage backends.
// ABOUTME: Users already present in the destination are skipped.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/harperreed/coach/internal/config"
	"github.com/harperreed/coach/internal/storage"
)

var (
	migrateTo     string
	migrateToDir  string
	migrateToDSN  string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy users to another storage backend",
	Long: `Copy every user's state and history from the current backend to another.

The source is the configured backend (or --backend). Users that already exist
in the destination are skipped, so the command is safe to re-run.

EXAMPLES:

  coach migrate --to charm --dry-run               # Preview
  coach migrate --to charm                         # SQLite to Charm
  coach migrate --to postgres --to-dsn postgres://localhost/coach
  coach migrate --backend charm --to sqlite --to-dir ~/coach-backup

AFTER MIGRATION:

  Set "backend" in ~/.config/coach/config.json to use the new store.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if migrateTo == "" {
			return fmt.Errorf("--to is required (sqlite, charm, or postgres)")
		}

		dstCfg := *cfg
		dstCfg.Backend = migrateTo
		if migrateToDir != "" {
			dstCfg.DataDir = migrateToDir
		}
		if migrateToDSN != "" {
			dstCfg.PostgresDSN = migrateToDSN
		}
		if sameStore(cfg, &dstCfg) {
			return fmt.Errorf("source and destination are the same %s store", dstCfg.GetBackend())
		}

		dst, err := dstCfg.OpenStorage(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer func() {
			err = multierr.Append(err, dst.Close())
		}()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
		}

		summary, err := storage.MigrateData(repo, dst, migrateDryRun)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		verb := "Migrated"
		if migrateDryRun {
			verb = "Would migrate"
		}
		color.Green("✓ %s %d users (%d weeks) to %s", verb, summary.Users, summary.Snapshots, dstCfg.GetBackend())
		for _, u := range summary.Skipped {
			faint.Printf("  skipped %s (already exists)\n", u)
		}
		return nil
	},
}

func sameStore(a, b *config.Config) bool {
	if a.GetBackend() != b.GetBackend() {
		return false
	}
	switch a.GetBackend() {
	case config.BackendSQLite:
		return a.GetDataDir() == b.GetDataDir()
	case config.BackendPostgres:
		return a.PostgresDSN == b.PostgresDSN
	default:
		return true
	}
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend (sqlite, charm, postgres)")
	migrateCmd.Flags().StringVar(&migrateToDir, "to-dir", "", "destination data directory (sqlite)")
	migrateCmd.Flags().StringVar(&migrateToDSN, "to-dsn", "", "destination connection string (postgres)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
