// ABOUTME: CLI commands for exporting and importing coaching history.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/coach/internal/storage"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export a user's coaching history",
	Long: `Export a user's state and weekly history in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export, one compact entry per week
  markdown   Markdown table (for notes/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include weeks starting on or after this date (markdown only)

EXAMPLES:

  coach export json                        # Export as JSON
  coach export json -o backup.json         # Save to file
  coach export yaml -u ada                 # Export another user
  coach export markdown --since 2025-01-01 # Weeks from 2025 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		user := currentUser()

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(repo, user)
		case "yaml":
			data, err = storage.ExportYAML(repo, user)
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, perr := parseDate(exportSince)
				if perr != nil {
					return perr
				}
				since = &t
			}
			var md string
			md, err = storage.ExportMarkdown(repo, user, since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
			return nil
		}

		fmt.Println(string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a user from a JSON export",
	Long: `Import a user's state and history from a JSON export.

The user must not already exist in the target store.

EXAMPLES:

  coach import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := storage.ImportJSON(repo, data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include weeks since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
