// ABOUTME: CLI commands for exporting and importing fitlog data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats; imports JSON or YAML.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportFrom   string
	exportTo     string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export fitlog data",
	Long: `Export fitlog data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export with a per-day journal (human-readable, restorable)
  markdown   Markdown tables per user and day (for sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --from, --to   Limit markdown to a date range (YYYY-MM-DD)
  --user, -u     Limit markdown to one user

EXAMPLES:

  fitlog export json -o backup.json
  fitlog export yaml
  fitlog export markdown --from 2024-03-01 --to 2024-03-07`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(repo)
		case "yaml":
			data, err = storage.ExportYAML(repo)
		case "markdown", "md":
			filter := storage.LogFilter{User: models.UserID(userFlag)}
			if exportFrom != "" {
				if filter.From, err = parseDate(exportFrom); err != nil {
					return err
				}
			}
			if exportTo != "" {
				if filter.To, err = parseDate(exportTo); err != nil {
					return err
				}
			}
			var md string
			md, err = storage.ExportMarkdown(repo, filter)
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
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import fitlog data from a JSON or YAML export",
	Long: `Import data from a previously exported JSON or YAML file.

The whole file is checked before anything is written: every log entry must
reference a food or exercise in the file, and no two entries may share a user,
food (or exercise), and day. Catalog entries whose name already exists are
reused, and entries whose ID already exists are skipped, so re-importing the
same file is safe.

EXAMPLES:

  fitlog import backup.json
  fitlog import backup.yaml
  fitlog import dump.txt --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		format := importFormat
		if format == "" {
			format = strings.TrimPrefix(filepath.Ext(filename), ".")
		}

		data, err := storage.ParseExport(raw, format)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		summary, err := storage.ImportData(repo, data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  Foods:              %d\n", summary.Foods)
		fmt.Printf("  Exercises:          %d\n", summary.Exercises)
		fmt.Printf("  Food entries:       %d\n", summary.FoodEaten)
		fmt.Printf("  Exercise entries:   %d\n", summary.ExercisePerformed)
		if summary.Skipped > 0 {
			fmt.Printf("  Skipped (existing): %d\n", summary.Skipped)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first day (markdown only)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last day (markdown only)")
	importCmd.Flags().StringVar(&importFormat, "format", "", "json or yaml (default: from file extension)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
