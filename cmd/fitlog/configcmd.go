// ABOUTME: CLI commands for viewing and changing fitlog configuration.
// ABOUTME: Reads and writes ~/.config/fitlog/config.json.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/config"
	"github.com/harperreed/fitlog/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or change configuration",
	Long: `View or change settings in ~/.config/fitlog/config.json.

KEYS:

  backend     sqlite (default) or charm
  data_dir    directory holding fitlog.db (default ~/.local/share/fitlog)
  user        user new entries are logged for (default $USER)
  log_level   debug, info, warn (default), error, or fatal`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		printConfig(cmd.OutOrStdout(), c)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, args[0], args[1]); err != nil {
			return err
		}
		if err := c.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.Green("✓ Set %s = %s", args[0], args[1])
		return nil
	},
}

func setConfigValue(c *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "backend":
		if value != config.BackendSQLite && value != config.BackendCharm {
			return fmt.Errorf("unknown backend %q (use sqlite or charm)", value)
		}
		c.Backend = value
	case "data_dir":
		c.DataDir = value
	case "user":
		c.User = value
	case "log_level":
		if _, err := logging.New(io.Discard, value); err != nil {
			return err
		}
		c.LogLevel = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func printConfig(w io.Writer, c *config.Config) {
	faint := color.New(color.Faint)
	fmt.Fprintf(w, "%s %s\n", faint.Sprint("file:     "), config.GetConfigPath())
	fmt.Fprintf(w, "%s %s\n", faint.Sprint("backend:  "), c.GetBackend())
	fmt.Fprintf(w, "%s %s\n", faint.Sprint("data_dir: "), c.GetDataDir())
	fmt.Fprintf(w, "%s %s\n", faint.Sprint("user:     "), c.GetUser())
	fmt.Fprintf(w, "%s %s\n", faint.Sprint("log_level:"), c.GetLogLevel())
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
