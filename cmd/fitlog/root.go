// ABOUTME: Root Cobra command for the fitlog CLI.
// ABOUTME: Loads config, builds the logger, and manages the storage lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlog/internal/charm"
	"github.com/harperreed/fitlog/internal/config"
	"github.com/harperreed/fitlog/internal/logging"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	cfg    *config.Config
	repo   storage.Repository
	logger *log.Logger

	userFlag    string
	backendFlag string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:     "fitlog",
	Short:   "Personal food and exercise log",
	Version: version,
	Long: `Fitlog is a CLI tool for logging what you eat and the exercise you do.

Foods live in a catalog with nutrients for a reference serving (say, 285 kcal
per 1 slice, or 200 kcal per 1 cup). When you log a food in any serving unit,
fitlog scales the reference nutrients to the amount you ate.

QUICK START:

  $ fitlog food add "Brown Rice" --serving cup --calories 200 --carbs 44
  $ fitlog exercise add Running --category cardio
  $ fitlog eat "brown rice" 4 oz          # Log 4 ounces (100 kcal)
  $ fitlog did running 30                 # Log 30 minutes
  $ fitlog day                            # Today's entries and totals
  $ fitlog report --from 2024-03-01       # Per-day totals and averages

Each user can log a given food (or exercise) once per day. Use --merge to add
to an existing entry instead.

SERVING UNITS:

  ounce (oz), cup, pound (lb), tablespoon (tbsp), teaspoon (tsp), gram (g)
  piece and slice are countable: they only scale against themselves.

STORAGE:

  SQLite at ~/.local/share/fitlog/fitlog.db by default. Set "backend": "charm"
  in ~/.config/fitlog/config.json to store data in Charm KV and sync it across
  devices. FITLOG_BACKEND, FITLOG_DATA_DIR, FITLOG_USER and FITLOG_LOG_LEVEL
  (set in the environment or in ~/.config/fitlog/.env) override the file.

MCP INTEGRATION:

  Run 'fitlog mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "fitlog": { "command": "fitlog", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		if skipsStorage(cmd) {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.ApplyEnv(); err != nil {
			return fmt.Errorf("failed to load environment: %w", err)
		}
		if backendFlag != "" {
			cfg.Backend = backendFlag
		}

		level := cfg.GetLogLevel()
		if verboseFlag {
			level = "debug"
		}
		logger, err = logging.New(os.Stderr, level)
		if err != nil {
			return err
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		if client, ok := repo.(*charm.Client); ok {
			client.SetLogger(logger)
		}

		logger.Debug("storage opened", "backend", cfg.GetBackend(), "user", currentUser())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo == nil {
			return nil
		}
		err := repo.Close()
		repo = nil
		return err
	},
}

// skipsStorage reports whether cmd runs without opening storage.
func skipsStorage(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", "config":
			return true
		}
	}
	return false
}

// currentUser is the user new entries are logged for.
func currentUser() models.UserID {
	if userFlag != "" {
		return models.UserID(userFlag)
	}
	if cfg != nil {
		return cfg.GetUser()
	}
	return (&config.Config{}).GetUser()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user to log for (default: config user or $USER)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: sqlite or charm (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "debug logging")
}
