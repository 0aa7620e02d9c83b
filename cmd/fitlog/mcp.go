// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs the stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/fitlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and logs entries for --user (or the
configured user) unless a tool call names another user.

CONFIGURATION:

  {
    "mcpServers": {
      "fitlog": {
        "command": "fitlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_food         Add a food with reference nutrients
  list_foods       List catalog foods
  add_exercise     Add an exercise type
  list_exercises   List catalog exercises
  log_food         Log a serving of a food
  log_exercise     Log minutes of an exercise
  update_entry     Change a logged entry
  delete_entry     Delete a logged entry
  get_day          One day's entries and totals
  get_report       Per-day totals and averages for a range

AVAILABLE RESOURCES:

  fitlog://today     Today's entries and totals
  fitlog://catalog   All foods and exercises`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, currentUser(), logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
