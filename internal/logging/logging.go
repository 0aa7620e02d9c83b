// ABOUTME: Structured logger construction for the CLI and MCP server.
// ABOUTME: Wraps charmbracelet/log so every component logs with the same prefix and level.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrUnknownLevel is returned for a level name outside debug..fatal.
var ErrUnknownLevel = errors.New("unknown log level")

// levelNames are the level names New accepts.
var levelNames = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

// New returns a logger writing to w at the named level (debug, info, warn,
// error, fatal). An empty level means warn.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl := log.WarnLevel
	if name := strings.ToLower(strings.TrimSpace(level)); name != "" {
		// ParseLevel maps unknown names to info, so check the name first.
		if !levelNames[name] {
			return nil, fmt.Errorf("parse log level %q: %w", level, ErrUnknownLevel)
		}
		lvl = log.ParseLevel(name)
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "fitlog",
		ReportTimestamp: lvl == log.DebugLevel,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
