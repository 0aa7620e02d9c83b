// ABOUTME: MCP server setup for the food and exercise log.
// ABOUTME: Wraps the MCP server with a storage Repository and the acting user.
package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	user      models.UserID
	logger    *log.Logger
}

// NewServer creates a new MCP server. Tools that take no user act as user.
func NewServer(repo storage.Repository, user models.UserID, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fitlog",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		user:      user,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server starting", "user", s.user)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// userOr returns the named user, or the server's user when name is empty.
func (s *Server) userOr(name string) models.UserID {
	if name == "" {
		return s.user
	}
	return models.UserID(name)
}
