package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pipedesk/assist/internal/log"
	"github.com/pipedesk/assist/internal/tools"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string

	// UserID and AuthToken are the fixed caller identity for every tool
	// call made through this server. MCP transports have no per-request
	// credential channel.
	UserID    string
	AuthToken string
}

// Server publishes the tool registry over MCP.
type Server struct {
	mcpServer *mcp.Server
	registry  *tools.Registry
	logger    log.Logger

	call tools.Call
}

// NewServer creates an MCP server exposing every tool in the registry.
func NewServer(cfg Config, registry *tools.Registry, logger log.Logger) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		registry:  registry,
		logger:    logger,
		call: tools.Call{
			// One MCP server session is one conversation.
			ConversationID: "mcp-" + uuid.NewString(),
			AuthToken:      cfg.AuthToken,
			UserID:         cfg.UserID,
		},
	}
	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the given transport.
// This is a blocking call that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// registerTools publishes every registry definition as an MCP tool. The
// input schema comes from the Definition, so the SDK performs no inference.
// The registry permits schema-less definitions; those get an empty object
// schema, since the SDK cannot resolve a nil one.
func (s *Server) registerTools() {
	for _, def := range s.registry.Definitions() {
		schema := def.InputSchema
		if schema == nil {
			schema = &jsonschema.Schema{Type: "object"}
		}

		tool := &mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: schema,
		}

		name := def.Name
		mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, _ *mcp.CallToolRequest, in map[string]any) (*mcp.CallToolResult, any, error) {
			result, err := s.registry.Execute(ctx, name, in, s.call)
			if err != nil {
				return nil, nil, fmt.Errorf("executing %s: %w", name, err)
			}
			return resultToMCP(result, s.logger), nil, nil
		})
	}

	s.logger.Info("MCP tools registered", "count", s.registry.Count())
}
