// Package mcpserver exposes the Help Scout operations as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/helpscout/helpscout-cli/internal/api"
	"github.com/helpscout/helpscout-cli/internal/outfmt"
)

// Server wires an API client to an MCP server. Calls share the client's
// token manager; no other state survives between calls.
type Server struct {
	client *api.Client
	mcp    *server.MCPServer
}

// New builds the server and registers every tool.
func New(client *api.Client, version string) *Server {
	s := &Server{client: client}
	s.mcp = server.NewMCPServer(
		"helpscout",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.mcp.AddTools(s.tools()...)
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves requests on stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// handler adapts a tool function returning a value to the mcp-go
// signature. Results are rendered with the default output pipeline; errors
// become tool errors carrying the classified envelope.
func handler(fn func(ctx context.Context, req mcp.CallToolRequest) (any, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		v, err := fn(ctx, req)
		if err != nil {
			return errorResult(err), nil
		}
		out, err := outfmt.Render(v, outfmt.DefaultOptions())
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	env := api.Classify(err)
	b, mErr := json.MarshalIndent(env, "", "  ")
	if mErr != nil {
		return mcp.NewToolResultError(env.Error.Detail)
	}
	return mcp.NewToolResultError(string(b))
}

// requireID reads a required positive integer argument.
func requireID(req mcp.CallToolRequest, name string) (int, error) {
	id, err := req.RequireInt(name)
	if err != nil {
		return 0, api.NewValidationError("%s", err.Error())
	}
	if id <= 0 {
		return 0, api.NewValidationError("Invalid %s: %d", name, id)
	}
	return id, nil
}

// optionalID reads an optional integer argument; 0 means unset.
func optionalID(req mcp.CallToolRequest, name string) (int, error) {
	id := req.GetInt(name, 0)
	if id < 0 {
		return 0, api.NewValidationError("Invalid %s: %d", name, id)
	}
	return id, nil
}

type success struct {
	Success bool `json:"success"`
}
