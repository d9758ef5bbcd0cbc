package control

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/server"
)

// ServerName is the MCP implementation name advertised to clients.
const ServerName = "pullrefresh"

// NewServer builds an MCP server exposing every tool in reg.
func NewServer(version string, reg *ToolRegistry, deps Deps) *server.MCPServer {
	srv := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	Setup(srv, reg, deps)
	return srv
}

// ServeStdio serves srv over the given streams until ctx is cancelled or
// the input closes.
func ServeStdio(ctx context.Context, srv *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(srv).Listen(ctx, in, out)
}
