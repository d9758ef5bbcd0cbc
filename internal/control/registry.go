// Package control exposes surfaces as an MCP tool server, so agents and
// scripts can drive pull gestures and inspect indicator state.
package control

import (
	"context"
	"sort"
	"sync"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pullrefresh/internal/surface"
)

// ToolHandler is the function signature for MCP tool handlers.
type ToolHandler func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error)

// Deps is what tool handlers are built from.
type Deps struct {
	Surfaces       *surface.Registry
	DefaultSurface string
}

// ToolHandlerFactory creates a tool handler bound to deps.
type ToolHandlerFactory func(deps Deps) ToolHandler

// ToolRegistration holds a tool definition and its handler factory.
type ToolRegistration struct {
	Tool           mcplib.Tool
	HandlerFactory ToolHandlerFactory
}

// ToolRegistry holds the available tools.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]ToolRegistration
}

// NewToolRegistry creates a new empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]ToolRegistration),
	}
}

// Register adds a tool to the registry.
// If a tool with the same name already exists, it will be replaced.
func (r *ToolRegistry) Register(tool mcplib.Tool, handlerFactory ToolHandlerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name] = ToolRegistration{
		Tool:           tool,
		HandlerFactory: handlerFactory,
	}
}

// Get returns a tool registration by name.
func (r *ToolRegistry) Get(name string) (ToolRegistration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.tools[name]
	return reg, ok
}

// All returns all registrations sorted by tool name.
func (r *ToolRegistry) All() []ToolRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := make([]ToolRegistration, 0, len(r.tools))
	for _, reg := range r.tools {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Tool.Name < regs[j].Tool.Name })
	return regs
}

// Names returns the sorted names of all registered tools.
func (r *ToolRegistry) Names() []string {
	regs := r.All()
	names := make([]string, len(regs))
	for i, reg := range regs {
		names[i] = reg.Tool.Name
	}
	return names
}

// Count returns the number of registered tools.
func (r *ToolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// DefaultToolRegistry is the global tool registry instance.
// Tools register themselves here using init() functions.
var DefaultToolRegistry = NewToolRegistry()

// Setup adds every tool from reg to srv, bound to deps.
func Setup(srv *server.MCPServer, reg *ToolRegistry, deps Deps) {
	for _, r := range reg.All() {
		srv.AddTool(r.Tool, server.ToolHandlerFunc(r.HandlerFactory(deps)))
	}
}
