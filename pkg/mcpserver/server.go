// Package mcpserver serves the memory tools over the Model Context Protocol.
package mcpserver

import (
	"context"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/entrhq/broca/pkg/tools/memorytools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Logger receives one line per tool call.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// Options configures New.
type Options struct {
	// RecallLimit is the default result count of broca_recall.
	RecallLimit int
	Logger      Logger
}

// New creates an MCP server exposing every memory tool bound to store.
func New(store *memory.Store, opts Options) *server.MCPServer {
	s := server.NewMCPServer(
		"broca",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	for _, tool := range memorytools.All(store, opts.RecallLimit) {
		s.AddTool(tool.Definition(), logged(tool, opts.Logger))
	}
	return s
}

// Serve runs the server on stdin and stdout until the client disconnects.
func Serve(store *memory.Store, opts Options) error {
	return server.ServeStdio(New(store, opts))
}

// logged wraps a tool handler so failures show up in the session log.
func logged(tool memorytools.Tool, log Logger) server.ToolHandlerFunc {
	if log == nil {
		return tool.Handle
	}
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := tool.Handle(ctx, req)
		switch {
		case err != nil:
			log.Warnf("%s: %v", tool.Name(), err)
		case result != nil && result.IsError:
			log.Warnf("%s returned an error result", tool.Name())
		default:
			log.Infof("%s ok", tool.Name())
		}
		return result, err
	}
}

const instructions = `broca is a file-based long-term memory for agent loops.

Before starting work, call broca_recall with the topic at hand to load what earlier iterations learned.
Call broca_remember whenever you learn a fact, make a decision, observe something notable, hit an error worth avoiding, or work out a procedure.
When a newer entry replaces an older one, call broca_supersede instead of leaving both active.
At the end of an iteration, call broca_journal with a short summary.`
