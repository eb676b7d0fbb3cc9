package memorytools

import (
	"context"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is an MCP tool backed by the memory store.
type Tool interface {
	Name() string
	Description() string
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// All returns every memory tool bound to store, writes first.
func All(store *memory.Store, recallLimit int) []Tool {
	return []Tool{
		NewRememberTool(store),
		NewJournalTool(store),
		NewRelateTool(store),
		NewSupersedeTool(store),
		NewUpdateConfidenceTool(store),
		NewRecallTool(store, recallLimit),
		NewSearchTool(store),
		NewShowTool(store),
		NewStatsTool(store),
		NewIndexTool(store),
	}
}
