package memorytools

import (
	"context"
	"fmt"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// RememberTool stores a new knowledge entry.
type RememberTool struct {
	store *memory.Store
}

// NewRememberTool creates a new RememberTool.
func NewRememberTool(store *memory.Store) *RememberTool {
	return &RememberTool{store: store}
}

// Name returns the tool name.
func (t *RememberTool) Name() string {
	return "broca_remember"
}

// Description returns the tool description.
func (t *RememberTool) Description() string {
	return "Store a piece of knowledge that should survive across iterations: a fact, decision, observation, error or procedure. New entries start at confidence 0.8."
}

// Definition returns the MCP tool definition.
func (t *RememberTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(t.Description()),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Kind of knowledge"),
			mcp.Enum("fact", "decision", "observation", "error", "procedure"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short title; also used to build the entry id"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Markdown body of the entry"),
		),
		mcp.WithArray("tags",
			mcp.Description("Tags for retrieval"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// Handle creates the entry.
func (t *RememberTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content := req.GetString("content", "")

	e, err := t.store.Remember(ctx, memory.Kind(kind), title, content, stringList(req, "tags"))
	if err != nil {
		return errorResult("remember", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Remembered %s as %s", e.Kind, e.ID)), nil
}
