package memorytools

import (
	"context"
	"fmt"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// JournalTool records an iteration summary.
type JournalTool struct {
	store *memory.Store
}

// NewJournalTool creates a new JournalTool.
func NewJournalTool(store *memory.Store) *JournalTool {
	return &JournalTool{store: store}
}

// Name returns the tool name.
func (t *JournalTool) Name() string {
	return "broca_journal"
}

// Description returns the tool description.
func (t *JournalTool) Description() string {
	return "Record what happened in this iteration. Journal entries are keyed by time and kept apart from knowledge."
}

// Definition returns the MCP tool definition.
func (t *JournalTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(t.Description()),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Markdown summary of the iteration"),
		),
	)
}

// Handle writes the journal entry.
func (t *JournalTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := req.RequireString("summary")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := t.store.Journal(ctx, summary)
	if err != nil {
		return errorResult("journal", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Journaled iteration %s", e.ID)), nil
}
