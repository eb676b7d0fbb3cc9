package memorytools

import (
	"context"
	"fmt"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// UpdateConfidenceTool sets the confidence of an entry.
type UpdateConfidenceTool struct {
	store *memory.Store
}

// NewUpdateConfidenceTool creates a new UpdateConfidenceTool.
func NewUpdateConfidenceTool(store *memory.Store) *UpdateConfidenceTool {
	return &UpdateConfidenceTool{store: store}
}

// Name returns the tool name.
func (t *UpdateConfidenceTool) Name() string {
	return "broca_update_confidence"
}

// Description returns the tool description.
func (t *UpdateConfidenceTool) Description() string {
	return "Raise or lower how much an entry should be trusted. Confidence is a number between 0 and 1 and affects recall ranking."
}

// Definition returns the MCP tool definition.
func (t *UpdateConfidenceTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(t.Description()),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry to update"),
		),
		mcp.WithNumber("confidence",
			mcp.Required(),
			mcp.Description("New confidence between 0 and 1"),
			mcp.Min(0),
			mcp.Max(1),
		),
	)
}

// Handle rewrites the confidence line.
func (t *UpdateConfidenceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	confidence, err := req.RequireFloat("confidence")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	e, err := t.store.UpdateConfidence(ctx, ref, confidence)
	if err != nil {
		return errorResult("update confidence", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Confidence of %s set to %.2f", e.ID, e.Confidence)), nil
}
