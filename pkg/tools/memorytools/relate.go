package memorytools

import (
	"context"
	"fmt"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// RelateTool appends a typed relation to an entry.
type RelateTool struct {
	store *memory.Store
}

// NewRelateTool creates a new RelateTool.
func NewRelateTool(store *memory.Store) *RelateTool {
	return &RelateTool{store: store}
}

// Name returns the tool name.
func (t *RelateTool) Name() string {
	return "broca_relate"
}

// Description returns the tool description.
func (t *RelateTool) Description() string {
	return "Link one entry to another with a relation type such as related_to, caused_by or depends_on. The target does not need to exist."
}

// Definition returns the MCP tool definition.
func (t *RelateTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(t.Description()),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry to annotate"),
		),
		mcp.WithString("relation",
			mcp.Required(),
			mcp.Description("Relation type, a lowercase word such as supports or depends_on"),
		),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Related entry id"),
		),
	)
}

// Handle appends the relation.
func (t *RelateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	relation, err := req.RequireString("relation")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	e, rel, err := t.store.Relate(ctx, ref, relation, target)
	if err != nil {
		return errorResult("relate", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Linked %s -[%s]-> %s", e.ID, rel.Type, rel.Target)), nil
}

// SupersedeTool retires an entry in favour of a newer one.
type SupersedeTool struct {
	store *memory.Store
}

// NewSupersedeTool creates a new SupersedeTool.
func NewSupersedeTool(store *memory.Store) *SupersedeTool {
	return &SupersedeTool{store: store}
}

// Name returns the tool name.
func (t *SupersedeTool) Name() string {
	return "broca_supersede"
}

// Description returns the tool description.
func (t *SupersedeTool) Description() string {
	return "Mark an entry as replaced by a newer one. The old entry keeps its text but drops to confidence 0.3."
}

// Definition returns the MCP tool definition.
func (t *SupersedeTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(t.Description()),
		mcp.WithString("old_id",
			mcp.Required(),
			mcp.Description("Entry being replaced"),
		),
		mcp.WithString("new_id",
			mcp.Required(),
			mcp.Description("Entry that replaces it"),
		),
	)
}

// Handle marks the old entry.
func (t *SupersedeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oldRef, err := req.RequireString("old_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newRef, err := req.RequireString("new_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	e, err := t.store.Supersede(ctx, oldRef, newRef)
	if err != nil {
		return errorResult("supersede", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s is now superseded by %s (confidence %.1f)", e.ID, e.SupersededBy, e.Confidence)), nil
}
