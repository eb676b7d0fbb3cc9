package memorytools

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// ShowTool returns one entry without its header block.
type ShowTool struct {
	store *memory.Store
}

// NewShowTool creates a new ShowTool.
func NewShowTool(store *memory.Store) *ShowTool {
	return &ShowTool{store: store}
}

// Name returns the tool name.
func (t *ShowTool) Name() string {
	return "broca_show"
}

// Description returns the tool description.
func (t *ShowTool) Description() string {
	return "Show the title, body and relations of an entry. The id may be exact, a glob pattern or a fragment; the first match wins."
}

// Definition returns the MCP tool definition.
func (t *ShowTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(t.Description()),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry id, filename, glob pattern or id fragment"),
		),
	)
}

// Handle loads the entry and reports its edges after the text.
func (t *ShowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := t.store.Load(ctx, ref)
	if err != nil {
		return errorResult("show", err), nil
	}
	text, err := t.store.Show(ctx, e.ID)
	if err != nil {
		return errorResult("show", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "id: %s\ntype: %s\nconfidence: %.2f\nstatus: %s\n\n", e.ID, e.Kind, e.Confidence, e.Status())
	b.WriteString(strings.TrimRight(text, "\n"))
	b.WriteString("\n")

	if e.Kind.IsKnowledge() {
		_, in, err := t.store.EdgesOf(ctx, e.ID)
		if err != nil {
			return errorResult("show", err), nil
		}
		if len(in) > 0 {
			b.WriteString("\nReferenced by:\n")
			for _, edge := range in {
				fmt.Fprintf(&b, "- %s (%s)\n", edge.From, edge.Label)
			}
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}
