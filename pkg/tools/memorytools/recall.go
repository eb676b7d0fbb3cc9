package memorytools

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

const excerptLength = 160

// RecallTool ranks knowledge entries against a query.
type RecallTool struct {
	store        *memory.Store
	defaultLimit int
}

// NewRecallTool creates a new RecallTool. defaultLimit applies when the
// caller passes no limit.
func NewRecallTool(store *memory.Store, defaultLimit int) *RecallTool {
	if defaultLimit <= 0 {
		defaultLimit = memory.DefaultRecallLimit
	}
	return &RecallTool{store: store, defaultLimit: defaultLimit}
}

// Name returns the tool name.
func (t *RecallTool) Name() string {
	return "broca_recall"
}

// Description returns the tool description.
func (t *RecallTool) Description() string {
	return "Find the most relevant knowledge for a query. Entries must mention at least one query word in their body; title and tag matches, confidence and recency raise the score."
}

// Definition returns the MCP tool definition.
func (t *RecallTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(t.Description()),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Whitespace separated search words"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of results (default %d)", t.defaultLimit)),
			mcp.Min(1),
		),
	)
}

// Handle runs the ranking.
func (t *RecallTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", t.defaultLimit)

	results, err := t.store.Recall(ctx, query, limit)
	if err != nil {
		return errorResult("recall", err), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No knowledge matches %q.", query)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d relevant entr%s for %q:\n\n", len(results), plural(len(results), "y", "ies"), query)
	for i, r := range results {
		writeEntryLine(&b, fmt.Sprintf("%d. (score %d)", i+1, r.Score), r.Entry)
		if ex := excerpt(r.Entry.Body, excerptLength); ex != "" {
			fmt.Fprintf(&b, "   %s\n", ex)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
