package memorytools

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchTool finds knowledge entries by text or by tag.
type SearchTool struct {
	store *memory.Store
}

// NewSearchTool creates a new SearchTool.
func NewSearchTool(store *memory.Store) *SearchTool {
	return &SearchTool{store: store}
}

// Name returns the tool name.
func (t *SearchTool) Name() string {
	return "broca_search"
}

// Description returns the tool description.
func (t *SearchTool) Description() string {
	return "Search knowledge entries for a case-insensitive substring of their text, or pass tag to filter by tag instead. Results are unranked."
}

// Definition returns the MCP tool definition.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(t.Description()),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Description("Text to look for in entries"),
		),
		mcp.WithString("tag",
			mcp.Description("Tag fragment to filter by"),
		),
	)
}

// Handle runs a text search, or a tag search when tag is given.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	tag := req.GetString("tag", "")

	var (
		entries []*memory.Entry
		err     error
		what    string
	)
	switch {
	case tag != "":
		entries, err = t.store.SearchByTag(ctx, tag)
		what = fmt.Sprintf("tag %q", tag)
	case strings.TrimSpace(query) != "":
		entries, err = t.store.Search(ctx, query)
		what = fmt.Sprintf("%q", query)
	default:
		return mcp.NewToolResultError("missing required parameter: query or tag"), nil
	}
	if err != nil {
		return errorResult("search", err), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No entries match %s.", what)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d entr%s matching %s:\n\n", len(entries), plural(len(entries), "y", "ies"), what)
	for i, e := range entries {
		writeEntryLine(&b, fmt.Sprintf("%d.", i+1), e)
	}
	return mcp.NewToolResultText(b.String()), nil
}
