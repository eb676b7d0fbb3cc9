package memorytools

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatsTool summarizes the store.
type StatsTool struct {
	store *memory.Store
}

// NewStatsTool creates a new StatsTool.
func NewStatsTool(store *memory.Store) *StatsTool {
	return &StatsTool{store: store}
}

// Name returns the tool name.
func (t *StatsTool) Name() string {
	return "broca_stats"
}

// Description returns the tool description.
func (t *StatsTool) Description() string {
	return "Report entry counts by kind, the most used tags and how confidence is distributed."
}

// Definition returns the MCP tool definition.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(t.Description()),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// Handle aggregates the store.
func (t *StatsTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := t.store.Stats(ctx)
	if err != nil {
		return errorResult("stats", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Knowledge entries: %d (%d superseded)\n", st.KnowledgeCount, st.SupersededCount)
	fmt.Fprintf(&b, "Journal entries: %d\n", st.JournalCount)
	if len(st.ByKind) > 0 {
		b.WriteString("\nBy type:\n")
		for _, kc := range st.ByKind {
			fmt.Fprintf(&b, "- %s: %d\n", kc.Kind, kc.Count)
		}
	}
	if len(st.TopTags) > 0 {
		b.WriteString("\nTop tags:\n")
		for _, tc := range st.TopTags {
			fmt.Fprintf(&b, "- %s: %d\n", tc.Tag, tc.Count)
		}
	}
	fmt.Fprintf(&b, "\nConfidence: high %d, medium %d, low %d (average %.2f)\n",
		st.Confidence.High, st.Confidence.Medium, st.Confidence.Low, st.AverageConfidence)
	return mcp.NewToolResultText(b.String()), nil
}

// IndexTool regenerates index.yml.
type IndexTool struct {
	store *memory.Store
}

// NewIndexTool creates a new IndexTool.
func NewIndexTool(store *memory.Store) *IndexTool {
	return &IndexTool{store: store}
}

// Name returns the tool name.
func (t *IndexTool) Name() string {
	return "broca_index"
}

// Description returns the tool description.
func (t *IndexTool) Description() string {
	return "Rebuild index.yml, a compact listing of every knowledge entry with its title, type, tags and confidence."
}

// Definition returns the MCP tool definition.
func (t *IndexTool) Definition() mcp.Tool {
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(t.Description()),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

// Handle writes the index.
func (t *IndexTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idx, err := t.store.BuildIndex(ctx)
	if err != nil {
		return errorResult("index", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Indexed %d entries into %s", len(idx.Entries), t.store.IndexPath())), nil
}
