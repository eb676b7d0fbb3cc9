package memorytools

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore returns a store whose clock advances one second per write.
func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	store, err := memory.NewStore(t.TempDir(), memory.WithClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	}))
	require.NoError(t, err)
	return store
}

// call invokes tool with args and returns the result text.
func call(t *testing.T, tool Tool, args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = tool.Name()
	req.Params.Arguments = args

	result, err := tool.Handle(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text, result.IsError
}

func remember(t *testing.T, store *memory.Store, kind memory.Kind, title, body string, tags ...string) *memory.Entry {
	t.Helper()
	e, err := store.Remember(context.Background(), kind, title, body, tags)
	require.NoError(t, err)
	return e
}

func TestAllToolsHaveDistinctDefinitions(t *testing.T) {
	tools := All(newTestStore(t), 0)
	require.Len(t, tools, 10)

	seen := make(map[string]bool)
	for _, tool := range tools {
		def := tool.Definition()
		assert.Equal(t, tool.Name(), def.Name)
		assert.True(t, strings.HasPrefix(def.Name, "broca_"), def.Name)
		assert.NotEmpty(t, def.Description)
		assert.False(t, seen[def.Name], "duplicate tool %s", def.Name)
		seen[def.Name] = true
	}
}

func TestRememberTool(t *testing.T) {
	store := newTestStore(t)
	tool := NewRememberTool(store)

	t.Run("creates entry", func(t *testing.T) {
		text, isErr := call(t, tool, map[string]any{
			"type":    "decision",
			"title":   "Use Flask",
			"content": "Lightweight web framework.",
			"tags":    []any{"python", "web"},
		})
		require.False(t, isErr, text)
		assert.Contains(t, text, "2026-10-19_12-00-01_use-flask")

		e, err := store.Load(context.Background(), "use-flask")
		require.NoError(t, err)
		assert.Equal(t, memory.KindDecision, e.Kind)
		assert.Equal(t, []string{"python", "web"}, e.Tags)
		assert.Equal(t, memory.DefaultConfidence, e.Confidence)
	})

	t.Run("accepts comma separated tags", func(t *testing.T) {
		text, isErr := call(t, tool, map[string]any{
			"type": "fact", "title": "Port", "content": "8080", "tags": "net, config",
		})
		require.False(t, isErr, text)
		e, err := store.Load(context.Background(), "port")
		require.NoError(t, err)
		assert.Equal(t, []string{"net", "config"}, e.Tags)
	})

	t.Run("rejects journal type", func(t *testing.T) {
		text, isErr := call(t, tool, map[string]any{"type": "journal", "title": "x", "content": "y"})
		assert.True(t, isErr)
		assert.Contains(t, text, "invalid arguments")
	})

	t.Run("requires title", func(t *testing.T) {
		_, isErr := call(t, tool, map[string]any{"type": "fact", "content": "y"})
		assert.True(t, isErr)
	})
}

func TestJournalTool(t *testing.T) {
	store := newTestStore(t)
	text, isErr := call(t, NewJournalTool(store), map[string]any{"summary": "Set up CI"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "2026-10-19_12-00-01")

	entries, err := store.ListJournal(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Set up CI", entries[0].Body)

	_, isErr = call(t, NewJournalTool(store), map[string]any{})
	assert.True(t, isErr)
}

func TestRecallTool(t *testing.T) {
	store := newTestStore(t)
	remember(t, store, memory.KindDecision, "Use Flask", "Python web framework", "python")
	remember(t, store, memory.KindFact, "Deploy", "Kubernetes cluster")

	tool := NewRecallTool(store, 5)

	text, isErr := call(t, tool, map[string]any{"query": "python"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Found 1 relevant entry")
	assert.Contains(t, text, "use-flask")
	assert.Contains(t, text, "Python web framework")
	assert.NotContains(t, text, "deploy")

	text, isErr = call(t, tool, map[string]any{"query": "golang"})
	require.False(t, isErr)
	assert.Contains(t, text, "No knowledge matches")

	_, isErr = call(t, tool, map[string]any{})
	assert.True(t, isErr)
}

func TestRecallToolLimit(t *testing.T) {
	store := newTestStore(t)
	for _, title := range []string{"one", "two", "three"} {
		remember(t, store, memory.KindFact, title, "shared word")
	}

	text, _ := call(t, NewRecallTool(store, 0), map[string]any{"query": "shared", "limit": 2})
	assert.Contains(t, text, "Found 2 relevant entries")
	// Newest first among equal scores.
	assert.Less(t, strings.Index(text, "three"), strings.Index(text, "two"))
}

func TestSearchTool(t *testing.T) {
	store := newTestStore(t)
	remember(t, store, memory.KindFact, "Cache", "Redis sits in front", "Infra")
	remember(t, store, memory.KindFact, "Queue", "Kafka topics", "messaging")
	tool := NewSearchTool(store)

	text, isErr := call(t, tool, map[string]any{"query": "REDIS"})
	require.False(t, isErr)
	assert.Contains(t, text, "cache")
	assert.NotContains(t, text, "queue")

	text, isErr = call(t, tool, map[string]any{"tag": "infra"})
	require.False(t, isErr)
	assert.Contains(t, text, "Found 1 entry matching tag")

	text, _ = call(t, tool, map[string]any{"query": "postgres"})
	assert.Contains(t, text, "No entries match")

	_, isErr = call(t, tool, map[string]any{})
	assert.True(t, isErr)
}

func TestShowTool(t *testing.T) {
	store := newTestStore(t)
	a := remember(t, store, memory.KindFact, "Alpha", "first body")
	b := remember(t, store, memory.KindFact, "Beta", "second body")
	_, _, err := store.Relate(context.Background(), b.ID, "depends_on", a.ID)
	require.NoError(t, err)

	text, isErr := call(t, NewShowTool(store), map[string]any{"id": "alpha"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "# Alpha")
	assert.Contains(t, text, "first body")
	assert.Contains(t, text, "status: active")
	assert.NotContains(t, text, "---")
	assert.Contains(t, text, b.ID+" (depends_on)")

	text, isErr = call(t, NewShowTool(store), map[string]any{"id": "nothing-like-this"})
	assert.True(t, isErr)
	assert.Contains(t, text, "no matching entry")
}

func TestRelateAndSupersedeTools(t *testing.T) {
	store := newTestStore(t)
	a := remember(t, store, memory.KindDecision, "Use Flask", "x")
	b := remember(t, store, memory.KindDecision, "Use FastAPI", "y")

	text, isErr := call(t, NewRelateTool(store), map[string]any{
		"id": b.ID, "relation": "related_to", "target": "use-flask",
	})
	require.False(t, isErr, text)
	assert.Equal(t, "Linked "+b.ID+" -[related_to]-> "+a.ID, text)

	text, isErr = call(t, NewRelateTool(store), map[string]any{
		"id": b.ID, "relation": "bad type", "target": a.ID,
	})
	assert.True(t, isErr, text)

	text, isErr = call(t, NewSupersedeTool(store), map[string]any{"old_id": a.ID, "new_id": b.ID})
	require.False(t, isErr, text)
	assert.Contains(t, text, "superseded by "+b.ID)

	old, err := store.Load(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, memory.StatusSuperseded, old.Status())
	assert.Equal(t, memory.SupersededConfidence, old.Confidence)

	_, isErr = call(t, NewSupersedeTool(store), map[string]any{"old_id": "missing", "new_id": b.ID})
	assert.True(t, isErr)
}

func TestUpdateConfidenceTool(t *testing.T) {
	store := newTestStore(t)
	e := remember(t, store, memory.KindFact, "Alpha", "x")
	tool := NewUpdateConfidenceTool(store)

	text, isErr := call(t, tool, map[string]any{"id": e.ID, "confidence": 0.95})
	require.False(t, isErr, text)
	assert.Contains(t, text, "0.95")

	loaded, err := store.Load(context.Background(), e.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, loaded.Confidence, 1e-9)

	_, isErr = call(t, tool, map[string]any{"id": e.ID, "confidence": 1.5})
	assert.True(t, isErr)

	_, isErr = call(t, tool, map[string]any{"id": "missing", "confidence": 0.5})
	assert.True(t, isErr)
}

func TestStatsTool(t *testing.T) {
	store := newTestStore(t)
	remember(t, store, memory.KindFact, "A", "x", "go")
	remember(t, store, memory.KindError, "B", "y", "go", "ci")
	_, err := store.Journal(context.Background(), "iteration")
	require.NoError(t, err)

	text, isErr := call(t, NewStatsTool(store), nil)
	require.False(t, isErr)
	assert.Contains(t, text, "Knowledge entries: 2 (0 superseded)")
	assert.Contains(t, text, "Journal entries: 1")
	assert.Contains(t, text, "- go: 2")
	assert.Contains(t, text, "medium 2")
}

func TestIndexTool(t *testing.T) {
	store := newTestStore(t)
	remember(t, store, memory.KindFact, "A", "x")

	text, isErr := call(t, NewIndexTool(store), nil)
	require.False(t, isErr, text)
	assert.Contains(t, text, "Indexed 1 entries")

	raw, err := os.ReadFile(store.IndexPath())
	require.NoError(t, err)
	idx, err := memory.ReadIndex(raw)
	require.NoError(t, err)
	assert.Len(t, idx.Entries, 1)
}
