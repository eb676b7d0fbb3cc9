package memorytools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/broca/pkg/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// errorResult reports a failed store operation to the caller.
func errorResult(action string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, memory.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("%s: no matching entry (%v)", action, err))
	case errors.Is(err, memory.ErrInvalidInput):
		return mcp.NewToolResultError(fmt.Sprintf("%s: invalid arguments (%v)", action, err))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", action, err))
	}
}

// stringList reads a list argument given either as an array of strings or
// as a comma-separated string.
func stringList(req mcp.CallToolRequest, key string) []string {
	if s, ok := req.GetArguments()[key].(string); ok {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return req.GetStringSlice(key, nil)
}

// writeEntryLine renders one entry as a list item introduced by label.
func writeEntryLine(b *strings.Builder, label string, e *memory.Entry) {
	fmt.Fprintf(b, "%s [%s] %s (%s, confidence %.2f", label, e.ID, e.Title, e.Kind, e.Confidence)
	if len(e.Tags) > 0 {
		fmt.Fprintf(b, ", tags: %s", strings.Join(e.Tags, ", "))
	}
	b.WriteString(")")
	if e.SupersededBy != "" {
		fmt.Fprintf(b, " [SUPERSEDED by %s]", e.SupersededBy)
	}
	b.WriteString("\n")
}

// excerpt returns the first line of body, shortened to max runes.
func excerpt(body string, max int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(body), "\n")
	r := []rune(line)
	if len(r) > max {
		return string(r[:max]) + "..."
	}
	return line
}
