package ui

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// Highlight colors markdown text for a 256-color terminal.
func Highlight(markdown string) (string, error) {
	var b strings.Builder
	if err := quick.Highlight(&b, markdown, "markdown", highlightFormatter, highlightStyle); err != nil {
		return "", err
	}
	return b.String(), nil
}
