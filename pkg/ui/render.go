package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/broca/pkg/memory"
)

const (
	excerptWidth = 100
	barWidth     = 20
)

// Recall renders ranked results, best first.
func Recall(query string, results []memory.ScoredEntry) string {
	if len(results) == 0 {
		return mutedStyle.Render(fmt.Sprintf("No knowledge matches %q.", query)) + "\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Recall: %s", query)))
	b.WriteString("\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%2d. %s ", i+1, mutedStyle.Render(fmt.Sprintf("[%d]", r.Score)))
		writeEntry(&b, r.Entry)
	}
	return b.String()
}

// Entries renders a plain list such as search or recent results.
func Entries(heading string, entries []*memory.Entry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No entries.") + "\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", heading, len(entries))))
	b.WriteString("\n\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%2d. ", i+1)
		writeEntry(&b, e)
	}
	return b.String()
}

// Journal renders journal entries with their full summaries.
func Journal(entries []*memory.Entry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("The journal is empty.") + "\n"
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headerStyle.Render("Iteration " + e.Title))
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(e.Body))
		b.WriteString("\n")
	}
	return b.String()
}

func writeEntry(b *strings.Builder, e *memory.Entry) {
	title := titleStyle.Render(e.Title)
	if e.Status() == memory.StatusSuperseded {
		title = supersededStyle.Render(e.Title)
	}
	b.WriteString(title)
	b.WriteString(" ")
	b.WriteString(confidenceStyle(e.Confidence).Render(fmt.Sprintf("%.2f", e.Confidence)))
	b.WriteString("\n    ")
	b.WriteString(idStyle.Render(e.ID))
	meta := []string{string(e.Kind)}
	if len(e.Tags) > 0 {
		meta = append(meta, "#"+strings.Join(e.Tags, " #"))
	}
	if e.SupersededBy != "" {
		meta = append(meta, "superseded by "+e.SupersededBy)
	}
	b.WriteString(mutedStyle.Render("  " + strings.Join(meta, "  ")))
	b.WriteString("\n")
	if ex := firstLine(e.Body, excerptWidth); ex != "" {
		b.WriteString("    ")
		b.WriteString(ex)
		b.WriteString("\n")
	}
}

// Stats renders the store summary in a box.
func Stats(st *memory.Stats) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Memory"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "knowledge  %d (%d superseded)\n", st.KnowledgeCount, st.SupersededCount)
	fmt.Fprintf(&b, "journal    %d\n", st.JournalCount)

	if len(st.ByKind) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("By type"))
		b.WriteString("\n")
		for _, kc := range st.ByKind {
			fmt.Fprintf(&b, "%-12s %s %d\n", kc.Kind, bar(kc.Count, st.KnowledgeCount), kc.Count)
		}
	}

	if len(st.TopTags) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Top tags"))
		b.WriteString("\n")
		for _, tc := range st.TopTags {
			fmt.Fprintf(&b, "%-12s %d\n", tc.Tag, tc.Count)
		}
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Confidence"))
	b.WriteString("\n")
	buckets := []struct {
		label string
		n     int
		c     float64
	}{
		{"high", st.Confidence.High, 1},
		{"medium", st.Confidence.Medium, 0.6},
		{"low", st.Confidence.Low, 0},
	}
	for _, bk := range buckets {
		fmt.Fprintf(&b, "%-12s %s %d\n", bk.label,
			confidenceStyle(bk.c).Render(bar(bk.n, st.KnowledgeCount)), bk.n)
	}
	fmt.Fprintf(&b, "average      %.2f", st.AverageConfidence)
	return boxStyle.Render(b.String()) + "\n"
}

// Graph renders edges grouped by source entry.
func Graph(edges []memory.Edge) string {
	if len(edges) == 0 {
		return mutedStyle.Render("No relations.") + "\n"
	}
	var b strings.Builder
	from := ""
	for _, e := range edges {
		if e.From != from {
			from = e.From
			b.WriteString(idStyle.Render(from))
			b.WriteString("\n")
		}
		label := e.Label
		if label == memory.SupersededByLabel {
			label = lipgloss.NewStyle().Foreground(salmonPink).Render(label)
		}
		fmt.Fprintf(&b, "  └─%s─▶ %s\n", label, e.To)
	}
	return b.String()
}

// bar draws n out of total as a fixed-width block bar.
func bar(n, total int) string {
	filled := 0
	if total > 0 {
		filled = n * barWidth / total
	}
	if n > 0 && filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func firstLine(s string, max int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	r := []rune(line)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return line
}
