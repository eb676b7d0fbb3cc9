package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// IndexEntry is the projection of one knowledge entry kept in the index.
type IndexEntry struct {
	File         string   `yaml:"file"`
	Title        string   `yaml:"title"`
	Kind         Kind     `yaml:"type"`
	Tags         []string `yaml:"tags,flow"`
	Confidence   float64  `yaml:"confidence"`
	Created      string   `yaml:"created"`
	SupersededBy string   `yaml:"superseded_by,omitempty"`
}

// IndexSnapshot summarizes every knowledge entry at one point in time. It
// is a cache: any write to the store makes it stale, and it is rebuilt
// rather than patched.
type IndexSnapshot struct {
	Generated time.Time    `yaml:"-"`
	Entries   []IndexEntry `yaml:"entries"`
}

// Snapshot projects the current knowledge entries without writing anything.
func (s *Store) Snapshot(ctx context.Context) (*IndexSnapshot, error) {
	entries, err := s.ListKnowledge(ctx)
	if err != nil {
		return nil, err
	}
	idx := &IndexSnapshot{
		Generated: s.now().UTC().Truncate(time.Second),
		Entries:   make([]IndexEntry, 0, len(entries)),
	}
	for _, e := range entries {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		idx.Entries = append(idx.Entries, IndexEntry{
			File:         e.Filename(),
			Title:        e.Title,
			Kind:         e.Kind,
			Tags:         tags,
			Confidence:   e.Confidence,
			Created:      e.Created.UTC().Format(createdLayout),
			SupersededBy: e.SupersededBy,
		})
	}
	return idx, nil
}

// BuildIndex takes a snapshot and writes it to IndexPath, replacing any
// previous index.
func (s *Store) BuildIndex(ctx context.Context) (*IndexSnapshot, error) {
	idx, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	b, err := idx.Marshal()
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(s.IndexPath(), b); err != nil {
		return nil, err
	}
	return idx, nil
}

// Marshal renders the snapshot as YAML preceded by a comment header.
func (idx *IndexSnapshot) Marshal() ([]byte, error) {
	body, err := yaml.Marshal(idx)
	if err != nil {
		return nil, fmt.Errorf("memory: marshal index: %w", err)
	}
	var sb strings.Builder
	sb.WriteString("# Memory index, regenerate with `broca memory index`\n")
	fmt.Fprintf(&sb, "# Generated: %s\n", idx.Generated.Format(createdLayout))
	fmt.Fprintf(&sb, "# Entries: %d\n", len(idx.Entries))
	sb.Write(body)
	return []byte(sb.String()), nil
}

// ReadIndex loads a previously written index file.
func ReadIndex(raw []byte) (*IndexSnapshot, error) {
	var idx IndexSnapshot
	if err := yaml.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("memory: parse index: %w", err)
	}
	for _, line := range strings.Split(string(raw), "\n") {
		if v, ok := strings.CutPrefix(line, "# Generated: "); ok {
			if t, ok := parseCreated(v); ok {
				idx.Generated = t
			}
			break
		}
	}
	return &idx, nil
}
