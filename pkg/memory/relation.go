package memory

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// SupersededByLabel labels supersession edges returned by Graph.
const SupersededByLabel = "superseded_by"

// Edge is one directed, labeled link between two entries. Edges form a
// multigraph: the same pair may be linked several times and cycles are
// allowed.
type Edge struct {
	From  string
	To    string
	Label string
}

// Relate appends a (relationType, target) annotation to the referenced
// entry and returns the updated entry with the relation as written. The
// type is folded to lowercase. The target is resolved when possible and
// recorded verbatim otherwise; it is never required to exist.
func (s *Store) Relate(ctx context.Context, ref, relationType, target string) (*Entry, Relation, error) {
	relationType = strings.ToLower(strings.TrimSpace(relationType))
	targetID, err := s.targetID(ctx, target)
	if err != nil {
		return nil, Relation{}, err
	}
	rel := Relation{Type: relationType, Target: targetID}
	if !relationLine.MatchString(renderRelation(rel)) {
		return nil, Relation{}, fmt.Errorf("%w: relation type %q", ErrInvalidInput, relationType)
	}
	e, err := s.rewrite(ctx, ref, func(raw string) (string, error) {
		return appendRelation(raw, rel), nil
	})
	if err != nil {
		return nil, Relation{}, err
	}
	return e, rel, nil
}

// Supersede marks the entry named by oldRef as replaced by newRef and
// drops its confidence to SupersededConfidence. Superseding an entry again
// overwrites the previous successor.
func (s *Store) Supersede(ctx context.Context, oldRef, newRef string) (*Entry, error) {
	newID, err := s.targetID(ctx, newRef)
	if err != nil {
		return nil, err
	}
	return s.rewrite(ctx, oldRef, func(raw string) (string, error) {
		updated, err := setHeaderField(raw, "superseded_by", yamlScalar(newID))
		if err != nil {
			return "", err
		}
		return setHeaderField(updated, "confidence", formatConfidence(SupersededConfidence))
	})
}

// targetID turns a reference into an id when it resolves, and otherwise
// keeps the reference as written.
func (s *Store) targetID(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.ContainsAny(ref, "\r\n") {
		return "", fmt.Errorf("%w: target %q", ErrInvalidInput, ref)
	}
	path, err := s.Resolve(ctx, ref)
	switch {
	case err == nil:
		return entryID(path), nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
		return ref, nil
	default:
		return "", err
	}
}

// Graph returns every relation and supersession edge among knowledge
// entries, in id order of the source entry.
func (s *Store) Graph(ctx context.Context) ([]Edge, error) {
	entries, err := s.ListKnowledge(ctx)
	if err != nil {
		return nil, err
	}
	var edges []Edge
	for _, e := range entries {
		edges = append(edges, entryEdges(e)...)
	}
	return edges, nil
}

// EdgesOf returns the edges leaving and entering the referenced entry.
func (s *Store) EdgesOf(ctx context.Context, ref string) (out, in []Edge, err error) {
	e, err := s.Load(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	all, err := s.Graph(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, edge := range all {
		if edge.From == e.ID {
			out = append(out, edge)
		}
		if edge.To == e.ID {
			in = append(in, edge)
		}
	}
	return out, in, nil
}

func entryEdges(e *Entry) []Edge {
	edges := make([]Edge, 0, len(e.Relations)+1)
	for _, r := range e.Relations {
		edges = append(edges, Edge{From: e.ID, To: r.Target, Label: r.Type})
	}
	if e.SupersededBy != "" {
		edges = append(edges, Edge{From: e.ID, To: e.SupersededBy, Label: SupersededByLabel})
	}
	return edges
}

// LatestVersion follows superseded_by links forward from ref and returns
// the id at the end of the chain. A cycle stops the walk at the first
// repeated id; a successor that is not stored ends it as well.
func (s *Store) LatestVersion(ctx context.Context, ref string) (string, error) {
	start, err := s.Load(ctx, ref)
	if err != nil {
		return "", err
	}
	entries, err := s.ListKnowledge(ctx)
	if err != nil {
		return start.ID, err
	}
	successor := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.SupersededBy != "" {
			successor[e.ID] = e.SupersededBy
		}
	}

	current := start.ID
	visited := make(map[string]bool)
	for !visited[current] {
		visited[current] = true
		next, ok := successor[current]
		if !ok {
			return current, nil
		}
		current = next
	}
	return current, nil
}

func entryID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), fileExt)
}
