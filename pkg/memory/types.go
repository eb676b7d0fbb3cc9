package memory

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies an entry. Knowledge kinds and the journal kind share a
// record shape but live in separate directories.
type Kind string

const (
	KindFact        Kind = "fact"
	KindDecision    Kind = "decision"
	KindObservation Kind = "observation"
	KindError       Kind = "error"
	KindProcedure   Kind = "procedure"
	KindJournal     Kind = "journal"
)

// KnowledgeKinds lists the kinds accepted by Remember, in display order.
var KnowledgeKinds = []Kind{KindFact, KindDecision, KindObservation, KindError, KindProcedure}

// ParseKind maps a case-insensitive name to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindFact, KindDecision, KindObservation, KindError, KindProcedure, KindJournal:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown entry type %q", ErrInvalidInput, s)
}

// IsKnowledge reports whether k belongs to the knowledge namespace.
func (k Kind) IsKnowledge() bool {
	return k != KindJournal && k != ""
}

const (
	// DefaultConfidence is assigned by Remember.
	DefaultConfidence = 0.8
	// MissingConfidence is assumed when a stored entry has no confidence line.
	MissingConfidence = 0.5
	// SupersededConfidence replaces the confidence of a superseded entry.
	SupersededConfidence = 0.3
)

// Relation is a labeled edge from the owning entry to Target.
type Relation struct {
	Type   string
	Target string
}

// Status is the lifecycle state of an entry.
type Status string

const (
	StatusActive     Status = "active"
	StatusSuperseded Status = "superseded"
)

// Entry is one knowledge or journal record.
type Entry struct {
	ID           string
	Kind         Kind
	Title        string
	Body         string
	Tags         []string
	Confidence   float64
	Created      time.Time
	SupersededBy string
	Relations    []Relation

	// Path is the file the entry was loaded from or written to.
	Path string
	// Raw holds the file contents as read from disk.
	Raw string
}

// Filename returns the entry's base filename.
func (e *Entry) Filename() string {
	return e.ID + fileExt
}

// Status reports whether the entry has been superseded.
func (e *Entry) Status() Status {
	if e.SupersededBy != "" {
		return StatusSuperseded
	}
	return StatusActive
}

// HasTag reports whether the entry carries tag (case-insensitive, exact).
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
