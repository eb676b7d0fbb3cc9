package memory

import (
	"context"
	"sort"
)

const (
	topTagLimit = 10

	highConfidence   = 0.9
	mediumConfidence = 0.6
)

// TagCount is the number of knowledge entries carrying a tag.
type TagCount struct {
	Tag   string
	Count int
}

// KindCount is the number of knowledge entries of a kind.
type KindCount struct {
	Kind  Kind
	Count int
}

// ConfidenceBuckets splits knowledge entries into High (>= 0.9),
// Medium ([0.6, 0.9)) and Low (< 0.6).
type ConfidenceBuckets struct {
	High   int
	Medium int
	Low    int
}

// Stats is a derived summary of the store.
type Stats struct {
	KnowledgeCount    int
	JournalCount      int
	SupersededCount   int
	ByKind            []KindCount
	TopTags           []TagCount
	Confidence        ConfidenceBuckets
	AverageConfidence float64
}

// Stats scans both namespaces and aggregates them.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	knowledge, err := s.ListKnowledge(ctx)
	if err != nil {
		return nil, err
	}
	journal, err := s.ListJournal(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		KnowledgeCount: len(knowledge),
		JournalCount:   len(journal),
		ByKind:         []KindCount{},
		TopTags:        []TagCount{},
	}

	kindCounts := make(map[Kind]int)
	tagCounts := make(map[string]int)
	var tagOrder []string
	total := 0.0
	for _, e := range knowledge {
		kindCounts[e.Kind]++
		for _, tag := range e.Tags {
			if _, seen := tagCounts[tag]; !seen {
				tagOrder = append(tagOrder, tag)
			}
			tagCounts[tag]++
		}
		switch {
		case e.Confidence >= highConfidence:
			st.Confidence.High++
		case e.Confidence >= mediumConfidence:
			st.Confidence.Medium++
		default:
			st.Confidence.Low++
		}
		if e.SupersededBy != "" {
			st.SupersededCount++
		}
		total += e.Confidence
	}
	if len(knowledge) > 0 {
		st.AverageConfidence = total / float64(len(knowledge))
	}

	// A journal-typed file misplaced in the knowledge directory is still
	// counted so that the per-kind counts add up to KnowledgeCount.
	for _, k := range append(append([]Kind{}, KnowledgeKinds...), KindJournal) {
		if n := kindCounts[k]; n > 0 {
			st.ByKind = append(st.ByKind, KindCount{Kind: k, Count: n})
		}
	}
	sort.SliceStable(st.ByKind, func(i, j int) bool {
		return st.ByKind[i].Count > st.ByKind[j].Count
	})

	for _, tag := range tagOrder {
		st.TopTags = append(st.TopTags, TagCount{Tag: tag, Count: tagCounts[tag]})
	}
	sort.SliceStable(st.TopTags, func(i, j int) bool {
		return st.TopTags[i].Count > st.TopTags[j].Count
	})
	if len(st.TopTags) > topTagLimit {
		st.TopTags = st.TopTags[:topTagLimit]
	}
	return st, nil
}

// KindTotal sums the per-kind counts.
func (st *Stats) KindTotal() int {
	n := 0
	for _, kc := range st.ByKind {
		n += kc.Count
	}
	return n
}
