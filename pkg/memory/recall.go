package memory

import (
	"context"
	"math"
	"sort"
	"strings"
)

const (
	// DefaultRecallLimit bounds Recall when the caller passes no limit.
	DefaultRecallLimit = 10

	bodyMatchCap    = 5
	bodyMatchPoints = 2
	titlePoints     = 3
	tagPoints       = 2
	recencyPoints   = 1
)

// ScoredEntry pairs an entry with its recall score.
type ScoredEntry struct {
	Score int
	Entry *Entry
}

// Tokenize splits query on whitespace and lowercases each token. Repeated
// tokens are dropped so each counts once.
func Tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]bool, len(fields))
	tokens := fields[:0]
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Score rates e against already tokenized input. The second result is
// false when no token occurs in the body, in which case the entry must not
// be returned at all.
func Score(e *Entry, tokens []string) (int, bool) {
	body := strings.ToLower(e.Body)
	bodyHits := 0
	for _, tok := range tokens {
		if strings.Contains(body, tok) {
			bodyHits++
		}
	}
	if bodyHits == 0 {
		return 0, false
	}
	score := min(bodyHits, bodyMatchCap) * bodyMatchPoints

	title := strings.ToLower(e.Title)
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			score += titlePoints
		}
		for _, tag := range e.Tags {
			if strings.Contains(strings.ToLower(tag), tok) {
				score += tagPoints
			}
		}
	}

	score += int(math.Floor(e.Confidence * 2))
	score += recencyPoints
	return score, true
}

// Recall ranks knowledge entries against query, highest score first and
// newest first among equal scores. limit <= 0 means DefaultRecallLimit.
func (s *Store) Recall(ctx context.Context, query string, limit int) ([]ScoredEntry, error) {
	if limit <= 0 {
		limit = DefaultRecallLimit
	}
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return []ScoredEntry{}, nil
	}
	entries, err := s.ListKnowledge(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ScoredEntry, 0, len(entries))
	for _, e := range entries {
		if score, ok := Score(e, tokens); ok {
			results = append(results, ScoredEntry{Score: score, Entry: e})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return newerFirst(results[i].Entry, results[j].Entry)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Search returns knowledge entries whose file text contains query,
// ignoring case.
func (s *Store) Search(ctx context.Context, query string) ([]*Entry, error) {
	entries, err := s.ListKnowledge(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Raw), q) {
			out = append(out, e)
		}
	}
	return out, nil
}

// SearchByTag returns knowledge entries having at least one tag that
// contains tag, ignoring case.
func (s *Store) SearchByTag(ctx context.Context, tag string) ([]*Entry, error) {
	entries, err := s.ListKnowledge(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(tag))
	out := make([]*Entry, 0)
	for _, e := range entries {
		for _, t := range e.Tags {
			if strings.Contains(strings.ToLower(t), needle) {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

// Recent returns the n newest knowledge entries. n <= 0 returns all of them.
func (s *Store) Recent(ctx context.Context, n int) ([]*Entry, error) {
	entries, err := s.ListKnowledge(ctx)
	if err != nil {
		return nil, err
	}
	return newest(entries, n), nil
}

// RecentJournal returns the n newest journal entries. n <= 0 returns all.
func (s *Store) RecentJournal(ctx context.Context, n int) ([]*Entry, error) {
	entries, err := s.ListJournal(ctx)
	if err != nil {
		return nil, err
	}
	return newest(entries, n), nil
}

func newest(entries []*Entry, n int) []*Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return newerFirst(entries[i], entries[j])
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// newerFirst orders by creation time descending, then id descending so
// that same-second entries keep a stable order.
func newerFirst(a, b *Entry) bool {
	if !a.Created.Equal(b.Created) {
		return a.Created.After(b.Created)
	}
	return a.ID > b.ID
}
