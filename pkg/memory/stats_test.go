package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	add := func(kind Kind, title string, tags ...string) *Entry {
		e, err := s.Remember(ctx, kind, title, "c", tags)
		require.NoError(t, err)
		clock.Advance(time.Second)
		return e
	}
	one := add(KindFact, "Fact One", "go", "storage")
	add(KindFact, "Fact Two", "go")
	three := add(KindDecision, "A Decision", "storage", "arch")
	add(KindProcedure, "Steps", "ops")
	_, err := s.Journal(ctx, "iteration")
	require.NoError(t, err)

	_, err = s.UpdateConfidence(ctx, one.ID, 0.95)
	require.NoError(t, err)
	_, err = s.Supersede(ctx, three.ID, one.ID)
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, st.KnowledgeCount)
	assert.Equal(t, 1, st.JournalCount)
	assert.Equal(t, 1, st.SupersededCount)
	assert.Equal(t, []KindCount{
		{Kind: KindFact, Count: 2},
		{Kind: KindDecision, Count: 1},
		{Kind: KindProcedure, Count: 1},
	}, st.ByKind)
	assert.Equal(t, st.KnowledgeCount, st.KindTotal())
	assert.Equal(t, []TagCount{
		{Tag: "go", Count: 2},
		{Tag: "storage", Count: 2},
		{Tag: "arch", Count: 1},
		{Tag: "ops", Count: 1},
	}, st.TopTags)
	assert.Equal(t, ConfidenceBuckets{High: 1, Medium: 2, Low: 1}, st.Confidence)
	assert.InDelta(t, (0.95+0.8+0.3+0.8)/4, st.AverageConfidence, 1e-9)
}

func TestStatsTopTagsLimit(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var tags []string
	for i := 0; i < 12; i++ {
		tags = append(tags, fmt.Sprintf("t%02d", i))
	}
	_, err := s.Remember(ctx, KindFact, "Many tags", "c", tags)
	require.NoError(t, err)
	_, err = s.Remember(ctx, KindFact, "Popular", "c", []string{"t11"})
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, st.TopTags, 10)
	assert.Equal(t, TagCount{Tag: "t11", Count: 2}, st.TopTags[0])
	assert.Equal(t, "t00", st.TopTags[1].Tag)
	assert.Equal(t, "t08", st.TopTags[9].Tag)
}

func TestStatsEmptyStore(t *testing.T) {
	s, _ := newTestStore(t)
	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.KnowledgeCount)
	assert.Zero(t, st.JournalCount)
	assert.Empty(t, st.ByKind)
	assert.Empty(t, st.TopTags)
	assert.Zero(t, st.AverageConfidence)
	assert.Equal(t, 0, st.KindTotal())
}
