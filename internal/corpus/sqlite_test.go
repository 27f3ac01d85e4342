package corpus

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freekyn/Promptin/internal/framework"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	in := entry("synth-1", "Launch Plan", "business_strategy", "Plan a product launch")
	in.OutputFormats = []string{"report", "presentation"}
	in.DomainTags = []string{"business", "marketing"}
	in.Models = []string{"GPT-4o"}
	in.Source = framework.SourceAIGenerated
	in.Methodology = []string{"research", "position", "launch"}
	require.NoError(t, s.Insert(ctx, in))

	got, err := s.Get(ctx, "synth-1")
	require.NoError(t, err)
	if diff := cmp.Diff(in, got, cmpopts.IgnoreFields(framework.Entry{}, "CreatedAt"), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	err = s.Insert(ctx, in)
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStoreSearchAndStats(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	for _, e := range []*framework.Entry{
		entry("1", "Dashboard Builder", "data_analysis", "KPI dashboards"),
		entry("2", "Metric Tree", "data_analysis", "Decompose a north star metric"),
		entry("3", "Story Arc", "creative_writing", "Narrative beats"),
	} {
		require.NoError(t, s.Insert(ctx, e))
	}

	found, err := s.SearchLike(ctx, "metric", "", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "2", found[0].ID)

	found, err = s.SearchLike(ctx, "a", "creative_writing", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "3", found[0].ID)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, CategoryCount{Category: "data_analysis", Count: 2}, st.Categories[0])
}

func TestCatalogOverSQLite(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	c, err := NewCatalog(ctx, s, nil)
	require.NoError(t, err)
	require.NoError(t, c.Append(ctx, entry("p", "Persisted", "general", "kept across restarts")))

	reopened, err := NewCatalog(ctx, s, nil)
	require.NoError(t, err)
	got, err := reopened.ByID(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Name)
}
