package retrieval

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Freekyn/Promptin/internal/cache"
	"github.com/Freekyn/Promptin/internal/corpus"
	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/scoring"
)

func TestMain(m *testing.M) {
	// each cache.TTL runs an expiry goroutine for the life of the process
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("github.com/hashicorp/golang-lru/v2/expirable.NewLRU[...].func1"))
}

// vectorEmbedder maps texts to fixed vectors by substring.
type vectorEmbedder struct {
	vectors map[string][]float32
	fail    map[string]bool
	delay   time.Duration
	calls   atomic.Int32
}

func (v *vectorEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v.calls.Add(1)
	if v.delay > 0 {
		select {
		case <-time.After(v.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	for key := range v.fail {
		if strings.Contains(text, key) {
			return nil, errors.New("embedding failed")
		}
	}
	for key, vec := range v.vectors {
		if strings.Contains(text, key) {
			return vec, nil
		}
	}
	return []float32{0, 0, 1}, nil
}

func entry(id, name, category, desc string, tags ...string) *framework.Entry {
	return &framework.Entry{
		ID:              id,
		Name:            name,
		Category:        category,
		Description:     desc,
		BasePrompt:      "Help with {USER_REQUEST}",
		DomainTags:      tags,
		OutputFormats:   []string{"document"},
		ComplexityLevel: framework.ComplexityMedium,
		Source:          framework.SourceCurated,
	}
}

func corpusEntries() []*framework.Entry {
	return []*framework.Entry{
		entry("kpi", "KPI Dashboard", "data_analysis", "Build dashboards for metrics", "data_science"),
		entry("fb", "Feedback Synthesis", "data_analysis", "Cluster customer feedback into themes", "data_science"),
		entry("story", "Story Arc", "creative_writing", "Three act narrative structure", "creative"),
		entry("swot", "SWOT Strategy", "business_strategy", "Strengths and weaknesses review", "business"),
	}
}

func dataAnalysis() framework.IntentAnalysis {
	return framework.IntentAnalysis{
		Intent:     "data_analysis",
		Domain:     "data_science",
		Complexity: framework.ComplexityMedium,
		Urgency:    framework.UrgencyMedium,
		OutputType: "dashboard",
		Keywords:   []string{"dashboard", "feedback", "customer", "metrics"},
	}
}

func TestDedupKeyPriority(t *testing.T) {
	assert.Equal(t, "id:a", DedupKey(&framework.Entry{ID: "a", Name: "A"}))
	assert.Equal(t, "name:story arc", DedupKey(&framework.Entry{Name: "Story Arc"}))
	key := DedupKey(&framework.Entry{BasePrompt: "hello"})
	assert.True(t, strings.HasPrefix(key, "prompt:"))
	assert.Len(t, strings.TrimPrefix(key, "prompt:"), 8)
}

func TestDedupeKeepsHigherSemanticScore(t *testing.T) {
	a := entry("a", "A", "x", "")
	b := entry("b", "B", "x", "")
	got := Merge(
		[]framework.Candidate{{Entry: a}, {Entry: b}, {Entry: a}},
		[]framework.Candidate{{Entry: b, SemanticScore: 0.8}, {Entry: b, SemanticScore: 0.7}},
	)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Entry.ID)
	assert.Equal(t, "b", got[1].Entry.ID)
	assert.Equal(t, 0.8, got[1].SemanticScore)
}

func TestLexicalUsesTopKeywords(t *testing.T) {
	r := New(corpus.NewMemoryCatalog(corpusEntries()), nil, nil, Options{TopKeywords: 1}, nil)
	got, err := r.Lexical(context.Background(), dataAnalysis())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, c := range got {
		assert.NotEqual(t, "fb", c.Entry.ID, "second keyword must not be searched")
	}
}

func TestLexicalDeduplicates(t *testing.T) {
	a := dataAnalysis()
	a.Keywords = []string{"dashboard", "dashboards", "kpi"}
	r := New(corpus.NewMemoryCatalog(corpusEntries()), nil, nil, Options{}, nil)
	got, err := r.Lexical(context.Background(), a)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, c := range got {
		assert.False(t, seen[c.Entry.ID], "duplicate %s", c.Entry.ID)
		seen[c.Entry.ID] = true
	}
}

func TestNeedsSemantic(t *testing.T) {
	r := New(corpus.NewMemoryCatalog(nil), nil, nil, Options{}, nil)
	strong := framework.ScoredCandidate{RelevanceScore: 90}
	weak := framework.ScoredCandidate{RelevanceScore: 40}
	assert.True(t, r.NeedsSemantic(nil))
	assert.True(t, r.NeedsSemantic([]framework.ScoredCandidate{strong, strong}))
	assert.True(t, r.NeedsSemantic([]framework.ScoredCandidate{weak, weak, weak}))
	assert.False(t, r.NeedsSemantic([]framework.ScoredCandidate{strong, weak, weak}))
}

func TestPrefilter(t *testing.T) {
	got := Prefilter(corpusEntries(), dataAnalysis())
	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []string{"kpi", "fb"}, ids)

	creative := dataAnalysis()
	creative.Domain = "music"
	creative.Keywords = []string{"narrative"}
	got = Prefilter(corpusEntries(), creative)
	require.Len(t, got, 1)
	assert.Equal(t, "story", got[0].ID)
}

func TestSemanticSearch(t *testing.T) {
	emb := &vectorEmbedder{vectors: map[string][]float32{
		"customer complaints": {1, 0, 0},
		"Feedback Synthesis":  {0.9, 0.1, 0},
		"KPI Dashboard":       {0, 1, 0},
	}}
	vectors := cache.New[string, []float32](16, time.Hour)
	r := New(corpus.NewMemoryCatalog(corpusEntries()), emb, vectors, Options{}, nil)

	hits, err := r.Semantic(context.Background(), dataAnalysis(), "customer complaints")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "fb", hits[0].Entry.ID)
	assert.Greater(t, hits[0].SemanticScore, 0.65)

	calls := emb.calls.Load()
	_, err = r.Semantic(context.Background(), dataAnalysis(), "customer complaints")
	require.NoError(t, err)
	assert.Equal(t, calls, emb.calls.Load(), "second search is served from the embedding cache")
}

func TestSemanticSearchSkipsFailedItems(t *testing.T) {
	emb := &vectorEmbedder{
		vectors: map[string][]float32{"customer complaints": {1, 0, 0}, "KPI Dashboard": {1, 0, 0}},
		fail:    map[string]bool{"Feedback Synthesis": true},
	}
	r := New(corpus.NewMemoryCatalog(corpusEntries()), emb, nil, Options{}, nil)
	hits, err := r.Semantic(context.Background(), dataAnalysis(), "customer complaints")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "kpi", hits[0].Entry.ID)
}

func TestSemanticSearchRequestEmbeddingFails(t *testing.T) {
	emb := &vectorEmbedder{fail: map[string]bool{"broken": true}}
	r := New(corpus.NewMemoryCatalog(corpusEntries()), emb, nil, Options{}, nil)
	_, err := r.Semantic(context.Background(), dataAnalysis(), "broken request")
	assert.Error(t, err)
}

func TestSemanticBatchTimeout(t *testing.T) {
	emb := &vectorEmbedder{delay: 200 * time.Millisecond}
	r := New(corpus.NewMemoryCatalog(corpusEntries()), emb, nil, Options{BatchTimeout: 20 * time.Millisecond}, nil)
	hits, err := r.Semantic(context.Background(), dataAnalysis(), "slow")
	assert.Error(t, err, "request embedding times out")
	assert.Empty(t, hits)
}

func TestSemanticFallsBackToWholeCorpus(t *testing.T) {
	emb := &vectorEmbedder{vectors: map[string][]float32{"odd request": {1, 0, 0}, "SWOT": {1, 0, 0}}}
	a := dataAnalysis()
	a.Domain = "astronomy"
	a.Keywords = []string{"telescope"}
	r := New(corpus.NewMemoryCatalog(corpusEntries()), emb, nil, Options{}, nil)
	hits, err := r.Semantic(context.Background(), a, "odd request")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "swot", hits[0].Entry.ID)
}

func TestRetrieveAugmentsWeakLexicalResults(t *testing.T) {
	emb := &vectorEmbedder{vectors: map[string][]float32{
		"customer complaints": {1, 0, 0},
		"Feedback Synthesis":  {1, 0, 0},
	}}
	a := dataAnalysis()
	a.Keywords = []string{"dashboard"}
	r := New(corpus.NewMemoryCatalog(corpusEntries()), emb, nil, Options{}, nil)

	res, err := r.Retrieve(context.Background(), a, "customer complaints", scoring.New(scoring.DefaultWeights(), nil))
	require.NoError(t, err)
	assert.True(t, res.SemanticRan)
	assert.Equal(t, 1, res.SemanticHits)

	ids := map[string]bool{}
	for _, c := range res.Candidates {
		ids[c.Framework.ID] = true
	}
	assert.True(t, ids["kpi"])
	assert.True(t, ids["fb"])
}

func TestRetrieveWithoutEmbedder(t *testing.T) {
	r := New(corpus.NewMemoryCatalog(corpusEntries()), nil, nil, Options{}, nil)
	res, err := r.Retrieve(context.Background(), dataAnalysis(), "x", scoring.New(scoring.DefaultWeights(), nil))
	require.NoError(t, err)
	assert.False(t, res.SemanticRan)
	assert.NotEmpty(t, res.Candidates)
}
