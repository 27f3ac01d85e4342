// Package retrieval builds the candidate set for a request: lexical search
// over the corpus first, semantic search over embeddings only when lexical
// recall looks poor.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Freekyn/Promptin/internal/cache"
	"github.com/Freekyn/Promptin/internal/corpus"
	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/llm"
)

// Options tune retrieval. Zero values take the defaults below.
type Options struct {
	TopKeywords   int     `mapstructure:"topKeywords" validate:"gte=0"`
	MaxPerKeyword int     `mapstructure:"maxPerKeyword" validate:"gte=0"`
	Threshold     float64 `mapstructure:"threshold" validate:"gte=0,lte=1"`

	// Semantic search runs when the best lexical score is below
	// SemanticMinScore or fewer than SemanticMinCandidates were found.
	SemanticMinScore      float64 `mapstructure:"semanticMinScore" validate:"gte=0,lte=100"`
	SemanticMinCandidates int     `mapstructure:"semanticMinCandidates" validate:"gte=0"`
	SimilarityThreshold   float64 `mapstructure:"similarityThreshold" validate:"gte=0,lte=1"`

	BatchSize         int           `mapstructure:"-"`
	BatchTimeout      time.Duration `mapstructure:"-"`
	Concurrency       int           `mapstructure:"-"`
	PrefilterFallback int           `mapstructure:"-"`
}

// DefaultOptions returns the standard retrieval settings.
func DefaultOptions() Options {
	return Options{
		TopKeywords:           3,
		MaxPerKeyword:         10,
		Threshold:             0.6,
		SemanticMinScore:      70,
		SemanticMinCandidates: 3,
		SimilarityThreshold:   0.65,
		BatchSize:             10,
		BatchTimeout:          5 * time.Second,
		Concurrency:           4,
		PrefilterFallback:     100,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopKeywords <= 0 {
		o.TopKeywords = d.TopKeywords
	}
	if o.MaxPerKeyword <= 0 {
		o.MaxPerKeyword = d.MaxPerKeyword
	}
	if o.Threshold <= 0 {
		o.Threshold = d.Threshold
	}
	if o.SemanticMinScore <= 0 {
		o.SemanticMinScore = d.SemanticMinScore
	}
	if o.SemanticMinCandidates <= 0 {
		o.SemanticMinCandidates = d.SemanticMinCandidates
	}
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = d.SimilarityThreshold
	}
	if o.BatchSize <= 0 {
		o.BatchSize = d.BatchSize
	}
	if o.BatchTimeout <= 0 {
		o.BatchTimeout = d.BatchTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = d.Concurrency
	}
	if o.PrefilterFallback <= 0 {
		o.PrefilterFallback = d.PrefilterFallback
	}
	return o
}

// Ranker scores candidates against an analysis, best first.
type Ranker interface {
	Rank(candidates []framework.Candidate, a framework.IntentAnalysis) []framework.ScoredCandidate
}

// Result is the outcome of one retrieval.
type Result struct {
	Candidates   []framework.ScoredCandidate
	SemanticRan  bool
	SemanticHits int
}

// Retriever combines lexical and semantic search over a corpus.
type Retriever struct {
	store    corpus.Store
	embedder llm.Embedder
	vectors  *cache.TTL[string, []float32]
	opts     Options
	logger   *slog.Logger
}

// New creates a Retriever. embedder may be nil, which disables semantic
// search; vectors may be nil, which disables embedding caching.
func New(store corpus.Store, embedder llm.Embedder, vectors *cache.TTL[string, []float32], opts Options, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		store:    store,
		embedder: embedder,
		vectors:  vectors,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// Retrieve runs lexical search, ranks the result and, when recall is poor,
// augments it with semantic search and ranks again. A failed semantic search
// leaves the lexical ranking in place.
func (r *Retriever) Retrieve(ctx context.Context, a framework.IntentAnalysis, requestText string, ranker Ranker) (Result, error) {
	lexical, err := r.Lexical(ctx, a)
	if err != nil {
		return Result{}, err
	}
	ranked := ranker.Rank(lexical, a)
	if !r.NeedsSemantic(ranked) || r.embedder == nil {
		return Result{Candidates: ranked}, nil
	}

	hits, err := r.Semantic(ctx, a, requestText)
	if err != nil {
		r.logger.Warn("semantic search failed, keeping lexical results", "error", err)
		return Result{Candidates: ranked}, nil
	}
	merged := Merge(lexical, hits)
	return Result{
		Candidates:   ranker.Rank(merged, a),
		SemanticRan:  true,
		SemanticHits: len(hits),
	}, nil
}

// Lexical searches the corpus with the top keywords of a and returns the
// deduplicated union of the hits.
func (r *Retriever) Lexical(ctx context.Context, a framework.IntentAnalysis) ([]framework.Candidate, error) {
	keywords := a.Keywords
	if len(keywords) > r.opts.TopKeywords {
		keywords = keywords[:r.opts.TopKeywords]
	}

	var found []framework.Candidate
	for _, kw := range keywords {
		entries, err := r.store.Search(ctx, kw, corpus.SearchOptions{
			MaxResults: r.opts.MaxPerKeyword,
			Threshold:  r.opts.Threshold,
		})
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", kw, err)
		}
		for _, e := range entries {
			found = append(found, framework.Candidate{Entry: e})
		}
	}
	return Dedupe(found), nil
}

// NeedsSemantic reports whether ranked lexical results are too weak or too
// few to stand alone.
func (r *Retriever) NeedsSemantic(ranked []framework.ScoredCandidate) bool {
	if len(ranked) < r.opts.SemanticMinCandidates {
		return true
	}
	return ranked[0].RelevanceScore < r.opts.SemanticMinScore
}
