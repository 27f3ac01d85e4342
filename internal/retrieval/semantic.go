package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Freekyn/Promptin/internal/cache"
	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/llm"
)

const embeddingKeyPrefix = "emb"

// Semantic embeds the request and the pre-filtered corpus and returns the
// entries whose cosine similarity exceeds the configured threshold, most
// similar first. Entries whose embedding fails are skipped; only a failure
// to embed the request itself is returned as an error.
func (r *Retriever) Semantic(ctx context.Context, a framework.IntentAnalysis, requestText string) ([]framework.Candidate, error) {
	if r.embedder == nil {
		return nil, fmt.Errorf("semantic search: no embedding provider")
	}

	all, err := r.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("semantic search: load corpus: %w", err)
	}
	pool := Prefilter(all, a)
	if len(pool) == 0 {
		pool = all
		if len(pool) > r.opts.PrefilterFallback {
			pool = pool[:r.opts.PrefilterFallback]
		}
	}
	if len(pool) == 0 {
		return nil, nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.opts.BatchTimeout)
	query, err := r.embed(reqCtx, requestText)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("semantic search: embed request: %w", err)
	}

	sims := make([]float64, len(pool))
	embedded := make([]bool, len(pool))
	failures := 0

	for start := 0; start < len(pool); start += r.opts.BatchSize {
		if ctx.Err() != nil {
			break
		}
		end := min(start+r.opts.BatchSize, len(pool))

		batchCtx, cancel := context.WithTimeout(ctx, r.opts.BatchTimeout)
		var g errgroup.Group
		g.SetLimit(r.opts.Concurrency)
		for i := start; i < end; i++ {
			g.Go(func() error {
				vec, err := r.embed(batchCtx, EmbeddingText(pool[i]))
				if err != nil {
					return nil
				}
				sims[i] = float64(llm.CosineSimilarity(query, vec))
				embedded[i] = true
				return nil
			})
		}
		_ = g.Wait()
		cancel()

		for i := start; i < end; i++ {
			if !embedded[i] {
				failures++
			}
		}
		r.logger.Debug("semantic batch done", "from", start, "to", end)
	}
	if failures > 0 {
		r.logger.Warn("some framework embeddings failed", "failed", failures, "total", len(pool))
	}

	var hits []framework.Candidate
	for i, e := range pool {
		if embedded[i] && sims[i] > r.opts.SimilarityThreshold {
			hits = append(hits, framework.Candidate{Entry: e, SemanticScore: sims[i]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].SemanticScore > hits[j].SemanticScore
	})
	return hits, nil
}

// embed returns the vector for text, consulting the embedding cache first.
func (r *Retriever) embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.Key(embeddingKeyPrefix, text)
	if r.vectors != nil {
		if vec, ok := r.vectors.Get(key); ok {
			return vec, nil
		}
	}
	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if r.vectors != nil {
		r.vectors.Set(key, vec)
	}
	return vec, nil
}

// EmbeddingText is the text embedded for an entry.
func EmbeddingText(e *framework.Entry) string {
	return e.Name + " " + e.Description + " " + e.Category
}

// Prefilter keeps entries whose category contains the analysis domain, whose
// domain tags include it, or whose name and description mention a keyword.
// This can drop a good semantic match whose metadata is sparse.
func Prefilter(entries []*framework.Entry, a framework.IntentAnalysis) []*framework.Entry {
	domain := strings.ToLower(a.Domain)
	keywords := make([]string, 0, len(a.Keywords))
	for _, kw := range a.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	var out []*framework.Entry
	for _, e := range entries {
		if domain != "" && (strings.Contains(strings.ToLower(e.Category), domain) || e.HasDomainTag(domain)) {
			out = append(out, e)
			continue
		}
		text := strings.ToLower(e.Text())
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
