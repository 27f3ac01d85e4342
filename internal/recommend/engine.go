// Package recommend is the orchestrator: it turns a free-text request into a
// framework recommendation, running classification, retrieval, scoring,
// synthesis and platform selection in order.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Freekyn/Promptin/internal/cache"
	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/intent"
	"github.com/Freekyn/Promptin/internal/metrics"
	"github.com/Freekyn/Promptin/internal/platform"
	"github.com/Freekyn/Promptin/internal/promptgen"
	"github.com/Freekyn/Promptin/internal/retrieval"
	"github.com/Freekyn/Promptin/internal/telemetry"
)

const (
	DefaultSynthesisThreshold = 70
	DefaultIntentCacheTTL     = time.Hour
	DefaultCacheSize          = 1024

	maxAlternatives = 3
	intentCacheKey  = "intent"
)

// ErrMissingDependency is returned by New when a required collaborator is nil.
var ErrMissingDependency = errors.New("recommend: missing dependency")

// Classifier is the model-backed intent classifier.
type Classifier interface {
	Classify(ctx context.Context, text string) (framework.IntentAnalysis, error)
}

// Retriever finds and ranks candidate frameworks.
type Retriever interface {
	Retrieve(ctx context.Context, a framework.IntentAnalysis, text string, ranker retrieval.Ranker) (retrieval.Result, error)
}

// Synthesizer creates a framework when none in the corpus is good enough.
// It must always return an entry.
type Synthesizer interface {
	Synthesize(ctx context.Context, a framework.IntentAnalysis, text string) *framework.Entry
}

// Learner remembers which framework was recommended for a request.
type Learner interface {
	RecordRecommendation(ctx context.Context, text, category, intent, frameworkID string)
}

// Deps are the engine's collaborators. Classifier and Learner are optional:
// without a classifier every request uses the keyword fallback.
type Deps struct {
	Classifier  Classifier
	Retriever   Retriever
	Ranker      retrieval.Ranker
	Synthesizer Synthesizer
	Learner     Learner
}

// Options tune the engine.
type Options struct {
	SynthesisThreshold float64       // Top confidence needed to use a corpus framework (default: 70)
	IntentCacheTTL     time.Duration // How long classified analyses are reused (default: 1h)
	CacheSize          int           // Maximum cached analyses (default: 1024)
	Metrics            *metrics.Metrics
	Tracker            telemetry.Tracker
	Logger             *slog.Logger
	Now                func() time.Time
}

// Engine produces recommendations. It is safe for concurrent use.
type Engine struct {
	deps      Deps
	intents   *cache.TTL[string, framework.IntentAnalysis]
	threshold float64
	metrics   *metrics.Metrics
	tracker   telemetry.Tracker
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an Engine.
func New(deps Deps, opts Options) (*Engine, error) {
	switch {
	case deps.Retriever == nil:
		return nil, fmt.Errorf("%w: retriever", ErrMissingDependency)
	case deps.Ranker == nil:
		return nil, fmt.Errorf("%w: ranker", ErrMissingDependency)
	case deps.Synthesizer == nil:
		return nil, fmt.Errorf("%w: synthesizer", ErrMissingDependency)
	}
	if opts.SynthesisThreshold <= 0 {
		opts.SynthesisThreshold = DefaultSynthesisThreshold
	}
	if opts.IntentCacheTTL <= 0 {
		opts.IntentCacheTTL = DefaultIntentCacheTTL
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Tracker == nil {
		opts.Tracker = telemetry.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		deps:      deps,
		intents:   cache.New[string, framework.IntentAnalysis](opts.CacheSize, opts.IntentCacheTTL),
		threshold: opts.SynthesisThreshold,
		metrics:   opts.Metrics,
		tracker:   opts.Tracker,
		logger:    opts.Logger,
		now:       opts.Now,
	}, nil
}

// Recommend answers one request. The only error it returns is
// framework.ErrInvalidRequest; provider and storage failures are recovered
// along the fallback paths.
func (e *Engine) Recommend(ctx context.Context, text string) (*Response, error) {
	if err := framework.ValidateRequest(text); err != nil {
		return nil, err
	}
	start := e.now()

	a, source := e.analyze(ctx, text)

	result, err := e.deps.Retriever.Retrieve(ctx, a, text, e.deps.Ranker)
	if err != nil {
		e.logger.Warn("retrieval failed, synthesizing", "error", err)
		result = retrieval.Result{}
	}
	if result.SemanticRan {
		e.metrics.SemanticSearch()
	}

	selected, approach, alternatives := e.selectFramework(ctx, a, text, result.Candidates)
	fw := selected.Framework

	plat := platform.Select(a, fw)
	format := RecommendFormat(a, fw)

	resp := &Response{
		ID:      uuid.NewString(),
		Request: text,
		Analysis: Analysis{
			IntentAnalysis: a,
			Categories: Categories{
				Primary:      a.Intent,
				Secondary:    a.SecondaryIntents,
				SuggestedNew: a.NovelCategory,
			},
		},
		Framework: FrameworkResult{
			Selected:         fw,
			Confidence:       selected.Confidence,
			RelevanceScore:   selected.RelevanceScore,
			MatchExplanation: selected.MatchExplanation,
			Approach:         approach,
			Alternatives:     alternatives,
		},
		Recommendations: Recommendations{
			Format: format,
			Platform: PlatformResult{
				Recommendation: plat,
				CostEstimate:   EstimateCost(plat.Model, a),
			},
		},
		PromptVariations: promptgen.Variations(fw, a, text),
		AutoFill: AutoFill{
			Tone:         a.TonePreference,
			Role:         a.SuggestedRole,
			OutputFormat: format.Recommended,
			Complexity:   a.Complexity,
			Platform:     plat.Platform,
			Model:        plat.Model,
			Temperature:  Temperature(a),
			MaxTokens:    MaxTokens(a),
		},
		Metadata: Metadata{
			OverallConfidence: OverallConfidence(float64(a.ConfidenceScore), selected.Confidence, plat.Confidence),
			Breakdown: Breakdown{
				IntentAnalysis: float64(a.ConfidenceScore),
				FrameworkMatch: selected.Confidence,
				ModelSelection: plat.Confidence,
			},
			Insights: ProcessingInsights{
				ModelsConsidered:        slices.Sorted(maps.Keys(plat.ModelScores)),
				FrameworksEvaluated:     len(result.Candidates),
				SemanticSearchUsed:      result.SemanticRan,
				SemanticHits:            result.SemanticHits,
				FeedbackLearningApplied: e.deps.Learner != nil,
				ClassifierFallback:      source == sourceFallback,
				IntentCacheHit:          source == sourceCache,
			},
		},
	}

	if e.deps.Learner != nil {
		e.deps.Learner.RecordRecommendation(ctx, text, fw.Category, a.Intent, fw.ID)
	}

	took := e.now().Sub(start)
	resp.Metadata.Insights.DurationMs = took.Milliseconds()
	e.metrics.RecommendationServed(approach, took)
	e.tracker.Track(telemetry.EventRecommendation, telemetry.RecommendationProps(
		a.Intent, a.Domain, approach, resp.Metadata.OverallConfidence, source == sourceFallback))

	e.logger.Info("recommendation generated",
		"intent", a.Intent,
		"framework", fw.ID,
		"approach", approach,
		"confidence", resp.Metadata.OverallConfidence,
		"took", took)
	return resp, nil
}

type analysisSource int

const (
	sourceClassifier analysisSource = iota
	sourceCache
	sourceFallback
)

// analyze returns the request's intent analysis from the cache, the
// classifier or, when the classifier fails, the keyword fallback. Only
// classifier results are cached.
func (e *Engine) analyze(ctx context.Context, text string) (framework.IntentAnalysis, analysisSource) {
	key := cache.Key(intentCacheKey, text)
	if a, ok := e.intents.Get(key); ok {
		e.logger.Debug("intent cache hit", "key", key)
		e.metrics.IntentCacheHit()
		return a.Clone(), sourceCache
	}

	if e.deps.Classifier == nil {
		e.metrics.ClassifierFallback()
		return intent.Fallback(text), sourceFallback
	}

	a, err := e.deps.Classifier.Classify(ctx, text)
	if err != nil {
		kind := "unknown"
		var ce *intent.ClassificationError
		if errors.As(err, &ce) {
			kind = ce.Kind.String()
		}
		e.logger.Warn("intent classification failed, using keyword fallback", "kind", kind, "error", err)
		e.metrics.ClassifierFallback()
		return intent.Fallback(text), sourceFallback
	}
	e.intents.Set(key, a.Clone())
	return a, sourceClassifier
}

// selectFramework keeps the best corpus candidate when it is confident
// enough and synthesizes a framework otherwise.
func (e *Engine) selectFramework(ctx context.Context, a framework.IntentAnalysis, text string, ranked []framework.ScoredCandidate) (framework.ScoredCandidate, string, []Alternative) {
	if len(ranked) > 0 && ranked[0].Confidence > e.threshold {
		return ranked[0], ApproachMatched, alternativesOf(ranked[1:], ranked[0])
	}

	entry := e.deps.Synthesizer.Synthesize(ctx, a, text)
	e.metrics.Synthesized(string(entry.Source))

	selected := framework.ScoredCandidate{Framework: entry}
	if scored := e.deps.Ranker.Rank([]framework.Candidate{{Entry: entry}}, a); len(scored) > 0 {
		selected = scored[0]
	}
	// None of the corpus candidates was chosen, so all of them are
	// alternatives.
	return selected, ApproachGenerated, alternativesOf(ranked, selected)
}

func alternativesOf(candidates []framework.ScoredCandidate, selected framework.ScoredCandidate) []Alternative {
	candidates = candidates[:min(len(candidates), maxAlternatives)]
	out := make([]Alternative, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Alternative{ScoredCandidate: c, Differentiator: Differentiator(c, selected)})
	}
	return out
}
