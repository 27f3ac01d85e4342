package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freekyn/Promptin/internal/corpus"
	"github.com/Freekyn/Promptin/internal/feedback"
	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/intent"
	"github.com/Freekyn/Promptin/internal/llm"
	"github.com/Freekyn/Promptin/internal/metrics"
	"github.com/Freekyn/Promptin/internal/retrieval"
	"github.com/Freekyn/Promptin/internal/scoring"
	"github.com/Freekyn/Promptin/internal/synth"
)

const dashboardRequest = "I need to analyze customer feedback data and create a dashboard"

const analysisJSON = `{
  "intent": "data_analysis",
  "secondary_intents": ["visualization"],
  "domain": "data_science",
  "complexity": "complex",
  "urgency": "high",
  "output_type": "Dashboard",
  "alternative_outputs": ["report"],
  "tone_preference": "analytical",
  "suggested_role": "Data Scientist",
  "keywords": ["feedback", "dashboard", "customer"],
  "success_criteria": ["clear kpis"],
  "confidence_score": 88,
  "novel_category": "customer_analytics"
}`

const definitionJSON = `{
  "name": "feedback insight board",
  "description": "Turn raw feedback into tracked KPIs",
  "base_prompt": "As a {ROLE}, help with {USER_REQUEST}.",
  "methodology": ["Collect", "Cluster", "Visualize"]
}`

// routingGenerator answers classification and synthesis prompts separately.
type routingGenerator struct {
	classify   string
	classErr   error
	synthesize string
	synthErr   error
	calls      atomic.Int32
}

func (g *routingGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	g.calls.Add(1)
	if strings.Contains(req.Prompt, "intent analyst") {
		return g.classify, g.classErr
	}
	return g.synthesize, g.synthErr
}

type countingClassifier struct {
	calls atomic.Int32
	a     framework.IntentAnalysis
	err   error
}

func (c *countingClassifier) Classify(context.Context, string) (framework.IntentAnalysis, error) {
	c.calls.Add(1)
	return c.a.Clone(), c.err
}

type fixedRetriever struct {
	result retrieval.Result
	err    error
}

func (r fixedRetriever) Retrieve(context.Context, framework.IntentAnalysis, string, retrieval.Ranker) (retrieval.Result, error) {
	return r.result, r.err
}

type recordingLearner struct {
	mu    sync.Mutex
	calls []string
}

func (l *recordingLearner) RecordRecommendation(_ context.Context, _, category, intent, frameworkID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, category+"/"+intent+"/"+frameworkID)
}

// newPipeline wires the real components over catalog.
func newPipeline(t *testing.T, gen llm.Generator, catalog corpus.Store) *Engine {
	t.Helper()
	learner := feedback.NewLearnerState(nil)
	classifier := intent.NewClassifier(gen, intent.Options{Adjuster: learner})
	e, err := New(Deps{
		Classifier:  classifier,
		Retriever:   retrieval.New(catalog, nil, nil, retrieval.DefaultOptions(), nil),
		Ranker:      scoring.New(scoring.DefaultWeights(), learner),
		Synthesizer: synth.New(gen, catalog, synth.Options{}),
		Learner:     learner,
	}, Options{Metrics: metrics.New()})
	require.NoError(t, err)
	return e
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Deps{}, Options{})
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestRecommendRejectsInvalidRequest(t *testing.T) {
	gen := &routingGenerator{}
	e := newPipeline(t, gen, corpus.NewMemoryCatalog(nil))

	for _, text := range []string{"", "   \n\t"} {
		_, err := e.Recommend(context.Background(), text)
		assert.ErrorIs(t, err, framework.ErrInvalidRequest)
	}
	assert.Zero(t, gen.calls.Load(), "no provider call before validation")
}

func TestRecommendProviderDown(t *testing.T) {
	down := errors.New("connection refused")
	gen := &routingGenerator{classErr: down, synthErr: down}
	catalog := corpus.NewMemoryCatalog(nil)
	e := newPipeline(t, gen, catalog)

	resp, err := e.Recommend(context.Background(), dashboardRequest)
	require.NoError(t, err)

	assert.Equal(t, "data_analysis", resp.Analysis.Intent)
	assert.Equal(t, "data_science", resp.Analysis.Domain)
	assert.Equal(t, "Data Scientist", resp.Analysis.SuggestedRole)
	assert.True(t, resp.Metadata.Insights.ClassifierFallback)

	require.NotNil(t, resp.Framework.Selected)
	assert.Equal(t, framework.SourceFailsafe, resp.Framework.Selected.Source)
	assert.Equal(t, ApproachGenerated, resp.Framework.Approach)
	assert.Zero(t, catalog.Len(), "failsafe frameworks are not persisted")
	assert.NotEmpty(t, resp.PromptVariations)
	assert.Equal(t, resp.Recommendations.Platform.Model, resp.AutoFill.Model)
}

func TestRecommendEmptyCorpusSynthesizes(t *testing.T) {
	gen := &routingGenerator{classify: analysisJSON, synthesize: definitionJSON}
	catalog := corpus.NewMemoryCatalog(nil)
	e := newPipeline(t, gen, catalog)

	resp, err := e.Recommend(context.Background(), dashboardRequest)
	require.NoError(t, err)

	fw := resp.Framework.Selected
	require.NotNil(t, fw)
	assert.Equal(t, framework.SourceAIGenerated, fw.Source)
	assert.Equal(t, ApproachGenerated, resp.Framework.Approach)
	assert.Equal(t, "customer_analytics", resp.Analysis.Categories.SuggestedNew)
	assert.False(t, resp.Metadata.Insights.ClassifierFallback)
	assert.Equal(t, 1, catalog.Len())

	stored, err := catalog.ByID(context.Background(), fw.ID)
	require.NoError(t, err)
	assert.Equal(t, fw.BasePrompt, stored.BasePrompt)
}

func TestRecommendSelectsConfidentCandidate(t *testing.T) {
	best := &framework.Entry{ID: "a", Name: "KPI board", Category: "data_analysis", ComplexityLevel: framework.ComplexityComplex, OutputFormats: []string{"Dashboard", "Report"}}
	runnerUp := &framework.Entry{ID: "b", Name: "Story arc", Category: "creative_writing", ComplexityLevel: framework.ComplexitySimple}
	ranked := []framework.ScoredCandidate{
		{Framework: best, RelevanceScore: 90, Confidence: 85},
		{Framework: runnerUp, RelevanceScore: 40, Confidence: 50},
	}
	learner := &recordingLearner{}
	cls := &countingClassifier{a: intent.Fallback(dashboardRequest)}
	e, err := New(Deps{
		Classifier:  cls,
		Retriever:   fixedRetriever{result: retrieval.Result{Candidates: ranked}},
		Ranker:      scoring.New(scoring.DefaultWeights(), nil),
		Synthesizer: synth.New(&routingGenerator{synthErr: errors.New("unused")}, corpus.NewMemoryCatalog(nil), synth.Options{}),
		Learner:     learner,
	}, Options{})
	require.NoError(t, err)

	resp, err := e.Recommend(context.Background(), dashboardRequest)
	require.NoError(t, err)

	assert.Same(t, best, resp.Framework.Selected)
	assert.Equal(t, ApproachMatched, resp.Framework.Approach)
	assert.Equal(t, 85.0, resp.Framework.Confidence)
	require.Len(t, resp.Framework.Alternatives, 1)
	assert.Equal(t, "b", resp.Framework.Alternatives[0].Framework.ID)
	assert.Equal(t,
		"Different approach: creative_writing vs data_analysis, simple complexity, 50% lower match",
		resp.Framework.Alternatives[0].Differentiator)
	assert.Equal(t, "Dashboard", resp.AutoFill.OutputFormat)
	assert.Equal(t, []string{"data_analysis/data_analysis/a"}, learner.calls)
}

func TestRecommendBelowThresholdKeepsCandidatesAsAlternatives(t *testing.T) {
	weak := &framework.Entry{ID: "weak", Name: "Generic", Category: "general"}
	e, err := New(Deps{
		Retriever:   fixedRetriever{result: retrieval.Result{Candidates: []framework.ScoredCandidate{{Framework: weak, Confidence: 40, RelevanceScore: 30}}}},
		Ranker:      scoring.New(scoring.DefaultWeights(), nil),
		Synthesizer: synth.New(&routingGenerator{synthErr: errors.New("down")}, corpus.NewMemoryCatalog(nil), synth.Options{}),
	}, Options{})
	require.NoError(t, err)

	resp, err := e.Recommend(context.Background(), dashboardRequest)
	require.NoError(t, err)
	assert.Equal(t, framework.SourceFailsafe, resp.Framework.Selected.Source)
	require.Len(t, resp.Framework.Alternatives, 1)
	assert.Equal(t, "weak", resp.Framework.Alternatives[0].Framework.ID)
	assert.True(t, resp.Metadata.Insights.ClassifierFallback, "no classifier means fallback")
	assert.False(t, resp.Metadata.Insights.FeedbackLearningApplied)
}

func TestRecommendRetrievalErrorSynthesizes(t *testing.T) {
	e, err := New(Deps{
		Retriever:   fixedRetriever{err: errors.New("corpus unavailable")},
		Ranker:      scoring.New(scoring.DefaultWeights(), nil),
		Synthesizer: synth.New(&routingGenerator{synthErr: errors.New("down")}, corpus.NewMemoryCatalog(nil), synth.Options{}),
	}, Options{})
	require.NoError(t, err)

	resp, err := e.Recommend(context.Background(), "Plan the growth strategy for next quarter")
	require.NoError(t, err)
	assert.NotNil(t, resp.Framework.Selected)
	assert.Empty(t, resp.Framework.Alternatives)
}

func TestIntentCache(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int32
		wantHit   bool
	}{
		{name: "classifier results are reused", wantCalls: 1, wantHit: true},
		{name: "fallback results are not cached", err: &intent.ClassificationError{Kind: intent.ProviderUnavailable, Err: errors.New("timeout")}, wantCalls: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := &countingClassifier{a: intent.Fallback(dashboardRequest), err: tt.err}
			e, err := New(Deps{
				Classifier:  cls,
				Retriever:   fixedRetriever{},
				Ranker:      scoring.New(scoring.DefaultWeights(), nil),
				Synthesizer: synth.New(&routingGenerator{synthErr: errors.New("down")}, corpus.NewMemoryCatalog(nil), synth.Options{}),
			}, Options{})
			require.NoError(t, err)

			first, err := e.Recommend(context.Background(), dashboardRequest)
			require.NoError(t, err)
			second, err := e.Recommend(context.Background(), dashboardRequest)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCalls, cls.calls.Load())
			assert.Equal(t, tt.wantHit, second.Metadata.Insights.IntentCacheHit)
			assert.Equal(t, first.Analysis.IntentAnalysis, second.Analysis.IntentAnalysis)
		})
	}
}

func TestIntentCacheReturnsCopies(t *testing.T) {
	cls := &countingClassifier{a: intent.Fallback(dashboardRequest)}
	e, err := New(Deps{
		Classifier:  cls,
		Retriever:   fixedRetriever{},
		Ranker:      scoring.New(scoring.DefaultWeights(), nil),
		Synthesizer: synth.New(&routingGenerator{synthErr: errors.New("down")}, corpus.NewMemoryCatalog(nil), synth.Options{}),
	}, Options{})
	require.NoError(t, err)

	first, err := e.Recommend(context.Background(), dashboardRequest)
	require.NoError(t, err)
	first.Analysis.Keywords[0] = "mutated"

	second, err := e.Recommend(context.Background(), dashboardRequest)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second.Analysis.Keywords[0])
}

func TestConcurrentSynthesisKeepsEveryEntry(t *testing.T) {
	gen := &routingGenerator{synthesize: definitionJSON}
	catalog := corpus.NewMemoryCatalog(nil)
	// An empty retrieval forces every request down the synthesis path.
	e, err := New(Deps{
		Retriever:   fixedRetriever{},
		Ranker:      scoring.New(scoring.DefaultWeights(), nil),
		Synthesizer: synth.New(gen, catalog, synth.Options{}),
	}, Options{})
	require.NoError(t, err)

	const n = 8
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := e.Recommend(context.Background(), fmt.Sprintf("Build a sales dashboard for region %d", i))
			if assert.NoError(t, err) {
				ids[i] = resp.Framework.Selected.ID
			}
		}()
	}
	wg.Wait()

	all, err := catalog.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, n)
	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		_, err := catalog.ByID(context.Background(), id)
		assert.NoError(t, err)
	}
}
