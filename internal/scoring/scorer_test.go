package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freekyn/Promptin/internal/framework"
)

type fixedWeight float64

func (f fixedWeight) AdjustmentWeight(string, string) float64 { return float64(f) }

func analysis() framework.IntentAnalysis {
	return framework.IntentAnalysis{
		Intent:             "data_analysis",
		SecondaryIntents:   []string{"visualization", "reporting"},
		Domain:             "data_science",
		SubDomains:         []string{"analytics"},
		Complexity:         framework.ComplexityComplex,
		Urgency:            framework.UrgencyMedium,
		OutputType:         "dashboard",
		AlternativeOutputs: []string{"report", "spreadsheet"},
		SuggestedRole:      "Data Scientist",
		Keywords:           []string{"dashboard"},
		SuccessCriteria:    []string{"clear kpis", "actionable"},
	}
}

func perfectEntry() *framework.Entry {
	return &framework.Entry{
		ID:              "kpi",
		Name:            "KPI Dashboard Builder",
		Category:        "data_analysis",
		Description:     "Data analysis with visualization and reporting for clear KPIs",
		BasePrompt:      "Produce actionable dashboards",
		OutputFormats:   []string{"Dashboard", "Report"},
		DomainTags:      []string{"data_science"},
		ComplexityLevel: framework.ComplexityComplex,
	}
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())
	w := DefaultWeights()
	w.Domain = 0.5
	assert.ErrorIs(t, w.Validate(), ErrWeightSum)

	s := New(w, nil)
	assert.Equal(t, DefaultWeights(), s.weights)
}

func TestScorePerfectMatch(t *testing.T) {
	s := New(DefaultWeights(), nil)
	got := s.Score(framework.Candidate{Entry: perfectEntry(), SemanticScore: 0.9}, analysis())

	assert.InDelta(t, 100, got.ConfidenceFactors[framework.FactorDomain], 1e-9)
	assert.InDelta(t, 100, got.ConfidenceFactors[framework.FactorIntent], 1e-9)
	assert.InDelta(t, 100, got.ConfidenceFactors[framework.FactorComplexity], 1e-9)
	assert.InDelta(t, 100, got.ConfidenceFactors[framework.FactorOutput], 1e-9)
	assert.InDelta(t, 90, got.ConfidenceFactors[framework.FactorSemantic], 1e-9)
	assert.InDelta(t, 100, got.ConfidenceFactors[framework.FactorSuccess], 1e-9)
	assert.InDelta(t, 98.5, got.RelevanceScore, 1e-9)
	assert.Equal(t, "Strong domain alignment, Excellent intent match, High semantic relevance, Perfect complexity fit", got.MatchExplanation)
}

func TestScoreFactors(t *testing.T) {
	a := analysis()

	t.Run("domain", func(t *testing.T) {
		e := perfectEntry()
		e.DomainTags = []string{"Analytics"}
		assert.Equal(t, 50.0, DomainMatch(e, a))
		e.DomainTags = nil
		assert.Equal(t, 0.0, DomainMatch(e, a))
	})

	t.Run("intent", func(t *testing.T) {
		e := perfectEntry()
		e.Description = "charts with visualization"
		e.Name = "Charts"
		assert.InDelta(t, 0.15, IntentAlignment(e, a), 1e-9)
	})

	t.Run("complexity", func(t *testing.T) {
		tests := []struct {
			entry, want framework.Complexity
			score       float64
		}{
			{framework.ComplexityComplex, framework.ComplexityComplex, 100},
			{framework.ComplexityMedium, framework.ComplexityComplex, 50},
			{framework.ComplexityExpert, framework.ComplexityComplex, 50},
			{framework.ComplexitySimple, framework.ComplexityComplex, 0},
			{"", framework.ComplexityComplex, 0},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.score, ComplexityMatch(tt.entry, tt.want), "%s vs %s", tt.entry, tt.want)
		}
	})

	t.Run("output", func(t *testing.T) {
		e := perfectEntry()
		e.OutputFormats = []string{"report"}
		assert.InDelta(t, 0.65, OutputCompatibility(e, a), 1e-9)
		e.OutputFormats = []string{"live dashboard"}
		assert.InDelta(t, 0.3, OutputCompatibility(e, a), 1e-9)
		e.OutputFormats = []string{"poem"}
		assert.Zero(t, OutputCompatibility(e, a))
		e.OutputFormats = nil
		assert.Zero(t, OutputCompatibility(e, a))
	})

	t.Run("success", func(t *testing.T) {
		e := perfectEntry()
		e.Description = "nothing relevant"
		assert.InDelta(t, 0.5, SuccessAlignment(e, a), 1e-9)
		noCriteria := a
		noCriteria.SuccessCriteria = nil
		assert.InDelta(t, 0.5, SuccessAlignment(e, noCriteria), 1e-9)
	})
}

func TestConfidenceIgnoresZeroFactors(t *testing.T) {
	assert.InDelta(t, 75, Confidence(map[string]float64{"a": 100, "b": 50, "c": 0}), 1e-9)
	assert.Zero(t, Confidence(map[string]float64{"a": 0}))
	assert.Equal(t, "Moderate match based on multiple factors", Explain(map[string]float64{}))
}

func TestFeedbackWeightIsClamped(t *testing.T) {
	a := analysis()
	boosted := New(DefaultWeights(), fixedWeight(1.5)).Score(framework.Candidate{Entry: perfectEntry(), SemanticScore: 1}, a)
	assert.Equal(t, 100.0, boosted.RelevanceScore)

	plain := New(DefaultWeights(), nil).Score(framework.Candidate{Entry: perfectEntry()}, a)
	damped := New(DefaultWeights(), fixedWeight(0.5)).Score(framework.Candidate{Entry: perfectEntry()}, a)
	assert.InDelta(t, plain.RelevanceScore/2, damped.RelevanceScore, 1e-9)
	assert.Equal(t, plain.Confidence, damped.Confidence)
}

func TestScoringIsMonotonic(t *testing.T) {
	s := New(DefaultWeights(), nil)
	a := analysis()

	base := perfectEntry()
	base.DomainTags = nil
	base.OutputFormats = []string{"poem"}
	base.Name = "Generic"
	base.Description = "generic"

	better := *base
	better.DomainTags = []string{"analytics"}
	best := better
	best.DomainTags = []string{"data_science"}
	best.OutputFormats = []string{"report"}
	best.Description = "visualization"

	r0 := s.Score(framework.Candidate{Entry: base}, a).RelevanceScore
	r1 := s.Score(framework.Candidate{Entry: &better}, a).RelevanceScore
	r2 := s.Score(framework.Candidate{Entry: &best}, a).RelevanceScore
	assert.LessOrEqual(t, r0, r1)
	assert.LessOrEqual(t, r1, r2)
}

func TestRankOrdersByRelevance(t *testing.T) {
	s := New(DefaultWeights(), nil)
	weak := &framework.Entry{ID: "weak", Name: "Haiku", BasePrompt: "x", ComplexityLevel: framework.ComplexitySimple}
	ranked := s.Rank([]framework.Candidate{{Entry: weak}, {Entry: perfectEntry()}, {Entry: nil}}, analysis())
	require.Len(t, ranked, 2)
	assert.Equal(t, "kpi", ranked[0].Framework.ID)
	assert.Equal(t, "weak", ranked[1].Framework.ID)
}
