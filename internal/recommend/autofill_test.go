package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Freekyn/Promptin/internal/framework"
)

func TestTemperature(t *testing.T) {
	tests := []struct {
		name string
		a    framework.IntentAnalysis
		want float64
	}{
		{"creative intent", framework.IntentAnalysis{Intent: "creative_writing"}, 0.8},
		{"creative domain", framework.IntentAnalysis{Intent: "general", Domain: "creative"}, 0.8},
		{"data analysis", framework.IntentAnalysis{Intent: "data_analysis", Complexity: framework.ComplexityExpert}, 0.2},
		{"technical", framework.IntentAnalysis{Intent: "technical"}, 0.2},
		{"expert", framework.IntentAnalysis{Intent: "research", Complexity: framework.ComplexityExpert}, 0.3},
		{"default", framework.IntentAnalysis{Intent: "research"}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Temperature(tt.a))
		})
	}
}

func TestMaxTokens(t *testing.T) {
	tests := []struct {
		complexity framework.Complexity
		output     string
		want       int
	}{
		{framework.ComplexitySimple, "document", 500},
		{framework.ComplexityMedium, "code", 2250},
		{framework.ComplexityComplex, "report", 6000},
		{framework.ComplexityExpert, "report", 8000},
		{framework.ComplexityExpert, "summary", 2000},
		{"", "document", 1500},
	}
	for _, tt := range tests {
		t.Run(string(tt.complexity)+"/"+tt.output, func(t *testing.T) {
			a := framework.IntentAnalysis{Complexity: tt.complexity, OutputType: tt.output}
			assert.Equal(t, tt.want, MaxTokens(a))
		})
	}
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name       string
		model      string
		complexity framework.Complexity
		wantTokens int
		want       string
	}{
		{"gpt-4o expert", "GPT-4o", framework.ComplexityExpert, 4000, "0.040"},
		{"mini simple", "GPT-4o-mini", framework.ComplexitySimple, 500, "0.000"},
		{"opus complex", "Claude-3-Opus", framework.ComplexityComplex, 2000, "0.150"},
		{"unknown model priced as default", "Midjourney v6", framework.ComplexityMedium, 1000, "0.010"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateCost(tt.model, framework.IntentAnalysis{Complexity: tt.complexity})
			assert.Equal(t, tt.wantTokens, got.Tokens)
			assert.Equal(t, tt.want, got.Estimated)
			assert.Equal(t, tt.model, got.Model)
		})
	}
}

func TestOverallConfidence(t *testing.T) {
	assert.Equal(t, 82.0, OverallConfidence(80, 85, 80))
	assert.Equal(t, 70.0, OverallConfidence(0, 0, 0))
	assert.Equal(t, 79.0, OverallConfidence(90, 0, 80))
}

func TestDifferentiator(t *testing.T) {
	selected := framework.ScoredCandidate{
		Framework:      &framework.Entry{Category: "data", ComplexityLevel: framework.ComplexityComplex},
		RelevanceScore: 80,
	}
	tests := []struct {
		name string
		alt  framework.ScoredCandidate
		want string
	}{
		{
			name: "similar",
			alt:  framework.ScoredCandidate{Framework: &framework.Entry{Category: "Data", ComplexityLevel: framework.ComplexityComplex}, RelevanceScore: 80},
			want: "Similar alternative approach",
		},
		{
			name: "lower match rounds",
			alt:  framework.ScoredCandidate{Framework: &framework.Entry{Category: "data", ComplexityLevel: framework.ComplexityComplex}, RelevanceScore: 67.6},
			want: "12% lower match",
		},
		{
			name: "everything differs",
			alt:  framework.ScoredCandidate{Framework: &framework.Entry{Category: "business", ComplexityLevel: framework.ComplexitySimple}, RelevanceScore: 50},
			want: "Different approach: business vs data, simple complexity, 30% lower match",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Differentiator(tt.alt, selected))
		})
	}
}

func TestRecommendFormat(t *testing.T) {
	tests := []struct {
		name          string
		intent        string
		formats       []string
		want          string
		wantOverlap   int
		wantSuggest   string
		wantAlternate []string
	}{
		{
			name:          "strong overlap",
			intent:        "data_analysis",
			formats:       []string{"Interactive Dashboard", "Excel workbook", "CSV export", "Slides"},
			want:          "Interactive Dashboard",
			wantOverlap:   3,
			wantSuggest:   "Strong format compatibility - Interactive Dashboard is ideal for data_analysis",
			wantAlternate: []string{"Excel workbook", "CSV export"},
		},
		{
			name:        "single overlap",
			intent:      "technical",
			formats:     []string{"code", "Slides"},
			want:        "code",
			wantOverlap: 1,
			wantSuggest: "code recommended, with 0 alternatives available",
		},
		{
			name:        "no overlap uses framework format",
			intent:      "research",
			formats:     []string{"Slides"},
			want:        "Slides",
			wantSuggest: "Using Slides - consider framework alternatives for better format match",
		},
		{
			name:        "no formats",
			intent:      "unknown",
			want:        "Markdown",
			wantSuggest: "Using Markdown - consider framework alternatives for better format match",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw := &framework.Entry{OutputFormats: tt.formats}
			got := RecommendFormat(framework.IntentAnalysis{Intent: tt.intent}, fw)
			assert.Equal(t, tt.want, got.Recommended)
			assert.Equal(t, tt.wantOverlap, got.Compatibility.Overlap)
			assert.Equal(t, tt.wantSuggest, got.Suggestion)
			assert.Equal(t, tt.wantAlternate, got.Alternatives)
			assert.Equal(t, tt.want, got.Available[0])
		})
	}
}

func TestRecommendFormatContext(t *testing.T) {
	got := RecommendFormat(framework.IntentAnalysis{Intent: "business_strategy"}, nil)
	assert.Equal(t, "Business planning", got.Context)
	got = RecommendFormat(framework.IntentAnalysis{Intent: "general"}, nil)
	assert.Equal(t, "General purpose", got.Context)
}

func TestFormatConfidence(t *testing.T) {
	a := framework.IntentAnalysis{OutputType: "dashboard", AlternativeOutputs: []string{"Report"}}
	assert.Equal(t, 80.0, FormatConfidence("Dashboard", a))
	assert.Equal(t, 70.0, FormatConfidence("report", a))
	assert.Equal(t, 50.0, FormatConfidence("Slides", a))
	assert.Equal(t, 100.0, FormatConfidence("x", framework.IntentAnalysis{OutputType: "x", AlternativeOutputs: []string{"X"}}))
}
