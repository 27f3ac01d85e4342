package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "normal", text: "write a product launch plan"},
		{name: "empty", text: "", wantErr: true},
		{name: "whitespace", text: "  \n\t ", wantErr: true},
		{name: "invalid utf8", text: "bad \xff bytes", wantErr: true},
		{name: "too long", text: strings.Repeat("a", MaxRequestLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestComplexityRank(t *testing.T) {
	assert.Equal(t, 0, ComplexitySimple.Rank())
	assert.Equal(t, 3, ComplexityExpert.Rank())
	assert.Equal(t, -1, Complexity("huge").Rank())
	assert.Equal(t, ComplexityMedium, ParseComplexity("unknown"))
	assert.Equal(t, ComplexityExpert, ParseComplexity(" Expert "))
}

func TestNormalizeAnalysis(t *testing.T) {
	in := IntentAnalysis{
		Intent:          "Data Analysis",
		Domain:          "Data-Science",
		Complexity:      "COMPLEX",
		Urgency:         "whenever",
		OutputType:      " Dashboard ",
		SuggestedRole:   "Data Scientist",
		Keywords:        []string{"data", "Data", "", "dashboard", "a", "b", "c", "d", "e", "f", "g", "h", "i"},
		ConfidenceScore: 140,
	}

	out, err := NormalizeAnalysis(in)
	require.NoError(t, err)
	assert.Equal(t, "data_analysis", out.Intent)
	assert.Equal(t, "data_science", out.Domain)
	assert.Equal(t, ComplexityComplex, out.Complexity)
	assert.Equal(t, UrgencyMedium, out.Urgency)
	assert.Equal(t, "dashboard", out.OutputType)
	assert.Len(t, out.Keywords, 10)
	assert.Equal(t, "data", out.Keywords[0])
	assert.Equal(t, 100, out.ConfidenceScore)

	// the input is left untouched
	assert.Len(t, in.Keywords, 13)
}

func TestNormalizeAnalysisKeywordCount(t *testing.T) {
	base := IntentAnalysis{
		Intent:        "research",
		Domain:        "research",
		Complexity:    ComplexityMedium,
		Urgency:       UrgencyLow,
		OutputType:    "report",
		SuggestedRole: "Researcher",
	}
	tests := []struct {
		name     string
		keywords []string
		wantErr  bool
	}{
		{"none", nil, true},
		{"one", []string{"one"}, true},
		{"two after dedupe", []string{"sleep", "Sleep", "study"}, true},
		{"three", []string{"sleep", "study", "memory"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.Keywords = tt.keywords
			_, err := NormalizeAnalysis(in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNormalizeAnalysisRejectsMissingFields(t *testing.T) {
	_, err := NormalizeAnalysis(IntentAnalysis{Intent: "research"})
	assert.Error(t, err)
}

func TestValidateEntry(t *testing.T) {
	ok := &Entry{ID: "f1", Name: "RACE", BasePrompt: "Role, Action, Context, Expectation", ComplexityLevel: ComplexityMedium, Source: SourceCurated}
	assert.NoError(t, ValidateEntry(ok))

	bad := *ok
	bad.ComplexityLevel = "galactic"
	assert.Error(t, ValidateEntry(&bad))

	assert.Error(t, ValidateEntry(&Entry{ID: "f2", Name: "no prompt"}))
	assert.Error(t, ValidateEntry(nil))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"Go", "rust"}, Dedupe([]string{"Go", " go ", "", "rust"}))
}
