package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/llm"
	"github.com/Freekyn/Promptin/internal/platform"
)

const (
	maxTokensCap = 8000
	// Used for a missing component of the overall confidence.
	neutralConfidence = 70
)

// Temperature suggests a sampling temperature for the request.
func Temperature(a framework.IntentAnalysis) float64 {
	switch {
	case a.Intent == "creative_writing" || a.Domain == "creative":
		return 0.8
	case a.Intent == "data_analysis" || a.Intent == "technical":
		return 0.2
	case a.Complexity == framework.ComplexityExpert:
		return 0.3
	default:
		return 0.5
	}
}

var baseTokens = map[framework.Complexity]float64{
	framework.ComplexitySimple:  500,
	framework.ComplexityMedium:  1500,
	framework.ComplexityComplex: 3000,
	framework.ComplexityExpert:  4000,
}

// MaxTokens suggests a response budget from complexity and output type.
func MaxTokens(a framework.IntentAnalysis) int {
	tokens, ok := baseTokens[a.Complexity]
	if !ok {
		tokens = 1500
	}
	switch strings.ToLower(a.OutputType) {
	case "code":
		tokens *= 1.5
	case "report":
		tokens *= 2
	case "summary":
		tokens *= 0.5
	}
	return min(int(math.Round(tokens)), maxTokensCap)
}

// CostEstimate is the expected output cost of running the prompt once.
type CostEstimate struct {
	Estimated string `json:"estimated"`
	Tokens    int    `json:"tokens"`
	Model     string `json:"model"`
	Currency  string `json:"currency"`
}

var costTokens = map[framework.Complexity]int{
	framework.ComplexityExpert:  4000,
	framework.ComplexityComplex: 2000,
	framework.ComplexityMedium:  1000,
}

// EstimateCost prices the expected output tokens with the model's output
// rate. Unknown models are priced as the default model.
func EstimateCost(model string, a framework.IntentAnalysis) CostEstimate {
	tokens, ok := costTokens[a.Complexity]
	if !ok {
		tokens = 500
	}
	m := llm.GetModel(model)
	if m == nil {
		m = llm.GetModel(platform.DefaultModel)
	}
	var usd float64
	if m != nil {
		usd = float64(tokens) * m.OutputPer1M / 1_000_000
	}
	return CostEstimate{
		Estimated: fmt.Sprintf("%.3f", usd),
		Tokens:    tokens,
		Model:     model,
		Currency:  "USD",
	}
}

// OverallConfidence blends analysis, framework and platform confidence
// 30/40/30. A zero component counts as 70.
func OverallConfidence(analysis, fw, plat float64) float64 {
	orNeutral := func(v float64) float64 {
		if v <= 0 {
			return neutralConfidence
		}
		return v
	}
	return math.Round(0.3*orNeutral(analysis) + 0.4*orNeutral(fw) + 0.3*orNeutral(plat))
}

// Differentiator describes how an alternative differs from the selection.
func Differentiator(alt, selected framework.ScoredCandidate) string {
	if alt.Framework == nil || selected.Framework == nil {
		return similarAlternative
	}
	var parts []string
	if !strings.EqualFold(alt.Framework.Category, selected.Framework.Category) {
		parts = append(parts, fmt.Sprintf("Different approach: %s vs %s", alt.Framework.Category, selected.Framework.Category))
	}
	if alt.Framework.ComplexityLevel != selected.Framework.ComplexityLevel {
		parts = append(parts, fmt.Sprintf("%s complexity", alt.Framework.ComplexityLevel))
	}
	if alt.RelevanceScore < selected.RelevanceScore {
		parts = append(parts, fmt.Sprintf("%d%% lower match", int(math.Round(selected.RelevanceScore-alt.RelevanceScore))))
	}
	if len(parts) == 0 {
		return similarAlternative
	}
	return strings.Join(parts, ", ")
}

const similarAlternative = "Similar alternative approach"
