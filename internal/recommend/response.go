package recommend

import (
	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/platform"
	"github.com/Freekyn/Promptin/internal/promptgen"
)

// Approach values.
const (
	ApproachMatched   = "framework-matched"
	ApproachGenerated = "ai-generated"
)

// Response is the complete answer to one request.
// This is the canonical response type used by both CLI and MCP.
type Response struct {
	ID               string                `json:"id"`
	Request          string                `json:"request"`
	Analysis         Analysis              `json:"analysis"`
	Framework        FrameworkResult       `json:"framework"`
	Recommendations  Recommendations       `json:"recommendations"`
	PromptVariations []promptgen.Variation `json:"prompt_variations"`
	AutoFill         AutoFill              `json:"auto_fill_data"`
	Metadata         Metadata              `json:"metadata"`
}

// Analysis is the intent analysis plus its category labels.
type Analysis struct {
	framework.IntentAnalysis
	Categories Categories `json:"categories"`
}

// Categories summarises how the request was classified.
type Categories struct {
	Primary      string   `json:"primary"`
	Secondary    []string `json:"secondary"`
	SuggestedNew string   `json:"suggested_new,omitempty"`
}

// FrameworkResult is the selected framework and its runners-up.
type FrameworkResult struct {
	Selected         *framework.Entry `json:"selected"`
	Confidence       float64          `json:"confidence"`
	RelevanceScore   float64          `json:"relevance_score"`
	MatchExplanation string           `json:"match_explanation,omitempty"`
	Approach         string           `json:"approach"` // framework-matched or ai-generated
	Alternatives     []Alternative    `json:"alternatives"`
}

// Alternative is a runner-up framework with a note on how it differs.
type Alternative struct {
	framework.ScoredCandidate
	Differentiator string `json:"differentiator"`
}

// Recommendations groups the format and platform suggestions.
type Recommendations struct {
	Format   FormatRecommendation `json:"format"`
	Platform PlatformResult       `json:"platform"`
}

// PlatformResult is the platform/model choice plus a cost estimate.
type PlatformResult struct {
	platform.Recommendation
	CostEstimate CostEstimate `json:"cost_estimate"`
}

// AutoFill carries ready-to-use prompt settings for a form.
type AutoFill struct {
	Tone         string               `json:"tone"`
	Role         string               `json:"role"`
	OutputFormat string               `json:"output_format"`
	Complexity   framework.Complexity `json:"complexity"`
	Platform     string               `json:"platform"`
	Model        string               `json:"model"`
	Temperature  float64              `json:"temperature"`
	MaxTokens    int                  `json:"max_tokens"`
}

// Metadata reports confidence and how the answer was produced.
type Metadata struct {
	OverallConfidence float64            `json:"overall_confidence"`
	Breakdown         Breakdown          `json:"breakdown"`
	Insights          ProcessingInsights `json:"processing_insights"`
}

// Breakdown lists the components of the overall confidence.
type Breakdown struct {
	IntentAnalysis float64 `json:"intent_analysis"`
	FrameworkMatch float64 `json:"framework_match"`
	ModelSelection float64 `json:"model_selection"`
}

// ProcessingInsights describes the pipeline run.
type ProcessingInsights struct {
	ModelsConsidered        []string `json:"models_considered"`
	FrameworksEvaluated     int      `json:"frameworks_evaluated"`
	SemanticSearchUsed      bool     `json:"semantic_search_used"`
	SemanticHits            int      `json:"semantic_hits,omitempty"`
	FeedbackLearningApplied bool     `json:"feedback_learning_applied"`
	ClassifierFallback      bool     `json:"classifier_fallback"`
	IntentCacheHit          bool     `json:"intent_cache_hit"`
	DurationMs              int64    `json:"duration_ms"`
}
