// Package platform recommends the target AI platform and model for a
// selected framework.
package platform

import (
	"sort"
	"strings"

	"github.com/Freekyn/Promptin/internal/framework"
)

const (
	DefaultModel    = "GPT-4o"
	DefaultPlatform = "ChatGPT"

	// Confidence reported when no bonus applied to any model.
	baselineConfidence = 50
	maxAlternatives    = 3
)

// Alternatives lists runner-up platforms and models.
type Alternatives struct {
	Platforms []string `json:"platforms"`
	Models    []string `json:"models"`
}

// Recommendation is the selector's answer.
type Recommendation struct {
	Platform     string         `json:"platform"`
	Model        string         `json:"model"`
	Confidence   float64        `json:"confidence"`
	Alternatives Alternatives   `json:"alternatives"`
	Reasoning    string         `json:"reasoning"`
	ModelScores  map[string]int `json:"model_scores,omitempty"`
}

// bonus is one additive scoring rule.
type bonus struct {
	applies func(a framework.IntentAnalysis, model string) bool
	points  int
}

var bonuses = []bonus{
	{func(a framework.IntentAnalysis, m string) bool {
		return a.Intent == "data_analysis" && strings.Contains(m, "Claude-3-Opus")
	}, 30},
	{func(a framework.IntentAnalysis, m string) bool {
		return a.Intent == "creative_writing" && strings.Contains(m, "GPT-4o")
	}, 30},
	{func(a framework.IntentAnalysis, m string) bool {
		return a.Intent == "technical" && strings.Contains(m, "GPT-4")
	}, 25},
	{func(a framework.IntentAnalysis, m string) bool {
		return a.Intent == "research" && strings.Contains(m, "Claude")
	}, 25},
	{func(a framework.IntentAnalysis, m string) bool {
		// small variants are not the capable model of their family
		return a.Complexity == framework.ComplexityExpert && !strings.Contains(m, "mini") &&
			(strings.Contains(m, "Opus") || strings.Contains(m, "GPT-4o"))
	}, 20},
	{func(a framework.IntentAnalysis, m string) bool {
		return a.Complexity == framework.ComplexitySimple && strings.Contains(m, "mini")
	}, 15},
	{func(a framework.IntentAnalysis, m string) bool {
		return a.Urgency == framework.UrgencyCritical && !strings.Contains(m, "mini")
	}, 15},
	{func(a framework.IntentAnalysis, m string) bool {
		return a.OutputType == "code" && strings.Contains(m, "GPT-4")
	}, 20},
	{func(a framework.IntentAnalysis, m string) bool {
		return a.OutputType == "analysis" && strings.Contains(m, "Claude")
	}, 20},
}

// ScoreModel sums the bonuses that apply to model.
func ScoreModel(a framework.IntentAnalysis, model string) int {
	score := 0
	for _, b := range bonuses {
		if b.applies(a, model) {
			score += b.points
		}
	}
	return score
}

// Select scores the framework's models against the analysis and picks the
// best one. Image and video outputs always map to their dedicated
// generators.
func Select(a framework.IntentAnalysis, fw *framework.Entry) Recommendation {
	var models, platforms []string
	if fw != nil {
		models = framework.Dedupe(fw.Models)
		platforms = framework.Dedupe(fw.Platforms)
	}

	type scored struct {
		model string
		score int
	}
	ranking := make([]scored, 0, len(models))
	scores := make(map[string]int, len(models))
	for _, m := range models {
		s := ScoreModel(a, m)
		ranking = append(ranking, scored{m, s})
		scores[m] = s
	}
	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].score > ranking[j].score })

	model := DefaultModel
	confidence := float64(baselineConfidence)
	if len(ranking) > 0 {
		model = ranking[0].model
		if ranking[0].score > 0 {
			confidence = float64(ranking[0].score)
		}
	}
	platform := PlatformForModel(model)

	switch a.OutputType {
	case "image":
		platform, model = "Midjourney", "Midjourney v6"
	case "video":
		platform, model = "Sora", "Sora v1"
	}

	alt := Alternatives{Platforms: []string{}, Models: []string{}}
	if len(platforms) > maxAlternatives {
		platforms = platforms[:maxAlternatives]
	}
	alt.Platforms = append(alt.Platforms, platforms...)
	for i := 1; i < len(ranking) && i <= maxAlternatives; i++ {
		alt.Models = append(alt.Models, ranking[i].model)
	}

	return Recommendation{
		Platform:     platform,
		Model:        model,
		Confidence:   confidence,
		Alternatives: alt,
		Reasoning:    Reasoning(a, model),
		ModelScores:  scores,
	}
}

// PlatformForModel derives the hosting platform from a model name.
func PlatformForModel(model string) string {
	switch {
	case strings.Contains(model, "Claude"):
		return "Claude"
	case strings.Contains(model, "Gemini"):
		return "Gemini"
	case strings.Contains(model, "Midjourney"):
		return "Midjourney"
	default:
		return DefaultPlatform
	}
}

// Reasoning explains the choice of model.
func Reasoning(a framework.IntentAnalysis, model string) string {
	var reasons []string
	if strings.Contains(model, "GPT-4o") {
		reasons = append(reasons, "Latest GPT-4 optimized for speed and capability")
	}
	if strings.Contains(model, "Claude") && a.Intent == "research" {
		reasons = append(reasons, "Claude excels at research and analytical tasks")
	}
	if a.Complexity == framework.ComplexityExpert {
		reasons = append(reasons, "Selected most capable model for expert-level complexity")
	}
	if a.Urgency == framework.UrgencyCritical {
		reasons = append(reasons, "Prioritized reliability for critical urgency")
	}
	if len(reasons) == 0 {
		return "Selected " + model + " for optimal performance"
	}
	return strings.Join(reasons, ". ")
}

// DeterminePlatforms lists the platforms a synthesized framework targets.
func DeterminePlatforms(a framework.IntentAnalysis) []string {
	platforms := []string{"ChatGPT", "Claude", "Gemini"}
	if a.OutputType == "image" || a.Domain == "creative" {
		platforms = append(platforms, "Midjourney", "DALL-E")
	}
	if a.OutputType == "code" || a.Domain == "technical" || a.Domain == "technology" {
		platforms = append(platforms, "GitHub Copilot", "Cursor")
	}
	if a.OutputType == "video" {
		platforms = append(platforms, "Sora", "Runway")
	}
	return platforms
}

// DetermineModels lists the models a synthesized framework targets.
func DetermineModels(a framework.IntentAnalysis) []string {
	var models []string
	if a.Complexity == framework.ComplexityExpert || a.Urgency == framework.UrgencyCritical {
		models = append(models, "GPT-4o", "GPT-4-turbo")
	} else {
		models = append(models, "GPT-4o-mini", "GPT-4o")
	}
	if a.ReasoningType == "chain_of_thought" || a.Domain == "research" {
		models = append(models, "Claude-3-Opus", "Claude-3-Sonnet")
	}
	if a.Domain == "data_analysis" || a.Domain == "data_science" || a.OutputType == "code" {
		models = append(models, "Gemini-1.5-Pro", "Gemini-1.5-Flash")
	}
	if a.OutputType == "image" {
		models = append(models, "DALL-E 3", "Midjourney v6", "Stable Diffusion XL")
	}
	return framework.Dedupe(models)
}
