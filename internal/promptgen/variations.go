package promptgen

import (
	"strings"

	"github.com/Freekyn/Promptin/internal/framework"
)

const maxVariations = 3

// Variation is an alternative phrasing of the selected framework.
type Variation struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
	Focus  string `json:"focus"`
}

// Variations returns up to three ready-made prompts from the framework:
// standard and comprehensive always, rapid for urgent requests, creative for
// creative ones.
func Variations(fw *framework.Entry, a framework.IntentAnalysis, request string) []Variation {
	if fw == nil {
		return nil
	}
	out := []Variation{
		{
			Name:   "Standard",
			Prompt: strings.Replace(fw.BasePrompt, "{USER_REQUEST}", request, 1),
			Focus:  "Balanced approach",
		},
		{
			Name:   "Comprehensive",
			Prompt: fw.BasePrompt + "\n\nProvide extensive detail for: " + request + "\n\nInclude: " + contextRequirements(a),
			Focus:  "Maximum detail and depth",
		},
	}

	if a.Urgency == framework.UrgencyHigh || a.Urgency == framework.UrgencyCritical {
		rapid := "Quickly address: " + request + "\n\nKey points only."
		if len(fw.Methodology) > 0 {
			rapid += " Focus on: " + strings.Join(fw.Methodology[:min(2, len(fw.Methodology))], ", ")
		}
		out = append(out, Variation{Name: "Rapid", Prompt: rapid, Focus: "Speed and key insights"})
	}

	if a.Domain == "creative" || a.Intent == "creative_writing" {
		out = append(out, Variation{
			Name:   "Creative",
			Prompt: fw.BasePrompt + "\n\nApproach creatively: " + request + "\n\nEmphasize originality and innovation.",
			Focus:  "Maximum creativity",
		})
	}

	if len(out) > maxVariations {
		out = out[:maxVariations]
	}
	return out
}

func contextRequirements(a framework.IntentAnalysis) string {
	if strings.TrimSpace(a.ContextRequirements) == "" {
		return "all relevant context"
	}
	return a.ContextRequirements
}
