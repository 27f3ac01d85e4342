package mcp

import (
	"fmt"
	"strings"

	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/promptgen"
	"github.com/Freekyn/Promptin/internal/recommend"
	"github.com/Freekyn/Promptin/internal/utils"
)

const descriptionLimit = 120

// FormatRecommendation converts a recommendation into token-efficient
// Markdown: the selected framework, where to run it and the first prompt
// variation.
func FormatRecommendation(resp *recommend.Response) string {
	if resp == nil || resp.Framework.Selected == nil {
		return FormatError("No recommendation available.")
	}
	a := resp.Analysis
	fw := resp.Framework.Selected
	plat := resp.Recommendations.Platform

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s %s\n\n", sourceIcon(fw.Source), fw.Name))
	if fw.Description != "" {
		sb.WriteString(utils.Truncate(fw.Description, descriptionLimit) + "\n\n")
	}
	sb.WriteString(fmt.Sprintf("**Approach**: %s | **Confidence**: %.0f%% | **Overall**: %.0f%%\n",
		resp.Framework.Approach, resp.Framework.Confidence, resp.Metadata.OverallConfidence))
	sb.WriteString(fmt.Sprintf("**Intent**: %s | **Domain**: %s | **Complexity**: %s\n",
		a.Intent, a.Domain, a.Complexity))
	if resp.Framework.MatchExplanation != "" {
		sb.WriteString(fmt.Sprintf("**Why**: %s\n", resp.Framework.MatchExplanation))
	}
	if a.Categories.SuggestedNew != "" {
		sb.WriteString(fmt.Sprintf("**New category**: `%s`\n", a.Categories.SuggestedNew))
	}
	if resp.Metadata.Insights.ClassifierFallback {
		sb.WriteString("\n*Intent came from keyword fallback; the model provider was unavailable.*\n")
	}

	sb.WriteString("\n### Run it on\n")
	sb.WriteString(fmt.Sprintf("- **Model**: %s (%s)\n", plat.Model, plat.Platform))
	sb.WriteString(fmt.Sprintf("- **Format**: %s\n", resp.Recommendations.Format.Recommended))
	sb.WriteString(fmt.Sprintf("- **Settings**: temperature %.1f, max tokens %d\n", resp.AutoFill.Temperature, resp.AutoFill.MaxTokens))
	sb.WriteString(fmt.Sprintf("- **Estimated cost**: $%s %s\n", plat.CostEstimate.Estimated, plat.CostEstimate.Currency))

	if len(resp.Framework.Alternatives) > 0 {
		sb.WriteString("\n### Alternatives\n")
		for _, alt := range resp.Framework.Alternatives {
			sb.WriteString(fmt.Sprintf("- `%s` %s: %s\n", alt.Framework.ID, alt.Framework.Name, alt.Differentiator))
		}
	}

	if len(resp.PromptVariations) > 0 {
		v := resp.PromptVariations[0]
		sb.WriteString(fmt.Sprintf("\n### %s prompt\n\n```\n%s\n```\n", v.Name, v.Prompt))
	}
	sb.WriteString(fmt.Sprintf("\nFramework ID: `%s`", fw.ID))
	return strings.TrimSpace(sb.String())
}

// FormatSearchResults lists matching frameworks.
func FormatSearchResults(query string, entries []*framework.Entry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No frameworks match %q.", query)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Frameworks matching %q (%d)\n\n", query, len(entries)))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("- %s **%s** `%s` (%s, %s)\n", sourceIcon(e.Source), e.Name, e.ID, e.Category, e.ComplexityLevel))
		if e.Description != "" {
			sb.WriteString("  " + utils.Truncate(e.Description, descriptionLimit) + "\n")
		}
	}
	return strings.TrimSpace(sb.String())
}

// FormatFeedback confirms a recorded rating.
func FormatFeedback(request string, rating int) string {
	return fmt.Sprintf("## ✅ Feedback Recorded\n\n**Rating**: %s (%d/5)\n**Request**: %s",
		strings.Repeat("★", rating)+strings.Repeat("☆", 5-rating), rating, utils.Truncate(request, descriptionLimit))
}

// FormatPrompt renders a generated prompt with its quality notes.
func FormatPrompt(p promptgen.Prompt) string {
	var sb strings.Builder
	label := string(p.Metadata.Strategy)
	if label == "" {
		label = "quick_" + string(p.Metadata.QuickKind)
	}
	sb.WriteString(fmt.Sprintf("## Prompt (%s)\n\n", label))
	if p.Metadata.Framework != "" {
		sb.WriteString(fmt.Sprintf("**Framework**: %s\n", p.Metadata.Framework))
	}
	sb.WriteString(fmt.Sprintf("**Quality**: %.0f/100 | **Tokens**: ~%d\n\n", p.Quality.Score, p.Metadata.EstimatedTokens))
	sb.WriteString("```\n" + p.Text + "\n```\n")
	for _, s := range p.Quality.Suggestions {
		sb.WriteString("- " + s + "\n")
	}
	return strings.TrimSpace(sb.String())
}

// FormatError returns a standardized Markdown error message.
func FormatError(message string) string {
	return fmt.Sprintf("## ❌ Error\n\n**Details**: %s", message)
}

// FormatValidationError returns a Markdown error for validation failures.
func FormatValidationError(field, message string) string {
	return fmt.Sprintf("## ❌ Validation Error\n\n**Field**: `%s`\n**Details**: %s", field, message)
}

func sourceIcon(s framework.Source) string {
	switch s {
	case framework.SourceAIGenerated:
		return "✨"
	case framework.SourceFailsafe:
		return "🛟"
	default:
		return "📐"
	}
}
