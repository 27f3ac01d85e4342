package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freekyn/Promptin/internal/corpus"
	"github.com/Freekyn/Promptin/internal/feedback"
	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/promptgen"
	"github.com/Freekyn/Promptin/internal/recommend"
	"github.com/Freekyn/Promptin/internal/utils"
)

// RenderRecommendation formats a recommendation for a terminal of the given
// width.
func RenderRecommendation(resp *recommend.Response, width int) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	inner := max(width-4, 20)

	a := resp.Analysis
	fw := resp.Framework

	sb.WriteString(StyleSectionTitle.Render("Analysis") + "\n")
	writeField(&sb, "Intent", utils.Humanize(a.Intent))
	writeField(&sb, "Domain", utils.Humanize(a.Domain))
	writeField(&sb, "Complexity", string(a.Complexity))
	writeField(&sb, "Output", a.OutputType)
	writeField(&sb, "Role", a.SuggestedRole)
	if a.Categories.SuggestedNew != "" {
		writeField(&sb, "New category", a.Categories.SuggestedNew)
	}
	if resp.Metadata.Insights.ClassifierFallback {
		sb.WriteString(StyleWarning.Render("  ⚠ keyword fallback used, provider unavailable") + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(StyleSectionTitle.Render("Framework") + "\n")
	if fw.Selected != nil {
		writeField(&sb, "Selected", StyleTitle.Render(fw.Selected.Name)+StyleSubtle.Render(" ("+string(fw.Selected.Source)+")"))
		if fw.Selected.Description != "" {
			writeField(&sb, "About", utils.Truncate(fw.Selected.Description, inner-16))
		}
	}
	writeField(&sb, "Approach", fw.Approach)
	writeField(&sb, "Confidence", confidence(fw.Confidence))
	if fw.MatchExplanation != "" {
		writeField(&sb, "Why", fw.MatchExplanation)
	}
	for _, alt := range fw.Alternatives {
		sb.WriteString(StyleSubtle.Render(fmt.Sprintf("  ↳ %s: %s", alt.Framework.Name, alt.Differentiator)) + "\n")
	}
	sb.WriteString("\n")

	plat := resp.Recommendations.Platform
	sb.WriteString(StyleSectionTitle.Render("Run it on") + "\n")
	writeField(&sb, "Platform", plat.Platform)
	writeField(&sb, "Model", plat.Model)
	writeField(&sb, "Cost", "$"+plat.CostEstimate.Estimated+StyleSubtle.Render(fmt.Sprintf(" (~%d tokens)", plat.CostEstimate.Tokens)))
	writeField(&sb, "Format", resp.Recommendations.Format.Recommended)
	writeField(&sb, "Settings", fmt.Sprintf("temperature %.1f, max tokens %d", resp.AutoFill.Temperature, resp.AutoFill.MaxTokens))
	if plat.Reasoning != "" {
		sb.WriteString(StyleSubtle.Render("  "+WrapText(plat.Reasoning, inner)) + "\n")
	}
	sb.WriteString("\n")

	if len(resp.PromptVariations) > 0 {
		v := resp.PromptVariations[0]
		sb.WriteString(NewPanel(v.Name+" prompt", WrapText(v.Prompt, inner-4)).
			WithBorderColor(ColorCyan).
			Render() + "\n")
	}

	overall := resp.Metadata.OverallConfidence
	sb.WriteString(fmt.Sprintf("Overall confidence %s  %s\n",
		confidence(overall),
		StyleSubtle.Render("id "+TruncateID(resp.ID))))
	return sb.String()
}

// RenderPrompt formats a generated prompt with its quality report.
func RenderPrompt(p promptgen.Prompt, width int) string {
	var sb strings.Builder
	title := "Prompt"
	switch {
	case p.Metadata.Strategy != "":
		title = utils.Humanize(string(p.Metadata.Strategy)) + " prompt"
	case p.Metadata.QuickKind != "":
		title = utils.Humanize(string(p.Metadata.QuickKind)) + " template"
	}
	sb.WriteString(NewPanel(title, WrapText(p.Text, max(width-8, 20))).WithBorderColor(ColorCyan).Render() + "\n")
	sb.WriteString(fmt.Sprintf("Quality %s  ~%d tokens\n", confidence(p.Quality.Score), p.Metadata.EstimatedTokens))
	for _, s := range p.Quality.Suggestions {
		sb.WriteString(StyleWarning.Render("  • "+s) + "\n")
	}
	return sb.String()
}

// RenderFrameworks lists corpus entries as a table.
func RenderFrameworks(entries []*framework.Entry, width int) string {
	t := &Table{
		Headers:  []string{"ID", "Name", "Category", "Complexity", "Source"},
		MaxWidth: max(width/4, 12),
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{e.ID, e.Name, e.Category, string(e.ComplexityLevel), string(e.Source)})
	}
	return t.Render()
}

// RenderStats formats corpus and feedback statistics.
func RenderStats(cs corpus.Stats, fs feedback.Stats) string {
	var sb strings.Builder
	sb.WriteString(StyleSectionTitle.Render("Corpus") + "\n")
	writeField(&sb, "Frameworks", strconv.Itoa(cs.Total))
	t := &Table{Headers: []string{"Category", "Count"}}
	for _, c := range cs.Categories {
		t.Rows = append(t.Rows, []string{c.Category, strconv.Itoa(c.Count)})
	}
	sb.WriteString(t.Render())
	sb.WriteString("\n" + StyleSectionTitle.Render("Feedback") + "\n")
	writeField(&sb, "Ratings", strconv.Itoa(fs.Events))
	if fs.Events > 0 {
		writeField(&sb, "Average", fmt.Sprintf("%.2f / 5", fs.AverageRating))
	}
	return sb.String()
}

// TruncateID shortens an ID for display.
func TruncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func writeField(sb *strings.Builder, label, value string) {
	sb.WriteString("  " + StyleLabel.Render(label) + value + "\n")
}

func confidence(score float64) string {
	return ConfidenceStyle(score).Render(fmt.Sprintf("%.0f%%", score))
}
