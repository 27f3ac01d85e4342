package recommend

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Freekyn/Promptin/internal/framework"
)

const defaultFormat = "Markdown"

// formatFamily lists the output formats that suit one intent.
type formatFamily struct {
	Primary   []string
	Secondary []string
	Context   string
}

func (f formatFamily) all() []string {
	return append(slices.Clone(f.Primary), f.Secondary...)
}

var formatFamilies = map[string]formatFamily{
	"data_analysis": {
		Primary:   []string{"Dashboard", "Excel", "Jupyter Notebook"},
		Secondary: []string{"Report", "Visualization", "CSV"},
		Context:   "Data visualization and analysis",
	},
	"content_creation": {
		Primary:   []string{"Article", "Blog Post", "Website"},
		Secondary: []string{"PDF", "Markdown", "Social Media"},
		Context:   "Content for publication",
	},
	"technical": {
		Primary:   []string{"Code", "API Documentation", "Technical Spec"},
		Secondary: []string{"Runbook", "README", "Diagram"},
		Context:   "Technical documentation",
	},
	"creative_writing": {
		Primary:   []string{"Story", "Script", "Narrative"},
		Secondary: []string{"Dialogue", "Character Profile", "Plot Outline"},
		Context:   "Creative content",
	},
	"business_strategy": {
		Primary:   []string{"Strategic Plan", "Presentation", "Executive Summary"},
		Secondary: []string{"SWOT Analysis", "Roadmap", "Business Model Canvas"},
		Context:   "Business planning",
	},
	"research": {
		Primary:   []string{"Research Paper", "Literature Review", "Meta-Analysis"},
		Secondary: []string{"Abstract", "Methodology", "Bibliography"},
		Context:   "Academic research",
	},
}

var generalFormats = formatFamily{
	Primary:   []string{"Document", "Report"},
	Secondary: []string{"Summary", "List"},
	Context:   "General purpose",
}

// FormatCompatibility records how the framework's formats relate to the
// formats that suit the intent.
type FormatCompatibility struct {
	Framework []string `json:"framework"`
	Intent    []string `json:"intent"`
	Overlap   int      `json:"overlap"`
}

// FormatRecommendation is the suggested output format for a request.
type FormatRecommendation struct {
	Recommended   string              `json:"recommended"`
	Available     []string            `json:"available"`
	Alternatives  []string            `json:"alternatives"`
	Context       string              `json:"context"`
	Compatibility FormatCompatibility `json:"compatibility"`
	Suggestion    string              `json:"suggestion"`
	Confidence    float64             `json:"confidence"`
}

// RecommendFormat picks an output format that both the framework supports
// and the intent calls for. Formats match when either contains the other,
// ignoring case.
func RecommendFormat(a framework.IntentAnalysis, fw *framework.Entry) FormatRecommendation {
	family, ok := formatFamilies[a.Intent]
	if !ok {
		family = generalFormats
	}
	var fwFormats []string
	if fw != nil {
		fwFormats = fw.OutputFormats
	}
	wanted := family.all()

	var overlap []string
	for _, f := range fwFormats {
		if slices.ContainsFunc(wanted, func(w string) bool { return containsEither(f, w) }) {
			overlap = append(overlap, f)
		}
	}

	primary := pickPrimary(overlap, family.Primary, fwFormats)
	var secondary []string
	if len(overlap) > 1 {
		secondary = slices.Clone(overlap[1:min(len(overlap), 4)])
	}
	available := []string{primary}
	available = append(available, overlap...)
	available = append(available, fwFormats[:min(len(fwFormats), 3)]...)

	rec := FormatRecommendation{
		Recommended:  primary,
		Available:    uniqueExact(available),
		Alternatives: secondary,
		Context:      family.Context,
		Compatibility: FormatCompatibility{
			Framework: fwFormats,
			Intent:    wanted,
			Overlap:   len(overlap),
		},
	}
	rec.Suggestion = formatSuggestion(rec, a.Intent)
	rec.Confidence = FormatConfidence(primary, a)
	return rec
}

func pickPrimary(overlap, intentPrimary, fwFormats []string) string {
	if len(overlap) > 0 {
		return overlap[0]
	}
	for _, f := range intentPrimary {
		head := strings.ToLower(strings.Fields(f)[0])
		if slices.ContainsFunc(fwFormats, func(ff string) bool {
			return strings.Contains(strings.ToLower(ff), head)
		}) {
			return f
		}
	}
	if len(fwFormats) > 0 {
		return fwFormats[0]
	}
	return defaultFormat
}

func formatSuggestion(rec FormatRecommendation, intent string) string {
	switch n := rec.Compatibility.Overlap; {
	case n > 2:
		return fmt.Sprintf("Strong format compatibility - %s is ideal for %s", rec.Recommended, intent)
	case n > 0:
		return fmt.Sprintf("%s recommended, with %d alternatives available", rec.Recommended, len(rec.Alternatives))
	default:
		return fmt.Sprintf("Using %s - consider framework alternatives for better format match", rec.Recommended)
	}
}

// FormatConfidence starts at 50 and rises when the format is what the
// request asked for (+30) or one of its alternatives (+20), capped at 100.
func FormatConfidence(format string, a framework.IntentAnalysis) float64 {
	confidence := 50.0
	if strings.EqualFold(format, a.OutputType) {
		confidence += 30
	}
	if slices.ContainsFunc(a.AlternativeOutputs, func(o string) bool { return strings.EqualFold(o, format) }) {
		confidence += 20
	}
	return min(confidence, 100)
}

func containsEither(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func uniqueExact(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
