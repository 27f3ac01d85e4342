package promptgen

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/llm"
)

var ErrUnknownStrategy = errors.New("unknown prompt strategy")

var templates = template.Must(template.New("promptgen").Parse(
	validationBlock + qualityBlock +
		chainOfThoughtTemplate + treeOfThoughtTemplate + reactTemplate +
		selfCritiqueTemplate + expertPanelTemplate + socraticTemplate +
		recommendationQuickTemplate + technicalQuickTemplate + creativeQuickTemplate +
		analysisQuickTemplate + genericQuickTemplate,
))

// QuickKind is a lightweight single-pass prompt template.
type QuickKind string

const (
	QuickRecommendation QuickKind = "recommendation"
	QuickTechnical      QuickKind = "technical"
	QuickCreative       QuickKind = "creative"
	QuickAnalysis       QuickKind = "analysis"
	QuickGeneric        QuickKind = "generic"
)

// SelectQuickKind picks the quick template for an analysis.
func SelectQuickKind(a framework.IntentAnalysis) QuickKind {
	intent := strings.ToLower(a.Intent)
	switch {
	case intent == "" || intent == "general":
		return QuickGeneric
	case strings.Contains(intent, "technical") || strings.Contains(intent, "code"):
		return QuickTechnical
	case strings.Contains(intent, "creative") || strings.Contains(intent, "content"):
		return QuickCreative
	case strings.Contains(intent, "analysis") || strings.Contains(intent, "research"):
		return QuickAnalysis
	default:
		return QuickRecommendation
	}
}

// Options tune Build.
type Options struct {
	// Strategy overrides SelectStrategy when set.
	Strategy           Strategy
	Quick              bool
	IncludeExamples    bool
	CustomInstructions string
	Role               string
	OutputFormat       string
}

// Metadata describes how a prompt was built.
type Metadata struct {
	Strategy            Strategy  `json:"strategy,omitempty"`
	QuickKind           QuickKind `json:"quick_kind,omitempty"`
	Domain              string    `json:"domain"`
	Complexity          string    `json:"complexity"`
	Techniques          []string  `json:"techniques,omitempty"`
	Framework           string    `json:"framework,omitempty"`
	FrameworkIntegrated bool      `json:"framework_integrated"`
	EstimatedTokens     int       `json:"estimated_tokens"`
}

// Prompt is a generated prompt with its metadata and quality check.
type Prompt struct {
	Text     string   `json:"prompt"`
	Metadata Metadata `json:"metadata"`
	Quality  Quality  `json:"quality"`
}

type templateData struct {
	Request   string
	Domain    string
	Level     string
	Tone      string
	Expertise Expertise
	Framework *framework.Entry
}

func newTemplateData(request string, a framework.IntentAnalysis, fw *framework.Entry) templateData {
	domain := a.Domain
	if domain == "" {
		domain = "general"
	}
	level := string(a.Complexity)
	if level == "" {
		level = "professional"
	}
	tone := a.TonePreference
	if tone == "" {
		tone = "professional"
	}
	return templateData{
		Request:   request,
		Domain:    domain,
		Level:     level,
		Tone:      tone,
		Expertise: ExpertiseFor(a.Domain),
		Framework: fw,
	}
}

// Render expands one strategy's meta-prompt.
func Render(s Strategy, request string, a framework.IntentAnalysis, fw *framework.Entry) (string, error) {
	switch s {
	case ChainOfThought, TreeOfThought, ReAct, SelfCritique, ExpertPanel, Socratic:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
	return execute(string(s), newTemplateData(request, a, fw))
}

// RenderQuick expands a quick template.
func RenderQuick(k QuickKind, request string, a framework.IntentAnalysis, fw *framework.Entry) (string, error) {
	switch k {
	case QuickRecommendation, QuickTechnical, QuickCreative, QuickAnalysis, QuickGeneric:
	default:
		k = QuickGeneric
	}
	return execute("quick_"+string(k), newTemplateData(request, a, fw))
}

func execute(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Build produces the final prompt for a request: a meta-prompt (or quick
// template) with the framework folded in, then the optional sections.
func Build(request string, a framework.IntentAnalysis, fw *framework.Entry, opts Options) (Prompt, error) {
	meta := Metadata{
		Domain:     a.Domain,
		Complexity: string(a.Complexity),
	}
	var text string
	var err error

	if opts.Quick {
		meta.QuickKind = SelectQuickKind(a)
		text, err = RenderQuick(meta.QuickKind, request, a, fw)
	} else {
		meta.Strategy = opts.Strategy
		if meta.Strategy == "" {
			meta.Strategy = SelectStrategy(a)
		}
		meta.Techniques = Techniques(meta.Strategy)
		text, err = Render(meta.Strategy, request, a, fw)
		if err == nil && fw != nil && fw.BasePrompt != "" {
			text += "\n\n# FRAMEWORK INTEGRATION\n" + fw.BasePrompt +
				"\n\nIntegrate this framework guidance into your reasoning process."
			meta.FrameworkIntegrated = true
		}
	}
	if err != nil {
		return Prompt{}, err
	}
	if fw != nil {
		meta.Framework = fw.Name
	}

	if opts.CustomInstructions != "" {
		text += "\n\n# ADDITIONAL REQUIREMENTS\n" + opts.CustomInstructions
	}
	if opts.IncludeExamples {
		text += Examples(a.Domain)
	}
	text = Enrich(text, a)
	if opts.Role != "" {
		text = "ROLE: You are a " + opts.Role + ".\n\n" + text
	}
	if opts.OutputFormat != "" {
		text += "\n\n# OUTPUT FORMAT\nFormat the entire response as " + opts.OutputFormat + "."
	}

	meta.EstimatedTokens = llm.EstimateTokens(text)
	return Prompt{Text: text, Metadata: meta, Quality: CheckQuality(text)}, nil
}

// Enrich appends a context section for urgent requests and known success
// criteria.
func Enrich(prompt string, a framework.IntentAnalysis) string {
	var lines []string
	if a.Urgency == framework.UrgencyCritical || a.Urgency == framework.UrgencyHigh {
		lines = append(lines, "URGENCY: This is time-sensitive. Prioritize actionability and quick wins.")
	}
	if len(a.PotentialChallenges) > 0 {
		lines = append(lines, "CONSTRAINTS: "+strings.Join(a.PotentialChallenges, ", "))
	}
	if len(a.SuccessCriteria) > 0 {
		lines = append(lines, "SUCCESS METRICS: "+strings.Join(a.SuccessCriteria, ", "))
	}
	if len(lines) == 0 {
		return prompt
	}
	return prompt + "\n\n# CONTEXT\n" + strings.Join(lines, "\n")
}

// Examples returns a worked example for the domain, the business one when
// the domain has none.
func Examples(domain string) string {
	switch domain {
	case "technical", "technology":
		return `

# EXAMPLE: Technical Problem-Solving
Input: "How do I optimize database queries?"
Approach:
1. Analyze query patterns and identify bottlenecks
2. Consider indexing strategies (B-tree vs Hash)
3. Evaluate query execution plans
4. Implement and measure improvements

Apply similar systematic thinking to your task.`
	case "creative":
		return `

# EXAMPLE: Creative Content Development
Input: "Create a compelling brand story"
Approach:
1. Identify core brand values and differentiators
2. Develop narrative arc with emotional resonance
3. Create multi-sensory scene descriptions
4. Ensure consistency across touchpoints

Apply this storytelling framework to your creative task.`
	default:
		return `

# EXAMPLE: Strategic Analysis
Input: "How do we enter a new market?"
Approach:
1. Market sizing and segmentation analysis
2. Competitive landscape evaluation (Porter's Five Forces)
3. Go-to-market strategy development
4. Risk assessment and mitigation planning

Use this structured approach for your strategic problem.`
	}
}

// Quality is a heuristic check of a generated prompt.
type Quality struct {
	Valid           bool     `json:"valid"`
	Score           float64  `json:"score"`
	Structure       bool     `json:"structure"`
	Context         bool     `json:"context"`
	Instructions    bool     `json:"instructions"`
	QualityGuidance bool     `json:"quality_guidance"`
	Suggestions     []string `json:"suggestions,omitempty"`
}

// CheckQuality scores a prompt on four heuristics; three of four passing
// makes it valid.
func CheckQuality(prompt string) Quality {
	lower := strings.ToLower(prompt)
	q := Quality{
		Structure:       strings.Contains(prompt, "#") || strings.Contains(prompt, "1."),
		Context:         len(prompt) > 200,
		Instructions:    strings.Contains(lower, "provide") || strings.Contains(lower, "create"),
		QualityGuidance: strings.Contains(lower, "expert") || strings.Contains(lower, "professional"),
	}
	passed := 0
	for _, ok := range []bool{q.Structure, q.Context, q.Instructions, q.QualityGuidance} {
		if ok {
			passed++
		}
	}
	q.Score = float64(passed) / 4
	q.Valid = q.Score >= 0.75

	if !q.Structure {
		q.Suggestions = append(q.Suggestions, "Add clear sections and numbered steps")
	}
	if !q.Context {
		q.Suggestions = append(q.Suggestions, "Expand prompt with more context and detail")
	}
	if !q.Instructions {
		q.Suggestions = append(q.Suggestions, "Include explicit instructions for the AI")
	}
	if !q.QualityGuidance {
		q.Suggestions = append(q.Suggestions, "Add quality standards and expertise requirements")
	}
	return q
}
