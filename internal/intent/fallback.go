package intent

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Freekyn/Promptin/internal/framework"
)

// patternGroup is one rule of the fallback classifier. Empty fields leave
// the base analysis untouched.
type patternGroup struct {
	name    string
	stems   []string
	pattern *regexp.Regexp

	intent string
	domain string
	role   string
	tone   string
	output string
}

func newGroup(name string, stems []string, intent, domain, role, tone, output string) patternGroup {
	return patternGroup{
		name:    name,
		stems:   stems,
		pattern: regexp.MustCompile(`\b(?:` + strings.Join(stems, "|") + `)`),
		intent:  intent,
		domain:  domain,
		role:    role,
		tone:    tone,
		output:  output,
	}
}

// Tested in order; the first group that matches wins.
var fallbackGroups = []patternGroup{
	newGroup("creative",
		[]string{"song", "music", "story", "creative", "artist", "write", "compose", "design", "art"},
		"creative_writing", "creative", "Designer", "creative", ""),
	newGroup("technical",
		[]string{"code", "program", "develop", "software", "api", "algorithm", "debug", "implement"},
		"technical", "technology", "Developer", "technical", "code"),
	newGroup("data",
		[]string{"data", "analyz", "dashboard", "metric", "insight", "statistic", "trend", "report"},
		"data_analysis", "data_science", "Data Scientist", "analytical", "dashboard"),
	newGroup("business",
		[]string{"strategy", "business", "market", "growth", "revenue", "competitive", "plan"},
		"business_strategy", "business", "CEO", "professional", "strategy"),
	newGroup("research",
		[]string{"research", "study", "investigate", "literature", "academic", "paper", "thesis"},
		"research", "research", "Researcher", "analytical", "report"),
	newGroup("support",
		[]string{"help", "issue", "problem", "error", "fix", "troubleshoot", "resolve"},
		"problem_solving", "support", "Support Specialist", "", ""),
}

const (
	minKeywords     = 3
	maxKeywords     = 10
	minKeywordChars = 4
)

// Fallback classifies text with fixed keyword patterns. It is pure: the same
// text, in any letter case, always yields the same analysis.
func Fallback(text string) framework.IntentAnalysis {
	lower := strings.ToLower(text)
	words := splitWords(lower)

	a := framework.IntentAnalysis{
		Intent:              "general",
		Domain:              "business",
		Complexity:          framework.ComplexityMedium,
		Urgency:             framework.UrgencyMedium,
		OutputType:          "document",
		AlternativeOutputs:  []string{"report", "summary"},
		TonePreference:      "professional",
		SuggestedRole:       "Expert Consultant",
		AlternativeRoles:    []string{"Analyst", "Advisor"},
		ReasoningType:       "step_by_step",
		ContextRequirements: "Clear problem statement and objectives",
		SuccessCriteria:     []string{"Comprehensive solution", "Actionable recommendations"},
		PotentialChallenges: []string{"Ambiguous requirements"},
		ConfidenceScore:     60,
	}

	var keywords []string
	for _, g := range fallbackGroups {
		if !g.pattern.MatchString(lower) {
			continue
		}
		a.Intent = g.intent
		a.Domain = g.domain
		a.SuggestedRole = g.role
		if g.tone != "" {
			a.TonePreference = g.tone
		}
		if g.output != "" {
			a.OutputType = g.output
		}
		keywords = append(keywords, g.matchedWords(words)...)
		break
	}

	for _, w := range words {
		if len(w) >= minKeywordChars {
			keywords = append(keywords, w)
		}
	}
	keywords = framework.Dedupe(keywords)
	if len(keywords) < minKeywords {
		keywords = framework.Dedupe(append(keywords, words...))
	}
	for _, pad := range []string{a.Intent, a.Domain, a.OutputType, a.ReasoningType, "request"} {
		if len(keywords) >= minKeywords {
			break
		}
		keywords = framework.Dedupe(append(keywords, pad))
	}
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	a.Keywords = keywords
	return a
}

// FallbackGroup returns the name of the pattern group that matches text, or
// "" when the defaults apply.
func FallbackGroup(text string) string {
	lower := strings.ToLower(text)
	for _, g := range fallbackGroups {
		if g.pattern.MatchString(lower) {
			return g.name
		}
	}
	return ""
}

func (g patternGroup) matchedWords(words []string) []string {
	var out []string
	for _, w := range words {
		for _, stem := range g.stems {
			if strings.HasPrefix(w, stem) {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
