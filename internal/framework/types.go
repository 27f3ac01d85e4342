// Package framework defines the records shared by every stage of the
// recommendation pipeline: corpus entries, intent analyses and scored
// candidates.
package framework

import (
	"strings"
	"time"
)

// Complexity is the ordered difficulty scale shared by requests and entries.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
	ComplexityExpert  Complexity = "expert"
)

var complexityOrder = []Complexity{ComplexitySimple, ComplexityMedium, ComplexityComplex, ComplexityExpert}

// Rank returns the position of c on the scale simple<medium<complex<expert,
// or -1 when c is not a known level.
func (c Complexity) Rank() int {
	for i, level := range complexityOrder {
		if level == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is one of the four known levels.
func (c Complexity) Valid() bool { return c.Rank() >= 0 }

// ParseComplexity normalizes s, defaulting to medium.
func ParseComplexity(s string) Complexity {
	c := Complexity(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return ComplexityMedium
	}
	return c
}

// Urgency of a request.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// ParseUrgency normalizes s, defaulting to medium.
func ParseUrgency(s string) Urgency {
	switch u := Urgency(strings.ToLower(strings.TrimSpace(s))); u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return u
	default:
		return UrgencyMedium
	}
}

// Source records where an entry came from.
type Source string

const (
	SourceCurated     Source = "curated"
	SourceAIGenerated Source = "ai-generated"
	SourceFailsafe    Source = "failsafe"
)

// Entry is a reusable prompt template. Entries are shared read-only once
// they are in the corpus; BasePrompt never changes after persistence.
type Entry struct {
	ID              string     `json:"id" yaml:"id" validate:"required"`
	Name            string     `json:"name" yaml:"name" validate:"required"`
	Category        string     `json:"category" yaml:"category"`
	Description     string     `json:"description" yaml:"description"`
	BasePrompt      string     `json:"base_prompt" yaml:"base_prompt" validate:"required"`
	ToneModifiers   []string   `json:"tone_modifiers,omitempty" yaml:"tone_modifiers,omitempty"`
	RoleVariations  []string   `json:"role_variations,omitempty" yaml:"role_variations,omitempty"`
	OutputFormats   []string   `json:"output_formats,omitempty" yaml:"output_formats,omitempty"`
	Platforms       []string   `json:"platforms,omitempty" yaml:"platforms,omitempty"`
	Models          []string   `json:"models,omitempty" yaml:"models,omitempty"`
	DomainTags      []string   `json:"domain_tags,omitempty" yaml:"domain_tags,omitempty"`
	ComplexityLevel Complexity `json:"complexity_level" yaml:"complexity_level" validate:"omitempty,oneof=simple medium complex expert"`
	TokenEstimate   int        `json:"token_estimate" yaml:"token_estimate" validate:"gte=0"`
	Source          Source     `json:"source" yaml:"source" validate:"omitempty,oneof=curated ai-generated failsafe"`

	// Populated for synthesized entries.
	Methodology    []string `json:"methodology,omitempty" yaml:"methodology,omitempty"`
	KeyPrinciples  []string `json:"key_principles,omitempty" yaml:"key_principles,omitempty"`
	SuccessMetrics []string `json:"success_metrics,omitempty" yaml:"success_metrics,omitempty"`
	CommonPitfalls []string `json:"common_pitfalls,omitempty" yaml:"common_pitfalls,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Text is the concatenation used for containment checks and embeddings.
func (e *Entry) Text() string {
	return e.Name + " " + e.Description
}

// HasDomainTag reports whether tag is among the entry's domain tags.
func (e *Entry) HasDomainTag(tag string) bool {
	return containsFold(e.DomainTags, tag)
}

// IntentAnalysis is the structured reading of one request. The JSON shape is
// the one requested from the generative provider.
type IntentAnalysis struct {
	Intent              string     `json:"intent" validate:"required"`
	SecondaryIntents    []string   `json:"secondary_intents"`
	Domain              string     `json:"domain" validate:"required"`
	SubDomains          []string   `json:"sub_domains"`
	Complexity          Complexity `json:"complexity" validate:"required,oneof=simple medium complex expert"`
	Urgency             Urgency    `json:"urgency" validate:"required,oneof=low medium high critical"`
	OutputType          string     `json:"output_type" validate:"required"`
	AlternativeOutputs  []string   `json:"alternative_outputs"`
	TonePreference      string     `json:"tone_preference"`
	SuggestedRole       string     `json:"suggested_role" validate:"required"`
	AlternativeRoles    []string   `json:"alternative_roles"`
	Keywords            []string   `json:"keywords" validate:"min=3,max=10"`
	SemanticConcepts    []string   `json:"semantic_concepts"`
	ReasoningType       string     `json:"reasoning_type"`
	ContextRequirements string     `json:"context_requirements"`
	SuccessCriteria     []string   `json:"success_criteria"`
	PotentialChallenges []string   `json:"potential_challenges"`
	ConfidenceScore     int        `json:"confidence_score" validate:"gte=0,lte=100"`
	NovelCategory       string     `json:"novel_category,omitempty"`
}

// Clone returns a deep copy so callers can derive new values without
// touching cached analyses.
func (a IntentAnalysis) Clone() IntentAnalysis {
	out := a
	out.SecondaryIntents = cloneStrings(a.SecondaryIntents)
	out.SubDomains = cloneStrings(a.SubDomains)
	out.AlternativeOutputs = cloneStrings(a.AlternativeOutputs)
	out.AlternativeRoles = cloneStrings(a.AlternativeRoles)
	out.Keywords = cloneStrings(a.Keywords)
	out.SemanticConcepts = cloneStrings(a.SemanticConcepts)
	out.SuccessCriteria = cloneStrings(a.SuccessCriteria)
	out.PotentialChallenges = cloneStrings(a.PotentialChallenges)
	return out
}

// Factor names used in ScoredCandidate.ConfidenceFactors.
const (
	FactorDomain     = "domainMatch"
	FactorIntent     = "intentAlignment"
	FactorComplexity = "complexityMatch"
	FactorOutput     = "outputCompatibility"
	FactorSemantic   = "semanticRelevance"
	FactorSuccess    = "successAlignment"
)

// Candidate is a retrieved entry before scoring. SemanticScore is the cosine
// similarity from semantic search, or 0 when it did not run for the entry.
type Candidate struct {
	Entry         *Entry
	SemanticScore float64
}

// ScoredCandidate pairs a corpus entry with per-request scores. Framework is
// borrowed from the corpus and must not be mutated.
type ScoredCandidate struct {
	Framework         *Entry             `json:"framework"`
	SemanticScore     float64            `json:"semantic_score,omitempty"`
	RelevanceScore    float64            `json:"relevance_score"`
	Confidence        float64            `json:"confidence"`
	ConfidenceFactors map[string]float64 `json:"confidence_factors"`
	MatchExplanation  string             `json:"match_explanation"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func containsFold(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// Dedupe returns values with duplicates (case-insensitive) and blanks removed,
// preserving first-seen order.
func Dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := strings.ToLower(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
