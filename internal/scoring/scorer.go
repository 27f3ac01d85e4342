// Package scoring ranks retrieved frameworks against an intent analysis with
// a weighted six-factor score.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Freekyn/Promptin/internal/framework"
)

// Weights of the six factors. They must sum to 1.
type Weights struct {
	Domain     float64 `mapstructure:"domain" validate:"gte=0,lte=1"`
	Intent     float64 `mapstructure:"intent" validate:"gte=0,lte=1"`
	Complexity float64 `mapstructure:"complexity" validate:"gte=0,lte=1"`
	Output     float64 `mapstructure:"output" validate:"gte=0,lte=1"`
	Semantic   float64 `mapstructure:"semantic" validate:"gte=0,lte=1"`
	Success    float64 `mapstructure:"success" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the standard factor weights.
func DefaultWeights() Weights {
	return Weights{
		Domain:     0.20,
		Intent:     0.25,
		Complexity: 0.15,
		Output:     0.15,
		Semantic:   0.15,
		Success:    0.10,
	}
}

var ErrWeightSum = errors.New("scoring weights must sum to 1")

// Validate checks that the weights sum to 1.
func (w Weights) Validate() error {
	sum := w.Domain + w.Intent + w.Complexity + w.Output + w.Semantic + w.Success
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w (got %.4f)", ErrWeightSum, sum)
	}
	return nil
}

// WeightSource supplies the feedback multiplier for a (category, intent) pair.
type WeightSource interface {
	AdjustmentWeight(category, intent string) float64
}

// Scorer scores and ranks candidates.
type Scorer struct {
	weights  Weights
	feedback WeightSource
}

// New creates a Scorer. Invalid weights are replaced by DefaultWeights;
// feedback may be nil.
func New(weights Weights, feedback WeightSource) *Scorer {
	if weights.Validate() != nil {
		weights = DefaultWeights()
	}
	return &Scorer{weights: weights, feedback: feedback}
}

// Rank scores every candidate and sorts them by descending relevance. Ties
// keep retrieval order.
func (s *Scorer) Rank(candidates []framework.Candidate, a framework.IntentAnalysis) []framework.ScoredCandidate {
	out := make([]framework.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Entry == nil {
			continue
		}
		out = append(out, s.Score(c, a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out
}

// Score computes the relevance, confidence and explanation of one candidate.
func (s *Scorer) Score(c framework.Candidate, a framework.IntentAnalysis) framework.ScoredCandidate {
	e := c.Entry
	factors := map[string]float64{
		framework.FactorDomain:     DomainMatch(e, a),
		framework.FactorIntent:     IntentAlignment(e, a) * 100,
		framework.FactorComplexity: ComplexityMatch(e.ComplexityLevel, a.Complexity),
		framework.FactorOutput:     OutputCompatibility(e, a) * 100,
		framework.FactorSemantic:   clamp(c.SemanticScore*100, 0, 100),
		framework.FactorSuccess:    SuccessAlignment(e, a) * 100,
	}

	relevance := factors[framework.FactorDomain]*s.weights.Domain +
		factors[framework.FactorIntent]*s.weights.Intent +
		factors[framework.FactorComplexity]*s.weights.Complexity +
		factors[framework.FactorOutput]*s.weights.Output +
		factors[framework.FactorSemantic]*s.weights.Semantic +
		factors[framework.FactorSuccess]*s.weights.Success

	if s.feedback != nil {
		relevance *= s.feedback.AdjustmentWeight(e.Category, a.Intent)
	}

	return framework.ScoredCandidate{
		Framework:         e,
		SemanticScore:     c.SemanticScore,
		RelevanceScore:    clamp(relevance, 0, 100),
		Confidence:        Confidence(factors),
		ConfidenceFactors: factors,
		MatchExplanation:  Explain(factors),
	}
}

// DomainMatch is 100 when the entry is tagged with the analysis domain, 50
// when it is tagged with one of the sub-domains, else 0.
func DomainMatch(e *framework.Entry, a framework.IntentAnalysis) float64 {
	if e.HasDomainTag(a.Domain) {
		return 100
	}
	for _, d := range a.SubDomains {
		if e.HasDomainTag(d) {
			return 50
		}
	}
	return 0
}

// IntentAlignment blends containment of the primary intent in the entry's
// name and description (0.7) with the share of secondary intents contained
// (0.3). Result in [0,1].
func IntentAlignment(e *framework.Entry, a framework.IntentAnalysis) float64 {
	text := strings.ToLower(e.Text())
	var primary float64
	if mentions(text, a.Intent) {
		primary = 1
	}
	var secondary float64
	if len(a.SecondaryIntents) > 0 {
		matched := 0
		for _, si := range a.SecondaryIntents {
			if mentions(text, si) {
				matched++
			}
		}
		secondary = float64(matched) / float64(len(a.SecondaryIntents))
	}
	return primary*0.7 + secondary*0.3
}

// ComplexityMatch is 100 for equal levels, 50 for adjacent levels, else 0.
func ComplexityMatch(entry, want framework.Complexity) float64 {
	if entry == want && entry.Valid() {
		return 100
	}
	er, wr := entry.Rank(), want.Rank()
	if er < 0 || wr < 0 {
		return 0
	}
	if er-wr == 1 || wr-er == 1 {
		return 50
	}
	return 0
}

// OutputCompatibility is 1 when the entry offers the wanted output type,
// 0.5 plus up to 0.3 for alternative outputs it offers, 0.3 for a substring
// overlap with the wanted type, else 0.
func OutputCompatibility(e *framework.Entry, a framework.IntentAnalysis) float64 {
	if len(e.OutputFormats) == 0 {
		return 0
	}
	want := strings.ToLower(strings.TrimSpace(a.OutputType))
	formats := make([]string, len(e.OutputFormats))
	for i, f := range e.OutputFormats {
		formats[i] = strings.ToLower(strings.TrimSpace(f))
	}

	for _, f := range formats {
		if f == want {
			return 1
		}
	}

	if len(a.AlternativeOutputs) > 0 {
		matched := 0
		for _, alt := range a.AlternativeOutputs {
			alt = strings.ToLower(strings.TrimSpace(alt))
			for _, f := range formats {
				if f == alt {
					matched++
					break
				}
			}
		}
		if matched > 0 {
			return 0.5 + float64(matched)/float64(len(a.AlternativeOutputs))*0.3
		}
	}

	if want == "" {
		return 0
	}
	for _, f := range formats {
		if f != "" && (strings.Contains(f, want) || strings.Contains(want, f)) {
			return 0.3
		}
	}
	return 0
}

// SuccessAlignment is the share of success criteria found verbatim in the
// entry's name, description and base prompt, or 0.5 when there are none.
func SuccessAlignment(e *framework.Entry, a framework.IntentAnalysis) float64 {
	if len(a.SuccessCriteria) == 0 {
		return 0.5
	}
	text := strings.ToLower(e.Name + " " + e.Description + " " + e.BasePrompt)
	matched := 0
	for _, c := range a.SuccessCriteria {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" && strings.Contains(text, c) {
			matched++
		}
	}
	return float64(matched) / float64(len(a.SuccessCriteria))
}

// Confidence is the mean of the non-zero factors, 0 when all are zero.
func Confidence(factors map[string]float64) float64 {
	var sum float64
	n := 0
	for _, v := range factors {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Explain names the factors that scored highly.
func Explain(factors map[string]float64) string {
	var parts []string
	if factors[framework.FactorDomain] >= 80 {
		parts = append(parts, "Strong domain alignment")
	}
	if factors[framework.FactorIntent] >= 80 {
		parts = append(parts, "Excellent intent match")
	}
	if factors[framework.FactorSemantic] >= 80 {
		parts = append(parts, "High semantic relevance")
	}
	if factors[framework.FactorComplexity] == 100 {
		parts = append(parts, "Perfect complexity fit")
	}
	if len(parts) == 0 {
		return "Moderate match based on multiple factors"
	}
	return strings.Join(parts, ", ")
}

// mentions reports whether text contains label, also trying the label with
// underscores read as spaces.
func mentions(text, label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return false
	}
	return strings.Contains(text, label) || strings.Contains(text, strings.ReplaceAll(label, "_", " "))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
