package framework

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxRequestLength bounds request text accepted by the engine.
const MaxRequestLength = 20000

// ErrInvalidRequest is returned for empty, oversized or non-UTF-8 request text.
var ErrInvalidRequest = errors.New("invalid request text")

var validate = validator.New()

// ValidateRequest checks caller-supplied request text before any provider call.
func ValidateRequest(text string) error {
	switch {
	case strings.TrimSpace(text) == "":
		return fmt.Errorf("%w: empty", ErrInvalidRequest)
	case !utf8.ValidString(text):
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidRequest)
	case len(text) > MaxRequestLength:
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInvalidRequest, len(text), MaxRequestLength)
	}
	return nil
}

// ValidateEntry checks the required fields and enums of an entry.
func ValidateEntry(e *Entry) error {
	if e == nil {
		return errors.New("nil entry")
	}
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("entry %q: %w", e.ID, err)
	}
	return nil
}

// NormalizeAnalysis returns a canonical copy of free-form provider output and
// validates it. Unknown enum values fall back to their
// defaults; keyword lists are deduplicated and capped at ten, and fewer than
// three distinct keywords is an error.
func NormalizeAnalysis(a IntentAnalysis) (IntentAnalysis, error) {
	out := a.Clone()
	out.Intent = normalizeLabel(out.Intent)
	out.Domain = normalizeLabel(out.Domain)
	out.Complexity = ParseComplexity(string(out.Complexity))
	out.Urgency = ParseUrgency(string(out.Urgency))
	out.OutputType = strings.ToLower(strings.TrimSpace(out.OutputType))
	out.ReasoningType = normalizeLabel(out.ReasoningType)
	out.NovelCategory = normalizeLabel(out.NovelCategory)
	out.SuggestedRole = strings.TrimSpace(out.SuggestedRole)
	out.TonePreference = strings.ToLower(strings.TrimSpace(out.TonePreference))

	out.SecondaryIntents = Dedupe(out.SecondaryIntents)
	out.SubDomains = Dedupe(out.SubDomains)
	out.AlternativeOutputs = Dedupe(out.AlternativeOutputs)
	out.AlternativeRoles = Dedupe(out.AlternativeRoles)
	out.SuccessCriteria = Dedupe(out.SuccessCriteria)
	out.Keywords = Dedupe(out.Keywords)
	if len(out.Keywords) > 10 {
		out.Keywords = out.Keywords[:10]
	}

	if out.ConfidenceScore < 0 {
		out.ConfidenceScore = 0
	}
	if out.ConfidenceScore > 100 {
		out.ConfidenceScore = 100
	}

	if err := validate.Struct(out); err != nil {
		return IntentAnalysis{}, fmt.Errorf("intent analysis: %w", err)
	}
	return out, nil
}

// normalizeLabel lower-cases and snake-cases a category style label.
func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}
