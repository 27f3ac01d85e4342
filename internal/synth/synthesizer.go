// Package synth creates new frameworks on demand when nothing in the corpus
// matches a request well enough.
package synth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Freekyn/Promptin/internal/cache"
	"github.com/Freekyn/Promptin/internal/config"
	"github.com/Freekyn/Promptin/internal/corpus"
	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/llm"
	"github.com/Freekyn/Promptin/internal/platform"
	"github.com/Freekyn/Promptin/internal/utils"
)

const (
	DefaultTimeout = 15 * time.Second
	DefaultModel   = "gpt-4o"

	synthTemperature = 0.3
	synthMaxTokens   = 1500

	FailsafeName = "Adaptive Problem-Solving Framework"
)

var (
	ErrNoProvider = errors.New("no generative provider configured")
	ErrMalformed  = errors.New("malformed framework definition")
)

var synthesisTemplate = template.Must(template.New("synthesis").Parse(config.PromptFrameworkSynthesis))

// definition is the JSON shape requested from the model.
type definition struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	BasePrompt     string   `json:"base_prompt"`
	Methodology    []string `json:"methodology"`
	KeyPrinciples  []string `json:"key_principles"`
	SuccessMetrics []string `json:"success_metrics"`
	CommonPitfalls []string `json:"common_pitfalls"`
}

// Options configure a Synthesizer.
type Options struct {
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
	// Now is swapped in tests.
	Now func() time.Time
}

// Synthesizer generates frameworks and appends them to the corpus.
type Synthesizer struct {
	gen     llm.Generator
	store   corpus.Store
	model   string
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Synthesizer. gen and store may be nil; without gen every
// request gets the failsafe framework, without store nothing is persisted.
func New(gen llm.Generator, store corpus.Store, opts Options) *Synthesizer {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Synthesizer{
		gen:     gen,
		store:   store,
		model:   opts.Model,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		now:     opts.Now,
	}
}

// Synthesize returns a new framework for the request. It never fails: any
// provider or parse error yields the failsafe framework.
func (s *Synthesizer) Synthesize(ctx context.Context, a framework.IntentAnalysis, text string) *framework.Entry {
	e, err := s.SynthesizeAI(ctx, a, text)
	if err != nil {
		s.logger.Warn("framework synthesis failed, using failsafe", "error", err)
		return Failsafe(a, text, s.now())
	}
	return e
}

// SynthesizeAI asks the model for a framework definition and appends the
// result to the corpus. A corpus write failure is logged and the entry is
// still returned.
func (s *Synthesizer) SynthesizeAI(ctx context.Context, a framework.IntentAnalysis, text string) (*framework.Entry, error) {
	if s.gen == nil {
		return nil, ErrNoProvider
	}
	prompt, err := renderPrompt(a, text)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.gen.Generate(callCtx, llm.Request{
		Prompt:      prompt,
		Model:       s.model,
		Temperature: synthTemperature,
		MaxTokens:   synthMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	def, err := utils.ExtractAndParseJSON[definition](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(def.Name) == "" || strings.TrimSpace(def.BasePrompt) == "" {
		return nil, fmt.Errorf("%w: name and base_prompt are required", ErrMalformed)
	}

	e := s.entryFrom(def, a, text)
	if s.store != nil {
		if err := s.store.Append(ctx, e); err != nil {
			if corpus.IsWriteError(err) {
				s.logger.Error("synthesized framework not persisted", "id", e.ID, "error", err)
			} else {
				s.logger.Error("corpus append failed", "id", e.ID, "error", err)
			}
			return e, nil
		}
	}
	s.logger.Info("synthesized framework", "id", e.ID, "name", e.Name, "category", e.Category)
	return e, nil
}

func (s *Synthesizer) entryFrom(def definition, a framework.IntentAnalysis, text string) *framework.Entry {
	now := s.now()
	return &framework.Entry{
		ID:              DynamicID(text, now),
		Name:            titleCase(def.Name),
		Category:        a.Domain,
		Description:     strings.TrimSpace(def.Description),
		BasePrompt:      def.BasePrompt,
		ToneModifiers:   nonEmpty(a.TonePreference),
		RoleVariations:  framework.Dedupe(append(nonEmpty(a.SuggestedRole), a.AlternativeRoles...)),
		OutputFormats:   framework.Dedupe(append(nonEmpty(a.OutputType), a.AlternativeOutputs...)),
		Platforms:       platform.DeterminePlatforms(a),
		Models:          platform.DetermineModels(a),
		DomainTags:      framework.Dedupe(append(nonEmpty(a.Domain), a.SubDomains...)),
		ComplexityLevel: a.Complexity,
		TokenEstimate:   llm.EstimateTokens(def.BasePrompt),
		Source:          framework.SourceAIGenerated,
		Methodology:     def.Methodology,
		KeyPrinciples:   def.KeyPrinciples,
		SuccessMetrics:  def.SuccessMetrics,
		CommonPitfalls:  def.CommonPitfalls,
		CreatedAt:       now,
	}
}

// DynamicID builds the id of a synthesized framework. The random suffix keeps
// ids unique when the same text is synthesized twice within one clock tick.
func DynamicID(text string, at time.Time) string {
	return "dynamic-" + strconv.FormatInt(at.UnixNano(), 10) + "-" + cache.Hash(text)[:8] + "-" + uuid.NewString()[:8]
}

// titleCase builds a Caser per call; Casers keep state and cannot be shared
// between goroutines.
func titleCase(name string) string {
	return cases.Title(language.English, cases.NoLower).String(strings.TrimSpace(name))
}

func renderPrompt(a framework.IntentAnalysis, text string) (string, error) {
	var buf bytes.Buffer
	err := synthesisTemplate.Execute(&buf, map[string]any{
		"Request":         text,
		"Intent":          a.Intent,
		"Domain":          a.Domain,
		"Complexity":      a.Complexity,
		"OutputType":      a.OutputType,
		"Role":            a.SuggestedRole,
		"Tone":            a.TonePreference,
		"Keywords":        strings.Join(a.Keywords, ", "),
		"SuccessCriteria": strings.Join(a.SuccessCriteria, "; "),
	})
	if err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

func nonEmpty(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return []string{s}
}
