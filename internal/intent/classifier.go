// Package intent turns raw request text into a framework.IntentAnalysis.
//
// Classifier is the primary path and calls a generative model. Fallback is
// the deterministic rule-based path callers use when Classify fails.
package intent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/Freekyn/Promptin/internal/config"
	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/llm"
	"github.com/Freekyn/Promptin/internal/utils"
)

const (
	DefaultTimeout = 10 * time.Second

	classifyTemperature = 0.2
	classifyMaxTokens   = 800

	// A novel category is only learned when the model is this sure.
	novelCategoryMinConfidence = 80
)

var analysisTemplate = template.Must(template.New("intent").Parse(config.PromptIntentAnalysis))

// wireAnalysis accepts fractional confidence scores from the model.
type wireAnalysis struct {
	framework.IntentAnalysis
	ConfidenceScore float64 `json:"confidence_score"`
}

// ConfidenceAdjuster rescales a fresh analysis using past feedback.
type ConfidenceAdjuster interface {
	AdjustConfidence(requestText string, a framework.IntentAnalysis) framework.IntentAnalysis
}

// Options configure a Classifier.
type Options struct {
	Models     config.TierModels
	Timeout    time.Duration
	Categories *CategorySet
	Adjuster   ConfidenceAdjuster
	Logger     *slog.Logger
}

// Classifier is the model-backed intent classifier.
type Classifier struct {
	gen        llm.Generator
	models     config.TierModels
	timeout    time.Duration
	categories *CategorySet
	adjuster   ConfidenceAdjuster
	logger     *slog.Logger
}

// NewClassifier creates a classifier over gen.
func NewClassifier(gen llm.Generator, opts Options) *Classifier {
	if opts.Models == (config.TierModels{}) {
		opts.Models = config.DefaultTierModels()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Categories == nil {
		opts.Categories = NewCategorySet()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Classifier{
		gen:        gen,
		models:     opts.Models,
		timeout:    opts.Timeout,
		categories: opts.Categories,
		adjuster:   opts.Adjuster,
		logger:     opts.Logger,
	}
}

// Categories exposes the dynamic category set.
func (c *Classifier) Categories() *CategorySet { return c.categories }

// Classify asks the model for an analysis of text. Every failure is returned
// as a *ClassificationError; no partial analysis is ever returned.
func (c *Classifier) Classify(ctx context.Context, text string) (framework.IntentAnalysis, error) {
	if c.gen == nil {
		return framework.IntentAnalysis{}, &ClassificationError{Kind: ProviderUnavailable, Err: errors.New("no generative provider configured")}
	}

	prompt, err := c.renderPrompt(text)
	if err != nil {
		return framework.IntentAnalysis{}, &ClassificationError{Kind: ProviderUnavailable, Err: err}
	}

	tier := SelectTier(text)
	modelID := c.models.Model(tier)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, err := c.gen.Generate(callCtx, llm.Request{
		Prompt:      prompt,
		Model:       modelID,
		Temperature: classifyTemperature,
		MaxTokens:   classifyMaxTokens,
	})
	if err != nil {
		return framework.IntentAnalysis{}, &ClassificationError{Kind: ProviderUnavailable, Err: err}
	}

	parsed, err := utils.ExtractAndParseJSON[wireAnalysis](raw)
	if err != nil {
		return framework.IntentAnalysis{}, &ClassificationError{Kind: MalformedResponse, Err: err}
	}
	parsed.IntentAnalysis.ConfidenceScore = int(parsed.ConfidenceScore + 0.5)
	analysis, err := framework.NormalizeAnalysis(parsed.IntentAnalysis)
	if err != nil {
		return framework.IntentAnalysis{}, &ClassificationError{Kind: MalformedResponse, Err: err}
	}

	if analysis.NovelCategory != "" && analysis.ConfidenceScore > novelCategoryMinConfidence {
		if c.categories.Add(analysis.NovelCategory) {
			c.logger.Info("learned new category", "category", analysis.NovelCategory)
		}
	}

	if c.adjuster != nil {
		analysis = c.adjuster.AdjustConfidence(text, analysis)
	}

	c.logger.Debug("intent classified",
		"intent", analysis.Intent,
		"domain", analysis.Domain,
		"confidence", analysis.ConfidenceScore,
		"tier", tier,
		"model", modelID,
		"duration", time.Since(start))
	return analysis, nil
}

func (c *Classifier) renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	err := analysisTemplate.Execute(&buf, map[string]any{
		"Request":    text,
		"Categories": strings.Join(c.categories.List(), ", "),
	})
	if err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}
