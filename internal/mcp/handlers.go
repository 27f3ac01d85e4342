package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Freekyn/Promptin/internal/corpus"
	"github.com/Freekyn/Promptin/internal/feedback"
	"github.com/Freekyn/Promptin/internal/framework"
	"github.com/Freekyn/Promptin/internal/promptgen"
	"github.com/Freekyn/Promptin/internal/recommend"
	"github.com/Freekyn/Promptin/internal/telemetry"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// Recommender produces a recommendation for a request.
type Recommender interface {
	Recommend(ctx context.Context, text string) (*recommend.Response, error)
}

// Searcher queries the framework corpus.
type Searcher interface {
	Search(ctx context.Context, keyword string, opts corpus.SearchOptions) ([]*framework.Entry, error)
}

// FeedbackRecorder accepts user ratings.
type FeedbackRecorder interface {
	RecordFeedback(ctx context.Context, requestText, frameworkID string, rating int, comment string) error
}

// Service bundles what the tool handlers need. Tracker may be nil.
type Service struct {
	Engine   Recommender
	Corpus   Searcher
	Feedback FeedbackRecorder
	Tracker  telemetry.Tracker
}

// ToolResult is the response of one tool call. Error is set for failures
// the caller should see and correct; Field names the offending parameter
// for validation failures.
type ToolResult struct {
	Tool    string `json:"tool"`
	Content string `json:"content"`
	Field   string `json:"field,omitempty"`
	Error   string `json:"error,omitempty"`
}

func failed(tool string, err error) *ToolResult {
	return &ToolResult{Tool: tool, Error: err.Error()}
}

func invalid(tool, field, message string) *ToolResult {
	return &ToolResult{Tool: tool, Field: field, Error: message}
}

// HandleRecommend runs the full recommendation pipeline for one request.
func HandleRecommend(ctx context.Context, svc *Service, params RecommendParams) (*ToolResult, error) {
	const tool = "recommend_framework"
	if strings.TrimSpace(params.Request) == "" {
		return invalid(tool, "request", "request is required"), nil
	}
	if !params.Format.IsValid() {
		return invalid(tool, "format", fmt.Sprintf("invalid format %q, must be one of: markdown, json", params.Format)), nil
	}

	resp, err := svc.Engine.Recommend(ctx, params.Request)
	if err != nil {
		if errors.Is(err, framework.ErrInvalidRequest) {
			return invalid(tool, "request", err.Error()), nil
		}
		return failed(tool, fmt.Errorf("recommend: %w", err)), nil
	}

	if params.Format == FormatJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal recommendation: %w", err)
		}
		return &ToolResult{Tool: tool, Content: string(data)}, nil
	}
	return &ToolResult{Tool: tool, Content: FormatRecommendation(resp)}, nil
}

// HandleFeedback records a rating for an earlier recommendation.
func HandleFeedback(ctx context.Context, svc *Service, params FeedbackParams) (*ToolResult, error) {
	const tool = "record_feedback"
	if strings.TrimSpace(params.Request) == "" {
		return invalid(tool, "request", "request is required"), nil
	}
	err := svc.Feedback.RecordFeedback(ctx, params.Request, params.FrameworkID, params.Rating, params.Comment)
	if errors.Is(err, feedback.ErrInvalidRating) {
		return invalid(tool, "rating", err.Error()), nil
	}
	if err != nil {
		return failed(tool, fmt.Errorf("record feedback: %w", err)), nil
	}
	if svc.Tracker != nil {
		svc.Tracker.Track(telemetry.EventFeedback, telemetry.FeedbackProps(params.Rating))
	}
	return &ToolResult{Tool: tool, Content: FormatFeedback(params.Request, params.Rating)}, nil
}

// HandleSearch searches the corpus by keyword.
func HandleSearch(ctx context.Context, svc *Service, params SearchParams) (*ToolResult, error) {
	const tool = "search_frameworks"
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return invalid(tool, "query", "query is required"), nil
	}
	limit := params.Limit
	switch {
	case limit <= 0:
		limit = defaultSearchLimit
	case limit > maxSearchLimit:
		limit = maxSearchLimit
	}

	entries, err := svc.Corpus.Search(ctx, query, corpus.SearchOptions{
		Category:   params.Category,
		MaxResults: limit,
		Exact:      params.Exact,
	})
	if err != nil {
		return failed(tool, fmt.Errorf("search: %w", err)), nil
	}
	return &ToolResult{Tool: tool, Content: FormatSearchResults(query, entries)}, nil
}

// HandlePrompt recommends a framework for the request and folds it into a
// ready-to-use prompt.
func HandlePrompt(ctx context.Context, svc *Service, params PromptParams) (*ToolResult, error) {
	const tool = "generate_prompt"
	if strings.TrimSpace(params.Request) == "" {
		return invalid(tool, "request", "request is required"), nil
	}
	opts := promptgen.Options{Quick: params.Quick, IncludeExamples: !params.Quick}
	if params.Strategy != "" {
		s, ok := promptgen.ParseStrategy(params.Strategy)
		if !ok {
			return invalid(tool, "strategy", fmt.Sprintf("unknown strategy %q, must be one of: %s", params.Strategy, strategyList())), nil
		}
		opts.Strategy = s
	}

	resp, err := svc.Engine.Recommend(ctx, params.Request)
	if err != nil {
		if errors.Is(err, framework.ErrInvalidRequest) {
			return invalid(tool, "request", err.Error()), nil
		}
		return failed(tool, fmt.Errorf("recommend: %w", err)), nil
	}
	opts.Role = resp.AutoFill.Role
	opts.OutputFormat = resp.AutoFill.OutputFormat

	p, err := promptgen.Build(params.Request, resp.Analysis.IntentAnalysis, resp.Framework.Selected, opts)
	if err != nil {
		return failed(tool, fmt.Errorf("build prompt: %w", err)), nil
	}
	return &ToolResult{Tool: tool, Content: FormatPrompt(p)}, nil
}

func strategyList() string {
	names := make([]string, 0, len(promptgen.Strategies()))
	for _, s := range promptgen.Strategies() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
