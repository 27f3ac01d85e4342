// Package feedback turns user ratings into bounded re-ranking weights and
// confidence adjustments.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Freekyn/Promptin/internal/cache"
	"github.com/Freekyn/Promptin/internal/framework"
)

const (
	MinWeight     = 0.5
	MaxWeight     = 1.5
	DefaultWeight = 1.0

	boostFactor   = 1.05
	dampenFactor  = 0.95
	keyWords      = 5
	minKeyWordLen = 4

	// similarShare is the fraction of request words that must appear in a
	// stored key for the two requests to count as similar.
	similarShare = 0.5
	// neutralAverage is used when similar requests carry no ratings yet.
	neutralAverage = 0.7
	lowAverage     = 0.5
	highAverage    = 0.8
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Decision is one recommendation awaiting or carrying a rating.
type Decision struct {
	Key         string    `json:"key"`
	RequestText string    `json:"request_text"`
	Category    string    `json:"category"`
	Intent      string    `json:"intent"`
	FrameworkID string    `json:"framework_id"`
	Rating      int       `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Event is one row for the feedback sink.
type Event struct {
	RequestHash string
	RequestText string
	FrameworkID string
	Intent      string
	Rating      int
	Comment     string
	CreatedAt   time.Time
}

// Weight is a persisted adjustment for one (category, intent) pair.
type Weight struct {
	Category string  `json:"category"`
	Intent   string  `json:"intent"`
	Value    float64 `json:"weight"`
}

// Persister stores learner state durably.
type Persister interface {
	SaveWeight(ctx context.Context, w Weight) error
	SaveDecision(ctx context.Context, d Decision) error
	SaveEvent(ctx context.Context, ev Event) error
	LoadWeights(ctx context.Context) ([]Weight, error)
	LoadDecisions(ctx context.Context) ([]Decision, error)
}

type pair struct {
	category string
	intent   string
}

func pairOf(category, intent string) pair {
	return pair{
		category: strings.ToLower(strings.TrimSpace(category)),
		intent:   strings.ToLower(strings.TrimSpace(intent)),
	}
}

// LearnerState holds the adjustment weights and recorded decisions for the
// life of the process. It is safe for concurrent use.
type LearnerState struct {
	mu        sync.RWMutex
	weights   map[pair]float64
	decisions map[string]Decision

	persist Persister
	logger  *slog.Logger
	now     func() time.Time
}

// NewLearnerState creates an in-memory learner.
func NewLearnerState(logger *slog.Logger) *LearnerState {
	if logger == nil {
		logger = slog.Default()
	}
	return &LearnerState{
		weights:   make(map[pair]float64),
		decisions: make(map[string]Decision),
		logger:    logger,
		now:       time.Now,
	}
}

// Open creates a learner backed by persist and loads its saved state.
func Open(ctx context.Context, persist Persister, logger *slog.Logger) (*LearnerState, error) {
	s := NewLearnerState(logger)
	s.persist = persist

	weights, err := persist.LoadWeights(ctx)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	for _, w := range weights {
		s.weights[pairOf(w.Category, w.Intent)] = clampWeight(w.Value)
	}
	decisions, err := persist.LoadDecisions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load decisions: %w", err)
	}
	for _, d := range decisions {
		s.decisions[d.Key] = d
	}
	s.logger.Debug("feedback state loaded", "weights", len(weights), "decisions", len(decisions))
	return s, nil
}

// AdjustmentWeight returns the multiplier for (category, intent), 1.0 when
// nothing was learned yet.
func (s *LearnerState) AdjustmentWeight(category, intent string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if w, ok := s.weights[pairOf(category, intent)]; ok {
		return w
	}
	return DefaultWeight
}

// Weights returns a copy of all learned weights.
func (s *LearnerState) Weights() []Weight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Weight, 0, len(s.weights))
	for p, w := range s.weights {
		out = append(out, Weight{Category: p.category, Intent: p.intent, Value: w})
	}
	return out
}

// AdjustConfidence rescales the analysis confidence from the average rating
// of similar past requests. The input is never modified.
func (s *LearnerState) AdjustConfidence(requestText string, a framework.IntentAnalysis) framework.IntentAnalysis {
	out := a.Clone()
	similar := s.similar(requestText)
	if len(similar) == 0 {
		return out
	}
	avg := averageRating(similar)
	switch {
	case avg < lowAverage:
		out.ConfidenceScore = int(math.Round(float64(out.ConfidenceScore) * 0.8))
	case avg > highAverage:
		out.ConfidenceScore = min(int(math.Round(float64(out.ConfidenceScore)*1.1)), 100)
	}
	if out.ConfidenceScore < 0 {
		out.ConfidenceScore = 0
	}
	return out
}

// RecordRecommendation remembers which framework was chosen for a request so
// a later rating can be attributed to it.
func (s *LearnerState) RecordRecommendation(ctx context.Context, requestText, category, intent, frameworkID string) {
	d := Decision{
		Key:         RequestKey(requestText),
		RequestText: requestText,
		Category:    category,
		Intent:      intent,
		FrameworkID: frameworkID,
		CreatedAt:   s.now(),
	}
	s.mu.Lock()
	s.decisions[d.Key] = d
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.SaveDecision(ctx, d); err != nil {
			s.logger.Warn("persist recommendation failed", "key", d.Key, "error", err)
		}
	}
}

// RecordFeedback applies a 1..5 rating. Ratings of 4 or more boost the
// weight of the recorded (category, intent) by 5%, ratings of 2 or less
// dampen it by 5%. A rating for a request that was never recommended only
// reaches the feedback sink.
func (s *LearnerState) RecordFeedback(ctx context.Context, requestText, frameworkID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}
	key := RequestKey(requestText)

	s.mu.Lock()
	d, known := s.decisions[key]
	var updated *Weight
	if known {
		d.Rating = rating
		s.decisions[key] = d
		p := pairOf(d.Category, d.Intent)
		current, ok := s.weights[p]
		if !ok {
			current = DefaultWeight
		}
		next := current
		switch {
		case rating >= 4:
			next = math.Min(current*boostFactor, MaxWeight)
		case rating <= 2:
			next = math.Max(current*dampenFactor, MinWeight)
		}
		s.weights[p] = next
		updated = &Weight{Category: p.category, Intent: p.intent, Value: next}
	}
	s.mu.Unlock()

	if frameworkID == "" && known {
		frameworkID = d.FrameworkID
	}
	if !known {
		s.logger.Debug("feedback for unknown request", "key", key)
	}

	if s.persist == nil {
		return nil
	}
	ev := Event{
		RequestHash: cache.Hash(requestText),
		RequestText: requestText,
		FrameworkID: frameworkID,
		Intent:      d.Intent,
		Rating:      rating,
		Comment:     comment,
		CreatedAt:   s.now(),
	}
	if err := s.persist.SaveEvent(ctx, ev); err != nil {
		s.logger.Warn("persist feedback failed", "error", err)
	}
	if known {
		if err := s.persist.SaveDecision(ctx, d); err != nil {
			s.logger.Warn("persist rated recommendation failed", "key", key, "error", err)
		}
	}
	if updated != nil {
		if err := s.persist.SaveWeight(ctx, *updated); err != nil {
			s.logger.Warn("persist weight failed", "category", updated.Category, "intent", updated.Intent, "error", err)
		}
	}
	return nil
}

func (s *LearnerState) similar(requestText string) []Decision {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(requestText)) {
		words[w] = struct{}{}
	}
	if len(words) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Decision
	for key, d := range s.decisions {
		stored := make(map[string]struct{})
		for _, w := range strings.Split(key, "_") {
			stored[w] = struct{}{}
		}
		overlap := 0
		for w := range words {
			if _, ok := stored[w]; ok {
				overlap++
			}
		}
		if float64(overlap)/float64(len(words)) > similarShare {
			out = append(out, d)
		}
	}
	return out
}

// averageRating is the mean rating of the rated decisions normalized to
// [0,1].
func averageRating(decisions []Decision) float64 {
	sum, n := 0, 0
	for _, d := range decisions {
		if d.Rating > 0 {
			sum += d.Rating
			n++
		}
	}
	if n == 0 {
		return neutralAverage
	}
	return float64(sum) / float64(n) / 5
}

// RequestKey is the first five words longer than three characters, joined
// with underscores.
func RequestKey(requestText string) string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(requestText)) {
		if len(w) < minKeyWordLen {
			continue
		}
		words = append(words, w)
		if len(words) == keyWords {
			break
		}
	}
	return strings.Join(words, "_")
}

func clampWeight(w float64) float64 {
	if math.IsNaN(w) {
		return DefaultWeight
	}
	return math.Max(MinWeight, math.Min(MaxWeight, w))
}
