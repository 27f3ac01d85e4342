// Package metrics exposes engine counters and latencies to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "promptin"

// Metrics holds the engine collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	recommendations     *prometheus.CounterVec
	classifierFallbacks prometheus.Counter
	synthesis           *prometheus.CounterVec
	semanticSearches    prometheus.Counter
	intentCacheHits     prometheus.Counter
	duration            prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendations served, by approach.",
		}, []string{"approach"}),
		classifierFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_fallbacks_total",
			Help:      "Requests classified by the rule-based fallback.",
		}),
		synthesis: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_total",
			Help:      "Frameworks synthesized, by source.",
		}, []string{"source"}),
		semanticSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "semantic_searches_total",
			Help:      "Semantic searches run to augment lexical retrieval.",
		}),
		intentCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intent_cache_hits_total",
			Help:      "Intent analyses served from cache.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_duration_seconds",
			Help:      "End-to-end recommendation latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}),
	}
	m.registry.MustRegister(
		m.recommendations,
		m.classifierFallbacks,
		m.synthesis,
		m.semanticSearches,
		m.intentCacheHits,
		m.duration,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) RecommendationServed(approach string, took time.Duration) {
	if m == nil {
		return
	}
	m.recommendations.WithLabelValues(approach).Inc()
	m.duration.Observe(took.Seconds())
}

func (m *Metrics) ClassifierFallback() {
	if m == nil {
		return
	}
	m.classifierFallbacks.Inc()
}

func (m *Metrics) Synthesized(source string) {
	if m == nil {
		return
	}
	m.synthesis.WithLabelValues(source).Inc()
}

func (m *Metrics) SemanticSearch() {
	if m == nil {
		return
	}
	m.semanticSearches.Inc()
}

func (m *Metrics) IntentCacheHit() {
	if m == nil {
		return
	}
	m.intentCacheHits.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
