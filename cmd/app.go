package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/Freekyn/Promptin/internal/cache"
	"github.com/Freekyn/Promptin/internal/config"
	"github.com/Freekyn/Promptin/internal/corpus"
	"github.com/Freekyn/Promptin/internal/feedback"
	"github.com/Freekyn/Promptin/internal/intent"
	"github.com/Freekyn/Promptin/internal/llm"
	"github.com/Freekyn/Promptin/internal/metrics"
	"github.com/Freekyn/Promptin/internal/recommend"
	"github.com/Freekyn/Promptin/internal/retrieval"
	"github.com/Freekyn/Promptin/internal/scoring"
	"github.com/Freekyn/Promptin/internal/synth"
	"github.com/Freekyn/Promptin/internal/telemetry"
)

// posthogAPIKey is injected at build time; without it telemetry is a no-op.
var posthogAPIKey = ""

// application holds the wired engine and the stores behind it.
type application struct {
	store   *corpus.SQLiteStore
	catalog *corpus.Catalog
	learner *feedback.LearnerState
	engine  *recommend.Engine
	metrics *metrics.Metrics
	tracker telemetry.Tracker
	logger  *slog.Logger
}

// openStore opens the corpus database and loads the catalog, seeding it
// with the built-in frameworks when it is empty.
func openStore(ctx context.Context, logger *slog.Logger) (*corpus.SQLiteStore, *corpus.Catalog, error) {
	storage := config.LoadStorageConfig()
	store, err := corpus.OpenSQLite(storage.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open corpus at %s: %w", storage.Dir, err)
	}
	catalog, err := corpus.NewCatalog(ctx, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("load corpus: %w", err)
	}

	if catalog.Len() == 0 {
		defaults, err := corpus.DefaultEntries()
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("load built-in frameworks: %w", err)
		}
		added, _, err := catalog.Import(ctx, defaults)
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("seed corpus: %w", err)
		}
		logger.Info("corpus seeded with built-in frameworks", "count", added)
	}

	if storage.Seed != "" {
		loader := corpus.NewSeedLoader(afero.NewOsFs())
		entries, skipped, err := loader.Load(storage.Seed)
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("load seed %s: %w", storage.Seed, err)
		}
		added, _, err := catalog.Import(ctx, entries)
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("import seed %s: %w", storage.Seed, err)
		}
		logger.Debug("seed imported", "path", storage.Seed, "added", added, "invalid", skipped)
		if storage.Watch {
			if err := catalog.WatchSeed(ctx, loader, storage.Seed); err != nil {
				logger.Warn("seed watcher disabled", "error", err)
			}
		}
	}
	return store, catalog, nil
}

// openApp wires the recommendation engine from configuration. Missing LLM
// credentials are not an error: classification falls back to keywords and
// synthesis to the failsafe framework.
func openApp(ctx context.Context) (*application, error) {
	logger := slog.Default()

	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		return nil, err
	}
	engineCfg, err := config.LoadEngineConfig()
	if err != nil {
		return nil, err
	}
	retrievalOpts, err := config.LoadRetrievalOptions(engineCfg)
	if err != nil {
		return nil, err
	}
	weights, err := config.LoadScoringWeights()
	if err != nil {
		return nil, err
	}

	store, catalog, err := openStore(ctx, logger)
	if err != nil {
		return nil, err
	}
	app := &application{store: store, catalog: catalog, logger: logger}

	if config.LoadStorageConfig().PersistFeedback {
		fs, err := feedback.NewSQLiteState(store.DB())
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("open feedback store: %w", err)
		}
		if app.learner, err = feedback.Open(ctx, fs, logger); err != nil {
			app.Close()
			return nil, err
		}
	} else {
		app.learner = feedback.NewLearnerState(logger)
	}

	gen, emb := newProviders(ctx, llmCfg, logger)

	categories := intent.NewCategorySet()
	for _, c := range catalog.Categories() {
		categories.Add(c)
	}
	deps := recommend.Deps{
		Retriever: retrieval.New(catalog, emb, cache.New[string, []float32](engineCfg.CacheSize, engineCfg.EmbeddingCacheTTL), retrievalOpts, logger),
		Ranker:    scoring.New(weights, app.learner),
		Synthesizer: synth.New(gen, catalog, synth.Options{
			Model:   llmCfg.Tiers.Capable,
			Timeout: engineCfg.SynthTimeout,
			Logger:  logger,
		}),
		Learner: app.learner,
	}
	if gen != nil {
		deps.Classifier = intent.NewClassifier(gen, intent.Options{
			Models:     llmCfg.Tiers,
			Timeout:    engineCfg.ClassifyTimeout,
			Categories: categories,
			Adjuster:   app.learner,
			Logger:     logger,
		})
	}

	app.metrics = metrics.New()
	app.tracker = newTracker(logger)
	app.engine, err = recommend.New(deps, recommend.Options{
		SynthesisThreshold: engineCfg.SynthesisThreshold,
		IntentCacheTTL:     engineCfg.IntentCacheTTL,
		CacheSize:          engineCfg.CacheSize,
		Metrics:            app.metrics,
		Tracker:            app.tracker,
		Logger:             logger,
	})
	if err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// newProviders builds the chat generator and embedder. Either may be nil.
func newProviders(ctx context.Context, cfg config.LLMSettings, logger *slog.Logger) (llm.Generator, llm.Embedder) {
	if !cfg.HasCredentials() {
		logger.Debug("no LLM credentials, using keyword classification", "provider", cfg.Provider)
		return nil, nil
	}
	var gen llm.Generator
	var emb llm.Embedder

	chat, err := llm.NewChatModel(ctx, cfg.Config)
	if err != nil {
		logger.Warn("chat model unavailable", "provider", cfg.Provider, "error", err)
	} else {
		gen = llm.NewChatGenerator(chat)
	}

	embedder, err := llm.NewEmbeddingModel(ctx, cfg.Config)
	if err != nil {
		logger.Warn("embedding model unavailable, semantic search disabled", "error", err)
	} else {
		emb = llm.NewEinoEmbedder(embedder)
	}
	return gen, emb
}

// newTracker returns the PostHog tracker when the user opted in.
func newTracker(logger *slog.Logger) telemetry.Tracker {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return telemetry.Noop{}
	}
	tc, err := telemetry.Load(dir)
	if err != nil {
		logger.Debug("telemetry config unreadable", "error", err)
		return telemetry.Noop{}
	}
	if viper.IsSet("telemetry.enabled") {
		tc.Enabled = viper.GetBool("telemetry.enabled")
	}
	key := viper.GetString("telemetry.apiKey")
	if key == "" {
		key = posthogAPIKey
	}
	tracker, err := telemetry.NewPostHog(telemetry.ClientConfig{
		APIKey:   key,
		Endpoint: viper.GetString("telemetry.endpoint"),
		Version:  version,
		Config:   tc,
	})
	if err != nil {
		logger.Debug("telemetry disabled", "error", err)
		return telemetry.Noop{}
	}
	return tracker
}

// Close flushes telemetry and closes the database.
func (a *application) Close() {
	var errs []error
	if a.tracker != nil {
		errs = append(errs, a.tracker.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("shutdown", "error", err)
	}
}
