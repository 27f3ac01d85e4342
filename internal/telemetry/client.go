package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Tracker records usage events.
type Tracker interface {
	// Track enqueues an event and returns immediately.
	Track(event string, props map[string]any)
	Close() error
}

// enqueuer is the subset of the PostHog client in use; tests swap it.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// ClientConfig configures NewPostHog.
type ClientConfig struct {
	APIKey   string
	Endpoint string
	Version  string
	Config   *Config
}

// PostHogTracker sends events to PostHog when the user opted in.
type PostHogTracker struct {
	mu      sync.Mutex
	client  enqueuer
	config  *Config
	version string
}

// NewPostHog returns a PostHog-backed tracker, or a Noop when there is no API
// key or the user has not opted in.
func NewPostHog(cfg ClientConfig) (Tracker, error) {
	if cfg.APIKey == "" || !cfg.Config.IsEnabled() {
		return Noop{}, nil
	}
	phConfig := posthog.Config{
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    quietLogger{},
	}
	if cfg.Endpoint != "" {
		phConfig.Endpoint = cfg.Endpoint
	}
	client, err := posthog.NewWithConfig(cfg.APIKey, phConfig)
	if err != nil {
		return nil, err
	}
	return &PostHogTracker{client: client, config: cfg.Config, version: cfg.Version}, nil
}

func (t *PostHogTracker) Track(event string, props map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil || !t.config.IsEnabled() {
		return
	}

	p := posthog.NewProperties()
	for k, v := range props {
		p.Set(k, v)
	}
	p.Set("os", runtime.GOOS)
	p.Set("arch", runtime.GOARCH)
	p.Set("app_version", t.version)
	p.Set("$process_person_profile", false)

	_ = t.client.Enqueue(posthog.Capture{
		DistinctId: t.config.AnonymousID,
		Event:      event,
		Properties: p,
	})
}

// Close flushes queued events.
func (t *PostHogTracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}

// Noop discards every event.
type Noop struct{}

func (Noop) Track(string, map[string]any) {}
func (Noop) Close() error                 { return nil }

type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Logf(string, ...interface{})   {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
