package telemetry

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/posthog/posthog-go"
)

type mockEnqueuer struct {
	mu     sync.Mutex
	events []posthog.Capture
	closed bool
}

func (m *mockEnqueuer) Enqueue(msg posthog.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := msg.(posthog.Capture); ok {
		m.events = append(m.events, c)
	}
	return nil
}

func (m *mockEnqueuer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func TestLoadGeneratesAnonymousID(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Enabled {
		t.Error("telemetry must default to disabled")
	}
	if len(cfg.AnonymousID) != 36 {
		t.Errorf("AnonymousID should be a UUID, got %q", cfg.AnonymousID)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Enabled = true
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0o600 {
		t.Errorf("permissions = %o, want 600", info.Mode().Perm())
	}

	again, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Enabled || again.AnonymousID != cfg.AnonymousID {
		t.Errorf("reloaded config = %+v, want %+v", again, cfg)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestTrackAddsStandardProperties(t *testing.T) {
	mock := &mockEnqueuer{}
	tr := &PostHogTracker{client: mock, config: &Config{Enabled: true, AnonymousID: "anon"}, version: "1.0.0"}

	tr.Track(EventRecommendation, RecommendationProps("data_analysis", "data_science", "framework-matched", 82, false))

	if len(mock.events) != 1 {
		t.Fatalf("got %d events, want 1", len(mock.events))
	}
	ev := mock.events[0]
	if ev.DistinctId != "anon" || ev.Event != EventRecommendation {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.Properties["confidence_bucket"] != "70-89" {
		t.Errorf("confidence_bucket = %v", ev.Properties["confidence_bucket"])
	}
	if ev.Properties["app_version"] != "1.0.0" || ev.Properties["os"] != runtime.GOOS {
		t.Errorf("standard properties missing: %v", ev.Properties)
	}
	if _, leaked := ev.Properties["request"]; leaked {
		t.Error("request text must never be sent")
	}

	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if !mock.closed {
		t.Error("Close should close the client")
	}
	tr.Track(EventFeedback, FeedbackProps(5))
	if len(mock.events) != 1 {
		t.Error("events after Close must be dropped")
	}
}

func TestTrackSkipsWhenDisabled(t *testing.T) {
	mock := &mockEnqueuer{}
	tr := &PostHogTracker{client: mock, config: &Config{Enabled: false}}
	tr.Track(EventFeedback, FeedbackProps(4))
	if len(mock.events) != 0 {
		t.Error("disabled tracker must not enqueue")
	}
}

func TestNewPostHogWithoutKeyIsNoop(t *testing.T) {
	tr, err := NewPostHog(ClientConfig{Config: &Config{Enabled: true}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(Noop); !ok {
		t.Errorf("got %T, want Noop", tr)
	}
}

func TestBucket(t *testing.T) {
	tests := map[float64]string{0: "0-49", 49.9: "0-49", 50: "50-69", 70: "70-89", 95: "90-100"}
	for score, want := range tests {
		if got := Bucket(score); got != want {
			t.Errorf("Bucket(%v) = %q, want %q", score, got, want)
		}
	}
}
