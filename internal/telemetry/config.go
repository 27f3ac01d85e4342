// Package telemetry sends opt-in, anonymous usage events. Request text is
// never sent; events carry only labels such as intent, domain and approach.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ConfigFileName is the telemetry state file inside the config directory.
const ConfigFileName = "telemetry.json"

// Config is the persisted opt-in state.
type Config struct {
	Enabled bool `json:"enabled"`
	// AnonymousID is a random UUID generated once per installation.
	AnonymousID string `json:"anonymous_id"`

	path string
}

// Load reads the telemetry state from dir, returning a disabled config with a
// fresh anonymous id when none exists.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	cfg := &Config{path: path}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read telemetry config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse telemetry config: %w", err)
		}
	}
	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.NewString()
	}
	return cfg, nil
}

// Save writes the state with owner-only permissions.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("telemetry config has no path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("write telemetry config: %w", err)
	}
	return nil
}

// IsEnabled reports whether the user opted in.
func (c *Config) IsEnabled() bool { return c != nil && c.Enabled }
