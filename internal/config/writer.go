package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Freekyn/Promptin/internal/llm"
)

// GlobalConfigFile returns the path of the global config file.
func GlobalConfigFile() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// SaveGlobalLLMConfig saves the provider, model and API key to the global
// config file, preserving every other setting in it. The key can be empty
// for providers like Ollama.
func SaveGlobalLLMConfig(provider, model, key string) error {
	if provider == "" {
		return fmt.Errorf("provider cannot be empty")
	}
	p, err := llm.ValidateProvider(provider)
	if err != nil {
		return err
	}
	return updateGlobalConfig(func(v *viper.Viper) {
		v.Set("llm.provider", string(p))
		if model != "" {
			v.Set("llm.model", model)
		}
		if key != "" {
			v.Set(fmt.Sprintf("llm.apiKeys.%s", p), key)
		}
	})
}

// SetGlobalValue writes one key to the global config file.
func SetGlobalValue(key string, value any) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	return updateGlobalConfig(func(v *viper.Viper) { v.Set(key, value) })
}

func updateGlobalConfig(mutate func(v *viper.Viper)) error {
	path, err := GlobalConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Read existing to preserve other settings
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	mutate(v)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// API keys live here
	return os.Chmod(path, 0o600)
}
