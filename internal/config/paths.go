package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory.
// XDG_CONFIG_HOME/promptin wins over ~/.promptin.
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, LocalDirName), nil
}

// GetStorageDir returns the directory holding the sqlite database.
// Resolution order (first match wins):
// 1. Explicit config via "storage.path" (Viper/env/flag), ":memory:" allowed
// 2. Local project directory: .promptin/data (if .promptin exists)
// 3. XDG_DATA_HOME/promptin (if XDG_DATA_HOME is set)
// 4. Global fallback: ~/.promptin/data
func GetStorageDir() string {
	if path := viper.GetString("storage.path"); path != "" {
		return path
	}

	if info, err := os.Stat(LocalDirName); err == nil && info.IsDir() {
		return filepath.Join(LocalDirName, dataDirName)
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, AppDirName)
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "./" + dataDirName
	}
	return filepath.Join(dir, dataDirName)
}

// GetSeedPath returns the optional YAML/JSON seed file, or "".
func GetSeedPath() string {
	return viper.GetString("storage.seed")
}
