package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Freekyn/Promptin/internal/config"
)

const localConfigName = "promptin"

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(config.EnvPrefix)                   // e.g. PROMPTIN_LLM_PROVIDER
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // llm.provider -> LLM_PROVIDER
	viper.AutomaticEnv()

	if file := viper.GetString("config"); file != "" {
		viper.SetConfigFile(file)
	} else {
		// ./promptin.yaml wins over the global config.yaml
		if _, err := os.Stat(localConfigName + ".yaml"); err == nil {
			viper.AddConfigPath(".")
			viper.SetConfigName(localConfigName)
		} else if dir, err := config.GetGlobalConfigDir(); err == nil {
			viper.AddConfigPath(dir)
			viper.SetConfigName(strings.TrimSuffix(config.ConfigFileName, ".yaml"))
		}
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		if isVerbose() {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	case errors.As(err, &notFound):
		// Defaults and environment only.
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(os.Stderr, "Error: config file not found:", viper.GetString("config"))
	default:
		fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
	}
}
