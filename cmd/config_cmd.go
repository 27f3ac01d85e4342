package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Freekyn/Promptin/internal/config"
	"github.com/Freekyn/Promptin/internal/ui"
)

// configCmd is the parent config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change Promptin settings",
}

// effectiveConfig is the resolved configuration shown by 'config show'.
type effectiveConfig struct {
	ConfigFile string               `json:"config_file,omitempty"`
	Provider   string               `json:"provider"`
	Model      string               `json:"model,omitempty"`
	APIKey     string               `json:"api_key"`
	Embeddings string               `json:"embeddings"`
	Tiers      config.TierModels    `json:"tiers"`
	Engine     config.EngineConfig  `json:"engine"`
	Storage    config.StorageConfig `json:"storage"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		llmCfg, err := config.LoadLLMConfig()
		if err != nil {
			return err
		}
		engineCfg, err := config.LoadEngineConfig()
		if err != nil {
			return err
		}
		eff := effectiveConfig{
			ConfigFile: viper.ConfigFileUsed(),
			Provider:   string(llmCfg.Provider),
			Model:      llmCfg.Model,
			APIKey:     maskKey(llmCfg.APIKey),
			Embeddings: fmt.Sprintf("%s/%s", llmCfg.EmbeddingProvider, llmCfg.EmbeddingModel),
			Tiers:      llmCfg.Tiers,
			Engine:     engineCfg,
			Storage:    config.LoadStorageConfig(),
		}
		if isJSON() {
			return printJSON(cmd.OutOrStdout(), eff)
		}

		var sb strings.Builder
		sb.WriteString(ui.StyleSectionTitle.Render("LLM") + "\n")
		row := func(label, value string) { sb.WriteString("  " + ui.StyleLabel.Render(label) + value + "\n") }
		row("Provider", eff.Provider)
		row("Model", valueOr(eff.Model, "tier-selected"))
		row("API key", eff.APIKey)
		row("Embeddings", eff.Embeddings)
		row("Tiers", fmt.Sprintf("cheap %s, code %s, capable %s", eff.Tiers.Cheap, eff.Tiers.Code, eff.Tiers.Capable))
		sb.WriteString("\n" + ui.StyleSectionTitle.Render("Engine") + "\n")
		row("Threshold", fmt.Sprintf("%.0f", eff.Engine.SynthesisThreshold))
		row("Timeouts", fmt.Sprintf("classify %s, synthesize %s", eff.Engine.ClassifyTimeout, eff.Engine.SynthTimeout))
		row("Caches", fmt.Sprintf("%d entries, intents %s, embeddings %s", eff.Engine.CacheSize, eff.Engine.IntentCacheTTL, eff.Engine.EmbeddingCacheTTL))
		sb.WriteString("\n" + ui.StyleSectionTitle.Render("Storage") + "\n")
		row("Database", eff.Storage.Dir)
		row("Seed", valueOr(eff.Storage.Seed, "built-in"))
		row("Config file", valueOr(eff.ConfigFile, "none"))
		fmt.Fprint(cmd.OutOrStdout(), sb.String())
		return nil
	},
}

var configSetLLMCmd = &cobra.Command{
	Use:   "set-llm",
	Short: "Save the LLM provider, model and API key to the global config",
	Example: `  promptin config set-llm --provider anthropic --api-key sk-ant-...
  promptin config set-llm --provider ollama --model llama3.2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")
		key, _ := cmd.Flags().GetString("api-key")
		if err := config.SaveGlobalLLMConfig(provider, model, key); err != nil {
			return err
		}
		path, _ := config.GlobalConfigFile()
		fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess.Render("✓ Saved to "+path))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Set one key in the global config",
	Example: `  promptin config set retrieval.synthesisThreshold 65`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetGlobalValue(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess.Render(fmt.Sprintf("✓ %s = %s", args[0], args[1])))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetLLMCmd, configSetCmd)

	configSetLLMCmd.Flags().String("provider", "", "openai, anthropic, gemini or ollama")
	configSetLLMCmd.Flags().String("model", "", "default chat model")
	configSetLLMCmd.Flags().String("api-key", "", "API key for the provider")
	_ = configSetLLMCmd.MarkFlagRequired("provider")
}

// maskKey hides all but the last four characters of an API key.
func maskKey(key string) string {
	switch {
	case key == "":
		return "not set"
	case len(key) <= 8:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
