package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Freekyn/Promptin/internal/config"
	"github.com/Freekyn/Promptin/internal/logger"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables debug logging on stderr.
	verbose bool
	// version is the application version, set at build time.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "promptin",
	Short: "Recommend prompt frameworks, models and settings for a task",
	Long: `Promptin turns a free-text task description into a recommendation: the best
matching prompt framework from its corpus (or a freshly synthesized one), the
model and platform to run it on, output format, sampling settings and ready
to paste prompt variations.

Examples:
  promptin recommend "build a sales dashboard for the board meeting"
  promptin prompt --strategy tree_of_thought "plan a product launch"
  promptin feedback 5 "build a sales dashboard for the board meeting"
  promptin mcp`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr())
		setupCrashContext(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		PrintError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./promptin.yaml or $XDG_CONFIG_HOME/promptin/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().Bool("json", false, "print machine-readable JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// setupLogging routes slog to stderr so stdout only carries command output.
func setupLogging(w io.Writer) {
	level := slog.LevelWarn
	if isVerbose() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// setupCrashContext tells the crash reporter what is running.
func setupCrashContext(cmd *cobra.Command) {
	if dir, err := config.GetGlobalConfigDir(); err == nil {
		logger.SetBasePath(dir)
	}
	logger.SetVersion(version)
	logger.SetCommand(cmd.CommandPath())
	logger.SetProvider(viper.GetString("llm.provider"))
}

// PrintError prints err on stderr.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
