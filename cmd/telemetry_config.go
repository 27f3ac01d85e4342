package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Freekyn/Promptin/internal/config"
	"github.com/Freekyn/Promptin/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage telemetry settings",
	Long: `View and manage Promptin's anonymous telemetry.

Telemetry is off unless you enable it. When enabled, only the intent,
domain, approach and a coarse confidence bucket of each recommendation are
sent, plus feedback ratings. Request text is never collected.`,
}

func loadTelemetryConfig() (*telemetry.Config, error) {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return nil, err
	}
	return telemetry.Load(dir)
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := loadTelemetryConfig()
		if err != nil {
			return fmt.Errorf("failed to read telemetry status: %w", err)
		}
		if isJSON() {
			return printJSON(cmd.OutOrStdout(), tc)
		}
		if tc.IsEnabled() {
			fmt.Fprintln(cmd.OutOrStdout(), "📊 Telemetry: enabled")
			fmt.Fprintf(cmd.OutOrStdout(), "   Anonymous ID: %s\n", tc.AnonymousID)
			fmt.Fprintln(cmd.OutOrStdout(), "   To disable: promptin config telemetry disable")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "📊 Telemetry: disabled")
			fmt.Fprintln(cmd.OutOrStdout(), "   To enable: promptin config telemetry enable")
		}
		return nil
	},
}

func setTelemetry(cmd *cobra.Command, enabled bool) error {
	tc, err := loadTelemetryConfig()
	if err != nil {
		return err
	}
	tc.Enabled = enabled
	if err := tc.Save(); err != nil {
		return err
	}
	if enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Telemetry enabled. Thank you for helping improve Promptin!")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Telemetry disabled.")
	}
	return nil
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, true)
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, false)
	},
}

func init() {
	configCmd.AddCommand(telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd, telemetryEnableCmd, telemetryDisableCmd)
}
