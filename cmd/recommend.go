package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Freekyn/Promptin/internal/ui"
)

var recommendCmd = &cobra.Command{
	Use:     "recommend [request]",
	Aliases: []string{"rec"},
	Short:   "Recommend a prompt framework, model and settings for a task",
	Long: `Analyze a free-text task description and recommend the prompt framework,
platform, model, output format and sampling settings that fit it best.

When no corpus framework is a confident match a new one is synthesized and
added to the corpus. Without LLM credentials the request is classified by
keywords and the failsafe framework is used.

The request is read from stdin when no arguments are given. Output is JSON
when --json is set or stdout is not a terminal.`,
	Example: `  promptin recommend "write a blog post about remote work"
  echo "analyze churn in our subscription data" | promptin recommend --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readRequest(cmd, args)
		if err != nil {
			return err
		}
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		resp, err := app.engine.Recommend(cmd.Context(), text)
		if err != nil {
			return err
		}
		if wantJSON() {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderRecommendation(resp, ui.TerminalWidth()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}
