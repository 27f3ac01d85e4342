package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Freekyn/Promptin/internal/promptgen"
	"github.com/Freekyn/Promptin/internal/ui"
)

var promptCmd = &cobra.Command{
	Use:   "prompt [request]",
	Short: "Generate a ready-to-use prompt for a task",
	Long: `Recommend a framework for the request, then build a prompt around it.

By default a meta-prompt is built with a reasoning strategy chosen from the
request's complexity and intent. Use --strategy to force one of:
  chain_of_thought, tree_of_thought, react, self_critique, expert_panel, socratic

Use --quick for a lighter single-pass template.`,
	Example: `  promptin prompt "design a database schema for a library"
  promptin prompt --strategy expert_panel "should we expand into Europe?"
  promptin prompt --quick "summarize this quarter's support tickets"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := promptgen.Options{}
		opts.Quick, _ = cmd.Flags().GetBool("quick")
		opts.IncludeExamples, _ = cmd.Flags().GetBool("examples")
		opts.CustomInstructions, _ = cmd.Flags().GetString("instructions")
		if name, _ := cmd.Flags().GetString("strategy"); name != "" {
			s, ok := promptgen.ParseStrategy(name)
			if !ok {
				return fmt.Errorf("%w: %q", promptgen.ErrUnknownStrategy, name)
			}
			opts.Strategy = s
		}

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
		opts.Role = resp.AutoFill.Role
		opts.OutputFormat = resp.AutoFill.OutputFormat

		p, err := promptgen.Build(text, resp.Analysis.IntentAnalysis, resp.Framework.Selected, opts)
		if err != nil {
			return err
		}
		if wantJSON() {
			return printJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderPrompt(p, ui.TerminalWidth()))
		return nil
	},
}

var promptStrategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the meta-prompt strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range promptgen.Strategies() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", s, strings.Join(promptgen.Techniques(s), ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.AddCommand(promptStrategiesCmd)
	promptCmd.Flags().String("strategy", "", "force a meta-prompt strategy")
	promptCmd.Flags().Bool("quick", false, "use a single-pass template")
	promptCmd.Flags().Bool("examples", false, "append domain examples")
	promptCmd.Flags().String("instructions", "", "extra requirements to append")
}
