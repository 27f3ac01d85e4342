package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Freekyn/Promptin/internal/telemetry"
	"github.com/Freekyn/Promptin/internal/ui"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <rating> [request]",
	Short: "Rate a recommendation from 1 (poor) to 5 (excellent)",
	Long: `Record how well a recommendation worked. Ratings of 4 or 5 make the engine
favor the same kind of framework for similar requests; ratings of 1 or 2 make
it favor them less.

Pass the same request text that was given to 'promptin recommend'.`,
	Example: `  promptin feedback 5 "write a blog post about remote work"
  promptin feedback 2 --comment "too generic" "plan a product launch"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("rating must be a number from 1 to 5, got %q", args[0])
		}
		text, err := readRequest(cmd, args[1:])
		if err != nil {
			return err
		}
		frameworkID, _ := cmd.Flags().GetString("framework")
		comment, _ := cmd.Flags().GetString("comment")

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.learner.RecordFeedback(cmd.Context(), text, frameworkID, rating, comment); err != nil {
			return err
		}
		app.tracker.Track(telemetry.EventFeedback, telemetry.FeedbackProps(rating))

		if isJSON() {
			return printJSON(cmd.OutOrStdout(), map[string]any{"recorded": true, "rating": rating})
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess.Render(fmt.Sprintf("✓ Feedback recorded (%d/5)", rating)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	feedbackCmd.Flags().String("framework", "", "framework ID (defaults to the one recommended for the request)")
	feedbackCmd.Flags().String("comment", "", "free-text comment")
}
