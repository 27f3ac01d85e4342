package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Freekyn/Promptin/internal/corpus"
	"github.com/Freekyn/Promptin/internal/feedback"
	"github.com/Freekyn/Promptin/internal/ui"
)

var corpusCmd = &cobra.Command{
	Use:     "corpus",
	Aliases: []string{"frameworks"},
	Short:   "Inspect and manage the framework corpus",
}

// withCorpus opens the corpus without wiring any LLM provider.
func withCorpus(ctx context.Context, fn func(store *corpus.SQLiteStore, catalog *corpus.Catalog) error) error {
	store, catalog, err := openStore(ctx, slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(store, catalog)
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List frameworks",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		return withCorpus(cmd.Context(), func(_ *corpus.SQLiteStore, catalog *corpus.Catalog) error {
			all, err := catalog.All(cmd.Context())
			if err != nil {
				return err
			}
			entries := all[:0:0]
			for _, e := range all {
				if category == "" || strings.EqualFold(e.Category, category) {
					entries = append(entries, e)
				}
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No frameworks found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderFrameworks(entries, ui.TerminalWidth()))
			return nil
		})
	},
}

var corpusSearchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search frameworks by keyword",
	Long: `Fuzzy-search framework names, descriptions and tags. With --exact the keyword
must appear verbatim (case-insensitive) in the name or description.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := corpus.SearchOptions{}
		opts.Category, _ = cmd.Flags().GetString("category")
		opts.MaxResults, _ = cmd.Flags().GetInt("limit")
		opts.Threshold, _ = cmd.Flags().GetFloat64("threshold")
		opts.Exact, _ = cmd.Flags().GetBool("exact")
		keyword := strings.Join(args, " ")

		return withCorpus(cmd.Context(), func(_ *corpus.SQLiteStore, catalog *corpus.Catalog) error {
			entries, err := catalog.Search(cmd.Context(), keyword, opts)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No frameworks match %q.\n", keyword)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderFrameworks(entries, ui.TerminalWidth()))
			return nil
		})
	},
}

var corpusShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one framework as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCorpus(cmd.Context(), func(_ *corpus.SQLiteStore, catalog *corpus.Catalog) error {
			e, err := catalog.ByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		})
	},
}

var corpusCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List framework categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCorpus(cmd.Context(), func(_ *corpus.SQLiteStore, catalog *corpus.Catalog) error {
			categories := catalog.Categories()
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), categories)
			}
			for _, c := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		})
	},
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus and feedback statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCorpus(cmd.Context(), func(store *corpus.SQLiteStore, _ *corpus.Catalog) error {
			cs, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fbStore, err := feedback.NewSQLiteState(store.DB())
			if err != nil {
				return err
			}
			fs, err := fbStore.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), map[string]any{"corpus": cs, "feedback": fs})
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderStats(cs, fs))
			return nil
		})
	},
}

var corpusImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import frameworks from a YAML or JSON seed file",
	Long: `Import frameworks from a seed file. List fields may be arrays or
comma-separated strings. Rows without a name or base prompt and IDs already
in the corpus are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := corpus.NewSeedLoader(afero.NewOsFs())
		entries, invalid, err := loader.Load(args[0])
		if err != nil {
			return err
		}
		return withCorpus(cmd.Context(), func(_ *corpus.SQLiteStore, catalog *corpus.Catalog) error {
			added, skipped, err := catalog.Import(cmd.Context(), entries)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), map[string]int{"added": added, "skipped": skipped + invalid})
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess.Render(fmt.Sprintf("✓ Imported %d frameworks", added))+
				ui.StyleSubtle.Render(fmt.Sprintf(" (%d skipped)", skipped+invalid)))
			return nil
		})
	},
}

var corpusExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the corpus to a YAML seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCorpus(cmd.Context(), func(_ *corpus.SQLiteStore, catalog *corpus.Catalog) error {
			entries, err := catalog.All(cmd.Context())
			if err != nil {
				return err
			}
			if err := corpus.NewSeedLoader(afero.NewOsFs()).Export(args[0], entries); err != nil {
				return err
			}
			if !isJSON() {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d frameworks to %s\n", len(entries), args[0])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.AddCommand(corpusListCmd, corpusSearchCmd, corpusShowCmd, corpusCategoriesCmd,
		corpusStatsCmd, corpusImportCmd, corpusExportCmd)

	corpusListCmd.Flags().String("category", "", "only list this category")
	corpusSearchCmd.Flags().String("category", "", "restrict to a category")
	corpusSearchCmd.Flags().Int("limit", 10, "maximum results")
	corpusSearchCmd.Flags().Float64("threshold", 0, "maximum fuzzy distance 0..1, lower is stricter (0 uses 0.6)")
	corpusSearchCmd.Flags().Bool("exact", false, "substring match on name and description")
}
