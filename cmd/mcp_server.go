package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/Freekyn/Promptin/internal/corpus"
	mcppresenter "github.com/Freekyn/Promptin/internal/mcp"
)

const categoriesURI = "promptin://categories"

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server over stdin/stdout so AI tools
like Claude Desktop or Cursor can ask Promptin for recommendations.

Tools:
  recommend_framework  recommend a framework, model and settings for a request
  generate_prompt      build a ready-to-use prompt for a request
  search_frameworks    search the framework corpus
  record_feedback      rate an earlier recommendation

With --metrics-addr the engine's Prometheus metrics are served on that
address while the server runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("metrics-addr")
		return runMCPServer(cmd.Context(), addr)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
}

// mcpToolResponse converts a handler result into an MCP tool result. Tool
// errors are returned in the result with IsError so the client can correct
// the call.
func mcpToolResponse(res *mcppresenter.ToolResult, err error) (*mcpsdk.CallToolResultFor[any], error) {
	if err != nil {
		return nil, err
	}
	text := res.Content
	switch {
	case res.Field != "":
		text = mcppresenter.FormatValidationError(res.Field, res.Error)
	case res.Error != "":
		text = mcppresenter.FormatError(res.Error)
	}
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
		IsError: res.Error != "",
	}, nil
}

// newMCPServer registers the tools and resources over app.
func newMCPServer(app *application) *mcpsdk.Server {
	svc := &mcppresenter.Service{
		Engine:   app.engine,
		Corpus:   app.catalog,
		Feedback: app.learner,
		Tracker:  app.tracker,
	}

	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "promptin", Version: version}, &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			app.logger.Info("MCP client connected")
		},
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "recommend_framework",
		Description: "Recommend the best prompt framework, AI platform, model, output format and sampling settings for a task described in plain language. Returns the framework, alternatives and a ready prompt. Use {\"request\":\"...\"}; set format to json for the full structured response.",
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.RecommendParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(mcppresenter.HandleRecommend(ctx, svc, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "generate_prompt",
		Description: "Build a ready-to-use prompt for a task using the recommended framework and a reasoning strategy (chain_of_thought, tree_of_thought, react, self_critique, expert_panel, socratic). Set quick=true for a short single-pass template.",
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.PromptParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(mcppresenter.HandlePrompt(ctx, svc, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "search_frameworks",
		Description: "Search the prompt framework corpus by keyword, optionally restricted to a category. Returns framework IDs, names and descriptions.",
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.SearchParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(mcppresenter.HandleSearch(ctx, svc, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "record_feedback",
		Description: "Rate an earlier recommendation from 1 (poor) to 5 (excellent) using the same request text. Good ratings make similar requests favor the same kind of framework.",
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.FeedbackParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(mcppresenter.HandleFeedback(ctx, svc, params.Arguments))
	})

	server.AddResource(&mcpsdk.Resource{
		URI:         categoriesURI,
		Name:        "categories",
		Description: "Framework categories in the corpus",
		MIMEType:    "application/json",
	}, categoriesResourceHandler(app.catalog))

	return server
}

func categoriesResourceHandler(catalog *corpus.Catalog) mcpsdk.ResourceHandler {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.ReadResourceParams) (*mcpsdk.ReadResourceResult, error) {
		data, err := json.Marshal(catalog.Categories())
		if err != nil {
			return nil, fmt.Errorf("marshal categories: %w", err)
		}
		return &mcpsdk.ReadResourceResult{
			Contents: []*mcpsdk.ResourceContents{{
				URI:      params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}
}

func runMCPServer(ctx context.Context, metricsAddr string) error {
	// stdout carries JSON-RPC only
	fmt.Fprintln(os.Stderr, "Promptin MCP server starting...")

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if metricsAddr != "" {
		go func() {
			if err := app.metrics.Serve(ctx, metricsAddr, app.logger); err != nil {
				app.logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	if err := newMCPServer(app).Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
