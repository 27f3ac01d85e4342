// Package mcp provides tool parameters, handlers and Markdown presenters for
// the MCP server.
package mcp

// OutputFormat selects how a tool renders its result.
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatJSON     OutputFormat = "json"
)

// IsValid checks if the format is known. Empty means Markdown.
func (f OutputFormat) IsValid() bool {
	switch f {
	case "", FormatMarkdown, FormatJSON:
		return true
	}
	return false
}

// RecommendParams defines the parameters for the recommend_framework tool.
type RecommendParams struct {
	// Request is the free-text task description. Required.
	Request string `json:"request"`

	// Format is markdown (default) or json.
	Format OutputFormat `json:"format,omitempty"`
}

// FeedbackParams defines the parameters for the record_feedback tool.
type FeedbackParams struct {
	// Request is the original request text the recommendation was made for.
	Request string `json:"request"`

	// Rating from 1 (poor) to 5 (excellent).
	Rating int `json:"rating"`

	// FrameworkID defaults to the framework recorded for the request.
	FrameworkID string `json:"framework_id,omitempty"`

	Comment string `json:"comment,omitempty"`
}

// SearchParams defines the parameters for the search_frameworks tool.
type SearchParams struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`

	// Limit is the maximum number of results (default 10, max 50).
	Limit int `json:"limit,omitempty"`

	// Exact switches to substring matching on name and description.
	Exact bool `json:"exact,omitempty"`
}

// PromptParams defines the parameters for the generate_prompt tool.
type PromptParams struct {
	Request string `json:"request"`

	// Strategy forces a meta-prompt strategy, e.g. chain_of_thought.
	Strategy string `json:"strategy,omitempty"`

	// Quick uses a single-pass template instead of a meta-prompt.
	Quick bool `json:"quick,omitempty"`
}
