package cmd

import (
	"encoding/json"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freekyn/Promptin/internal/corpus"
	"github.com/Freekyn/Promptin/internal/framework"
	mcppresenter "github.com/Freekyn/Promptin/internal/mcp"
)

func TestMCPToolResponse(t *testing.T) {
	tests := []struct {
		name      string
		res       *mcppresenter.ToolResult
		wantText  []string
		wantError bool
	}{
		{
			name:     "content",
			res:      &mcppresenter.ToolResult{Tool: "search_frameworks", Content: "## Frameworks"},
			wantText: []string{"## Frameworks"},
		},
		{
			name:      "validation error",
			res:       &mcppresenter.ToolResult{Tool: "record_feedback", Field: "rating", Error: "must be 1 to 5"},
			wantText:  []string{"Validation Error", "`rating`", "must be 1 to 5"},
			wantError: true,
		},
		{
			name:      "tool error",
			res:       &mcppresenter.ToolResult{Tool: "recommend_framework", Error: "engine unavailable"},
			wantText:  []string{"## ❌ Error", "engine unavailable"},
			wantError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mcpToolResponse(tt.res, nil)
			require.NoError(t, err)
			require.Len(t, got.Content, 1)
			text, ok := got.Content[0].(*mcpsdk.TextContent)
			require.True(t, ok)
			for _, want := range tt.wantText {
				assert.Contains(t, text.Text, want)
			}
			assert.Equal(t, tt.wantError, got.IsError)
		})
	}
}

func TestMCPToolResponsePassesThroughErrors(t *testing.T) {
	boom := errors.New("boom")
	got, err := mcpToolResponse(nil, boom)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestCategoriesResource(t *testing.T) {
	catalog := corpus.NewMemoryCatalog([]*framework.Entry{
		{ID: "kpi-board", Name: "KPI Board", Category: "data_analysis", BasePrompt: "Build {USER_REQUEST}"},
		{ID: "story-arc", Name: "Story Arc", Category: "creative_writing", BasePrompt: "Write {USER_REQUEST}"},
	})

	handler := categoriesResourceHandler(catalog)
	res, err := handler(t.Context(), nil, &mcpsdk.ReadResourceParams{URI: categoriesURI})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, categoriesURI, res.Contents[0].URI)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)

	var categories []string
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &categories))
	assert.ElementsMatch(t, []string{"creative_writing", "data_analysis"}, categories)
}

func TestNewMCPServer(t *testing.T) {
	setupCLI(t, ":memory:")

	app, err := openApp(t.Context())
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, newMCPServer(app))
}
