package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freekyn/Promptin/internal/config"
	"github.com/Freekyn/Promptin/internal/corpus"
	"github.com/Freekyn/Promptin/internal/feedback"
	"github.com/Freekyn/Promptin/internal/recommend"
	"github.com/Freekyn/Promptin/internal/telemetry"
)

// setupCLI isolates a test from the user's config, credentials and data.
// It returns the global config directory.
func setupCLI(t *testing.T, storagePath string) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Chdir(t.TempDir())
	globalDir := t.TempDir()
	orig := config.GetGlobalConfigDir
	config.GetGlobalConfigDir = func() (string, error) { return globalDir, nil }
	t.Cleanup(func() { config.GetGlobalConfigDir = orig })

	t.Setenv("PROMPTIN_LLM_PROVIDER", "openai")
	for _, key := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(key, "")
	}

	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.Set("storage.path", storagePath)
	return globalDir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, stderr bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	setupCLI(t, ":memory:")

	output, err := execute(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, output, "Promptin turns a free-text task description")
	assert.Contains(t, output, "Usage:")
	for _, sub := range []string{"recommend", "prompt", "feedback", "corpus", "config", "mcp"} {
		assert.Contains(t, output, sub)
	}
}

func TestReadRequest(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		want    string
		wantErr error
	}{
		{name: "args joined", args: []string{"write", "a", "haiku"}, want: "write a haiku"},
		{name: "stdin when no args", stdin: "  plan a launch\n", want: "plan a launch"},
		{name: "dash reads stdin", args: []string{"-"}, stdin: "summarize tickets", want: "summarize tickets"},
		{name: "nothing given", stdin: "   ", wantErr: errNoRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.SetIn(strings.NewReader(tt.stdin))

			got, err := readRequest(cmd, tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecommendWithoutCredentials(t *testing.T) {
	setupCLI(t, ":memory:")

	output, err := execute(t, "", "recommend", "--json", "write a blog post about remote work")
	require.NoError(t, err)

	var resp recommend.Response
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "write a blog post about remote work", resp.Request)
	assert.NotEmpty(t, resp.ID)
	require.NotNil(t, resp.Framework.Selected)
	assert.NotEmpty(t, resp.Framework.Selected.Name)
	assert.True(t, resp.Metadata.Insights.ClassifierFallback)
	assert.NotEmpty(t, resp.AutoFill.Model)
}

func TestRecommendFromStdin(t *testing.T) {
	setupCLI(t, ":memory:")

	output, err := execute(t, "analyze churn in our subscription data\n", "recommend", "--json")
	require.NoError(t, err)

	var resp recommend.Response
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "analyze churn in our subscription data", resp.Request)
}

func TestRecommendRejectsEmptyRequest(t *testing.T) {
	setupCLI(t, ":memory:")

	_, err := execute(t, "", "recommend", "--json")
	assert.ErrorIs(t, err, errNoRequest)
}

func TestFeedbackPersists(t *testing.T) {
	storage := t.TempDir()
	setupCLI(t, storage)
	request := "design a database schema for a library"

	_, err := execute(t, "", "recommend", "--json", request)
	require.NoError(t, err)

	output, err := execute(t, "", "feedback", "--json", "5", request)
	require.NoError(t, err)
	assert.Contains(t, output, `"recorded": true`)

	store, err := corpus.OpenSQLite(storage)
	require.NoError(t, err)
	defer store.Close()
	fs, err := feedback.NewSQLiteState(store.DB())
	require.NoError(t, err)
	stats, err := fs.Stats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Events)
	assert.InDelta(t, 5.0, stats.AverageRating, 0.001)
}

func TestFeedbackRejectsBadRating(t *testing.T) {
	setupCLI(t, ":memory:")

	tests := []struct {
		name   string
		rating string
	}{
		{"not a number", "great"},
		{"out of range", "9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", "feedback", "--json", tt.rating, "plan a product launch")
			assert.Error(t, err)
		})
	}
}

func TestCorpusCommands(t *testing.T) {
	setupCLI(t, ":memory:")

	output, err := execute(t, "", "corpus", "categories", "--json")
	require.NoError(t, err)
	var categories []string
	require.NoError(t, json.Unmarshal([]byte(output), &categories))
	assert.NotEmpty(t, categories)

	output, err = execute(t, "", "corpus", "stats", "--json")
	require.NoError(t, err)
	var stats struct {
		Corpus   corpus.Stats   `json:"corpus"`
		Feedback feedback.Stats `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &stats))
	assert.Positive(t, stats.Corpus.Total)
	assert.Zero(t, stats.Feedback.Events)

	_, err = execute(t, "", "corpus", "show", "--json", "no-such-framework")
	assert.ErrorIs(t, err, corpus.ErrNotFound)
}

func TestConfigSetAndTelemetry(t *testing.T) {
	globalDir := setupCLI(t, ":memory:")

	_, err := execute(t, "", "config", "set", "retrieval.synthesisThreshold", "65")
	require.NoError(t, err)

	path, err := config.GlobalConfigFile()
	require.NoError(t, err)
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	assert.InDelta(t, 65.0, v.GetFloat64("retrieval.synthesisThreshold"), 0.001)

	_, err = execute(t, "", "config", "telemetry", "enable")
	require.NoError(t, err)
	tc, err := telemetry.Load(globalDir)
	require.NoError(t, err)
	assert.True(t, tc.IsEnabled())

	_, err = execute(t, "", "config", "telemetry", "disable")
	require.NoError(t, err)
	tc, err = telemetry.Load(globalDir)
	require.NoError(t, err)
	assert.False(t, tc.IsEnabled())
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "not set"},
		{"short", "****"},
		{"sk-abcdefghijkl1234", "****1234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maskKey(tt.key))
	}
}
