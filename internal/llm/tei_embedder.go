// TEI (Text Embeddings Inference) embedder client.
// See: https://github.com/huggingface/text-embeddings-inference
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
)

// TEIConfig holds configuration for the TEI embedder.
type TEIConfig struct {
	BaseURL string
	// Model is optional; TEI usually serves a single model.
	Model string
	// Timeout per HTTP request (default: 30s)
	Timeout time.Duration
}

// TEIEmbedder implements embedding.Embedder against a TEI server. It tries
// the OpenAI-compatible /v1/embeddings endpoint first and falls back to the
// native /embed endpoint.
type TEIEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
}

type teiOpenAIRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model,omitempty"`
}

type teiOpenAIResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

type teiNativeRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate,omitempty"`
}

// NewTEIEmbedder creates a TEI embedder.
func NewTEIEmbedder(cfg TEIConfig) (*TEIEmbedder, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("TEI base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &TEIEmbedder{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// EmbedStrings implements embedding.Embedder.
func (e *TEIEmbedder) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var oai teiOpenAIResponse
	err := e.post(ctx, "/v1/embeddings", teiOpenAIRequest{Input: texts, Model: e.model}, &oai)
	if err == nil {
		out := make([][]float64, len(texts))
		for _, d := range oai.Data {
			if d.Index >= 0 && d.Index < len(out) {
				out[d.Index] = d.Embedding
			}
		}
		return out, nil
	}

	var native [][]float64
	if nerr := e.post(ctx, "/embed", teiNativeRequest{Inputs: texts, Truncate: true}, &native); nerr != nil {
		return nil, fmt.Errorf("TEI embedding failed: %w", nerr)
	}
	return native, nil
}

func (e *TEIEmbedder) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("TEI returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var _ embedding.Embedder = (*TEIEmbedder)(nil)
