package similarity

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// HTTPConfig holds configuration for the remote embedding client
type HTTPConfig struct {
	// Endpoint is the base URL of the embedding service
	Endpoint string

	// APIKey is sent as a bearer token when set
	APIKey string

	// Timeout bounds each request
	Timeout time.Duration

	// Client overrides the HTTP client, for tests
	Client *http.Client
}

// HTTP calls a remote embedding service. The service exposes
// POST /embed/image {"image": "<base64>"} and POST /embed/text {"text": "..."},
// both answering {"embedding": [...]}.
type HTTP struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type embedImageRequest struct {
	Image string `json:"image"`
}

type embedTextRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// NewHTTP creates a remote embedding client
func NewHTTP(cfg *HTTPConfig) (*HTTP, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint cannot be empty")
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTP{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		client:   client,
	}, nil
}

// EmbedImage uploads the image at path and returns its embedding
func (h *HTTP) EmbedImage(ctx context.Context, path string) (Vector, error) {
	if path == "" {
		return nil, ErrEmptyInput
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return h.post(ctx, "/embed/image", embedImageRequest{
		Image: base64.StdEncoding.EncodeToString(data),
	})
}

// EmbedText returns the embedding of text
func (h *HTTP) EmbedText(ctx context.Context, text string) (Vector, error) {
	return h.post(ctx, "/embed/text", embedTextRequest{Text: text})
}

// Similarity returns the cosine similarity of a and b
func (h *HTTP) Similarity(a, b Vector) (float64, error) {
	return Cosine(a, b)
}

func (h *HTTP) post(ctx context.Context, path string, body any) (Vector, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}

	var out embedResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned %d: %s", resp.StatusCode, out.Error)
	}
	if len(out.Embedding) == 0 {
		return nil, ErrEmptyEmbedding
	}

	return Vector(out.Embedding), nil
}
