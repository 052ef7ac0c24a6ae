package similarity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	sim, err := Cosine(Vector{1, 0}, Vector{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-12)

	sim, err = Cosine(Vector{1, 0}, Vector{-2, 0})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, sim, 1e-12)

	sim, err = Cosine(Vector{1, 0}, Vector{0, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-12)

	sim, err = Cosine(Vector{0, 0}, Vector{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)

	_, err = Cosine(Vector{1}, Vector{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Cosine(nil, Vector{1})
	assert.ErrorIs(t, err, ErrEmptyEmbedding)
}

func TestHashedIsDeterministicAndNormalized(t *testing.T) {
	ctx := context.Background()
	h := NewHashed(128)

	a, err := h.EmbedText(ctx, "a red bicycle")
	require.NoError(t, err)
	b, err := h.EmbedText(ctx, "a red bicycle")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 128)

	var norm float64
	for _, x := range a {
		norm += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)

	img, err := h.EmbedImage(ctx, "frames/r1.jpg")
	require.NoError(t, err)
	sim, err := h.Similarity(img, a)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sim, -1.0)
	assert.LessOrEqual(t, sim, 1.0)

	other, err := h.EmbedText(ctx, "a blue car")
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestHashedSeparatesImageAndTextSpaces(t *testing.T) {
	ctx := context.Background()
	h := NewHashed(0)

	img, err := h.EmbedImage(ctx, "same")
	require.NoError(t, err)
	txt, err := h.EmbedText(ctx, "same")
	require.NoError(t, err)

	assert.Len(t, img, DefaultDimensions)
	assert.NotEqual(t, img, txt)

	_, err = h.EmbedImage(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestHTTPProvider(t *testing.T) {
	dir := t.TempDir()
	framePath := filepath.Join(dir, "frame.jpg")
	require.NoError(t, os.WriteFile(framePath, []byte("jpeg-bytes"), 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/embed/image":
			var req embedImageRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			raw, err := base64.StdEncoding.DecodeString(req.Image)
			require.NoError(t, err)
			assert.Equal(t, "jpeg-bytes", string(raw))
			_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{1, 0}})
		case "/embed/text":
			var req embedTextRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Text == "boom" {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(embedResponse{Error: "model offline"})
				return
			}
			_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{0.6, 0.8}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p, err := NewHTTP(&HTTPConfig{Endpoint: srv.URL + "/", APIKey: "secret"})
	require.NoError(t, err)

	ctx := context.Background()
	img, err := p.EmbedImage(ctx, framePath)
	require.NoError(t, err)
	txt, err := p.EmbedText(ctx, "a dog")
	require.NoError(t, err)

	sim, err := p.Similarity(img, txt)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, sim, 1e-12)

	_, err = p.EmbedText(ctx, "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")

	_, err = p.EmbedImage(ctx, filepath.Join(dir, "missing.jpg"))
	assert.Error(t, err)
}

func TestNewHTTPValidatesConfig(t *testing.T) {
	_, err := NewHTTP(nil)
	assert.Error(t, err)

	_, err = NewHTTP(&HTTPConfig{})
	assert.Error(t, err)
}
