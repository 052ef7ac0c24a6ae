package framestore

//go:generate mockgen -package=mocks -destination=mocks/mock_store.go github.com/KirkDiggler/foresight/internal/framestore Store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/models"
)

// FrameError is a custom error type for frame store failures
type FrameError string

// Error implements the error interface
func (e FrameError) Error() string {
	return string(e)
}

const (
	ErrFrameUnavailable FrameError = "target frame is not available"
	ErrEmptyPath        FrameError = "frame path cannot be empty"
)

// Store checks that a captured frame exists and records it for a round
type Store interface {
	Capture(ctx context.Context, roundID, path string) (models.FrameRef, error)
}

// Local accepts frames already on local disk
type Local struct {
	clock clock.Clock
}

// NewLocal creates a local frame store
func NewLocal(clk clock.Clock) *Local {
	if clk == nil {
		clk = clock.New()
	}
	return &Local{clock: clk}
}

// Capture verifies the file is a readable non-empty regular file and fingerprints it
func (l *Local) Capture(ctx context.Context, roundID, path string) (models.FrameRef, error) {
	if err := ctx.Err(); err != nil {
		return models.FrameRef{}, err
	}
	digest, err := fingerprint(path)
	if err != nil {
		return models.FrameRef{}, err
	}
	return models.FrameRef{
		Path:       path,
		SHA256:     digest,
		CapturedAt: l.clock.Now(),
	}, nil
}

func fingerprint(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFrameUnavailable, err)
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return "", fmt.Errorf("%w: %s is not a non-empty file", ErrFrameUnavailable, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFrameUnavailable, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFrameUnavailable, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
