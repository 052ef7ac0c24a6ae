package commitment

//go:generate mockgen -package=mocks -destination=mocks/mock_verifier.go github.com/KirkDiggler/foresight/internal/commitment Verifier

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSaltLength is the number of random bytes in a generated salt
	DefaultSaltLength = 32

	// HashLength is the length of a commitment in hex characters
	HashLength = sha256.Size * 2
)

// Entry is a single reveal to check against its commitment
type Entry struct {
	Guess string
	Salt  string
	Hash  string
}

// Verifier checks reveals against commitments
type Verifier interface {
	Verify(guess, salt, hash string) bool
	VerifyBatch(ctx context.Context, entries []Entry) ([]bool, error)
}

// Config for the commitment generator
type Config struct {
	// SaltLength is the number of random bytes per salt
	SaltLength int

	// Random overrides the entropy source, for tests
	Random io.Reader

	// Workers bounds batch verification concurrency
	Workers int
}

// Generator produces salts and commitments and verifies reveals
type Generator struct {
	saltLength int
	random     io.Reader
	workers    int
}

// New creates a new commitment generator
func New(cfg *Config) *Generator {
	g := &Generator{
		saltLength: DefaultSaltLength,
		random:     rand.Reader,
		workers:    runtime.NumCPU(),
	}
	if cfg == nil {
		return g
	}
	if cfg.SaltLength > 0 {
		g.saltLength = cfg.SaltLength
	}
	if cfg.Random != nil {
		g.random = cfg.Random
	}
	if cfg.Workers > 0 {
		g.workers = cfg.Workers
	}
	return g
}

// GenerateSalt returns a hex encoded random salt
func (g *Generator) GenerateSalt() (string, error) {
	buf := make([]byte, g.saltLength)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", fmt.Errorf("failed to read salt entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Commit returns the lowercase hex SHA-256 of guess followed by salt
func (g *Generator) Commit(guess, salt string) (string, error) {
	return Commit(guess, salt)
}

// Verify reports whether guess and salt reproduce hash
func (g *Generator) Verify(guess, salt, hash string) bool {
	return Verify(guess, salt, hash)
}

// VerifyBatch checks every entry independently and returns one result per
// entry in input order. A malformed entry is false and does not affect the rest.
func (g *Generator) VerifyBatch(ctx context.Context, entries []Entry) ([]bool, error) {
	results := make([]bool, len(entries))
	if len(entries) == 0 {
		return results, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i := range entries {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Verify(entries[i].Guess, entries[i].Salt, entries[i].Hash)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("batch verification interrupted: %w", err)
	}
	return results, nil
}

// Commit returns the lowercase hex SHA-256 of guess followed by salt
func Commit(guess, salt string) (string, error) {
	if guess == "" {
		return "", ErrEmptyGuess
	}
	if salt == "" {
		return "", ErrEmptySalt
	}
	sum := sha256.Sum256([]byte(guess + salt))
	return hex.EncodeToString(sum[:]), nil
}

// Verify reports whether guess and salt reproduce hash. Hash case is ignored.
func Verify(guess, salt, hash string) bool {
	want, err := decodeHash(hash)
	if err != nil {
		return false
	}
	if guess == "" || salt == "" {
		return false
	}
	got := sha256.Sum256([]byte(guess + salt))
	return subtle.ConstantTimeCompare(got[:], want) == 1
}

// ValidHash reports whether s is a well-formed commitment
func ValidHash(s string) bool {
	_, err := decodeHash(s)
	return err == nil
}

func decodeHash(s string) ([]byte, error) {
	if len(s) != HashLength {
		return nil, ErrMalformedHash
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrMalformedHash
	}
	return b, nil
}
