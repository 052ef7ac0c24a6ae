package scoring

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/KirkDiggler/foresight/internal/similarity"
)

// Strategy turns a frame and a set of guesses into comparable scores
type Strategy interface {
	// Name is the registry name, e.g. "raw_similarity"
	Name() string

	// Version identifies the rules; results record it so old rounds can be re-evaluated
	Version() string

	// Bounds returns the inclusive range every score must fall in
	Bounds() (min, max float64)

	// ScoreBatch scores guesses against the frame at framePath, one score per guess in order
	ScoreBatch(ctx context.Context, provider similarity.Provider, framePath string, guesses []string) ([]float64, error)
}

// Key returns the registry key of a strategy
func Key(name, version string) string {
	return name + "@" + version
}

// Registry holds strategies addressable by name and version
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	latest     map[string]string
}

// NewRegistry creates a registry holding the given strategies
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	r := &Registry{
		strategies: make(map[string]Strategy),
		latest:     make(map[string]string),
	}
	for _, s := range strategies {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry with every built-in strategy
func DefaultRegistry() *Registry {
	r, _ := NewRegistry(
		NewRawSimilarity(),
		NewCompetitiveSoftmax(),
		NewBaselineAdjusted(),
	)
	return r
}

// Register adds a strategy. The most recently registered version of a name is its latest.
func (r *Registry) Register(s Strategy) error {
	if s == nil {
		return ErrNilStrategy
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key(s.Name(), s.Version())
	if _, ok := r.strategies[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStrategy, key)
	}
	r.strategies[key] = s
	r.latest[s.Name()] = s.Version()
	return nil
}

// Lookup finds a strategy. An empty version selects the latest.
func (r *Registry) Lookup(name, version string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if version == "" {
		v, ok := r.latest[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
		}
		version = v
	}

	s, ok := r.strategies[Key(name, version)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, Key(name, version))
	}
	return s, nil
}

// Keys lists registered strategies in sorted order
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.strategies))
	for k := range r.strategies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
