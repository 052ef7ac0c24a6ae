package uuid

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/foresight/internal/common/uuid UUID

type UUID interface {
	NewUUID() string
}

// DefaultUUID implements the UUID interface using the uuid package

type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new random UUID
func (d *DefaultUUID) NewUUID() string {
	return uuid.New().String()
}

// Sequence hands out predictable IDs ("msg-1", "msg-2", ...)
type Sequence struct {
	prefix string
	n      atomic.Int64
}

// NewSequence creates a sequence with the given prefix
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewUUID returns the next ID in the sequence
func (s *Sequence) NewUUID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}
