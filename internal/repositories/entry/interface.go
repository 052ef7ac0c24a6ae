package entry

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/foresight/internal/repositories/entry Repository

import (
	"context"

	"github.com/KirkDiggler/foresight/internal/models"
)

// Repository stores a miner's private commitment entries
type Repository interface {
	// SaveEntry persists an entry
	SaveEntry(ctx context.Context, input *SaveEntryInput) error

	// GetEntry retrieves the entry an account made for a round
	GetEntry(ctx context.Context, input *GetEntryInput) (*models.Entry, error)

	// ListEntries retrieves an account's entries, newest first
	ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error)
}
