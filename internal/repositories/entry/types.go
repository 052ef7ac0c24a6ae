package entry

import "github.com/KirkDiggler/foresight/internal/models"

// SaveEntryInput contains the entry to save
type SaveEntryInput struct {
	Entry *models.Entry

	// Create fails with ErrEntryExists instead of overwriting
	Create bool
}

// GetEntryInput contains parameters for retrieving an entry
type GetEntryInput struct {
	Account string
	RoundID string
}

// ListEntriesInput contains parameters for listing an account's entries
type ListEntriesInput struct {
	Account string
	Limit   int
}

// ListEntriesOutput contains the entries
type ListEntriesOutput struct {
	Entries []*models.Entry
}
