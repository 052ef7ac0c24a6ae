package round

import "github.com/KirkDiggler/foresight/internal/models"

// SaveRoundInput carries a round and the state the caller read it in.
// ExpectedRevision 0 creates a new round.
type SaveRoundInput struct {
	Round            *models.Round
	ExpectedRevision int64
	ExpectedPhase    models.Phase
}

type GetRoundInput struct {
	RoundID string
}

type ListRoundsInput struct {
	// Limit caps the result, 0 means all
	Limit int64
}

type ListRoundsOutput struct {
	Rounds []*models.Round
}

type GetActiveRoundsInput struct {
}

type GetActiveRoundsOutput struct {
	Rounds []*models.Round
}

type DeleteRoundInput struct {
	RoundID string
}
