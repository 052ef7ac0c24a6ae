package scoring

// ScoringError is a custom error type for scoring and payout failures
type ScoringError string

// Error implements the error interface
func (e ScoringError) Error() string {
	return string(e)
}

const (
	ErrTooFewParticipants    ScoringError = "not enough participants to score"
	ErrScoreOutOfBounds      ScoringError = "score outside strategy bounds"
	ErrInvalidScore          ScoringError = "score is not a finite number"
	ErrInvalidFee            ScoringError = "platform fee must be in [0, 1)"
	ErrInvalidPrizePool      ScoringError = "prize pool must be positive"
	ErrSimilarityUnavailable ScoringError = "similarity provider unavailable"
	ErrPayoutOverflow        ScoringError = "payouts exceed the distributable pool"
	ErrPayoutShortfall       ScoringError = "payouts leave more than one unit undistributed"
	ErrUnknownStrategy       ScoringError = "unknown scoring strategy"
	ErrDuplicateStrategy     ScoringError = "scoring strategy already registered"
	ErrNilStrategy           ScoringError = "strategy cannot be nil"
	ErrNilProvider           ScoringError = "similarity provider cannot be nil"
	ErrScoreCountMismatch    ScoringError = "strategy returned the wrong number of scores"
)
