package miner

// MinerError is a custom error type for miner failures
type MinerError string

// Error implements the error interface
func (e MinerError) Error() string {
	return string(e)
}

const (
	ErrNilConfig          MinerError = "config cannot be nil"
	ErrNilTransport       MinerError = "transport cannot be nil"
	ErrNilEntryRepo       MinerError = "entry repository cannot be nil"
	ErrMissingAccount     MinerError = "miner account cannot be empty"
	ErrMissingValidatorID MinerError = "validator ID cannot be empty"
	ErrInvalidGuess       MinerError = "guess must be non-blank, a single line without surrounding spaces and at most 300 bytes"
	ErrInvalidSalt        MinerError = "salt cannot be empty or contain whitespace"
	ErrNoAnnouncement     MinerError = "no round announcement from the validator"
	ErrPhaseClosed        MinerError = "round is not accepting this submission"
	ErrRoundMismatch      MinerError = "the validator's current round is a different round"
	ErrNoEntry            MinerError = "no commitment stored for this round"
	ErrGuessConflict      MinerError = "a different guess is already committed for this round"
)
