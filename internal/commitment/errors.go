package commitment

// CommitmentError is a custom error type for commitment failures
type CommitmentError string

// Error implements the error interface
func (e CommitmentError) Error() string {
	return string(e)
}

const (
	ErrEmptyGuess    CommitmentError = "guess cannot be empty"
	ErrEmptySalt     CommitmentError = "salt cannot be empty"
	ErrMalformedHash CommitmentError = "commitment hash is not 64 hex characters"
)
