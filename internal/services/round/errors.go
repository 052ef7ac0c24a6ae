package round

// RoundError is a custom error type for round service errors
type RoundError string

// Error implements the error interface
func (e RoundError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRoundFinished       RoundError = "round is already finished"
	ErrFramePathRequired   RoundError = "a frame path is required to capture the target frame"
	ErrMissingAnnouncement RoundError = "round has no announcement to collect replies from"
	ErrNothingToCollect    RoundError = "round is not accepting submissions"
	ErrNilConfig           RoundError = "config cannot be nil"
	ErrNilMachine          RoundError = "lifecycle machine cannot be nil"
	ErrNilTransport        RoundError = "transport cannot be nil"
	ErrNilRoundRepo        RoundError = "round repository cannot be nil"
	ErrNilPlayerRepo       RoundError = "player repository cannot be nil"
	ErrNilLedgerRepo       RoundError = "ledger repository cannot be nil"
	ErrNilMessagingService RoundError = "messaging service cannot be nil"
	ErrMissingValidatorID  RoundError = "validator account ID cannot be empty"
)
