package lifecycle

import (
	"fmt"

	"github.com/KirkDiggler/foresight/internal/models"
)

// LifecycleError is a round lifecycle failure
type LifecycleError string

// Error implements the error interface
func (e LifecycleError) Error() string {
	return string(e)
}

const (
	ErrNotConfirmed        LifecycleError = "operator did not confirm the transition"
	ErrTransportFailed     LifecycleError = "transport call failed"
	ErrPersistFailed       LifecycleError = "failed to persist round"
	ErrFrameUnavailable    LifecycleError = "target frame is not available"
	ErrNoValidParticipants LifecycleError = "not enough verified participants to score"
	ErrPayoutsNotRecorded  LifecycleError = "payouts have not been recorded"
	ErrInconsistentRecord  LifecycleError = "round record is inconsistent with its phase"
	ErrWrongPhase          LifecycleError = "round is not in the requested phase"
	ErrStaleRound          LifecycleError = "round value was already advanced"
	ErrInvalidRound        LifecycleError = "invalid round parameters"
	ErrNilConfig           LifecycleError = "config cannot be nil"
)

// TransitionError reports a transition that failed and left the round where it was
type TransitionError struct {
	RoundID string
	From    models.Phase
	To      models.Phase
	Err     error
}

func (e *TransitionError) Error() string {
	from := e.From.DisplayName()
	if e.From == "" {
		from = "(new)"
	}
	return fmt.Sprintf("round %s: %s -> %s failed, phase not advanced: %v",
		e.RoundID, from, e.To.DisplayName(), e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
