package messaging

import (
	"math/rand"

	"github.com/KirkDiggler/foresight/internal/models"
)

// DisclosurePolicy controls whether unverified participants are named in results
type DisclosurePolicy string

const (
	// DisclosureSilent leaves excluded participants out of the results
	DisclosureSilent DisclosurePolicy = "silent"

	// DisclosureListExcluded appends excluded participants and the reason
	DisclosureListExcluded DisclosurePolicy = "list_excluded"
)

// Valid reports whether the policy is known
func (d DisclosurePolicy) Valid() bool {
	return d == DisclosureSilent || d == DisclosureListExcluded
}

// ErrorType names the user-facing error categories
type ErrorType string

const (
	ErrorTypeEmptyGuess    ErrorType = "empty_guess"
	ErrorTypeGuessTooLong  ErrorType = "guess_too_long"
	ErrorTypeMalformedHash ErrorType = "malformed_hash"
	ErrorTypeHashMismatch  ErrorType = "hash_mismatch"
	ErrorTypePhaseClosed   ErrorType = "phase_closed"
	ErrorTypeRoundNotFound ErrorType = "round_not_found"
	ErrorTypeInternal      ErrorType = "internal"
)

// MessagingError is a messaging failure
type MessagingError string

func (e MessagingError) Error() string {
	return string(e)
}

const (
	// ErrNilRound is returned when no round is given
	ErrNilRound MessagingError = "round cannot be nil"

	// ErrNoAnnouncement is returned for phases that are entered silently
	ErrNoAnnouncement MessagingError = "phase has no announcement"

	// ErrNoResults is returned when results are requested before scoring
	ErrNoResults MessagingError = "round has no results"
)

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Disclosure is the results disclosure policy; empty means silent
	Disclosure DisclosurePolicy

	// Rand picks flavor lines; nil seeds from the current time
	Rand *rand.Rand
}

// GetPhaseAnnouncementInput is the input for GetPhaseAnnouncement
type GetPhaseAnnouncementInput struct {
	// Round is the round after the transition has been applied
	Round *models.Round

	// Phase is the phase being entered
	Phase models.Phase
}

// GetPhaseAnnouncementOutput is the output for GetPhaseAnnouncement
type GetPhaseAnnouncementOutput struct {
	// Message is the text to post
	Message string

	// ReplyTo is the phase whose announcement this message answers; empty for a top-level post
	ReplyTo models.Phase

	// ImagePath is the frame to attach, if any
	ImagePath string
}

// GetResultsMessageInput is the input for GetResultsMessage
type GetResultsMessageInput struct {
	Round *models.Round
}

// GetResultsMessageOutput is the output for GetResultsMessage
type GetResultsMessageOutput struct {
	Message string
}

// GetStatusMessageInput is the input for GetStatusMessage
type GetStatusMessageInput struct {
	Round *models.Round
}

// GetStatusMessageOutput is the output for GetStatusMessage
type GetStatusMessageOutput struct {
	Message string
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	ErrorType ErrorType
}

// GetErrorMessageOutput contains the result of getting an error message
type GetErrorMessageOutput struct {
	Title   string
	Message string
}
