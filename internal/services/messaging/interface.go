package messaging

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/foresight/internal/services/messaging Service

import "context"

// Service renders the text the validator posts to the channel
type Service interface {
	// GetPhaseAnnouncement returns the announcement or closure notice for entering a phase
	GetPhaseAnnouncement(ctx context.Context, input *GetPhaseAnnouncementInput) (*GetPhaseAnnouncementOutput, error)

	// GetResultsMessage returns the results announcement for a scored round
	GetResultsMessage(ctx context.Context, input *GetResultsMessageInput) (*GetResultsMessageOutput, error)

	// GetStatusMessage returns a one-paragraph summary of a round
	GetStatusMessage(ctx context.Context, input *GetStatusMessageInput) (*GetStatusMessageOutput, error)

	// GetErrorMessage returns a user-friendly error message
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
