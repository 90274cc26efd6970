package messaging

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/lottery/internal/services/messaging Service

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetEnteredMessage returns a message for an accepted entry
	GetEnteredMessage(ctx context.Context, input *GetEnteredMessageInput) (*GetEnteredMessageOutput, error)

	// GetEntryErrorMessage returns a user-friendly message for a rejected entry
	GetEntryErrorMessage(ctx context.Context, input *GetEntryErrorMessageInput) (*GetEntryErrorMessageOutput, error)

	// GetWinnerRequestedMessage announces that a draw has started
	GetWinnerRequestedMessage(ctx context.Context, input *GetWinnerRequestedMessageInput) (*GetWinnerRequestedMessageOutput, error)

	// GetWinnerPickedMessage announces the winner of a round
	GetWinnerPickedMessage(ctx context.Context, input *GetWinnerPickedMessageInput) (*GetWinnerPickedMessageOutput, error)

	// GetStatusMessage describes the current round
	GetStatusMessage(ctx context.Context, input *GetStatusMessageInput) (*GetStatusMessageOutput, error)
}
