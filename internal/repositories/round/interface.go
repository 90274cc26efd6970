package round

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/lottery/internal/repositories/round Repository

import (
	"context"

	"github.com/KirkDiggler/lottery/internal/models"
)

// Repository defines the interface for round persistence
type Repository interface {
	// SaveRound stores the latest snapshot of a lottery's round
	SaveRound(ctx context.Context, input *SaveRoundInput) error

	// GetRound retrieves the snapshot for a lottery
	GetRound(ctx context.Context, input *GetRoundInput) (*models.Round, error)

	// AddResult records a completed round
	AddResult(ctx context.Context, input *AddResultInput) error

	// ListResults retrieves completed rounds, newest first
	ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error)
}
