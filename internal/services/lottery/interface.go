// Package lottery runs the recurring-round lottery.
//
// A round is OPEN while it accepts entries. Once the interval has elapsed and
// the round holds entrants and value, PerformUpkeep moves it to CALCULATING
// and asks the coordinator for randomness. The coordinator answers through
// RawFulfillRandomWords, which pays the pool to the selected entrant and
// opens the next round.
package lottery

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/lottery/internal/services/lottery Service

import (
	"context"
	"math/big"
)

// Service defines the interface for lottery operations
type Service interface {
	// Enter adds a participant to the open round
	Enter(ctx context.Context, input *EnterInput) (*EnterOutput, error)

	// CheckUpkeep reports whether the round is ready for a draw. It never
	// changes state.
	CheckUpkeep(ctx context.Context, input *CheckUpkeepInput) (*CheckUpkeepOutput, error)

	// PerformUpkeep closes the round and requests randomness
	PerformUpkeep(ctx context.Context, input *PerformUpkeepInput) (*PerformUpkeepOutput, error)

	// FulfillRandomWords picks and pays the winner for the pending request
	FulfillRandomWords(ctx context.Context, input *FulfillRandomWordsInput) (*FulfillRandomWordsOutput, error)

	// RawFulfillRandomWords is the coordinator callback
	RawFulfillRandomWords(ctx context.Context, requestID string, randomWords []*big.Int) error

	// GetStatus returns a snapshot of the round and configuration
	GetStatus(ctx context.Context, input *GetStatusInput) (*GetStatusOutput, error)

	// GetEntrant returns the entrant at an index
	GetEntrant(ctx context.Context, input *GetEntrantInput) (*GetEntrantOutput, error)

	// ListResults returns completed rounds, newest first
	ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error)
}
