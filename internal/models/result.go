package models

import (
	"math/big"
	"time"
)

// RoundResult records a completed round
type RoundResult struct {
	// ID is the unique identifier for the result
	ID string

	// LotteryID identifies the lottery
	LotteryID string

	// Number is the round number that completed
	Number int64

	// Winner is the winning participant
	Winner string

	// WinnerIndex is the winning slot in the entrant list
	WinnerIndex int

	// Prize is the amount paid out, in wei
	Prize *big.Int

	// RequestID is the randomness request that decided the round
	RequestID string

	// RandomWord is the random value used for selection
	RandomWord *big.Int

	// EntrantCount is the number of slots in the round
	EntrantCount int

	// StartedAt is when the round opened
	StartedAt time.Time

	// CompletedAt is when the winner was paid
	CompletedAt time.Time
}
