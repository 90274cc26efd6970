package models

import (
	"math/big"
	"time"
)

// LotteryState represents where a round is in its cycle
type LotteryState string

const (
	// LotteryStateOpen accepts entries and upkeep
	LotteryStateOpen LotteryState = "OPEN"

	// LotteryStateCalculating is waiting on the randomness coordinator
	LotteryStateCalculating LotteryState = "CALCULATING"
)

// IsOpen returns true if the lottery accepts entries
func (s LotteryState) IsOpen() bool {
	return s == LotteryStateOpen
}

// IsCalculating returns true if a winner is being drawn
func (s LotteryState) IsCalculating() bool {
	return s == LotteryStateCalculating
}

// PendingRequest is the single in-flight randomness request of a round
type PendingRequest struct {
	// RequestID is the coordinator's correlation handle
	RequestID string

	// RequestedAt is when the request was issued
	RequestedAt time.Time
}

// Round is the recycled state of one lottery
type Round struct {
	// LotteryID identifies the lottery this round belongs to
	LotteryID string

	// Number counts rounds, starting at 1
	Number int64

	// State is the current state of the round
	State LotteryState

	// Entrants holds one slot per entry, in arrival order
	Entrants []string

	// Pool is the total value held, in wei
	Pool *big.Int

	// LastTimestamp is when the round started
	LastTimestamp time.Time

	// PendingRequest is set only while the round is calculating
	PendingRequest *PendingRequest

	// RecentWinner is the winner of the previous round
	RecentWinner string
}

// NewRound creates an open, empty round
func NewRound(lotteryID string, number int64, startedAt time.Time) *Round {
	return &Round{
		LotteryID:     lotteryID,
		Number:        number,
		State:         LotteryStateOpen,
		Entrants:      []string{},
		Pool:          new(big.Int),
		LastTimestamp: startedAt,
	}
}

// Clone returns a deep copy of the round
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}

	clone := *r
	clone.Entrants = make([]string, len(r.Entrants))
	copy(clone.Entrants, r.Entrants)

	clone.Pool = new(big.Int)
	if r.Pool != nil {
		clone.Pool.Set(r.Pool)
	}

	if r.PendingRequest != nil {
		pending := *r.PendingRequest
		clone.PendingRequest = &pending
	}

	return &clone
}
