package models

import (
	"math/big"
	"time"
)

// EventType names a lottery notification
type EventType string

const (
	// EventTypeEntered is published when an entry is accepted
	EventTypeEntered EventType = "lottery.entered"

	// EventTypeWinnerRequested is published when randomness is requested
	EventTypeWinnerRequested EventType = "lottery.winner_requested"

	// EventTypeWinnerPicked is published when the pool has been paid out
	EventTypeWinnerPicked EventType = "lottery.winner_picked"
)

// Event announces a state transition to observers
type Event struct {
	Type      EventType
	LotteryID string

	// Participant is set for entered events
	Participant string

	// RequestID is set for winner requested events
	RequestID string

	// Winner and Prize are set for winner picked events
	Winner string
	Prize  *big.Int

	// EntrantCount and Pool describe the round after entered and winner
	// requested events
	EntrantCount int
	Pool         *big.Int

	// Round is the round number the event belongs to
	Round int64

	Timestamp time.Time
}
