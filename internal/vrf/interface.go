// Package vrf defines the randomness coordinator contract the lottery
// consumes, and a local coordinator for development networks.
//
// A request is issued synchronously and answered later: the coordinator
// returns a request id at once and delivers the random words by calling the
// consumer's RawFulfillRandomWords from its own goroutine.
package vrf

//go:generate mockgen -package=mocks -destination=mocks/mock_coordinator.go github.com/KirkDiggler/lottery/internal/vrf Consumer,Coordinator

import (
	"context"
	"math/big"
)

// Coordinator accepts randomness requests
type Coordinator interface {
	// RequestRandomWords registers a request and returns its correlation id
	RequestRandomWords(ctx context.Context, input *RequestRandomWordsInput) (*RequestRandomWordsOutput, error)
}

// Consumer receives fulfilled randomness. Only the coordinator holding the
// consumer registration calls it.
type Consumer interface {
	// RawFulfillRandomWords delivers the words for a request. Returning an
	// error wrapping ErrUnknownToConsumer tells the coordinator to drop the
	// request; any other error keeps it pending for redelivery.
	RawFulfillRandomWords(ctx context.Context, requestID string, randomWords []*big.Int) error
}
