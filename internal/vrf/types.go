package vrf

import (
	"math/big"
	"time"

	"github.com/KirkDiggler/lottery/internal/common/clock"
	"github.com/sirupsen/logrus"
)

const (
	// MaxNumWords is the most words a single request may ask for
	MaxNumWords = 500

	// DefaultMaxGasLimit caps the callback gas a request may reserve
	DefaultMaxGasLimit = 2_500_000
)

// RequestRandomWordsInput carries the request parameters
type RequestRandomWordsInput struct {
	// KeyHash selects the gas lane (the price tier of the request)
	KeyHash string

	// SubscriptionID is the subscription billed for the request
	SubscriptionID uint64

	// MinimumRequestConfirmations is how long the coordinator waits before answering
	MinimumRequestConfirmations uint16

	// CallbackGasLimit is the computation budget reserved for the callback
	CallbackGasLimit uint32

	// NumWords is how many random values to deliver
	NumWords uint32

	// ConsumerID identifies the registered consumer
	ConsumerID string
}

// RequestRandomWordsOutput contains the correlation id
type RequestRandomWordsOutput struct {
	RequestID string
}

// Subscription pays for requests made by its consumers
type Subscription struct {
	ID           uint64
	Balance      *big.Int
	Consumers    []string
	RequestCount uint64
}

// Proof ties random words to the coordinator key
type Proof struct {
	// Input is the hash the coordinator signed
	Input []byte

	// Signature is the coordinator's signature over Input
	Signature []byte

	// Output is the hash of the signature, the root of every word
	Output []byte
}

// LocalConfig holds configuration for the local coordinator
type LocalConfig struct {
	// BaseFee is charged for every fulfillment
	BaseFee *big.Int

	// GasPriceLink is charged per unit of reserved callback gas
	GasPriceLink *big.Int

	// MaxGasLimit caps CallbackGasLimit. Zero means DefaultMaxGasLimit.
	MaxGasLimit uint32

	// FulfillDelay is how long Run waits before answering a request
	FulfillDelay time.Duration

	// PollInterval is how often Run looks for requests to answer
	PollInterval time.Duration

	// Prover signs request seeds. A fresh key is generated when nil.
	Prover *Prover

	Clock  clock.Clock
	Logger logrus.FieldLogger
}

type CreateSubscriptionOutput struct {
	SubscriptionID uint64
}

type FundSubscriptionInput struct {
	SubscriptionID uint64
	Amount         *big.Int
}

type AddConsumerInput struct {
	SubscriptionID uint64
	ConsumerID     string
	Consumer       Consumer
}

type GetSubscriptionInput struct {
	SubscriptionID uint64
}

type FulfillRandomWordsInput struct {
	RequestID string
}

type FulfillRandomWordsWithOverrideInput struct {
	RequestID   string
	RandomWords []*big.Int
}

// FulfillRandomWordsOutput describes a delivered fulfillment
type FulfillRandomWordsOutput struct {
	RequestID   string
	RandomWords []*big.Int

	// Proof is nil when the words were overridden
	Proof *Proof

	// Payment is what the subscription was charged
	Payment *big.Int
}
