package vrf

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/KirkDiggler/lottery/internal/common/clock"
	"github.com/sirupsen/logrus"
)

// LocalCoordinator is an in-process coordinator for development networks.
// It bills subscriptions, issues sequential request ids starting at 1 and
// answers requests either on demand (FulfillRandomWords) or from Run.
type LocalCoordinator struct {
	mu sync.Mutex

	baseFee      *big.Int
	gasPriceLink *big.Int
	maxGasLimit  uint32
	fulfillDelay time.Duration
	pollInterval time.Duration

	prover *Prover
	clock  clock.Clock
	logger logrus.FieldLogger

	lastSubID     uint64
	lastRequestID uint64

	subscriptions map[uint64]*Subscription
	consumers     map[string]Consumer
	consumerSub   map[string]uint64
	requests      map[string]*request
}

type request struct {
	id               string
	subID            uint64
	consumerID       string
	callbackGasLimit uint32
	numWords         uint32
	seed             []byte
	requestedAt      time.Time

	// words are fixed on first delivery so redelivery picks the same winner
	words    []*big.Int
	proof    *Proof
	inFlight bool
	attempts int
}

// NewLocal creates a local coordinator
func NewLocal(cfg *LocalConfig) (*LocalCoordinator, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	prover := cfg.Prover
	if prover == nil {
		generated, err := GenerateProver()
		if err != nil {
			return nil, err
		}
		prover = generated
	}

	c := &LocalCoordinator{
		baseFee:       new(big.Int),
		gasPriceLink:  new(big.Int),
		maxGasLimit:   cfg.MaxGasLimit,
		fulfillDelay:  cfg.FulfillDelay,
		pollInterval:  cfg.PollInterval,
		prover:        prover,
		clock:         cfg.Clock,
		logger:        cfg.Logger,
		subscriptions: make(map[uint64]*Subscription),
		consumers:     make(map[string]Consumer),
		consumerSub:   make(map[string]uint64),
		requests:      make(map[string]*request),
	}

	if cfg.BaseFee != nil {
		c.baseFee.Set(cfg.BaseFee)
	}
	if cfg.GasPriceLink != nil {
		c.gasPriceLink.Set(cfg.GasPriceLink)
	}
	if c.maxGasLimit == 0 {
		c.maxGasLimit = DefaultMaxGasLimit
	}
	if c.pollInterval <= 0 {
		c.pollInterval = time.Second
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.logger == nil {
		c.logger = logrus.StandardLogger()
	}

	return c, nil
}

// PublicKey returns the key that verifies this coordinator's proofs
func (c *LocalCoordinator) PublicKey() []byte {
	return c.prover.PublicKey()
}

// CreateSubscription opens an unfunded subscription
func (c *LocalCoordinator) CreateSubscription(ctx context.Context) (*CreateSubscriptionOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastSubID++
	c.subscriptions[c.lastSubID] = &Subscription{
		ID:        c.lastSubID,
		Balance:   new(big.Int),
		Consumers: []string{},
	}

	c.logger.WithField("subscription_id", c.lastSubID).Info("subscription created")

	return &CreateSubscriptionOutput{SubscriptionID: c.lastSubID}, nil
}

// FundSubscription adds to a subscription's balance
func (c *LocalCoordinator) FundSubscription(ctx context.Context, input *FundSubscriptionInput) error {
	if input == nil || input.Amount == nil || input.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sub, ok := c.subscriptions[input.SubscriptionID]
	if !ok {
		return ErrInvalidSubscription
	}
	sub.Balance.Add(sub.Balance, input.Amount)

	return nil
}

// AddConsumer allows a consumer to request against a subscription
func (c *LocalCoordinator) AddConsumer(ctx context.Context, input *AddConsumerInput) error {
	if input == nil || input.Consumer == nil {
		return ErrNilConsumer
	}
	if input.ConsumerID == "" {
		return fmt.Errorf("%w: consumer id cannot be empty", ErrInvalidConsumer)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sub, ok := c.subscriptions[input.SubscriptionID]
	if !ok {
		return ErrInvalidSubscription
	}

	if _, exists := c.consumers[input.ConsumerID]; !exists {
		sub.Consumers = append(sub.Consumers, input.ConsumerID)
	}
	c.consumers[input.ConsumerID] = input.Consumer
	c.consumerSub[input.ConsumerID] = input.SubscriptionID

	return nil
}

// GetSubscription returns a copy of a subscription
func (c *LocalCoordinator) GetSubscription(ctx context.Context, input *GetSubscriptionInput) (*Subscription, error) {
	if input == nil {
		return nil, ErrInvalidSubscription
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sub, ok := c.subscriptions[input.SubscriptionID]
	if !ok {
		return nil, ErrInvalidSubscription
	}

	consumers := make([]string, len(sub.Consumers))
	copy(consumers, sub.Consumers)

	return &Subscription{
		ID:           sub.ID,
		Balance:      new(big.Int).Set(sub.Balance),
		Consumers:    consumers,
		RequestCount: sub.RequestCount,
	}, nil
}

// RequestRandomWords registers a request. It never calls the consumer.
func (c *LocalCoordinator) RequestRandomWords(ctx context.Context, input *RequestRandomWordsInput) (*RequestRandomWordsOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if input.NumWords == 0 || input.NumWords > MaxNumWords {
		return nil, ErrNumWordsTooBig
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if input.CallbackGasLimit == 0 || input.CallbackGasLimit > c.maxGasLimit {
		return nil, ErrGasLimitTooBig
	}

	sub, ok := c.subscriptions[input.SubscriptionID]
	if !ok {
		return nil, ErrInvalidSubscription
	}
	if subID, ok := c.consumerSub[input.ConsumerID]; !ok || subID != input.SubscriptionID {
		return nil, ErrInvalidConsumer
	}

	c.lastRequestID++
	sub.RequestCount++
	id := strconv.FormatUint(c.lastRequestID, 10)

	c.requests[id] = &request{
		id:               id,
		subID:            input.SubscriptionID,
		consumerID:       input.ConsumerID,
		callbackGasLimit: input.CallbackGasLimit,
		numWords:         input.NumWords,
		seed:             requestSeed(input.KeyHash, input.ConsumerID, input.SubscriptionID, sub.RequestCount),
		requestedAt:      c.clock.Now(),
	}

	c.logger.WithFields(logrus.Fields{
		"request_id":      id,
		"subscription_id": input.SubscriptionID,
		"consumer":        input.ConsumerID,
		"num_words":       input.NumWords,
	}).Debug("random words requested")

	return &RequestRandomWordsOutput{RequestID: id}, nil
}

// PendingRequestIDs lists requests that have not been fulfilled, oldest first
func (c *LocalCoordinator) PendingRequestIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq := make([]uint64, 0, len(c.requests))
	for id := range c.requests {
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			continue
		}
		seq = append(seq, n)
	}
	sort.Slice(seq, func(i, j int) bool { return seq[i] < seq[j] })

	ids := make([]string, len(seq))
	for i, n := range seq {
		ids[i] = strconv.FormatUint(n, 10)
	}
	return ids
}

// FulfillRandomWords proves and delivers the words for a request
func (c *LocalCoordinator) FulfillRandomWords(ctx context.Context, input *FulfillRandomWordsInput) (*FulfillRandomWordsOutput, error) {
	if input == nil {
		return nil, ErrNonexistentRequest
	}
	return c.fulfill(ctx, input.RequestID, nil)
}

// FulfillRandomWordsWithOverride delivers caller-chosen words. Tests use it
// to force a particular winner.
func (c *LocalCoordinator) FulfillRandomWordsWithOverride(ctx context.Context, input *FulfillRandomWordsWithOverrideInput) (*FulfillRandomWordsOutput, error) {
	if input == nil {
		return nil, ErrNonexistentRequest
	}
	if len(input.RandomWords) == 0 {
		return nil, ErrNumWordsTooBig
	}
	return c.fulfill(ctx, input.RequestID, input.RandomWords)
}

func (c *LocalCoordinator) fulfill(ctx context.Context, requestID string, override []*big.Int) (*FulfillRandomWordsOutput, error) {
	c.mu.Lock()

	req, ok := c.requests[requestID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrNonexistentRequest
	}
	if req.inFlight {
		c.mu.Unlock()
		return nil, ErrFulfillmentInProgress
	}

	sub, ok := c.subscriptions[req.subID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrInvalidSubscription
	}

	payment := c.payment(req.callbackGasLimit)
	if sub.Balance.Cmp(payment) < 0 {
		c.mu.Unlock()
		return nil, ErrInsufficientBalance
	}

	consumer, ok := c.consumers[req.consumerID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrInvalidConsumer
	}

	if override != nil {
		req.words = copyWords(override)
		req.proof = nil
	} else if req.words == nil {
		proof, err := c.prover.Prove(req.seed)
		if err != nil {
			c.mu.Unlock()
			return nil, err
		}
		req.proof = proof
		req.words = Words(proof.Output, req.numWords)
	}

	// The payment is held while the callback runs and refunded if it fails.
	sub.Balance.Sub(sub.Balance, payment)

	words := copyWords(req.words)
	proof := req.proof
	req.inFlight = true
	req.attempts++
	attempt := req.attempts
	c.mu.Unlock()

	log := c.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"consumer":   req.consumerID,
		"attempt":    attempt,
	})

	// The consumer takes its own locks; never call it while holding ours.
	callbackErr := consumer.RawFulfillRandomWords(ctx, requestID, words)

	c.mu.Lock()
	defer c.mu.Unlock()
	req.inFlight = false

	switch {
	case callbackErr == nil:
		delete(c.requests, requestID)
		log.WithField("payment", payment.String()).Info("random words fulfilled")
	case errors.Is(callbackErr, ErrUnknownToConsumer):
		sub.Balance.Add(sub.Balance, payment)
		delete(c.requests, requestID)
		log.WithError(callbackErr).Warn("consumer does not know request, dropping")
		return nil, callbackErr
	default:
		sub.Balance.Add(sub.Balance, payment)
		log.WithError(callbackErr).Error("consumer callback failed, request stays pending")
		return nil, fmt.Errorf("%w: %w", ErrCallbackFailed, callbackErr)
	}

	return &FulfillRandomWordsOutput{
		RequestID:   requestID,
		RandomWords: words,
		Proof:       proof,
		Payment:     payment,
	}, nil
}

// Run answers pending requests once they are FulfillDelay old, until ctx ends
func (c *LocalCoordinator) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.fulfillDue(ctx)
		}
	}
}

func (c *LocalCoordinator) fulfillDue(ctx context.Context) {
	now := c.clock.Now()

	for _, id := range c.PendingRequestIDs() {
		c.mu.Lock()
		req, ok := c.requests[id]
		due := ok && !req.inFlight && now.Sub(req.requestedAt) >= c.fulfillDelay
		c.mu.Unlock()

		if !due {
			continue
		}

		if _, err := c.fulfill(ctx, id, nil); err != nil {
			c.logger.WithError(err).WithField("request_id", id).Warn("scheduled fulfillment failed")
		}
	}
}

func (c *LocalCoordinator) payment(callbackGasLimit uint32) *big.Int {
	gas := new(big.Int).SetUint64(uint64(callbackGasLimit))
	payment := new(big.Int).Mul(gas, c.gasPriceLink)
	return payment.Add(payment, c.baseFee)
}

func copyWords(words []*big.Int) []*big.Int {
	copied := make([]*big.Int, len(words))
	for i, w := range words {
		copied[i] = new(big.Int).Set(w)
	}
	return copied
}
