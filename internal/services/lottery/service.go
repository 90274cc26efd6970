package lottery

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/KirkDiggler/lottery/internal/common/clock"
	"github.com/KirkDiggler/lottery/internal/common/uuid"
	"github.com/KirkDiggler/lottery/internal/metrics"
	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/KirkDiggler/lottery/internal/repositories/ledger"
	"github.com/KirkDiggler/lottery/internal/repositories/round"
	"github.com/KirkDiggler/lottery/internal/services/events"
	"github.com/KirkDiggler/lottery/internal/vrf"
	"github.com/sirupsen/logrus"
)

// service implements the Service interface
type service struct {
	lotteryID            string
	entranceFee          *big.Int
	interval             time.Duration
	keyHash              string
	subscriptionID       uint64
	requestConfirmations uint16
	callbackGasLimit     uint32
	numWords             uint32
	consumerID           string

	coordinator vrf.Coordinator
	ledgerRepo  ledger.Repository
	roundRepo   round.Repository
	publisher   events.Publisher
	clock       clock.Clock
	uuid        uuid.UUID
	metrics     *metrics.Metrics
	logger      logrus.FieldLogger

	// mu guards round. Enter, PerformUpkeep and FulfillRandomWords hold the
	// write lock for their whole read-modify-write.
	mu    sync.RWMutex
	round *models.Round
}

// New creates a lottery service and restores its round from the round
// repository, or opens round 1 when nothing is stored.
func New(ctx context.Context, cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.LotteryID == "" {
		return nil, ErrMissingLotteryID
	}
	if cfg.EntranceFee == nil || cfg.EntranceFee.Sign() <= 0 {
		return nil, ErrInvalidEntranceFee
	}
	if cfg.Interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if cfg.Coordinator == nil {
		return nil, ErrNilCoordinator
	}
	if cfg.LedgerRepo == nil {
		return nil, ErrNilLedgerRepo
	}
	if cfg.RoundRepo == nil {
		return nil, ErrNilRoundRepo
	}
	if cfg.Publisher == nil {
		return nil, ErrNilPublisher
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUIDGenerator
	}

	numWords := cfg.NumWords
	if numWords == 0 {
		numWords = 1
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &service{
		lotteryID:            cfg.LotteryID,
		entranceFee:          new(big.Int).Set(cfg.EntranceFee),
		interval:             cfg.Interval,
		keyHash:              cfg.KeyHash,
		subscriptionID:       cfg.SubscriptionID,
		requestConfirmations: cfg.RequestConfirmations,
		callbackGasLimit:     cfg.CallbackGasLimit,
		numWords:             numWords,
		consumerID:           cfg.ConsumerID,
		coordinator:          cfg.Coordinator,
		ledgerRepo:           cfg.LedgerRepo,
		roundRepo:            cfg.RoundRepo,
		publisher:            cfg.Publisher,
		clock:                cfg.Clock,
		uuid:                 cfg.UUID,
		metrics:              cfg.Metrics,
		logger:               logger.WithField("lottery_id", cfg.LotteryID),
	}

	if err := s.restore(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *service) restore(ctx context.Context) error {
	stored, err := s.roundRepo.GetRound(ctx, &round.GetRoundInput{
		LotteryID: s.lotteryID,
	})
	if errors.Is(err, round.ErrRoundNotFound) {
		s.round = models.NewRound(s.lotteryID, 1, s.clock.Now())
		s.saveRound(ctx)
		s.metrics.ObserveRound(s.round)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore round: %w", err)
	}

	if stored.Pool == nil {
		stored.Pool = new(big.Int)
	}
	if stored.Entrants == nil {
		stored.Entrants = []string{}
	}

	calculating := stored.State.IsCalculating()
	switch {
	case !calculating && !stored.State.IsOpen():
		return fmt.Errorf("%w: unknown state %q", ErrCorruptSnapshot, stored.State)
	case calculating && stored.PendingRequest == nil:
		return fmt.Errorf("%w: calculating without a pending request", ErrCorruptSnapshot)
	case calculating && len(stored.Entrants) == 0:
		return fmt.Errorf("%w: calculating without entrants", ErrCorruptSnapshot)
	case !calculating && stored.PendingRequest != nil:
		return fmt.Errorf("%w: open with a pending request", ErrCorruptSnapshot)
	}

	s.round = stored
	s.metrics.ObserveRound(s.round)

	entry := s.logger.WithFields(logrus.Fields{
		"round":    stored.Number,
		"state":    stored.State,
		"entrants": len(stored.Entrants),
	})
	if calculating {
		entry = entry.WithField("request_id", stored.PendingRequest.RequestID)
	}
	entry.Info("restored round")

	return nil
}

// Enter adds a participant to the open round
func (s *service) Enter(ctx context.Context, input *EnterInput) (*EnterOutput, error) {
	if input == nil || input.Participant == "" {
		return nil, ErrInvalidParticipant
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.round.State.IsOpen() {
		return nil, ErrLotteryNotOpen
	}
	if input.Amount == nil || input.Amount.Cmp(s.entranceFee) < 0 {
		return nil, ErrInsufficientPayment
	}

	s.round.Entrants = append(s.round.Entrants, input.Participant)
	s.round.Pool.Add(s.round.Pool, input.Amount)

	s.commit(ctx)
	s.metrics.EntryAccepted()

	s.logger.WithFields(logrus.Fields{
		"participant": input.Participant,
		"amount":      input.Amount.String(),
		"entrants":    len(s.round.Entrants),
	}).Info("entered lottery")

	s.publish(ctx, &models.Event{
		Type:         models.EventTypeEntered,
		Participant:  input.Participant,
		EntrantCount: len(s.round.Entrants),
		Pool:         new(big.Int).Set(s.round.Pool),
	})

	return &EnterOutput{
		EntrantCount: len(s.round.Entrants),
		Pool:         new(big.Int).Set(s.round.Pool),
		Round:        s.round.Number,
	}, nil
}

// CheckUpkeep reports whether PerformUpkeep would succeed now
func (s *service) CheckUpkeep(ctx context.Context, input *CheckUpkeepInput) (*CheckUpkeepOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var performData []byte
	if input != nil {
		performData = input.CheckData
	}

	return &CheckUpkeepOutput{
		UpkeepNeeded: s.upkeepNeeded(s.clock.Now()),
		PerformData:  performData,
	}, nil
}

// upkeepNeeded must be called with mu held
func (s *service) upkeepNeeded(now time.Time) bool {
	return s.round.State.IsOpen() &&
		now.Sub(s.round.LastTimestamp) >= s.interval &&
		len(s.round.Entrants) > 0 &&
		s.round.Pool.Sign() > 0
}

// PerformUpkeep closes the round and requests randomness
func (s *service) PerformUpkeep(ctx context.Context, input *PerformUpkeepInput) (*PerformUpkeepOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if !s.upkeepNeeded(now) {
		s.metrics.Upkeep(metrics.UpkeepNotNeeded)
		return nil, &UpkeepNotNeededError{
			Pool:         new(big.Int).Set(s.round.Pool),
			EntrantCount: len(s.round.Entrants),
			State:        s.round.State,
		}
	}

	s.round.State = models.LotteryStateCalculating

	output, err := s.coordinator.RequestRandomWords(ctx, &vrf.RequestRandomWordsInput{
		KeyHash:                     s.keyHash,
		SubscriptionID:              s.subscriptionID,
		MinimumRequestConfirmations: s.requestConfirmations,
		CallbackGasLimit:            s.callbackGasLimit,
		NumWords:                    s.numWords,
		ConsumerID:                  s.consumerID,
	})
	if err == nil && (output == nil || output.RequestID == "") {
		err = ErrEmptyRequestID
	}
	if err != nil {
		// nothing was committed, the round stays open
		s.round.State = models.LotteryStateOpen
		s.metrics.Upkeep(metrics.UpkeepFailed)
		s.logger.WithError(err).Error("randomness request failed")
		return nil, fmt.Errorf("failed to request random words: %w", err)
	}

	s.round.PendingRequest = &models.PendingRequest{
		RequestID:   output.RequestID,
		RequestedAt: now,
	}

	s.commit(ctx)
	s.metrics.Upkeep(metrics.UpkeepPerformed)

	s.logger.WithFields(logrus.Fields{
		"request_id": output.RequestID,
		"entrants":   len(s.round.Entrants),
		"pool":       s.round.Pool.String(),
	}).Info("requested winner")

	s.publish(ctx, &models.Event{
		Type:         models.EventTypeWinnerRequested,
		RequestID:    output.RequestID,
		EntrantCount: len(s.round.Entrants),
		Pool:         new(big.Int).Set(s.round.Pool),
	})

	return &PerformUpkeepOutput{
		RequestID: output.RequestID,
	}, nil
}

// GetStatus returns a snapshot of the round and configuration
func (s *service) GetStatus(ctx context.Context, input *GetStatusInput) (*GetStatusOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.round.Clone()

	var pendingRequestID string
	if snapshot.PendingRequest != nil {
		pendingRequestID = snapshot.PendingRequest.RequestID
	}

	return &GetStatusOutput{
		LotteryID:        s.lotteryID,
		State:            snapshot.State,
		EntranceFee:      new(big.Int).Set(s.entranceFee),
		Interval:         s.interval,
		EntrantCount:     len(snapshot.Entrants),
		Entrants:         snapshot.Entrants,
		Pool:             snapshot.Pool,
		LastTimestamp:    snapshot.LastTimestamp,
		RecentWinner:     snapshot.RecentWinner,
		PendingRequestID: pendingRequestID,
		Round:            snapshot.Number,
	}, nil
}

// GetEntrant returns the entrant at an index
func (s *service) GetEntrant(ctx context.Context, input *GetEntrantInput) (*GetEntrantOutput, error) {
	if input == nil {
		return nil, ErrEntrantIndexOutOfRange
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if input.Index < 0 || input.Index >= len(s.round.Entrants) {
		return nil, ErrEntrantIndexOutOfRange
	}

	return &GetEntrantOutput{
		Participant: s.round.Entrants[input.Index],
	}, nil
}

// ListResults returns completed rounds, newest first
func (s *service) ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error) {
	limit := 0
	if input != nil {
		limit = input.Limit
	}

	output, err := s.roundRepo.ListResults(ctx, &round.ListResultsInput{
		LotteryID: s.lotteryID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return &ListResultsOutput{
		Results: output.Results,
	}, nil
}

// commit records a transition that has already happened in memory.
// Must be called with mu held.
func (s *service) commit(ctx context.Context) {
	s.saveRound(ctx)
	s.metrics.ObserveRound(s.round)
}

func (s *service) saveRound(ctx context.Context) {
	err := s.roundRepo.SaveRound(ctx, &round.SaveRoundInput{
		Round: s.round.Clone(),
	})
	if err != nil {
		s.metrics.SnapshotFailed()
		s.logger.WithError(err).WithField("round", s.round.Number).Warn("failed to persist round")
	}
}

// publish must be called with mu held so events leave in transition order
func (s *service) publish(ctx context.Context, event *models.Event) {
	event.LotteryID = s.lotteryID
	if event.Round == 0 {
		event.Round = s.round.Number
	}
	event.Timestamp = s.clock.Now()

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).Warn("failed to publish event")
	}
}
