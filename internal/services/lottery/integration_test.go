package lottery

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/lottery/internal/common/logging"
	"github.com/KirkDiggler/lottery/internal/common/uuid"
	"github.com/KirkDiggler/lottery/internal/metrics"
	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/KirkDiggler/lottery/internal/repositories/ledger"
	"github.com/KirkDiggler/lottery/internal/repositories/round"
	"github.com/KirkDiggler/lottery/internal/services/events"
	"github.com/KirkDiggler/lottery/internal/vrf"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

// fakeClock is a settable clock shared by the service and the coordinator
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type LotteryIntegrationTestSuite struct {
	suite.Suite
	mr          *miniredis.Miniredis
	client      *redis.Client
	clock       *fakeClock
	coordinator *vrf.LocalCoordinator
	ledgerRepo  ledger.Repository
	roundRepo   round.Repository
	bus         *events.Bus
	lottery     *service
	ctx         context.Context

	subscriptionID uint64
	fee            *big.Int

	mu     sync.Mutex
	events []*models.Event
}

func (s *LotteryIntegrationTestSuite) SetupTest() {
	s.ctx = context.Background()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	s.clock = &fakeClock{now: time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)}
	s.fee = big.NewInt(1_000_000_000_000_000_000)
	s.events = nil

	s.ledgerRepo, err = ledger.NewRedis(&ledger.Config{
		RedisClient: s.client,
		Clock:       s.clock,
	})
	s.Require().NoError(err)

	s.roundRepo, err = round.NewRedis(&round.Config{RedisClient: s.client})
	s.Require().NoError(err)

	s.coordinator, err = vrf.NewLocal(&vrf.LocalConfig{
		BaseFee:      big.NewInt(250_000_000_000_000_000),
		GasPriceLink: big.NewInt(1_000_000_000),
		PollInterval: 5 * time.Millisecond,
		Clock:        s.clock,
		Logger:       logging.Discard(),
	})
	s.Require().NoError(err)

	sub, err := s.coordinator.CreateSubscription(s.ctx)
	s.Require().NoError(err)
	s.subscriptionID = sub.SubscriptionID
	s.Require().NoError(s.coordinator.FundSubscription(s.ctx, &vrf.FundSubscriptionInput{
		SubscriptionID: s.subscriptionID,
		Amount:         big.NewInt(2_000_000_000_000_000_000),
	}))

	s.bus = events.New(&events.Config{Logger: logging.Discard()})
	for _, eventType := range []models.EventType{
		models.EventTypeEntered,
		models.EventTypeWinnerRequested,
		models.EventTypeWinnerPicked,
	} {
		s.Require().NoError(s.bus.Subscribe(eventType, s.record))
	}

	s.lottery = s.start()
}

func (s *LotteryIntegrationTestSuite) TearDownTest() {
	s.bus.Close()
	s.client.Close()
	s.mr.Close()
}

func TestLotteryIntegrationSuite(t *testing.T) {
	suite.Run(t, new(LotteryIntegrationTestSuite))
}

// start builds a service over the shared store and registers it as the
// subscription consumer, the way the process does on boot
func (s *LotteryIntegrationTestSuite) start() *service {
	svc, err := New(s.ctx, &Config{
		LotteryID:            "raffle",
		EntranceFee:          s.fee,
		Interval:             30 * time.Second,
		KeyHash:              "0xd89b2bf150e3b9e13446986e571fb9cab24b13cea0a43ea20a6049a85cc807cc",
		SubscriptionID:       s.subscriptionID,
		RequestConfirmations: 3,
		CallbackGasLimit:     500_000,
		NumWords:             1,
		ConsumerID:           "raffle",
		Coordinator:          s.coordinator,
		LedgerRepo:           s.ledgerRepo,
		RoundRepo:            s.roundRepo,
		Publisher:            s.bus,
		Clock:                s.clock,
		UUID:                 uuid.New(),
		Metrics:              metrics.New(),
		Logger:               logging.Discard(),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.coordinator.AddConsumer(s.ctx, &vrf.AddConsumerInput{
		SubscriptionID: s.subscriptionID,
		ConsumerID:     "raffle",
		Consumer:       svc,
	}))

	return svc
}

func (s *LotteryIntegrationTestSuite) record(event *models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *LotteryIntegrationTestSuite) recorded() []models.EventType {
	s.bus.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	types := make([]models.EventType, len(s.events))
	for i, event := range s.events {
		types[i] = event.Type
	}
	return types
}

func (s *LotteryIntegrationTestSuite) enter(participant string) {
	_, err := s.lottery.Enter(s.ctx, &EnterInput{
		Participant: participant,
		Amount:      new(big.Int).Set(s.fee),
	})
	s.Require().NoError(err)
}

func (s *LotteryIntegrationTestSuite) balance(account string) string {
	balance, err := s.ledgerRepo.GetBalance(s.ctx, &ledger.GetBalanceInput{AccountID: account})
	s.Require().NoError(err)
	return balance.String()
}

func (s *LotteryIntegrationTestSuite) TestFullRound() {
	s.enter("alice")
	s.enter("bob")

	s.clock.Advance(31 * time.Second)

	check, err := s.lottery.CheckUpkeep(s.ctx, &CheckUpkeepInput{})
	s.Require().NoError(err)
	s.Require().True(check.UpkeepNeeded)

	perform, err := s.lottery.PerformUpkeep(s.ctx, &PerformUpkeepInput{})
	s.Require().NoError(err)
	s.Equal("1", perform.RequestID)
	s.Equal([]string{"1"}, s.coordinator.PendingRequestIDs())

	fulfilled, err := s.coordinator.FulfillRandomWordsWithOverride(s.ctx, &vrf.FulfillRandomWordsWithOverrideInput{
		RequestID:   perform.RequestID,
		RandomWords: []*big.Int{big.NewInt(7)},
	})
	s.Require().NoError(err)
	s.Equal("250500000000000000", fulfilled.Payment.String())

	s.Equal("2000000000000000000", s.balance("bob"))
	s.Equal("0", s.balance("alice"))

	status, err := s.lottery.GetStatus(s.ctx, &GetStatusInput{})
	s.Require().NoError(err)
	s.Equal(models.LotteryStateOpen, status.State)
	s.Equal("bob", status.RecentWinner)
	s.Zero(status.EntrantCount)
	s.Equal(int64(2), status.Round)

	sub, err := s.coordinator.GetSubscription(s.ctx, &vrf.GetSubscriptionInput{SubscriptionID: s.subscriptionID})
	s.Require().NoError(err)
	s.Equal("1749500000000000000", sub.Balance.String())
	s.Empty(s.coordinator.PendingRequestIDs())

	results, err := s.lottery.ListResults(s.ctx, &ListResultsInput{})
	s.Require().NoError(err)
	s.Require().Len(results.Results, 1)
	s.Equal("bob", results.Results[0].Winner)
	s.Equal(1, results.Results[0].WinnerIndex)

	s.Equal([]models.EventType{
		models.EventTypeEntered,
		models.EventTypeEntered,
		models.EventTypeWinnerRequested,
		models.EventTypeWinnerPicked,
	}, s.recorded())

	// a late duplicate delivery is unknown to both sides
	_, err = s.coordinator.FulfillRandomWords(s.ctx, &vrf.FulfillRandomWordsInput{RequestID: perform.RequestID})
	s.ErrorIs(err, vrf.ErrNonexistentRequest)
}

func (s *LotteryIntegrationTestSuite) TestProvenWordsPickAnEntrant() {
	s.enter("alice")
	s.enter("bob")
	s.enter("carol")
	s.clock.Advance(30 * time.Second)

	perform, err := s.lottery.PerformUpkeep(s.ctx, &PerformUpkeepInput{})
	s.Require().NoError(err)

	fulfilled, err := s.coordinator.FulfillRandomWords(s.ctx, &vrf.FulfillRandomWordsInput{RequestID: perform.RequestID})
	s.Require().NoError(err)
	s.True(vrf.Verify(s.coordinator.PublicKey(), fulfilled.Proof))

	results, err := s.lottery.ListResults(s.ctx, &ListResultsInput{Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(results.Results, 1)

	result := results.Results[0]
	expected := new(big.Int).Mod(fulfilled.RandomWords[0], big.NewInt(3)).Int64()
	s.Equal(int(expected), result.WinnerIndex)
	s.Equal("3000000000000000000", s.balance(result.Winner))
}

func (s *LotteryIntegrationTestSuite) TestPayoutFailureIsRedelivered() {
	s.enter("alice")
	s.enter("bob")
	s.clock.Advance(31 * time.Second)

	perform, err := s.lottery.PerformUpkeep(s.ctx, &PerformUpkeepInput{})
	s.Require().NoError(err)

	s.Require().NoError(s.ledgerRepo.FreezeAccount(s.ctx, &ledger.FreezeAccountInput{AccountID: "bob"}))

	words := []*big.Int{big.NewInt(7)}
	_, err = s.coordinator.FulfillRandomWordsWithOverride(s.ctx, &vrf.FulfillRandomWordsWithOverrideInput{
		RequestID:   perform.RequestID,
		RandomWords: words,
	})
	s.ErrorIs(err, vrf.ErrCallbackFailed)
	s.ErrorIs(err, ErrPayoutFailed)

	status, err := s.lottery.GetStatus(s.ctx, &GetStatusInput{})
	s.Require().NoError(err)
	s.Equal(models.LotteryStateCalculating, status.State)
	s.Equal(perform.RequestID, status.PendingRequestID)
	s.Equal([]string{perform.RequestID}, s.coordinator.PendingRequestIDs())

	// the subscription is only charged for the delivery that lands
	sub, err := s.coordinator.GetSubscription(s.ctx, &vrf.GetSubscriptionInput{SubscriptionID: s.subscriptionID})
	s.Require().NoError(err)
	s.Equal("2000000000000000000", sub.Balance.String())

	s.Require().NoError(s.ledgerRepo.UnfreezeAccount(s.ctx, &ledger.UnfreezeAccountInput{AccountID: "bob"}))

	_, err = s.coordinator.FulfillRandomWords(s.ctx, &vrf.FulfillRandomWordsInput{RequestID: perform.RequestID})
	s.Require().NoError(err)
	s.Equal("2000000000000000000", s.balance("bob"))

	status, err = s.lottery.GetStatus(s.ctx, &GetStatusInput{})
	s.Require().NoError(err)
	s.Equal(models.LotteryStateOpen, status.State)
}

func (s *LotteryIntegrationTestSuite) TestUnknownRequestIsDropped() {
	s.enter("alice")
	s.clock.Advance(31 * time.Second)

	perform, err := s.lottery.PerformUpkeep(s.ctx, &PerformUpkeepInput{})
	s.Require().NoError(err)

	_, err = s.lottery.FulfillRandomWords(s.ctx, &FulfillRandomWordsInput{
		RequestID:   "99",
		RandomWords: []*big.Int{big.NewInt(1)},
	})
	s.ErrorIs(err, ErrUnknownRequest)

	_, err = s.coordinator.FulfillRandomWordsWithOverride(s.ctx, &vrf.FulfillRandomWordsWithOverrideInput{
		RequestID:   "99",
		RandomWords: []*big.Int{big.NewInt(1)},
	})
	s.ErrorIs(err, vrf.ErrNonexistentRequest)

	status, err := s.lottery.GetStatus(s.ctx, &GetStatusInput{})
	s.Require().NoError(err)
	s.Equal(perform.RequestID, status.PendingRequestID)
}

func (s *LotteryIntegrationTestSuite) TestRestartResumesCalculatingRound() {
	s.enter("alice")
	s.enter("bob")
	s.clock.Advance(31 * time.Second)

	perform, err := s.lottery.PerformUpkeep(s.ctx, &PerformUpkeepInput{})
	s.Require().NoError(err)

	// a new process over the same store picks the round back up
	s.lottery = s.start()

	status, err := s.lottery.GetStatus(s.ctx, &GetStatusInput{})
	s.Require().NoError(err)
	s.Equal(models.LotteryStateCalculating, status.State)
	s.Equal(perform.RequestID, status.PendingRequestID)
	s.Equal([]string{"alice", "bob"}, status.Entrants)
	s.Equal("2000000000000000000", status.Pool.String())

	_, err = s.coordinator.FulfillRandomWordsWithOverride(s.ctx, &vrf.FulfillRandomWordsWithOverrideInput{
		RequestID:   perform.RequestID,
		RandomWords: []*big.Int{big.NewInt(2)},
	})
	s.Require().NoError(err)
	s.Equal("2000000000000000000", s.balance("alice"))
}

func (s *LotteryIntegrationTestSuite) TestRunFulfillsScheduledRequests() {
	s.enter("alice")
	s.clock.Advance(31 * time.Second)

	_, err := s.lottery.PerformUpkeep(s.ctx, &PerformUpkeepInput{})
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	go func() {
		_ = s.coordinator.Run(ctx)
	}()

	s.Eventually(func() bool {
		status, err := s.lottery.GetStatus(s.ctx, &GetStatusInput{})
		return err == nil && status.State.IsOpen()
	}, 2*time.Second, 5*time.Millisecond)

	s.Equal("1000000000000000000", s.balance("alice"))
}
