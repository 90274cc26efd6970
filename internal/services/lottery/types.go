package lottery

import (
	"math/big"
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

// Config holds configuration for the lottery service
type Config struct {
	// LotteryID names the lottery; it keys persisted state
	LotteryID string

	// EntranceFee is the minimum entry payment, in wei
	EntranceFee *big.Int

	// Interval is the minimum time between a round opening and its draw
	Interval time.Duration

	// Randomness request parameters
	KeyHash              string
	SubscriptionID       uint64
	RequestConfirmations uint16
	CallbackGasLimit     uint32
	NumWords             uint32

	// ConsumerID is how the coordinator knows this service
	ConsumerID string

	// Dependencies
	Coordinator vrf.Coordinator
	LedgerRepo  ledger.Repository
	RoundRepo   round.Repository
	Publisher   events.Publisher
	Clock       clock.Clock
	UUID        uuid.UUID

	// Optional
	Metrics *metrics.Metrics
	Logger  logrus.FieldLogger
}

// EnterInput contains parameters for entering the lottery
type EnterInput struct {
	// Participant is the entrant identity, also the payout account
	Participant string

	// Amount paid, in wei. Anything above the fee stays in the pool.
	Amount *big.Int
}

// EnterOutput contains the round after the entry
type EnterOutput struct {
	EntrantCount int
	Pool         *big.Int
	Round        int64
}

// CheckUpkeepInput is accepted for interface parity with keepers; CheckData
// is echoed back as PerformData.
type CheckUpkeepInput struct {
	CheckData []byte
}

type CheckUpkeepOutput struct {
	UpkeepNeeded bool
	PerformData  []byte
}

// PerformUpkeepInput carries the keeper payload. It is not trusted; the
// upkeep condition is always evaluated again.
type PerformUpkeepInput struct {
	PerformData []byte
}

type PerformUpkeepOutput struct {
	RequestID string
}

// FulfillRandomWordsInput contains a coordinator delivery
type FulfillRandomWordsInput struct {
	RequestID   string
	RandomWords []*big.Int
}

// FulfillRandomWordsOutput describes the completed round
type FulfillRandomWordsOutput struct {
	Winner      string
	WinnerIndex int
	Prize       *big.Int
	Result      *models.RoundResult
}

type GetStatusInput struct{}

// GetStatusOutput is a read-only snapshot
type GetStatusOutput struct {
	LotteryID        string
	State            models.LotteryState
	EntranceFee      *big.Int
	Interval         time.Duration
	EntrantCount     int
	Entrants         []string
	Pool             *big.Int
	LastTimestamp    time.Time
	RecentWinner     string
	PendingRequestID string
	Round            int64
}

type GetEntrantInput struct {
	Index int
}

type GetEntrantOutput struct {
	Participant string
}

type ListResultsInput struct {
	// Limit caps the number of results. Zero means all.
	Limit int
}

type ListResultsOutput struct {
	Results []*models.RoundResult
}
