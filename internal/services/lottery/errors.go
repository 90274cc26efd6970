package lottery

import (
	"fmt"
	"math/big"

	"github.com/KirkDiggler/lottery/internal/models"
)

// LotteryError is a custom error type for lottery errors
type LotteryError string

// Error implements the error interface
func (e LotteryError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrInsufficientPayment    LotteryError = "payment below entrance fee"
	ErrLotteryNotOpen         LotteryError = "lottery not open"
	ErrUpkeepNotNeeded        LotteryError = "upkeep not needed"
	ErrUnknownRequest         LotteryError = "unknown randomness request"
	ErrNoRandomWords          LotteryError = "no random words delivered"
	ErrPayoutFailed           LotteryError = "payout failed"
	ErrInvalidParticipant     LotteryError = "participant cannot be empty"
	ErrEntrantIndexOutOfRange LotteryError = "entrant index out of range"
	ErrEmptyRequestID         LotteryError = "coordinator returned an empty request id"
	ErrCorruptSnapshot        LotteryError = "stored round is inconsistent"
	ErrNilConfig              LotteryError = "config cannot be nil"
	ErrNilCoordinator         LotteryError = "coordinator cannot be nil"
	ErrNilLedgerRepo          LotteryError = "ledger repository cannot be nil"
	ErrNilRoundRepo           LotteryError = "round repository cannot be nil"
	ErrNilPublisher           LotteryError = "event publisher cannot be nil"
	ErrNilClock               LotteryError = "clock cannot be nil"
	ErrNilUUIDGenerator       LotteryError = "UUID generator cannot be nil"
	ErrInvalidEntranceFee     LotteryError = "entrance fee must be positive"
	ErrInvalidInterval        LotteryError = "interval must be positive"
	ErrMissingLotteryID       LotteryError = "lottery ID cannot be empty"
)

// UpkeepNotNeededError carries the round snapshot that failed the upkeep check
type UpkeepNotNeededError struct {
	Pool         *big.Int
	EntrantCount int
	State        models.LotteryState
}

func (e *UpkeepNotNeededError) Error() string {
	return fmt.Sprintf("%s: pool=%s entrants=%d state=%s", ErrUpkeepNotNeeded, e.Pool, e.EntrantCount, e.State)
}

// Is matches ErrUpkeepNotNeeded
func (e *UpkeepNotNeededError) Is(target error) bool {
	return target == ErrUpkeepNotNeeded
}

// PayoutFailedError reports a prize that could not be transferred. The round
// stays calculating until the same request is delivered again.
type PayoutFailedError struct {
	Winner    string
	Amount    *big.Int
	RequestID string
	Err       error
}

func (e *PayoutFailedError) Error() string {
	return fmt.Sprintf("%s: %s to %s for request %s: %v", ErrPayoutFailed, e.Amount, e.Winner, e.RequestID, e.Err)
}

// Is matches ErrPayoutFailed
func (e *PayoutFailedError) Is(target error) bool {
	return target == ErrPayoutFailed
}

func (e *PayoutFailedError) Unwrap() error {
	return e.Err
}
