package messaging

import (
	"math/big"
	"time"

	"github.com/KirkDiggler/lottery/internal/models"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"

	// ToneCelebration is a celebratory tone
	ToneCelebration MessageTone = "celebration"
)

// EntryErrorType classifies rejected entries for messaging
type EntryErrorType string

const (
	EntryErrorInsufficientFunds   EntryErrorType = "insufficient_funds"
	EntryErrorInsufficientPayment EntryErrorType = "insufficient_payment"
	EntryErrorNotOpen             EntryErrorType = "not_open"
	EntryErrorAccountFrozen       EntryErrorType = "account_frozen"
	EntryErrorUnknown             EntryErrorType = "unknown"
)

// GetEnteredMessageInput contains parameters for an entry message
type GetEnteredMessageInput struct {
	PlayerName string

	// EntrantCount and Pool describe the round after the entry
	EntrantCount int
	Pool         *big.Int

	// Tone is optional
	Tone MessageTone
}

type GetEnteredMessageOutput struct {
	Title   string
	Message string
	Tone    MessageTone
}

// GetEntryErrorMessageInput is the input for GetEntryErrorMessage
type GetEntryErrorMessageInput struct {
	PlayerName  string
	ErrorType   EntryErrorType
	EntranceFee *big.Int
}

type GetEntryErrorMessageOutput struct {
	Title   string
	Message string
}

// GetWinnerRequestedMessageInput is the input for GetWinnerRequestedMessage
type GetWinnerRequestedMessageInput struct {
	Round        int64
	EntrantCount int
	Pool         *big.Int
}

type GetWinnerRequestedMessageOutput struct {
	Message string
}

// GetWinnerPickedMessageInput is the input for GetWinnerPickedMessage
type GetWinnerPickedMessageInput struct {
	WinnerName string
	Prize      *big.Int
	Round      int64
}

type GetWinnerPickedMessageOutput struct {
	Title   string
	Message string
}

// GetStatusMessageInput is the input for GetStatusMessage
type GetStatusMessageInput struct {
	State        models.LotteryState
	Round        int64
	EntrantCount int
	Pool         *big.Int
	EntranceFee  *big.Int
	RecentWinner string

	// TimeUntilDraw is how long until the round may be drawn. Zero or less
	// means it is due.
	TimeUntilDraw time.Duration
}

type GetStatusMessageOutput struct {
	Message string
}

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Seed fixes message selection. Zero seeds from the clock.
	Seed int64
}
