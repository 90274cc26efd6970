package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/KirkDiggler/lottery/internal/common/ether"
)

// service implements the Service interface
type service struct {
	// rand is not safe for concurrent use
	mu   sync.Mutex
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	seed := time.Now().UnixNano()
	if config != nil && config.Seed != 0 {
		seed = config.Seed
	}

	return &service{
		rand: rand.New(rand.NewSource(seed)),
	}, nil
}

func (s *service) pick(messages []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return messages[s.rand.Intn(len(messages))]
}

// GetEnteredMessage returns a message for an accepted entry
func (s *service) GetEnteredMessage(ctx context.Context, input *GetEnteredMessageInput) (*GetEnteredMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	tone := input.Tone
	if tone == "" {
		tone = ToneFunny
	}

	pool := ether.Format(input.Pool)

	var messages []string
	switch {
	case input.EntrantCount <= 1:
		messages = []string{
			fmt.Sprintf("%s opened the bidding! The pot sits at %s ETH with one brave soul in it.", input.PlayerName, pool),
			fmt.Sprintf("First in! %s is the only ticket in a %s ETH pot. Great odds, for now.", input.PlayerName, pool),
		}
	case tone == ToneNeutral:
		messages = []string{
			fmt.Sprintf("%s entered. %d entries, pot %s ETH.", input.PlayerName, input.EntrantCount, pool),
		}
	default:
		messages = []string{
			fmt.Sprintf("%s bought a ticket! %d entries now chasing %s ETH.", input.PlayerName, input.EntrantCount, pool),
			fmt.Sprintf("Another one! %s joins %d entries in a %s ETH pot.", input.PlayerName, input.EntrantCount-1, pool),
			fmt.Sprintf("%s is feeling lucky. The pot grows to %s ETH across %d entries.", input.PlayerName, pool, input.EntrantCount),
			fmt.Sprintf("Ticket stamped for %s. %s ETH, %d entries, one winner.", input.PlayerName, pool, input.EntrantCount),
		}
	}

	return &GetEnteredMessageOutput{
		Title:   "Ticket Purchased",
		Message: s.pick(messages),
		Tone:    tone,
	}, nil
}

// GetEntryErrorMessage returns a user-friendly message for a rejected entry
func (s *service) GetEntryErrorMessage(ctx context.Context, input *GetEntryErrorMessageInput) (*GetEntryErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var messages []string
	switch input.ErrorType {
	case EntryErrorInsufficientFunds:
		fee := ether.Format(input.EntranceFee)
		messages = []string{
			fmt.Sprintf("Sorry %s, a ticket costs %s ETH and your wallet says no.", input.PlayerName, fee),
			fmt.Sprintf("%s, you need %s ETH to play. Win a round first, then come back.", input.PlayerName, fee),
		}
	case EntryErrorInsufficientPayment:
		messages = []string{
			fmt.Sprintf("%s, that isn't enough for a ticket. The entrance fee is %s ETH.", input.PlayerName, ether.Format(input.EntranceFee)),
		}
	case EntryErrorNotOpen:
		messages = []string{
			fmt.Sprintf("Hold on %s, the winner is being drawn. Entries reopen in a moment.", input.PlayerName),
			fmt.Sprintf("Too late for this one, %s! The draw is underway. Catch the next round.", input.PlayerName),
		}
	case EntryErrorAccountFrozen:
		messages = []string{
			fmt.Sprintf("%s, your account is frozen. Ask an admin to sort it out.", input.PlayerName),
		}
	default:
		messages = []string{
			fmt.Sprintf("Something went wrong entering the lottery, %s. Try again in a bit.", input.PlayerName),
		}
	}

	return &GetEntryErrorMessageOutput{
		Title:   "Entry Rejected",
		Message: s.pick(messages),
	}, nil
}

// GetWinnerRequestedMessage announces that a draw has started
func (s *service) GetWinnerRequestedMessage(ctx context.Context, input *GetWinnerRequestedMessageInput) (*GetWinnerRequestedMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	pool := ether.Format(input.Pool)
	messages := []string{
		fmt.Sprintf("Round %d is closed! Drawing one winner from %d entries for %s ETH.", input.Round, input.EntrantCount, pool),
		fmt.Sprintf("No more tickets for round %d. %d entries, %s ETH, and the randomness is on its way.", input.Round, input.EntrantCount, pool),
		fmt.Sprintf("Drum roll... round %d is being drawn. %s ETH goes to one of %d entries.", input.Round, pool, input.EntrantCount),
	}

	return &GetWinnerRequestedMessageOutput{
		Message: s.pick(messages),
	}, nil
}

// GetWinnerPickedMessage announces the winner of a round
func (s *service) GetWinnerPickedMessage(ctx context.Context, input *GetWinnerPickedMessageInput) (*GetWinnerPickedMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	prize := ether.Format(input.Prize)
	titles := []string{
		"We Have a Winner!",
		"Jackpot!",
		"Winner Winner!",
	}
	messages := []string{
		fmt.Sprintf("%s takes round %d and walks away with %s ETH!", input.WinnerName, input.Round, prize),
		fmt.Sprintf("The numbers have spoken: %s wins %s ETH in round %d.", input.WinnerName, prize, input.Round),
		fmt.Sprintf("Round %d goes to %s! %s ETH has been paid out. A new round is open.", input.Round, input.WinnerName, prize),
	}

	return &GetWinnerPickedMessageOutput{
		Title:   s.pick(titles),
		Message: s.pick(messages),
	}, nil
}

// GetStatusMessage describes the current round
func (s *service) GetStatusMessage(ctx context.Context, input *GetStatusMessageInput) (*GetStatusMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	pool := ether.Format(input.Pool)

	var message string
	switch {
	case input.State.IsCalculating():
		message = fmt.Sprintf("Round %d is being drawn: %d entries, %s ETH in the pot.", input.Round, input.EntrantCount, pool)
	case input.EntrantCount == 0:
		message = fmt.Sprintf("Round %d is open and empty. Tickets cost %s ETH.", input.Round, ether.Format(input.EntranceFee))
	case input.TimeUntilDraw > 0:
		message = fmt.Sprintf("Round %d is open: %d entries, %s ETH in the pot. Draw in %s.",
			input.Round, input.EntrantCount, pool, input.TimeUntilDraw.Round(time.Second))
	default:
		message = fmt.Sprintf("Round %d is open: %d entries, %s ETH in the pot. The draw is due.", input.Round, input.EntrantCount, pool)
	}

	if input.RecentWinner != "" {
		message += fmt.Sprintf(" Last winner: %s.", input.RecentWinner)
	}

	return &GetStatusMessageOutput{
		Message: message,
	}, nil
}
