package lottery

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/KirkDiggler/lottery/internal/metrics"
	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/KirkDiggler/lottery/internal/repositories/ledger"
	"github.com/KirkDiggler/lottery/internal/repositories/round"
	"github.com/KirkDiggler/lottery/internal/vrf"
	"github.com/sirupsen/logrus"
)

// FulfillRandomWords picks and pays the winner for the pending request.
//
// Deliveries for any other request are rejected with ErrUnknownRequest and
// change nothing. If the payout fails the round stays calculating with the
// same entrants, pool and pending request.
func (s *service) FulfillRandomWords(ctx context.Context, input *FulfillRandomWordsInput) (*FulfillRandomWordsOutput, error) {
	if input == nil {
		return nil, ErrUnknownRequest
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.WithField("request_id", input.RequestID)

	pending := s.round.PendingRequest
	if !s.round.State.IsCalculating() || pending == nil || pending.RequestID != input.RequestID {
		s.metrics.Fulfillment(metrics.FulfillmentUnknownRequest)
		log.Warn("dropping fulfillment for unknown request")
		return nil, ErrUnknownRequest
	}

	if len(input.RandomWords) == 0 || input.RandomWords[0] == nil {
		s.metrics.Fulfillment(metrics.FulfillmentNoWords)
		log.Error("fulfillment carried no random words")
		return nil, ErrNoRandomWords
	}

	word := new(big.Int).Set(input.RandomWords[0])
	index := selectWinner(word, len(s.round.Entrants))
	winner := s.round.Entrants[index]
	prize := new(big.Int).Set(s.round.Pool)

	log = log.WithFields(logrus.Fields{
		"winner": winner,
		"prize":  prize.String(),
		"round":  s.round.Number,
	})

	_, err := s.ledgerRepo.Credit(ctx, &ledger.CreditInput{
		AccountID: winner,
		Amount:    prize,
		Reference: fmt.Sprintf("%s:round:%d:request:%s", s.lotteryID, s.round.Number, pending.RequestID),
	})
	if err != nil {
		s.metrics.Fulfillment(metrics.FulfillmentPayoutFailed)
		log.WithError(err).Error("payout failed, round stays calculating")
		return nil, &PayoutFailedError{
			Winner:    winner,
			Amount:    prize,
			RequestID: pending.RequestID,
			Err:       err,
		}
	}

	now := s.clock.Now()
	result := &models.RoundResult{
		ID:           s.uuid.NewUUID(),
		LotteryID:    s.lotteryID,
		Number:       s.round.Number,
		Winner:       winner,
		WinnerIndex:  index,
		Prize:        prize,
		RequestID:    pending.RequestID,
		RandomWord:   word,
		EntrantCount: len(s.round.Entrants),
		StartedAt:    s.round.LastTimestamp,
		CompletedAt:  now,
	}

	next := models.NewRound(s.lotteryID, s.round.Number+1, now)
	next.RecentWinner = winner
	s.round = next

	s.commit(ctx)
	if err := s.roundRepo.AddResult(ctx, &round.AddResultInput{Result: result}); err != nil {
		log.WithError(err).Warn("failed to record round result")
	}

	s.metrics.Fulfillment(metrics.FulfillmentPaid)
	s.metrics.PayoutLatency(now.Sub(pending.RequestedAt))
	log.WithField("winner_index", index).Info("winner picked")

	// the event belongs to the round that was drawn, not the one just opened
	s.publish(ctx, &models.Event{
		Type:      models.EventTypeWinnerPicked,
		RequestID: pending.RequestID,
		Winner:    winner,
		Prize:     new(big.Int).Set(prize),
		Round:     result.Number,
	})

	return &FulfillRandomWordsOutput{
		Winner:      winner,
		WinnerIndex: index,
		Prize:       prize,
		Result:      result,
	}, nil
}

// RawFulfillRandomWords is the coordinator callback. Unknown requests are
// reported as vrf.ErrUnknownToConsumer so the coordinator drops them.
func (s *service) RawFulfillRandomWords(ctx context.Context, requestID string, randomWords []*big.Int) error {
	_, err := s.FulfillRandomWords(ctx, &FulfillRandomWordsInput{
		RequestID:   requestID,
		RandomWords: randomWords,
	})
	if errors.Is(err, ErrUnknownRequest) {
		return fmt.Errorf("%w: %w", vrf.ErrUnknownToConsumer, err)
	}
	return err
}

// selectWinner maps a random word onto an entrant index. Reducing a 256-bit
// word modulo n favours low indexes by at most n/2^256.
func selectWinner(word *big.Int, n int) int {
	index := new(big.Int).Mod(word, big.NewInt(int64(n)))
	return int(index.Int64())
}
