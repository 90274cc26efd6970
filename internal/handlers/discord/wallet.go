package discord

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/KirkDiggler/lottery/internal/common/clock"
	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/KirkDiggler/lottery/internal/repositories/ledger"
	"github.com/KirkDiggler/lottery/internal/repositories/player"
	"github.com/KirkDiggler/lottery/internal/services/lottery"
	"github.com/sirupsen/logrus"
)

// WalletConfig holds configuration for the wallet
type WalletConfig struct {
	Lottery    lottery.Service
	LedgerRepo ledger.Repository
	PlayerRepo player.Repository
	Clock      clock.Clock

	// EntranceFee is debited for every entry
	EntranceFee *big.Int

	// StartingBalance is credited once to new players. Nil or zero skips it.
	StartingBalance *big.Int

	Logger logrus.FieldLogger
}

// Wallet pays for entries out of a player's ledger balance
type Wallet struct {
	lottery         lottery.Service
	ledgerRepo      ledger.Repository
	playerRepo      player.Repository
	clock           clock.Clock
	entranceFee     *big.Int
	startingBalance *big.Int
	logger          logrus.FieldLogger
}

// NewWallet creates a wallet
func NewWallet(cfg *WalletConfig) (*Wallet, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Lottery == nil {
		return nil, ErrNilLottery
	}
	if cfg.LedgerRepo == nil {
		return nil, ErrNilLedgerRepo
	}
	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}
	if cfg.EntranceFee == nil || cfg.EntranceFee.Sign() <= 0 {
		return nil, ErrInvalidEntranceFee
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	startingBalance := new(big.Int)
	if cfg.StartingBalance != nil {
		startingBalance.Set(cfg.StartingBalance)
	}

	return &Wallet{
		lottery:         cfg.Lottery,
		ledgerRepo:      cfg.LedgerRepo,
		playerRepo:      cfg.PlayerRepo,
		clock:           c,
		entranceFee:     new(big.Int).Set(cfg.EntranceFee),
		startingBalance: startingBalance,
		logger:          logger.WithField("component", "wallet"),
	}, nil
}

// EntranceFee returns the fee debited per entry
func (w *Wallet) EntranceFee() *big.Int {
	return new(big.Int).Set(w.entranceFee)
}

// EnsurePlayer records a player, crediting the starting balance the first
// time they are seen. Only the caller whose create wins pays the credit.
func (w *Wallet) EnsurePlayer(ctx context.Context, playerID, name string) (*models.Player, error) {
	now := w.clock.Now()

	existing, err := w.playerRepo.GetPlayer(ctx, &player.GetPlayerInput{PlayerID: playerID})
	if err != nil && !errors.Is(err, player.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if existing == nil {
		created := &models.Player{
			ID:         playerID,
			Name:       name,
			JoinedAt:   now,
			LastSeenAt: now,
		}
		err := w.playerRepo.CreatePlayer(ctx, &player.CreatePlayerInput{Player: created})
		switch {
		case err == nil:
			if err := w.creditStartingBalance(ctx, playerID); err != nil {
				return nil, err
			}
			w.logger.WithField("participant", playerID).Info("new player")
			return created, nil
		case errors.Is(err, player.ErrPlayerExists):
			existing, err = w.playerRepo.GetPlayer(ctx, &player.GetPlayerInput{PlayerID: playerID})
			if err != nil {
				return nil, fmt.Errorf("failed to get player: %w", err)
			}
		default:
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
	}

	existing.Name = name
	existing.LastSeenAt = now
	if err := w.playerRepo.SavePlayer(ctx, &player.SavePlayerInput{Player: existing}); err != nil {
		return nil, fmt.Errorf("failed to save player: %w", err)
	}
	return existing, nil
}

func (w *Wallet) creditStartingBalance(ctx context.Context, playerID string) error {
	if w.startingBalance.Sign() <= 0 {
		return nil
	}

	_, err := w.ledgerRepo.Credit(ctx, &ledger.CreditInput{
		AccountID: playerID,
		Amount:    new(big.Int).Set(w.startingBalance),
		Reference: "starting-balance",
	})
	if err != nil {
		return fmt.Errorf("failed to credit starting balance: %w", err)
	}
	return nil
}

// Enter debits the entrance fee and enters the player. The fee is refunded
// when the lottery rejects the entry.
func (w *Wallet) Enter(ctx context.Context, playerID, name string) (*lottery.EnterOutput, error) {
	if _, err := w.EnsurePlayer(ctx, playerID, name); err != nil {
		return nil, err
	}

	debit, err := w.ledgerRepo.Debit(ctx, &ledger.DebitInput{
		AccountID: playerID,
		Amount:    new(big.Int).Set(w.entranceFee),
		Reference: "lottery-entry",
	})
	if err != nil {
		return nil, err
	}

	output, err := w.lottery.Enter(ctx, &lottery.EnterInput{
		Participant: playerID,
		Amount:      new(big.Int).Set(w.entranceFee),
	})
	if err != nil {
		_, refundErr := w.ledgerRepo.Credit(ctx, &ledger.CreditInput{
			AccountID: playerID,
			Amount:    new(big.Int).Set(w.entranceFee),
			Reference: "refund:" + debit.ID,
		})
		if refundErr != nil {
			w.logger.WithError(refundErr).WithField("participant", playerID).Error("failed to refund rejected entry")
		}
		return nil, err
	}

	return output, nil
}

// Balance returns a player's balance
func (w *Wallet) Balance(ctx context.Context, playerID string) (*big.Int, error) {
	return w.ledgerRepo.GetBalance(ctx, &ledger.GetBalanceInput{AccountID: playerID})
}

// Statement returns a player's most recent ledger movements, newest first
func (w *Wallet) Statement(ctx context.Context, playerID string, limit int) ([]*models.LedgerEntry, error) {
	output, err := w.ledgerRepo.ListEntries(ctx, &ledger.ListEntriesInput{
		AccountID: playerID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return output.Entries, nil
}
