package ledger

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/lottery/internal/repositories/ledger Repository

import (
	"context"
	"math/big"

	"github.com/KirkDiggler/lottery/internal/models"
)

// Repository defines the interface for account balances.
// Every movement is recorded as a LedgerEntry.
type Repository interface {
	// Credit adds value to an account
	Credit(ctx context.Context, input *CreditInput) (*models.LedgerEntry, error)

	// Debit removes value from an account
	Debit(ctx context.Context, input *DebitInput) (*models.LedgerEntry, error)

	// GetBalance returns an account's balance, zero for unknown accounts
	GetBalance(ctx context.Context, input *GetBalanceInput) (*big.Int, error)

	// ListEntries returns an account's movements, newest first
	ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error)

	// FreezeAccount stops an account from sending or receiving value
	FreezeAccount(ctx context.Context, input *FreezeAccountInput) error

	// UnfreezeAccount lifts a freeze
	UnfreezeAccount(ctx context.Context, input *UnfreezeAccountInput) error
}
