package ledger

import (
	"math/big"

	"github.com/KirkDiggler/lottery/internal/models"
)

// CreditInput contains parameters for crediting an account
type CreditInput struct {
	AccountID string
	Amount    *big.Int

	// Reference ties the movement to its cause
	Reference string
}

// DebitInput contains parameters for debiting an account
type DebitInput struct {
	AccountID string
	Amount    *big.Int
	Reference string
}

type GetBalanceInput struct {
	AccountID string
}

type ListEntriesInput struct {
	AccountID string

	// Limit caps the number of entries. Zero means all.
	Limit int
}

type ListEntriesOutput struct {
	Entries []*models.LedgerEntry
}

type FreezeAccountInput struct {
	AccountID string
}

type UnfreezeAccountInput struct {
	AccountID string
}
