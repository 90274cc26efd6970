package models

import (
	"math/big"
	"time"
)

// LedgerEntryKind says which way value moved
type LedgerEntryKind string

const (
	// LedgerEntryCredit adds value to an account
	LedgerEntryCredit LedgerEntryKind = "credit"

	// LedgerEntryDebit removes value from an account
	LedgerEntryDebit LedgerEntryKind = "debit"
)

// LedgerEntry records a single balance movement
type LedgerEntry struct {
	// ID is the unique identifier for the entry
	ID string

	// AccountID is the account whose balance moved
	AccountID string

	// Kind is credit or debit
	Kind LedgerEntryKind

	// Amount moved, in wei
	Amount *big.Int

	// Reference ties the movement to its cause (a request id, an entry)
	Reference string

	// Timestamp is when the movement happened
	Timestamp time.Time
}
