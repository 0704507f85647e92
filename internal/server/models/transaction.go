package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Valid reports whether s is a known transaction status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionFailed, TransactionCancelled:
		return true
	}
	return false
}

// TransactionType is the rail a transaction arrived on.
type TransactionType string

const (
	TransactionCrypto TransactionType = "crypto"
	TransactionACH    TransactionType = "ach"
	TransactionBank   TransactionType = "bank"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionCrypto || t == TransactionACH || t == TransactionBank
}

// Transaction is an incoming payment recorded against a user. CryptoType and
// TransactionHash are set only for crypto transactions; Notes is admin-only
// and never returned on the user surface.
type Transaction struct {
	ID              string
	UserID          string
	Date            time.Time
	Amount          decimal.Decimal
	FromSource      string
	ToDestination   string
	Purpose         string
	Status          TransactionStatus
	Type            TransactionType
	CryptoType      string
	TransactionHash string
	Notes           string
	CreatedAt       time.Time
}
