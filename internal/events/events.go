package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	AccountOpened    = "account.opened"
	FundsDeposited   = "funds.deposited"
	FundsWithdrawn   = "funds.withdrawn"
	FundsTransferred = "funds.transferred"
)

// LedgerEventsStream is the Redis stream every ledger event is appended to.
const LedgerEventsStream = "ledger.events"

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type AccountOpenedEvent struct {
	AccountID      string          `json:"accountId"`
	AccountNumber  string          `json:"accountNumber"`
	OwnerID        string          `json:"ownerId"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

type FundsMovedEvent struct {
	TransactionID string          `json:"transactionId"`
	AccountID     string          `json:"accountId"`
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"newBalance"`
}

type FundsTransferredEvent struct {
	SourceAccountNumber      string          `json:"sourceAccountNumber"`
	DestinationAccountNumber string          `json:"destinationAccountNumber"`
	OutTransactionID         string          `json:"outTransactionId"`
	InTransactionID          string          `json:"inTransactionId"`
	Amount                   decimal.Decimal `json:"amount"`
}
