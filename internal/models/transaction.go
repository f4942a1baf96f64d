package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit        TransactionType = "Deposit"
	TransactionWithdrawal     TransactionType = "Withdrawal"
	TransactionTransferIn     TransactionType = "TransferIn"
	TransactionTransferOut    TransactionType = "TransferOut"
	TransactionInitialBalance TransactionType = "InitialBalance"
)

// Transaction is an immutable audit entry produced by exactly one balance mutation.
// NewBalance is the account balance immediately after that mutation.
type Transaction struct {
	ID                        string
	AccountID                 string
	Amount                    decimal.Decimal
	Type                      TransactionType
	CounterpartyAccountNumber string
	NewBalance                decimal.Decimal
	CreatedAt                 time.Time
}

func newTransaction(accountID string, amount decimal.Decimal, t TransactionType, newBalance decimal.Decimal, at time.Time) Transaction {
	return Transaction{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Amount:     amount,
		Type:       t,
		NewBalance: newBalance,
		CreatedAt:  at.UTC(),
	}
}
