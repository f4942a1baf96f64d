package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountView is the read projection of an account served from the cache.
// OwnerID is kept for ownership checks but never serialised to the API response.
type AccountView struct {
	ID                 string            `json:"id"`
	AccountNumber      string            `json:"accountNumber"`
	OwnerID            string            `json:"-"`
	Balance            decimal.Decimal   `json:"balance"`
	RecentTransactions []TransactionView `json:"recentTransactions"`
	CreatedAt          time.Time         `json:"createdTimestamp"`
	UpdatedAt          time.Time         `json:"updatedTimestamp"`
}

// TransactionView is the read projection of a transaction.
type TransactionView struct {
	ID                        string          `json:"id"`
	AccountID                 string          `json:"accountId"`
	Amount                    decimal.Decimal `json:"amount"`
	Type                      TransactionType `json:"type"`
	CounterpartyAccountNumber string          `json:"counterpartyAccountNumber,omitempty"`
	NewBalance                decimal.Decimal `json:"newBalance"`
	CreatedAt                 time.Time       `json:"createdTimestamp"`
}

func ToAccountView(a *Account, recent []Transaction) *AccountView {
	return &AccountView{
		ID:                 a.ID,
		AccountNumber:      a.AccountNumber,
		OwnerID:            a.OwnerID,
		Balance:            a.Balance(),
		RecentTransactions: ToTransactionViews(recent),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func ToTransactionView(t Transaction) TransactionView {
	return TransactionView{
		ID:                        t.ID,
		AccountID:                 t.AccountID,
		Amount:                    t.Amount,
		Type:                      t.Type,
		CounterpartyAccountNumber: t.CounterpartyAccountNumber,
		NewBalance:                t.NewBalance,
		CreatedAt:                 t.CreatedAt,
	}
}

func ToTransactionViews(ts []Transaction) []TransactionView {
	views := make([]TransactionView, 0, len(ts))
	for _, t := range ts {
		views = append(views, ToTransactionView(t))
	}
	return views
}

// TransactionHistoryView is the cached transaction history of one account,
// newest first.
type TransactionHistoryView struct {
	AccountID    string            `json:"accountId"`
	Transactions []TransactionView `json:"transactions"`
}
