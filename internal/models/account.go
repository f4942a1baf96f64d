package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the ledger aggregate. The balance is never assigned directly: every
// change goes through deposit or withdraw, each of which records a Transaction.
type Account struct {
	ID            string
	AccountNumber string
	OwnerID       string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	balance decimal.Decimal
	pending []Transaction
}

// NewAccount opens an empty account for owner.
func NewAccount(ownerID, accountNumber string, at time.Time) *Account {
	at = at.UTC()
	return &Account{
		ID:            uuid.NewString(),
		AccountNumber: accountNumber,
		OwnerID:       ownerID,
		CreatedAt:     at,
		UpdatedAt:     at,
		balance:       decimal.Zero,
	}
}

// RestoreAccount rebuilds an account from persisted state.
func RestoreAccount(id, accountNumber, ownerID string, balance decimal.Decimal, createdAt, updatedAt time.Time) *Account {
	return &Account{
		ID:            id,
		AccountNumber: accountNumber,
		OwnerID:       ownerID,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
		balance:       balance,
	}
}

func (a *Account) Balance() decimal.Decimal { return a.balance }

// Deposit adds amount to the balance and records a Deposit transaction.
func (a *Account) Deposit(amount decimal.Decimal, at time.Time) (Transaction, error) {
	return a.credit(amount, TransactionDeposit, "", at)
}

// Withdraw removes amount from the balance and records a Withdrawal transaction.
// The balance is left untouched on failure.
func (a *Account) Withdraw(amount decimal.Decimal, at time.Time) (Transaction, error) {
	return a.debit(amount, TransactionWithdrawal, "", at)
}

// Transfer moves amount from a to dest. Both checks run before either balance
// changes, so a failed transfer leaves both accounts as they were. Rejecting a
// transfer onto the same account number is the caller's job.
func (a *Account) Transfer(dest *Account, amount decimal.Decimal, at time.Time) (out, in Transaction, err error) {
	if err := a.checkDebit(amount); err != nil {
		return Transaction{}, Transaction{}, err
	}
	out, err = a.debit(amount, TransactionTransferOut, dest.AccountNumber, at)
	if err != nil {
		return Transaction{}, Transaction{}, err
	}
	in, err = dest.credit(amount, TransactionTransferIn, a.AccountNumber, at)
	if err != nil {
		return Transaction{}, Transaction{}, err
	}
	return out, in, nil
}

// OpenWithInitialBalance credits an opening deposit on a fresh account.
func (a *Account) OpenWithInitialBalance(amount decimal.Decimal, at time.Time) (Transaction, error) {
	return a.credit(amount, TransactionInitialBalance, "", at)
}

// PendingTransactions returns the records produced since the account was loaded
// or last saved.
func (a *Account) PendingTransactions() []Transaction {
	out := make([]Transaction, len(a.pending))
	copy(out, a.pending)
	return out
}

// ClearPending is called by the repository once the pending records are written.
func (a *Account) ClearPending() { a.pending = nil }

func (a *Account) checkDebit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if a.balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

func (a *Account) credit(amount decimal.Decimal, t TransactionType, counterparty string, at time.Time) (Transaction, error) {
	if err := ValidateAmount(amount); err != nil {
		return Transaction{}, err
	}
	a.balance = a.balance.Add(amount)
	return a.record(amount, t, counterparty, at), nil
}

func (a *Account) debit(amount decimal.Decimal, t TransactionType, counterparty string, at time.Time) (Transaction, error) {
	if err := a.checkDebit(amount); err != nil {
		return Transaction{}, err
	}
	a.balance = a.balance.Sub(amount)
	return a.record(amount, t, counterparty, at), nil
}

func (a *Account) record(amount decimal.Decimal, t TransactionType, counterparty string, at time.Time) Transaction {
	tx := newTransaction(a.ID, amount, t, a.balance, at)
	tx.CounterpartyAccountNumber = counterparty
	a.UpdatedAt = tx.CreatedAt
	a.pending = append(a.pending, tx)
	return tx
}
