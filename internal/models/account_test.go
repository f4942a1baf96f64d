package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func funded(t *testing.T, owner, number, balance string) *Account {
	t.Helper()
	a := NewAccount(owner, number, testNow)
	if balance != "0" {
		_, err := a.Deposit(amount(balance), testNow)
		require.NoError(t, err)
		a.ClearPending()
	}
	return a
}

func TestDeposit(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		wantErr     error
		wantBalance string
	}{
		{name: "positive amount", amount: "150.25", wantBalance: "250.25"},
		{name: "zero amount", amount: "0", wantErr: ErrInvalidAmount, wantBalance: "100"},
		{name: "negative amount", amount: "-5", wantErr: ErrInvalidAmount, wantBalance: "100"},
		{name: "sub-cent amount", amount: "0.001", wantErr: ErrInvalidAmount, wantBalance: "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := funded(t, "usr-1", "1234567890", "100")
			tx, err := a.Deposit(amount(tt.amount), testNow)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, a.PendingTransactions())
			} else {
				require.NoError(t, err)
				assert.Equal(t, TransactionDeposit, tx.Type)
				assert.True(t, tx.NewBalance.Equal(a.Balance()))
				assert.Len(t, a.PendingTransactions(), 1)
			}
			assert.True(t, a.Balance().Equal(amount(tt.wantBalance)), "balance %s", a.Balance())
		})
	}
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name        string
		balance     string
		amount      string
		wantErr     error
		wantBalance string
	}{
		{name: "partial withdrawal", balance: "100", amount: "40", wantBalance: "60"},
		{name: "whole balance", balance: "100", amount: "100", wantBalance: "0"},
		{name: "overdraw", balance: "100", amount: "100.01", wantErr: ErrInsufficientFunds, wantBalance: "100"},
		{name: "empty account", balance: "0", amount: "50", wantErr: ErrInsufficientFunds, wantBalance: "0"},
		{name: "negative amount", balance: "100", amount: "-1", wantErr: ErrInvalidAmount, wantBalance: "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := funded(t, "usr-1", "1234567890", tt.balance)
			before := a.Balance().String()
			tx, err := a.Withdraw(amount(tt.amount), testNow)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, a.Balance().String())
				assert.Empty(t, a.PendingTransactions())
			} else {
				require.NoError(t, err)
				assert.Equal(t, TransactionWithdrawal, tx.Type)
				assert.True(t, tx.NewBalance.Equal(a.Balance()))
			}
			assert.True(t, a.Balance().Equal(amount(tt.wantBalance)))
			assert.False(t, a.Balance().IsNegative())
		})
	}
}

func TestTransferConservesFunds(t *testing.T) {
	src := funded(t, "U1", "SRC123", "1000")
	dst := funded(t, "U2", "DEST456", "0")
	total := src.Balance().Add(dst.Balance())

	out, in, err := src.Transfer(dst, amount("400"), testNow)
	require.NoError(t, err)

	assert.True(t, src.Balance().Equal(amount("600")))
	assert.True(t, dst.Balance().Equal(amount("400")))
	assert.True(t, src.Balance().Add(dst.Balance()).Equal(total))

	assert.Equal(t, TransactionTransferOut, out.Type)
	assert.Equal(t, "DEST456", out.CounterpartyAccountNumber)
	assert.Equal(t, src.ID, out.AccountID)
	assert.Equal(t, TransactionTransferIn, in.Type)
	assert.Equal(t, "SRC123", in.CounterpartyAccountNumber)
	assert.Equal(t, dst.ID, in.AccountID)
	assert.True(t, in.NewBalance.Equal(amount("400")))
}

func TestTransferFailureLeavesBothAccountsUnchanged(t *testing.T) {
	src := funded(t, "U1", "SRC123", "10")
	dst := funded(t, "U2", "DEST456", "5")

	_, _, err := src.Transfer(dst, amount("10.50"), testNow)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, _, err = src.Transfer(dst, amount("0"), testNow)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.True(t, src.Balance().Equal(amount("10")))
	assert.True(t, dst.Balance().Equal(amount("5")))
	assert.Empty(t, src.PendingTransactions())
	assert.Empty(t, dst.PendingTransactions())
}

func TestBalanceNeverNegativeAcrossSequence(t *testing.T) {
	a := NewAccount("usr-1", "1234567890", testNow)
	ops := []struct {
		deposit bool
		amount  string
	}{
		{true, "20"}, {false, "15"}, {false, "10"}, {true, "3.50"}, {false, "8.50"}, {false, "0.01"},
	}
	for _, op := range ops {
		if op.deposit {
			_, _ = a.Deposit(amount(op.amount), testNow)
		} else {
			_, _ = a.Withdraw(amount(op.amount), testNow)
		}
		assert.False(t, a.Balance().IsNegative())
	}
	assert.True(t, a.Balance().Equal(amount("0")))
	assert.Len(t, a.PendingTransactions(), 4)
}

func TestIsBusinessError(t *testing.T) {
	assert.True(t, IsBusinessError(ErrAccessDenied))
	assert.True(t, IsBusinessError(ErrInsufficientFunds))
	assert.False(t, IsBusinessError(ErrAllocationExhausted))
	assert.False(t, IsBusinessError(assert.AnError))
}
