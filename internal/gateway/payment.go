// Package gateway holds the external payment gateway capability. The ledger only
// depends on the interfaces; MockGateway stands in for a real provider.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentGateway sends money out to an external beneficiary. A false result is a
// business-level decline, not a failure.
type PaymentGateway interface {
	InitiateWithdrawal(ctx context.Context, beneficiaryAccountNumber string, amount decimal.Decimal) (bool, error)
}

// DepositVerifier confirms with the external provider that incoming funds exist.
type DepositVerifier interface {
	VerifyDeposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (bool, error)
}

// MockGateway approves every request after a fixed delay.
type MockGateway struct {
	delay  time.Duration
	logger *slog.Logger
}

func NewMockGateway(delay time.Duration, logger *slog.Logger) *MockGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockGateway{delay: delay, logger: logger}
}

func (g *MockGateway) InitiateWithdrawal(ctx context.Context, beneficiaryAccountNumber string, amount decimal.Decimal) (bool, error) {
	g.logger.InfoContext(ctx, "processing external withdrawal",
		slog.String("beneficiary", beneficiaryAccountNumber),
		slog.String("amount", amount.StringFixed(2)))
	return g.wait(ctx)
}

func (g *MockGateway) VerifyDeposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (bool, error) {
	g.logger.InfoContext(ctx, "verifying external deposit",
		slog.String("account_number", accountNumber),
		slog.String("amount", amount.StringFixed(2)))
	return g.wait(ctx)
}

func (g *MockGateway) wait(ctx context.Context) (bool, error) {
	if g.delay <= 0 {
		return true, nil
	}
	timer := time.NewTimer(g.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-timer.C:
		return true, nil
	}
}
