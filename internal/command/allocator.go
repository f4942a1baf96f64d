package command

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/repository"
)

const (
	accountNumberMin     int64 = 1_000_000_000
	accountNumberMax     int64 = 2_100_000_000
	maxAllocationAttempts      = 10
)

// RandomSource yields a uniform value in [0, n).
type RandomSource interface {
	Int64N(n int64) int64
}

type globalRandom struct{}

func (globalRandom) Int64N(n int64) int64 { return rand.Int63n(n) }

// AccountNumberAllocator picks unused 10-digit public account numbers.
type AccountNumberAllocator struct {
	random RandomSource
}

func NewAccountNumberAllocator(random RandomSource) *AccountNumberAllocator {
	if random == nil {
		random = globalRandom{}
	}
	return &AccountNumberAllocator{random: random}
}

// Allocate draws candidates until one is free. The check is advisory; the unique
// index on account_number is what finally rejects a collision.
func (a *AccountNumberAllocator) Allocate(ctx context.Context, accounts repository.AccountReader) (string, error) {
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		candidate := strconv.FormatInt(accountNumberMin+a.random.Int64N(accountNumberMax-accountNumberMin), 10)
		existing, err := accounts.FindByNumber(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check account number: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return "", models.ErrAllocationExhausted
}
