package repository

import (
	"context"
	"errors"

	"github.com/eaglebank/ledger-service/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
)

// AccountReader holds the ownership-scoped lookups. Single-account finders return
// (nil, nil) when nothing matches; a record owned by someone else is
// indistinguishable from one that does not exist.
type AccountReader interface {
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Account, error)
	FindByNumberAndOwner(ctx context.Context, accountNumber, ownerID string) (*models.Account, error)
	// FindByNumber has no ownership filter. It exists for transfer destinations
	// and account-number uniqueness checks only.
	FindByNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*models.Account, error)
	// FindTransactionsByAccountAndOwner reports found=false when the caller has no
	// access, so an empty history can be told apart from a denied one.
	FindTransactionsByAccountAndOwner(ctx context.Context, accountID, ownerID string) (txs []models.Transaction, found bool, err error)
	RecentTransactions(ctx context.Context, accountID string, limit int) ([]models.Transaction, error)
}

// LedgerTx is the view of the store inside one datastore transaction.
type LedgerTx interface {
	AccountReader
	// Lock takes row locks on the given accounts in ascending id order and returns
	// fresh copies in the order requested.
	Lock(ctx context.Context, ids ...string) ([]*models.Account, error)
	InsertAccount(ctx context.Context, account *models.Account) error
	// SaveAccount writes the balance and the account's pending transactions.
	SaveAccount(ctx context.Context, account *models.Account) error
}

// LedgerStore runs fn inside a single datastore transaction. Returning nil from fn
// commits every pending mutation atomically; any error rolls all of them back.
type LedgerStore interface {
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error
}
