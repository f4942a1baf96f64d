package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/eaglebank/ledger-service/internal/models"
)

// AccountWriteRepository handles every state-mutating operation on the ledger.
// All writes go through WithinTx so that one request maps to one commit.
type AccountWriteRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewAccountWriteRepository(db *sql.DB, dialect Dialect) *AccountWriteRepository {
	return &AccountWriteRepository{db: db, dialect: dialect}
}

func (r *AccountWriteRepository) WithinTx(ctx context.Context, fn func(tx LedgerTx) error) (err error) {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(&ledgerTx{accountQueries{q: sqlTx, dialect: r.dialect}}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type ledgerTx struct {
	accountQueries
}

func (t *ledgerTx) Lock(ctx context.Context, ids ...string) ([]*models.Account, error) {
	ordered := append([]string(nil), ids...)
	sort.Strings(ordered)

	locked := make(map[string]*models.Account, len(ordered))
	for _, id := range ordered {
		if _, ok := locked[id]; ok {
			continue
		}
		account, err := t.findOne(ctx, `id = $1`, true, id)
		if err != nil {
			return nil, fmt.Errorf("failed to lock account: %w", err)
		}
		if account == nil {
			return nil, fmt.Errorf("%w: account %s", ErrNotFound, id)
		}
		locked[id] = account
	}

	out := make([]*models.Account, len(ids))
	for i, id := range ids {
		out[i] = locked[id]
	}
	return out, nil
}

func (t *ledgerTx) InsertAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, account_number, owner_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := t.q.ExecContext(ctx, query,
		account.ID, account.AccountNumber, account.OwnerID, account.Balance(),
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if t.dialect.isUniqueViolation(err) {
			return fmt.Errorf("%w: account %s", ErrDuplicate, account.AccountNumber)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return t.insertPending(ctx, account)
}

func (t *ledgerTx) SaveAccount(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts SET balance = $1, updated_at = $2 WHERE id = $3`
	result, err := t.q.ExecContext(ctx, query, account.Balance(), account.UpdatedAt, account.ID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: account %s", ErrNotFound, account.ID)
	}
	return t.insertPending(ctx, account)
}

func (t *ledgerTx) insertPending(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO transactions (id, account_id, amount, type, counterparty_account_number, new_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, tx := range account.PendingTransactions() {
		_, err := t.q.ExecContext(ctx, query,
			tx.ID, tx.AccountID, tx.Amount, string(tx.Type),
			nullString(tx.CounterpartyAccountNumber), tx.NewBalance, tx.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
	}
	account.ClearPending()
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
