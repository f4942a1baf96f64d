package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, account_number, owner_id, balance, created_at, updated_at`

const transactionColumns = `id, account_id, amount, type, counterparty_account_number, new_balance, created_at`

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// accountQueries implements AccountReader over either a *sql.DB or a *sql.Tx.
type accountQueries struct {
	q       querier
	dialect Dialect
}

// AccountReadRepository serves ownership-scoped reads straight from the database.
type AccountReadRepository struct {
	accountQueries
}

func NewAccountReadRepository(db *sql.DB, dialect Dialect) *AccountReadRepository {
	return &AccountReadRepository{accountQueries{q: db, dialect: dialect}}
}

func (r accountQueries) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Account, error) {
	return r.findOne(ctx, `id = $1 AND owner_id = $2`, false, id, ownerID)
}

func (r accountQueries) FindByNumberAndOwner(ctx context.Context, accountNumber, ownerID string) (*models.Account, error) {
	return r.findOne(ctx, `account_number = $1 AND owner_id = $2`, false, accountNumber, ownerID)
}

func (r accountQueries) FindByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	return r.findOne(ctx, `account_number = $1`, false, accountNumber)
}

func (r accountQueries) FindByOwner(ctx context.Context, ownerID string) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY created_at, id`
	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

func (r accountQueries) FindTransactionsByAccountAndOwner(ctx context.Context, accountID, ownerID string) ([]models.Transaction, bool, error) {
	account, err := r.FindByIDAndOwner(ctx, accountID, ownerID)
	if err != nil {
		return nil, false, err
	}
	if account == nil {
		return nil, false, nil
	}
	txs, err := r.listTransactions(ctx, `SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC`, accountID)
	if err != nil {
		return nil, false, err
	}
	return txs, true, nil
}

func (r accountQueries) RecentTransactions(ctx context.Context, accountID string, limit int) ([]models.Transaction, error) {
	return r.listTransactions(ctx, `SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, accountID, limit)
}

func (r accountQueries) findOne(ctx context.Context, where string, lock bool, args ...any) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where
	if lock {
		query += r.dialect.LockClause
	}
	account, err := scanAccount(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (r accountQueries) listTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var (
			t            models.Transaction
			txType       string
			counterparty sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &txType, &counterparty, &t.NewBalance, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Type = models.TransactionType(txType)
		t.CounterpartyAccountNumber = counterparty.String
		t.CreatedAt = t.CreatedAt.UTC()
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		id, number, owner    string
		balance              decimal.Decimal
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &number, &owner, &balance, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return models.RestoreAccount(id, number, owner, balance, createdAt.UTC(), updatedAt.UTC()), nil
}
