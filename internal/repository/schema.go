package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaOptions controls the optional constraints of the bootstrap schema.
type SchemaOptions struct {
	// UniqueOwner enforces at most one account per owner at the datastore level.
	UniqueOwner bool
}

// EnsureSchema creates the ledger tables if they are missing. It is a bootstrap
// for development and tests, not a migration tool.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect, opts SchemaOptions) error {
	ownerIndex := `CREATE INDEX IF NOT EXISTS idx_accounts_owner ON accounts (owner_id)`
	if opts.UniqueOwner {
		ownerIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_owner_unique ON accounts (owner_id)`
	}
	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS accounts (
			id             VARCHAR(36) PRIMARY KEY,
			account_number VARCHAR(10) NOT NULL UNIQUE,
			owner_id       VARCHAR(255) NOT NULL,
			balance        %[1]s NOT NULL CHECK (balance >= 0),
			created_at     %[2]s NOT NULL,
			updated_at     %[2]s NOT NULL
		)`, d.MoneyType, d.TimestampType),
		ownerIndex,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS transactions (
			id                          VARCHAR(36) PRIMARY KEY,
			account_id                  VARCHAR(36) NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
			amount                      %[1]s NOT NULL,
			type                        VARCHAR(32) NOT NULL,
			counterparty_account_number VARCHAR(10),
			new_balance                 %[1]s NOT NULL,
			created_at                  %[2]s NOT NULL
		)`, d.MoneyType, d.TimestampType),
		`CREATE INDEX IF NOT EXISTS idx_transactions_account_created ON transactions (account_id, created_at)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
