package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Dialect captures the handful of places where the Postgres write store and the
// embedded SQLite store differ. Every query uses ordered $n placeholders, which
// both drivers accept.
type Dialect struct {
	Name          string
	MoneyType     string
	TimestampType string
	// LockClause is appended to row reads that must serialise writers. SQLite
	// has no row locks; its transactions are opened with BEGIN IMMEDIATE instead.
	LockClause        string
	isUniqueViolation func(error) bool
}

func Postgres() Dialect {
	return Dialect{
		Name:          DriverPostgres,
		MoneyType:     "NUMERIC(18, 2)",
		TimestampType: "TIMESTAMPTZ",
		LockClause:    " FOR UPDATE",
		isUniqueViolation: func(err error) bool {
			var pqErr *pq.Error
			return errors.As(err, &pqErr) && pqErr.Code == "23505"
		},
	}
}

func SQLite() Dialect {
	return Dialect{
		Name:          DriverSQLite,
		MoneyType:     "TEXT",
		TimestampType: "TIMESTAMP",
		isUniqueViolation: func(err error) bool {
			var sqErr sqlite3.Error
			if !errors.As(err, &sqErr) {
				return false
			}
			return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
				sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
		},
	}
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres:
		return Postgres(), nil
	case DriverSQLite:
		return SQLite(), nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects to the ledger store and verifies the connection.
func Open(driver, dsn string) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, Dialect{}, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// One writer at a time; also keeps a :memory: database alive.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, Dialect{}, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, dialect, nil
}
