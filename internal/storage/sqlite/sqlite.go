// Package sqlite provides a SQLite-backed implementation of the storage
// interfaces.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/lnvinh/moneykeeper/internal/storage"
)

// Ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using SQLite. All repositories share one
// database handle.
type Store struct {
	db           *sql.DB
	wallets      *WalletStore
	transactions *TransactionStore
	billSplits   *BillSplitStore
	loans        *LoanStore
	accounts     *AccountStore
}

// New creates a new Store with the given database path. It creates the
// parent directories and runs migrations automatically.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{
		db:           db,
		wallets:      &WalletStore{db: db},
		transactions: &TransactionStore{db: db},
		billSplits:   &BillSplitStore{db: db},
		loans:        &LoanStore{db: db},
		accounts:     &AccountStore{db: db},
	}, nil
}

func (s *Store) Wallets() storage.WalletRepository           { return s.wallets }
func (s *Store) Transactions() storage.TransactionRepository { return s.transactions }
func (s *Store) BillSplits() storage.BillSplitRepository     { return s.billSplits }
func (s *Store) Loans() storage.LoanRepository               { return s.loans }
func (s *Store) Accounts() storage.AccountRepository         { return s.accounts }

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanDecimal parses a TEXT column into a decimal. Amounts are stored as
// decimal strings to avoid float drift.
func scanDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse decimal %q: %w", raw, err)
	}
	return d, nil
}

// unixTime converts a stored unix-seconds column back to UTC time.
func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// nullTime converts an optional unix-seconds column.
func nullTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := unixTime(v.Int64)
	return &t
}

// timePtrToNull converts an optional time for storage.
func timePtrToNull(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
