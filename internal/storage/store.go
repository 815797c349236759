// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lnvinh/moneykeeper/internal/models"
)

// WalletRepository persists wallets. FindByID returns a domain not-found
// error for unknown ids; Save is an upsert keyed on the wallet ID.
type WalletRepository interface {
	FindByID(ctx context.Context, id string) (models.Wallet, error)

	// FindByAccountID returns the account's wallets, newest first.
	FindByAccountID(ctx context.Context, accountID string) ([]models.Wallet, error)

	Save(ctx context.Context, wallet models.Wallet) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)

	// TotalBalance sums the balances of the account's wallets.
	TotalBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// TransactionRepository persists transactions.
type TransactionRepository interface {
	FindByID(ctx context.Context, id string) (models.Transaction, error)

	// FindByAccountID returns the account's transactions, newest first by
	// transaction date.
	FindByAccountID(ctx context.Context, accountID string) ([]models.Transaction, error)

	// FindByWalletID returns a wallet's transactions, newest first.
	FindByWalletID(ctx context.Context, walletID string) ([]models.Transaction, error)

	// FindByDateRange returns the account's transactions with from <= date
	// <= to, newest first.
	FindByDateRange(ctx context.Context, accountID string, from, to time.Time) ([]models.Transaction, error)

	Save(ctx context.Context, tx models.Transaction) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// BillSplitRepository persists bill splits with their participants.
type BillSplitRepository interface {
	FindByID(ctx context.Context, id string) (models.BillSplit, error)

	// FindByAccountID returns the account's bill splits, newest first by
	// bill date.
	FindByAccountID(ctx context.Context, accountID string) ([]models.BillSplit, error)

	// FindUnsettled returns the account's unsettled bill splits, newest
	// first.
	FindUnsettled(ctx context.Context, accountID string) ([]models.BillSplit, error)

	Save(ctx context.Context, bill models.BillSplit) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// LoanRepository persists loans.
type LoanRepository interface {
	FindByID(ctx context.Context, id string) (models.Loan, error)

	// FindByAccountID returns the account's loans, newest first by start
	// date.
	FindByAccountID(ctx context.Context, accountID string) ([]models.Loan, error)

	// FindByType returns the account's loans of the given type, newest
	// first.
	FindByType(ctx context.Context, accountID string, typ models.LoanType) ([]models.Loan, error)

	// FindOverdue returns the account's active loans whose due date lies
	// before asOf. Overdue is evaluated at query time, never stored.
	FindOverdue(ctx context.Context, accountID string, asOf time.Time) ([]models.Loan, error)

	Save(ctx context.Context, loan models.Loan) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// AccountRepository persists login accounts.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
}

// Store bundles every repository behind one handle. This abstraction allows
// swapping storage backends (SQLite, in-memory, PostgreSQL, ...) without
// changing the service layer.
type Store interface {
	Wallets() WalletRepository
	Transactions() TransactionRepository
	BillSplits() BillSplitRepository
	Loans() LoanRepository
	Accounts() AccountRepository

	// Close releases any resources held by the store.
	Close() error
}
