package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lnvinh/moneykeeper/internal/models"
	"github.com/lnvinh/moneykeeper/internal/storage"
)

// TransactionService records transactions and keeps wallet balances in step
// with them. The wallet mutation is computed in memory before anything is
// persisted, so a rejected transaction (insufficient balance, validation)
// never leaves partial state behind. The transaction record is then written
// before the wallet: if the process dies between the two writes, the orphan
// is a transaction whose wallet effect is missing, which is recoverable by
// replay, whereas the reverse order could silently move money.
type TransactionService struct {
	wallets      storage.WalletRepository
	transactions storage.TransactionRepository
	now          func() time.Time
}

// NewTransactionService creates a new TransactionService with the given
// storage backend.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{
		wallets:      store.Wallets(),
		transactions: store.Transactions(),
		now:          time.Now,
	}
}

// CreateTransactionParams carries the caller-supplied fields for
// CreateTransaction. Amount is a magnitude; the sign is derived from Type.
type CreateTransactionParams struct {
	AccountID   string
	WalletID    string
	Amount      decimal.Decimal
	Type        models.TransactionType
	Category    string
	Description string
	Date        time.Time
}

// CreateTransaction validates the transaction, applies its signed amount to
// the wallet and persists both.
func (s *TransactionService) CreateTransaction(ctx context.Context, p CreateTransactionParams) (models.Transaction, error) {
	now := s.now()

	wallet, err := s.wallets.FindByID(ctx, p.WalletID)
	if err != nil {
		return models.Transaction{}, err
	}
	if wallet.AccountID != p.AccountID {
		return models.Transaction{}, models.NewNotFoundError("wallet %s not found", p.WalletID)
	}

	tx, err := models.NewTransaction(models.NewTransactionParams{
		AccountID:   p.AccountID,
		WalletID:    p.WalletID,
		Amount:      p.Amount,
		Type:        p.Type,
		Category:    p.Category,
		Description: p.Description,
		Date:        p.Date,
	}, now)
	if err != nil {
		return models.Transaction{}, err
	}

	updated, err := wallet.UpdateBalance(tx.SignedAmount(), now)
	if err != nil {
		return models.Transaction{}, err
	}

	if err := s.transactions.Save(ctx, tx); err != nil {
		slog.Error("CreateTransaction: failed to save transaction", "wallet_id", p.WalletID, "error", err)
		return models.Transaction{}, err
	}
	if err := s.wallets.Save(ctx, updated); err != nil {
		slog.Error("CreateTransaction: failed to save wallet", "wallet_id", p.WalletID, "error", err)
		return models.Transaction{}, err
	}

	slog.Info("Transaction created",
		"transaction_id", tx.ID,
		"wallet_id", tx.WalletID,
		"type", tx.Type,
		"amount", tx.Amount,
	)
	return tx, nil
}

// TransactionFilter narrows ListTransactions. The zero value lists
// everything.
type TransactionFilter struct {
	// Type keeps only transactions of the given type when set.
	Type models.TransactionType

	// Category keeps only transactions in the given category when set.
	Category string

	// Search keeps transactions whose description or category contains
	// the term, case-insensitively.
	Search string
}

func (f TransactionFilter) matches(tx models.Transaction) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(tx.Description), term) &&
			!strings.Contains(strings.ToLower(tx.Category), term) {
			return false
		}
	}
	return true
}

// GetTransaction returns the transaction if it belongs to the account.
func (s *TransactionService) GetTransaction(ctx context.Context, accountID, transactionID string) (models.Transaction, error) {
	tx, err := s.transactions.FindByID(ctx, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}
	if tx.AccountID != accountID {
		return models.Transaction{}, models.NewNotFoundError("transaction %s not found", transactionID)
	}
	return tx, nil
}

// ListTransactions returns the account's transactions, newest first,
// optionally filtered. Filters apply after the repository query; transaction
// volumes here are personal-finance sized.
func (s *TransactionService) ListTransactions(ctx context.Context, accountID string, filter TransactionFilter) ([]models.Transaction, error) {
	txs, err := s.transactions.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if filter == (TransactionFilter{}) {
		return txs, nil
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, models.NewValidationError("invalid transaction type %q", filter.Type)
	}

	filtered := txs[:0]
	for _, tx := range txs {
		if filter.matches(tx) {
			filtered = append(filtered, tx)
		}
	}
	return filtered, nil
}

// UpdateTransactionParams carries the editable transaction fields.
type UpdateTransactionParams struct {
	Description string
	Category    string
}

// UpdateTransaction rewrites a transaction's description and category.
// Amount, type and date are immutable once recorded, so the wallet balance
// is never touched here.
func (s *TransactionService) UpdateTransaction(ctx context.Context, accountID, transactionID string, p UpdateTransactionParams) (models.Transaction, error) {
	now := s.now()

	tx, err := s.GetTransaction(ctx, accountID, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}

	tx, err = tx.UpdateDescription(p.Description, now)
	if err != nil {
		return models.Transaction{}, err
	}
	tx, err = tx.UpdateCategory(p.Category, now)
	if err != nil {
		return models.Transaction{}, err
	}

	if err := s.transactions.Save(ctx, tx); err != nil {
		slog.Error("UpdateTransaction: failed to save transaction", "transaction_id", transactionID, "error", err)
		return models.Transaction{}, err
	}

	slog.Info("Transaction updated", "transaction_id", transactionID)
	return tx, nil
}

// ListByWallet returns a wallet's transactions, newest first.
func (s *TransactionService) ListByWallet(ctx context.Context, accountID, walletID string) ([]models.Transaction, error) {
	wallet, err := s.wallets.FindByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if wallet.AccountID != accountID {
		return nil, models.NewNotFoundError("wallet %s not found", walletID)
	}
	return s.transactions.FindByWalletID(ctx, walletID)
}

// ListByDateRange returns the account's transactions with from <= date <=
// to, newest first.
func (s *TransactionService) ListByDateRange(ctx context.Context, accountID string, from, to time.Time) ([]models.Transaction, error) {
	if to.Before(from) {
		return nil, models.NewValidationError("date range end must not precede start")
	}
	return s.transactions.FindByDateRange(ctx, accountID, from, to)
}

// DeleteTransaction removes a transaction and reverses its effect on the
// wallet balance, restoring the balance to what it was before the
// transaction was recorded. Reversing an income can fail with an
// insufficient-balance error if the money has since been spent.
func (s *TransactionService) DeleteTransaction(ctx context.Context, accountID, transactionID string) error {
	now := s.now()

	tx, err := s.GetTransaction(ctx, accountID, transactionID)
	if err != nil {
		return err
	}

	wallet, err := s.wallets.FindByID(ctx, tx.WalletID)
	if err != nil {
		return err
	}

	reversed, err := wallet.UpdateBalance(tx.SignedAmount().Neg(), now)
	if err != nil {
		return err
	}

	if err := s.transactions.Delete(ctx, transactionID); err != nil {
		slog.Error("DeleteTransaction: failed to delete transaction", "transaction_id", transactionID, "error", err)
		return err
	}
	if err := s.wallets.Save(ctx, reversed); err != nil {
		slog.Error("DeleteTransaction: failed to save wallet", "wallet_id", wallet.ID, "error", err)
		return err
	}

	slog.Info("Transaction deleted", "transaction_id", transactionID, "wallet_id", wallet.ID)
	return nil
}
