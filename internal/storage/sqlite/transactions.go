package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lnvinh/moneykeeper/internal/models"
)

// TransactionStore implements storage.TransactionRepository using SQLite.
type TransactionStore struct {
	db *sql.DB
}

const txColumns = "id, account_id, wallet_id, amount, type, category, description, date, created_at, updated_at"

func scanTransaction(scanner interface{ Scan(...any) error }) (models.Transaction, error) {
	var t models.Transaction
	var amount string
	var date, createdAt, updatedAt int64
	err := scanner.Scan(&t.ID, &t.AccountID, &t.WalletID, &amount, &t.Type,
		&t.Category, &t.Description, &date, &createdAt, &updatedAt)
	if err != nil {
		return models.Transaction{}, err
	}
	if t.Amount, err = scanDecimal(amount); err != nil {
		return models.Transaction{}, err
	}
	t.Date = unixTime(date)
	t.CreatedAt = unixTime(createdAt)
	t.UpdatedAt = unixTime(updatedAt)
	return t, nil
}

func (s *TransactionStore) FindByID(ctx context.Context, id string) (models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return models.Transaction{}, models.NewNotFoundError("transaction %s not found", id)
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (s *TransactionStore) queryMany(ctx context.Context, where string, args ...any) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE "+where+" ORDER BY date DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

func (s *TransactionStore) FindByAccountID(ctx context.Context, accountID string) ([]models.Transaction, error) {
	return s.queryMany(ctx, "account_id = ?", accountID)
}

func (s *TransactionStore) FindByWalletID(ctx context.Context, walletID string) ([]models.Transaction, error) {
	return s.queryMany(ctx, "wallet_id = ?", walletID)
}

func (s *TransactionStore) FindByDateRange(ctx context.Context, accountID string, from, to time.Time) ([]models.Transaction, error) {
	return s.queryMany(ctx, "account_id = ? AND date >= ? AND date <= ?",
		accountID, from.Unix(), to.Unix())
}

func (s *TransactionStore) Save(ctx context.Context, t models.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (`+txColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount = excluded.amount,
			type = excluded.type,
			category = excluded.category,
			description = excluded.description,
			date = excluded.date,
			updated_at = excluded.updated_at`,
		t.ID, t.AccountID, t.WalletID, t.Amount.String(), t.Type, t.Category,
		t.Description, t.Date.Unix(), t.CreatedAt.Unix(), t.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (s *TransactionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NewNotFoundError("transaction %s not found", id)
	}
	return nil
}

func (s *TransactionStore) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM transactions WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check transaction existence: %w", err)
	}
	return true, nil
}
