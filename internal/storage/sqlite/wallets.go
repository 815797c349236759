package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lnvinh/moneykeeper/internal/models"
)

// WalletStore implements storage.WalletRepository using SQLite.
type WalletStore struct {
	db *sql.DB
}

const walletColumns = "id, account_id, name, type, balance, currency, bank_info, color, created_at, updated_at"

func scanWallet(scanner interface{ Scan(...any) error }) (models.Wallet, error) {
	var w models.Wallet
	var balance string
	var createdAt, updatedAt int64
	err := scanner.Scan(&w.ID, &w.AccountID, &w.Name, &w.Type, &balance,
		&w.Currency, &w.BankInfo, &w.Color, &createdAt, &updatedAt)
	if err != nil {
		return models.Wallet{}, err
	}
	if w.Balance, err = scanDecimal(balance); err != nil {
		return models.Wallet{}, err
	}
	w.CreatedAt = unixTime(createdAt)
	w.UpdatedAt = unixTime(updatedAt)
	return w, nil
}

func (s *WalletStore) FindByID(ctx context.Context, id string) (models.Wallet, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+walletColumns+" FROM wallets WHERE id = ?", id)
	w, err := scanWallet(row)
	if err == sql.ErrNoRows {
		return models.Wallet{}, models.NewNotFoundError("wallet %s not found", id)
	}
	if err != nil {
		return models.Wallet{}, fmt.Errorf("failed to get wallet: %w", err)
	}
	return w, nil
}

func (s *WalletStore) FindByAccountID(ctx context.Context, accountID string) ([]models.Wallet, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+walletColumns+" FROM wallets WHERE account_id = ? ORDER BY created_at DESC",
		accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallets: %w", err)
	}
	return wallets, nil
}

func (s *WalletStore) Save(ctx context.Context, w models.Wallet) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wallets (`+walletColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			balance = excluded.balance,
			currency = excluded.currency,
			bank_info = excluded.bank_info,
			color = excluded.color,
			updated_at = excluded.updated_at`,
		w.ID, w.AccountID, w.Name, w.Type, w.Balance.String(), w.Currency,
		w.BankInfo, w.Color, w.CreatedAt.Unix(), w.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	return nil
}

func (s *WalletStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM wallets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NewNotFoundError("wallet %s not found", id)
	}
	return nil
}

func (s *WalletStore) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM wallets WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check wallet existence: %w", err)
	}
	return true, nil
}

func (s *WalletStore) TotalBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	// Balances are stored as decimal text, so the sum happens in Go rather
	// than in SQL.
	rows, err := s.db.QueryContext(ctx,
		"SELECT balance FROM wallets WHERE account_id = ?", accountID)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Decimal{}, fmt.Errorf("failed to scan balance: %w", err)
		}
		balance, err := scanDecimal(raw)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(balance)
	}
	if err := rows.Err(); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to iterate balances: %w", err)
	}
	return total, nil
}
