package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lnvinh/moneykeeper/internal/models"
)

// AccountStore implements storage.AccountRepository using SQLite.
type AccountStore struct {
	db *sql.DB
}

const accountColumns = "id, name, email, password_hash, created_at"

func scanAccount(scanner interface{ Scan(...any) error }) (*models.Account, error) {
	a := &models.Account{}
	var createdAt int64
	err := scanner.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &createdAt)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = unixTime(createdAt)
	return a, nil
}

// CreateAccount inserts a new account. Registering an email twice is a
// validation error.
func (s *AccountStore) CreateAccount(ctx context.Context, account *models.Account) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM accounts WHERE email = ?", account.Email).Scan(&one)
	if err == nil {
		return models.NewValidationError("email %s is already registered", account.Email)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check account email: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO accounts ("+accountColumns+") VALUES (?, ?, ?, ?, ?)",
		account.ID, account.Name, account.Email, account.PasswordHash,
		account.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *AccountStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email = ?", email)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("account with email %s not found", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return a, nil
}

func (s *AccountStore) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ?", id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("account %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}
	return a, nil
}
