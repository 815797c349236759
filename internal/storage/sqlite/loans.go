package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lnvinh/moneykeeper/internal/models"
)

// LoanStore implements storage.LoanRepository using SQLite.
type LoanStore struct {
	db *sql.DB
}

const loanColumns = "id, account_id, type, counterpart, counterpart_contact, amount, interest_rate, start_date, due_date, description, status, paid_amount, paid_at, created_at, updated_at"

func scanLoan(scanner interface{ Scan(...any) error }) (models.Loan, error) {
	var l models.Loan
	var amount, rate, paidAmount string
	var startDate, dueDate, createdAt, updatedAt int64
	var paidAt sql.NullInt64
	err := scanner.Scan(&l.ID, &l.AccountID, &l.Type, &l.Counterpart,
		&l.CounterpartContact, &amount, &rate, &startDate, &dueDate,
		&l.Description, &l.Status, &paidAmount, &paidAt, &createdAt, &updatedAt)
	if err != nil {
		return models.Loan{}, err
	}
	if l.Amount, err = scanDecimal(amount); err != nil {
		return models.Loan{}, err
	}
	if l.InterestRate, err = scanDecimal(rate); err != nil {
		return models.Loan{}, err
	}
	if l.PaidAmount, err = scanDecimal(paidAmount); err != nil {
		return models.Loan{}, err
	}
	l.StartDate = unixTime(startDate)
	l.DueDate = unixTime(dueDate)
	l.PaidAt = nullTime(paidAt)
	l.CreatedAt = unixTime(createdAt)
	l.UpdatedAt = unixTime(updatedAt)
	return l, nil
}

func (s *LoanStore) FindByID(ctx context.Context, id string) (models.Loan, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+loanColumns+" FROM loans WHERE id = ?", id)
	l, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return models.Loan{}, models.NewNotFoundError("loan %s not found", id)
	}
	if err != nil {
		return models.Loan{}, fmt.Errorf("failed to get loan: %w", err)
	}
	return l, nil
}

func (s *LoanStore) queryMany(ctx context.Context, where string, args ...any) ([]models.Loan, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+loanColumns+" FROM loans WHERE "+where+" ORDER BY start_date DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}
	return loans, nil
}

func (s *LoanStore) FindByAccountID(ctx context.Context, accountID string) ([]models.Loan, error) {
	return s.queryMany(ctx, "account_id = ?", accountID)
}

func (s *LoanStore) FindByType(ctx context.Context, accountID string, typ models.LoanType) ([]models.Loan, error) {
	return s.queryMany(ctx, "account_id = ? AND type = ?", accountID, typ)
}

func (s *LoanStore) FindOverdue(ctx context.Context, accountID string, asOf time.Time) ([]models.Loan, error) {
	// Overdue is derived: active status plus a due date strictly before asOf.
	return s.queryMany(ctx, "account_id = ? AND status = ? AND due_date < ?",
		accountID, models.LoanActive, asOf.Unix())
}

func (s *LoanStore) Save(ctx context.Context, l models.Loan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loans (`+loanColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			counterpart = excluded.counterpart,
			counterpart_contact = excluded.counterpart_contact,
			amount = excluded.amount,
			interest_rate = excluded.interest_rate,
			start_date = excluded.start_date,
			due_date = excluded.due_date,
			description = excluded.description,
			status = excluded.status,
			paid_amount = excluded.paid_amount,
			paid_at = excluded.paid_at,
			updated_at = excluded.updated_at`,
		l.ID, l.AccountID, l.Type, l.Counterpart, l.CounterpartContact,
		l.Amount.String(), l.InterestRate.String(), l.StartDate.Unix(),
		l.DueDate.Unix(), l.Description, l.Status, l.PaidAmount.String(),
		timePtrToNull(l.PaidAt), l.CreatedAt.Unix(), l.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}
	return nil
}

func (s *LoanStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM loans WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NewNotFoundError("loan %s not found", id)
	}
	return nil
}

func (s *LoanStore) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM loans WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check loan existence: %w", err)
	}
	return true, nil
}
