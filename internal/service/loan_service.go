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

// LoanService manages peer loans, their interest and repayments.
type LoanService struct {
	loans storage.LoanRepository
	now   func() time.Time
}

// NewLoanService creates a new LoanService with the given storage backend.
func NewLoanService(store storage.Store) *LoanService {
	return &LoanService{
		loans: store.Loans(),
		now:   time.Now,
	}
}

// CreateLoanParams carries the caller-supplied fields for CreateLoan.
type CreateLoanParams struct {
	AccountID          string
	Type               models.LoanType
	Counterpart        string
	CounterpartContact string
	Amount             decimal.Decimal
	InterestRate       decimal.Decimal
	StartDate          time.Time
	DueDate            time.Time
	Description        string
}

// CreateLoan validates and persists a new active loan.
func (s *LoanService) CreateLoan(ctx context.Context, p CreateLoanParams) (models.Loan, error) {
	loan, err := models.NewLoan(models.NewLoanParams{
		AccountID:          p.AccountID,
		Type:               p.Type,
		Counterpart:        p.Counterpart,
		CounterpartContact: p.CounterpartContact,
		Amount:             p.Amount,
		InterestRate:       p.InterestRate,
		StartDate:          p.StartDate,
		DueDate:            p.DueDate,
		Description:        p.Description,
	}, s.now())
	if err != nil {
		return models.Loan{}, err
	}

	if err := s.loans.Save(ctx, loan); err != nil {
		slog.Error("CreateLoan failed", "account_id", p.AccountID, "error", err)
		return models.Loan{}, err
	}
	slog.Info("Loan created",
		"loan_id", loan.ID,
		"type", loan.Type,
		"counterpart", loan.Counterpart,
		"amount", loan.Amount,
	)
	return loan, nil
}

// GetLoan returns the loan if it belongs to the account.
func (s *LoanService) GetLoan(ctx context.Context, accountID, loanID string) (models.Loan, error) {
	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		return models.Loan{}, err
	}
	if loan.AccountID != accountID {
		return models.Loan{}, models.NewNotFoundError("loan %s not found", loanID)
	}
	return loan, nil
}

// LoanFilter narrows ListLoans. The zero value lists everything.
type LoanFilter struct {
	// Type keeps only lent or borrowed loans when set.
	Type models.LoanType

	// OverdueOnly keeps only active loans already past due.
	OverdueOnly bool

	// Search keeps loans whose counterpart or description contains the
	// term, case-insensitively.
	Search string
}

func (f LoanFilter) matches(l models.Loan) bool {
	if f.Type != "" && l.Type != f.Type {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(l.Counterpart), term) &&
			!strings.Contains(strings.ToLower(l.Description), term) {
			return false
		}
	}
	return true
}

// ListLoans returns the account's loans, newest first, optionally filtered.
func (s *LoanService) ListLoans(ctx context.Context, accountID string, filter LoanFilter) ([]models.Loan, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, models.NewValidationError("invalid loan type %q", filter.Type)
	}

	var loans []models.Loan
	var err error
	if filter.OverdueOnly {
		loans, err = s.loans.FindOverdue(ctx, accountID, s.now())
	} else if filter.Type != "" {
		loans, err = s.loans.FindByType(ctx, accountID, filter.Type)
	} else {
		loans, err = s.loans.FindByAccountID(ctx, accountID)
	}
	if err != nil {
		return nil, err
	}
	if filter.Type == "" && filter.Search == "" {
		return loans, nil
	}

	filtered := loans[:0]
	for _, l := range loans {
		if filter.matches(l) {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}

// MakeLoanPayment applies a repayment toward the loan's outstanding total.
func (s *LoanService) MakeLoanPayment(ctx context.Context, accountID, loanID string, amount decimal.Decimal) (models.Loan, error) {
	loan, err := s.GetLoan(ctx, accountID, loanID)
	if err != nil {
		return models.Loan{}, err
	}

	paid, err := loan.MakePayment(amount, s.now())
	if err != nil {
		return models.Loan{}, err
	}
	if err := s.loans.Save(ctx, paid); err != nil {
		slog.Error("MakeLoanPayment failed", "loan_id", loanID, "error", err)
		return models.Loan{}, err
	}

	slog.Info("Loan payment recorded",
		"loan_id", loanID,
		"amount", amount,
		"status", paid.Status,
	)
	return paid, nil
}

// DeleteLoan removes a loan.
func (s *LoanService) DeleteLoan(ctx context.Context, accountID, loanID string) error {
	if _, err := s.GetLoan(ctx, accountID, loanID); err != nil {
		return err
	}
	if err := s.loans.Delete(ctx, loanID); err != nil {
		slog.Error("DeleteLoan failed", "loan_id", loanID, "error", err)
		return err
	}
	return nil
}

// LoanSummary aggregates the account's loan book at one point in time.
type LoanSummary struct {
	// TotalLent is the outstanding amount across active lent loans,
	// interest included.
	TotalLent decimal.Decimal `json:"total_lent"`

	// TotalBorrowed is the outstanding amount across active borrowed
	// loans, interest included.
	TotalBorrowed decimal.Decimal `json:"total_borrowed"`

	ActiveLentCount     int `json:"active_lent_count"`
	ActiveBorrowedCount int `json:"active_borrowed_count"`
	OverdueCount        int `json:"overdue_count"`
}

// Summarize computes the loan summary for the account as of now.
func (s *LoanService) Summarize(ctx context.Context, accountID string) (LoanSummary, error) {
	now := s.now()
	loans, err := s.loans.FindByAccountID(ctx, accountID)
	if err != nil {
		return LoanSummary{}, err
	}

	summary := LoanSummary{
		TotalLent:     decimal.Zero,
		TotalBorrowed: decimal.Zero,
	}
	for _, l := range loans {
		if l.Status != models.LoanActive {
			continue
		}
		remaining := l.RemainingAt(now)
		switch l.Type {
		case models.LoanLent:
			summary.TotalLent = summary.TotalLent.Add(remaining)
			summary.ActiveLentCount++
		case models.LoanBorrowed:
			summary.TotalBorrowed = summary.TotalBorrowed.Add(remaining)
			summary.ActiveBorrowedCount++
		}
		if l.IsOverdue(now) {
			summary.OverdueCount++
		}
	}
	return summary, nil
}
