package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanType distinguishes money lent to someone from money borrowed.
type LoanType string

const (
	LoanLent     LoanType = "lent"
	LoanBorrowed LoanType = "borrowed"
)

// Valid reports whether t is a known loan type.
func (t LoanType) Valid() bool {
	return t == LoanLent || t == LoanBorrowed
}

// LoanStatus is the persisted lifecycle state of a loan. The only stored
// transition is active -> paid; overdue is never persisted, it is derived
// on demand via IsOverdue.
type LoanStatus string

const (
	LoanActive LoanStatus = "active"
	LoanPaid   LoanStatus = "paid"
)

// Loan is a peer loan with simple monthly interest and partial payments.
// Interest uses a flat 30-day month (principal × rate × days/30 ÷ 100),
// deliberately not calendar-accurate. Methods return a modified copy; the
// receiver is never mutated.
type Loan struct {
	// ID is the unique identifier for the loan (UUID format).
	ID string `json:"id"`

	// AccountID is the owning account.
	AccountID string `json:"account_id"`

	// Type is lent or borrowed.
	Type LoanType `json:"type"`

	// Counterpart is the other party's name.
	Counterpart string `json:"counterpart"`

	// CounterpartContact is an optional phone/email.
	CounterpartContact string `json:"counterpart_contact,omitempty"`

	// Amount is the principal. Always positive.
	Amount decimal.Decimal `json:"amount"`

	// InterestRate is the simple interest rate in percent per month.
	// Zero means an interest-free loan.
	InterestRate decimal.Decimal `json:"interest_rate"`

	// StartDate is when the loan was handed over.
	StartDate time.Time `json:"start_date"`

	// DueDate is when the loan should be repaid. Always after StartDate.
	DueDate time.Time `json:"due_date"`

	// Description is the human-readable note.
	Description string `json:"description"`

	// Status is active or paid. See LoanStatus.
	Status LoanStatus `json:"status"`

	// PaidAmount is the cumulative repayment. Clamped so it never exceeds
	// the total (principal + interest) at payment time.
	PaidAmount decimal.Decimal `json:"paid_amount"`

	// PaidAt is when the loan became fully paid; nil while active.
	PaidAt *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLoanParams carries the caller-supplied fields for NewLoan.
type NewLoanParams struct {
	AccountID          string
	Type               LoanType
	Counterpart        string
	CounterpartContact string
	Amount             decimal.Decimal
	InterestRate       decimal.Decimal
	StartDate          time.Time
	DueDate            time.Time
	Description        string
}

// NewLoan validates the parameters and constructs an active loan with no
// repayments.
func NewLoan(p NewLoanParams, now time.Time) (Loan, error) {
	counterpart := strings.TrimSpace(p.Counterpart)
	if counterpart == "" {
		return Loan{}, NewValidationError("counterpart name is required")
	}
	if p.AccountID == "" {
		return Loan{}, NewValidationError("account id is required")
	}
	if !p.Type.Valid() {
		return Loan{}, NewValidationError("invalid loan type %q", p.Type)
	}
	if !p.Amount.IsPositive() {
		return Loan{}, NewValidationError("loan amount must be positive")
	}
	if p.InterestRate.IsNegative() {
		return Loan{}, NewValidationError("interest rate cannot be negative")
	}
	if !p.DueDate.After(p.StartDate) {
		return Loan{}, NewInvalidStateError("due date must be after start date")
	}
	description := strings.TrimSpace(p.Description)
	if description == "" {
		return Loan{}, NewValidationError("loan description is required")
	}

	return Loan{
		ID:                 uuid.New().String(),
		AccountID:          p.AccountID,
		Type:               p.Type,
		Counterpart:        counterpart,
		CounterpartContact: strings.TrimSpace(p.CounterpartContact),
		Amount:             p.Amount,
		InterestRate:       p.InterestRate,
		StartDate:          p.StartDate,
		DueDate:            p.DueDate,
		Description:        description,
		Status:             LoanActive,
		PaidAmount:         decimal.Zero,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// InterestAt computes the simple interest accrued from StartDate to asOf:
// principal × rate × (days/30) ÷ 100, with whole days elapsed. The flat
// 30-day month is an intentional simplification. A loan whose start date is
// still in the future has accrued nothing yet.
func (l Loan) InterestAt(asOf time.Time) decimal.Decimal {
	if l.InterestRate.IsZero() {
		return decimal.Zero
	}
	days := int64(asOf.Sub(l.StartDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	months := decimal.NewFromInt(days).Div(decimal.NewFromInt(30))
	return l.Amount.Mul(l.InterestRate).Mul(months).Div(decimal.NewFromInt(100))
}

// TotalAt is the principal plus interest accrued through asOf.
func (l Loan) TotalAt(asOf time.Time) decimal.Decimal {
	return l.Amount.Add(l.InterestAt(asOf))
}

// RemainingAt is the outstanding amount through asOf.
func (l Loan) RemainingAt(asOf time.Time) decimal.Decimal {
	return l.TotalAt(asOf).Sub(l.PaidAmount)
}

// PaymentProgress is the percentage of the total (as of asOf) already paid.
// Returns 0 when the total is zero rather than dividing by zero.
func (l Loan) PaymentProgress(asOf time.Time) float64 {
	total := l.TotalAt(asOf)
	if !total.IsPositive() {
		return 0
	}
	progress, _ := l.PaidAmount.Div(total).Mul(decimal.NewFromInt(100)).Float64()
	return progress
}

// IsOverdue reports whether the loan is past due and still active. Pure
// predicate; it never mutates Status.
func (l Loan) IsOverdue(now time.Time) bool {
	return now.After(l.DueDate) && l.Status == LoanActive
}

// MakePayment returns a copy with amount applied toward the outstanding
// total. The total is recomputed at payment time, so partial payments
// against an interest-bearing loan chase a moving target. The cumulative
// paid amount is clamped at that total; reaching it transitions the loan to
// paid, after which further payments are rejected.
func (l Loan) MakePayment(amount decimal.Decimal, now time.Time) (Loan, error) {
	if l.Status != LoanActive {
		return Loan{}, NewInvalidStateError("loan %s cannot be paid in status %q", l.ID, l.Status)
	}
	if !amount.IsPositive() {
		return Loan{}, NewValidationError("payment amount must be positive")
	}

	total := l.TotalAt(now)
	paid := decimal.Min(l.PaidAmount.Add(amount), total)

	l.PaidAmount = paid
	l.UpdatedAt = now
	if paid.GreaterThanOrEqual(total) {
		paidAt := now
		l.Status = LoanPaid
		l.PaidAt = &paidAt
	}
	return l, nil
}
