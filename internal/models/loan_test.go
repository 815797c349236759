package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validLoanParams() NewLoanParams {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return NewLoanParams{
		AccountID:    "acc-1",
		Type:         LoanLent,
		Counterpart:  "Anh Tuan",
		Amount:       decimal.NewFromInt(1000000),
		InterestRate: decimal.NewFromInt(2),
		StartDate:    start,
		DueDate:      start.AddDate(0, 0, 60),
		Description:  "Motorbike repair loan",
	}
}

func TestNewLoanValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*NewLoanParams)
		wantKind ErrorKind
	}{
		{name: "valid loan", mutate: func(p *NewLoanParams) {}},
		{
			name:     "blank counterpart rejected",
			mutate:   func(p *NewLoanParams) { p.Counterpart = "  " },
			wantKind: KindValidation,
		},
		{
			name:     "non-positive amount rejected",
			mutate:   func(p *NewLoanParams) { p.Amount = decimal.Zero },
			wantKind: KindValidation,
		},
		{
			name:     "negative interest rate rejected",
			mutate:   func(p *NewLoanParams) { p.InterestRate = decimal.NewFromInt(-1) },
			wantKind: KindValidation,
		},
		{
			name:     "due date equal to start rejected",
			mutate:   func(p *NewLoanParams) { p.DueDate = p.StartDate },
			wantKind: KindInvalidState,
		},
		{
			name:     "due date before start rejected",
			mutate:   func(p *NewLoanParams) { p.DueDate = p.StartDate.AddDate(0, 0, -1) },
			wantKind: KindInvalidState,
		},
		{
			name:     "blank description rejected",
			mutate:   func(p *NewLoanParams) { p.Description = "" },
			wantKind: KindValidation,
		},
		{
			name:     "unknown type rejected",
			mutate:   func(p *NewLoanParams) { p.Type = "gifted" },
			wantKind: KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validLoanParams()
			tt.mutate(&params)

			l, err := NewLoan(params, testNow)
			if tt.wantKind != 0 {
				if KindOf(err) != tt.wantKind {
					t.Errorf("error kind = %v (%v), want %v", KindOf(err), err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLoan failed: %v", err)
			}
			if l.Status != LoanActive {
				t.Errorf("status = %q, want active", l.Status)
			}
			if !l.PaidAmount.IsZero() {
				t.Errorf("paid amount = %s, want 0", l.PaidAmount)
			}
		})
	}
}

// The interest formula uses a flat 30-day month: principal × rate × days/30
// ÷ 100 with whole days elapsed. The approximation is intentional, so the
// expectations below are exact.
func TestLoanInterest(t *testing.T) {
	l, err := NewLoan(validLoanParams(), testNow)
	if err != nil {
		t.Fatalf("NewLoan failed: %v", err)
	}

	t.Run("one flat month", func(t *testing.T) {
		asOf := l.StartDate.AddDate(0, 0, 30)
		// 1,000,000 × 2 × (30/30) ÷ 100 = 20,000
		if got := l.InterestAt(asOf); !got.Equal(decimal.NewFromInt(20000)) {
			t.Errorf("InterestAt(+30d) = %s, want 20000", got)
		}
		if got := l.TotalAt(asOf); !got.Equal(decimal.NewFromInt(1020000)) {
			t.Errorf("TotalAt(+30d) = %s, want 1020000", got)
		}
		if got := l.RemainingAt(asOf); !got.Equal(decimal.NewFromInt(1020000)) {
			t.Errorf("RemainingAt(+30d) = %s, want 1020000", got)
		}
	})

	t.Run("partial days floor to whole days", func(t *testing.T) {
		// 15 days and 20 hours elapsed counts as 15 days.
		asOf := l.StartDate.AddDate(0, 0, 15).Add(20 * time.Hour)
		want := decimal.NewFromInt(10000) // 1,000,000 × 2 × (15/30) ÷ 100
		if got := l.InterestAt(asOf); !got.Equal(want) {
			t.Errorf("InterestAt(+15d20h) = %s, want %s", got, want)
		}
	})

	t.Run("future start date accrues nothing", func(t *testing.T) {
		asOf := l.StartDate.AddDate(0, 0, -10)
		if got := l.InterestAt(asOf); !got.IsZero() {
			t.Errorf("InterestAt before start = %s, want 0", got)
		}
		if got := l.TotalAt(asOf); !got.Equal(l.Amount) {
			t.Errorf("TotalAt before start = %s, want principal %s", got, l.Amount)
		}
	})

	t.Run("zero rate accrues nothing", func(t *testing.T) {
		params := validLoanParams()
		params.InterestRate = decimal.Zero
		free, err := NewLoan(params, testNow)
		if err != nil {
			t.Fatalf("NewLoan failed: %v", err)
		}
		asOf := free.StartDate.AddDate(0, 0, 365)
		if got := free.InterestAt(asOf); !got.IsZero() {
			t.Errorf("InterestAt = %s, want 0", got)
		}
		if got := free.TotalAt(asOf); !got.Equal(free.Amount) {
			t.Errorf("TotalAt = %s, want principal %s", got, free.Amount)
		}
	})
}

func TestLoanIsOverdue(t *testing.T) {
	l, err := NewLoan(validLoanParams(), testNow)
	if err != nil {
		t.Fatalf("NewLoan failed: %v", err)
	}

	if l.IsOverdue(l.DueDate) {
		t.Error("loan must not be overdue exactly at the due date")
	}
	if !l.IsOverdue(l.DueDate.Add(time.Second)) {
		t.Error("active loan past due date must be overdue")
	}

	// A paid loan is never overdue, and checking must not mutate status.
	paid, err := l.MakePayment(decimal.NewFromInt(2000000), l.DueDate.Add(time.Hour))
	if err != nil {
		t.Fatalf("MakePayment failed: %v", err)
	}
	if paid.IsOverdue(l.DueDate.AddDate(0, 0, 30)) {
		t.Error("paid loan must not be overdue")
	}
	if l.Status != LoanActive {
		t.Error("IsOverdue/MakePayment mutated the receiver")
	}
}

func TestLoanMakePayment(t *testing.T) {
	l, err := NewLoan(validLoanParams(), testNow)
	if err != nil {
		t.Fatalf("NewLoan failed: %v", err)
	}
	asOf := l.StartDate.AddDate(0, 0, 30) // total = 1,020,000

	t.Run("rejects non-positive amount", func(t *testing.T) {
		if _, err := l.MakePayment(decimal.Zero, asOf); !IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("partial payment stays active", func(t *testing.T) {
		paid, err := l.MakePayment(decimal.NewFromInt(500000), asOf)
		if err != nil {
			t.Fatalf("MakePayment failed: %v", err)
		}
		if paid.Status != LoanActive {
			t.Errorf("status = %q, want active", paid.Status)
		}
		if !paid.PaidAmount.Equal(decimal.NewFromInt(500000)) {
			t.Errorf("paid amount = %s, want 500000", paid.PaidAmount)
		}
		if paid.PaidAt != nil {
			t.Error("paid date must not be set while active")
		}
		if !paid.RemainingAt(asOf).Equal(decimal.NewFromInt(520000)) {
			t.Errorf("remaining = %s, want 520000", paid.RemainingAt(asOf))
		}
	})

	t.Run("overpayment clamps to the total and settles", func(t *testing.T) {
		paid, err := l.MakePayment(decimal.NewFromInt(9999999), asOf)
		if err != nil {
			t.Fatalf("MakePayment failed: %v", err)
		}
		if paid.Status != LoanPaid {
			t.Errorf("status = %q, want paid", paid.Status)
		}
		if !paid.PaidAmount.Equal(decimal.NewFromInt(1020000)) {
			t.Errorf("paid amount = %s, want clamped 1020000", paid.PaidAmount)
		}
		if paid.PaidAt == nil || !paid.PaidAt.Equal(asOf) {
			t.Errorf("paid date = %v, want %v", paid.PaidAt, asOf)
		}

		// Paid is terminal: further payments are rejected.
		if _, err := paid.MakePayment(decimal.NewFromInt(1), asOf); !IsInvalidState(err) {
			t.Errorf("expected invalid-state error, got %v", err)
		}
	})

	t.Run("interest is recomputed at each payment", func(t *testing.T) {
		// Pay 1,020,000 at +30d: exactly the total then, so the loan settles.
		paid, err := l.MakePayment(decimal.NewFromInt(1020000), asOf)
		if err != nil {
			t.Fatalf("MakePayment failed: %v", err)
		}
		if paid.Status != LoanPaid {
			t.Errorf("status = %q, want paid", paid.Status)
		}

		// The same amount at +60d is short: total has grown to 1,040,000.
		later := l.StartDate.AddDate(0, 0, 60)
		short, err := l.MakePayment(decimal.NewFromInt(1020000), later)
		if err != nil {
			t.Fatalf("MakePayment failed: %v", err)
		}
		if short.Status != LoanActive {
			t.Errorf("status = %q, want active (moving total)", short.Status)
		}
		if !short.RemainingAt(later).Equal(decimal.NewFromInt(20000)) {
			t.Errorf("remaining = %s, want 20000", short.RemainingAt(later))
		}
	})
}

func TestLoanPaymentProgress(t *testing.T) {
	params := validLoanParams()
	params.InterestRate = decimal.Zero
	l, err := NewLoan(params, testNow)
	if err != nil {
		t.Fatalf("NewLoan failed: %v", err)
	}
	asOf := l.StartDate.AddDate(0, 0, 10)

	half, err := l.MakePayment(decimal.NewFromInt(500000), asOf)
	if err != nil {
		t.Fatalf("MakePayment failed: %v", err)
	}
	if got := half.PaymentProgress(asOf); got != 50 {
		t.Errorf("progress = %v, want 50", got)
	}

	// Defensive zero-total guard.
	zero := Loan{}
	if got := zero.PaymentProgress(asOf); got != 0 {
		t.Errorf("zero-total progress = %v, want 0", got)
	}
}
