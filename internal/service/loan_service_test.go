package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lnvinh/moneykeeper/internal/models"
	"github.com/lnvinh/moneykeeper/internal/storage/memory"
)

func newLoanService() *LoanService {
	svc := NewLoanService(memory.New())
	svc.now = func() time.Time { return testNow }
	return svc
}

func mustCreateLoan(t *testing.T, svc *LoanService, p CreateLoanParams) models.Loan {
	t.Helper()
	if p.AccountID == "" {
		p.AccountID = testAccountID
	}
	if p.Description == "" {
		p.Description = "Test loan"
	}
	loan, err := svc.CreateLoan(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateLoan failed: %v", err)
	}
	return loan
}

func TestCreateLoan(t *testing.T) {
	svc := newLoanService()

	loan := mustCreateLoan(t, svc, CreateLoanParams{
		Type:         models.LoanLent,
		Counterpart:  "Minh",
		Amount:       decimal.NewFromInt(1000000),
		InterestRate: decimal.NewFromInt(2),
		StartDate:    testNow,
		DueDate:      testNow.Add(60 * 24 * time.Hour),
	})
	if loan.Status != models.LoanActive {
		t.Errorf("Status: got %s, want active", loan.Status)
	}
	if !loan.PaidAmount.IsZero() {
		t.Errorf("PaidAmount: got %s, want 0", loan.PaidAmount)
	}
}

func TestMakeLoanPayment_FullLifecycle(t *testing.T) {
	svc := newLoanService()
	ctx := context.Background()

	// 1,000,000 at 2% per month, taken out 30 days ago: total is
	// 1,020,000 as of now.
	loan := mustCreateLoan(t, svc, CreateLoanParams{
		Type:         models.LoanBorrowed,
		Counterpart:  "Minh",
		Amount:       decimal.NewFromInt(1000000),
		InterestRate: decimal.NewFromInt(2),
		StartDate:    testNow.Add(-30 * 24 * time.Hour),
		DueDate:      testNow.Add(30 * 24 * time.Hour),
	})

	partial, err := svc.MakeLoanPayment(ctx, testAccountID, loan.ID, decimal.NewFromInt(500000))
	if err != nil {
		t.Fatalf("MakeLoanPayment failed: %v", err)
	}
	if partial.Status != models.LoanActive {
		t.Errorf("Status after partial payment: got %s, want active", partial.Status)
	}
	if !partial.RemainingAt(testNow).Equal(decimal.NewFromInt(520000)) {
		t.Errorf("Remaining: got %s, want 520000", partial.RemainingAt(testNow))
	}

	// Overpay: the cumulative paid amount clamps at the total.
	paid, err := svc.MakeLoanPayment(ctx, testAccountID, loan.ID, decimal.NewFromInt(9000000))
	if err != nil {
		t.Fatalf("MakeLoanPayment failed: %v", err)
	}
	if paid.Status != models.LoanPaid {
		t.Errorf("Status: got %s, want paid", paid.Status)
	}
	if !paid.PaidAmount.Equal(decimal.NewFromInt(1020000)) {
		t.Errorf("PaidAmount: got %s, want 1020000", paid.PaidAmount)
	}
	if paid.PaidAt == nil {
		t.Error("PaidAt should be set")
	}

	if _, err := svc.MakeLoanPayment(ctx, testAccountID, loan.ID, decimal.NewFromInt(1)); !models.IsInvalidState(err) {
		t.Errorf("expected invalid-state on paid loan, got %v", err)
	}
}

func TestListLoans_Filters(t *testing.T) {
	svc := newLoanService()
	ctx := context.Background()

	mustCreateLoan(t, svc, CreateLoanParams{
		Type:        models.LoanLent,
		Counterpart: "Late",
		Amount:      decimal.NewFromInt(500),
		StartDate:   testNow.Add(-60 * 24 * time.Hour),
		DueDate:     testNow.Add(-24 * time.Hour),
	})
	mustCreateLoan(t, svc, CreateLoanParams{
		Type:        models.LoanLent,
		Counterpart: "OnTime",
		Amount:      decimal.NewFromInt(500),
		StartDate:   testNow.Add(-10 * 24 * time.Hour),
		DueDate:     testNow.Add(24 * time.Hour),
	})
	mustCreateLoan(t, svc, CreateLoanParams{
		Type:        models.LoanBorrowed,
		Counterpart: "Bank",
		Amount:      decimal.NewFromInt(2000),
		StartDate:   testNow.Add(-5 * 24 * time.Hour),
		DueDate:     testNow.Add(30 * 24 * time.Hour),
	})

	all, err := svc.ListLoans(ctx, testAccountID, LoanFilter{})
	if err != nil {
		t.Fatalf("ListLoans failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 loans, got %d", len(all))
	}
	// Newest start date first.
	if all[0].Counterpart != "Bank" {
		t.Errorf("first loan: got %s, want Bank", all[0].Counterpart)
	}

	lent, err := svc.ListLoans(ctx, testAccountID, LoanFilter{Type: models.LoanLent})
	if err != nil {
		t.Fatalf("ListLoans failed: %v", err)
	}
	if len(lent) != 2 {
		t.Errorf("expected 2 lent loans, got %d", len(lent))
	}

	overdue, err := svc.ListLoans(ctx, testAccountID, LoanFilter{OverdueOnly: true})
	if err != nil {
		t.Fatalf("ListLoans failed: %v", err)
	}
	if len(overdue) != 1 || overdue[0].Counterpart != "Late" {
		t.Errorf("expected only the late loan, got %d", len(overdue))
	}

	byName, err := svc.ListLoans(ctx, testAccountID, LoanFilter{Search: "bank"})
	if err != nil {
		t.Fatalf("ListLoans failed: %v", err)
	}
	if len(byName) != 1 || byName[0].Counterpart != "Bank" {
		t.Errorf("expected the Bank loan, got %d", len(byName))
	}

	if _, err := svc.ListLoans(ctx, testAccountID, LoanFilter{Type: "mortgage"}); !models.IsValidation(err) {
		t.Errorf("expected validation error for unknown type, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	svc := newLoanService()
	ctx := context.Background()

	// Interest-free so outstanding amounts stay round.
	mustCreateLoan(t, svc, CreateLoanParams{
		Type:        models.LoanLent,
		Counterpart: "Late",
		Amount:      decimal.NewFromInt(300000),
		StartDate:   testNow.Add(-60 * 24 * time.Hour),
		DueDate:     testNow.Add(-24 * time.Hour),
	})
	mustCreateLoan(t, svc, CreateLoanParams{
		Type:        models.LoanBorrowed,
		Counterpart: "Bank",
		Amount:      decimal.NewFromInt(1000000),
		StartDate:   testNow.Add(-10 * 24 * time.Hour),
		DueDate:     testNow.Add(30 * 24 * time.Hour),
	})
	settled := mustCreateLoan(t, svc, CreateLoanParams{
		Type:        models.LoanLent,
		Counterpart: "Done",
		Amount:      decimal.NewFromInt(50000),
		StartDate:   testNow.Add(-20 * 24 * time.Hour),
		DueDate:     testNow.Add(10 * 24 * time.Hour),
	})
	if _, err := svc.MakeLoanPayment(ctx, testAccountID, settled.ID, decimal.NewFromInt(50000)); err != nil {
		t.Fatalf("MakeLoanPayment failed: %v", err)
	}

	summary, err := svc.Summarize(ctx, testAccountID)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if !summary.TotalLent.Equal(decimal.NewFromInt(300000)) {
		t.Errorf("TotalLent: got %s, want 300000", summary.TotalLent)
	}
	if !summary.TotalBorrowed.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("TotalBorrowed: got %s, want 1000000", summary.TotalBorrowed)
	}
	if summary.ActiveLentCount != 1 || summary.ActiveBorrowedCount != 1 {
		t.Errorf("active counts: got %d lent, %d borrowed, want 1 and 1",
			summary.ActiveLentCount, summary.ActiveBorrowedCount)
	}
	if summary.OverdueCount != 1 {
		t.Errorf("OverdueCount: got %d, want 1", summary.OverdueCount)
	}
}

func TestDeleteLoan_OtherAccount(t *testing.T) {
	svc := newLoanService()
	loan := mustCreateLoan(t, svc, CreateLoanParams{
		Type:        models.LoanLent,
		Counterpart: "Minh",
		Amount:      decimal.NewFromInt(500),
		StartDate:   testNow,
		DueDate:     testNow.Add(24 * time.Hour),
	})

	if err := svc.DeleteLoan(context.Background(), "someone-else", loan.ID); !models.IsNotFound(err) {
		t.Errorf("expected not-found for foreign loan, got %v", err)
	}
}
