package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lnvinh/moneykeeper/internal/models"
)

// newTransactionService wires a TransactionService and a WalletService to
// the same in-memory store with a fixed clock.
func newTransactionService() (*TransactionService, *WalletService) {
	wallets, store := newWalletService()
	svc := NewTransactionService(store)
	svc.now = func() time.Time { return testNow }
	return svc, wallets
}

func TestCreateTransaction_AdjustsWalletBalance(t *testing.T) {
	svc, wallets := newTransactionService()
	ctx := context.Background()
	wallet := mustCreateWallet(t, wallets, "Cash", 100000)

	tx, err := svc.CreateTransaction(ctx, CreateTransactionParams{
		AccountID:   testAccountID,
		WalletID:    wallet.ID,
		Amount:      decimal.NewFromInt(30000),
		Type:        models.TransactionExpense,
		Category:    "food",
		Description: "Lunch",
		Date:        testNow,
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(-30000)) {
		t.Errorf("stored amount: got %s, want -30000", tx.Amount)
	}

	got, err := wallets.GetWallet(ctx, testAccountID, wallet.ID)
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(70000)) {
		t.Errorf("balance after expense: got %s, want 70000", got.Balance)
	}
}

func TestCreateTransaction_InsufficientBalance(t *testing.T) {
	svc, wallets := newTransactionService()
	ctx := context.Background()
	wallet := mustCreateWallet(t, wallets, "Cash", 10000)

	_, err := svc.CreateTransaction(ctx, CreateTransactionParams{
		AccountID:   testAccountID,
		WalletID:    wallet.ID,
		Amount:      decimal.NewFromInt(25000),
		Type:        models.TransactionExpense,
		Category:    "food",
		Description: "Too expensive",
		Date:        testNow,
	})
	if !models.IsInsufficientBalance(err) {
		t.Fatalf("expected insufficient-balance error, got %v", err)
	}

	// Nothing must be persisted when the balance check fails.
	got, err := wallets.GetWallet(ctx, testAccountID, wallet.ID)
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("balance changed on rejected transaction: got %s", got.Balance)
	}
	txs, err := svc.ListTransactions(ctx, testAccountID, TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("expected no transactions persisted, got %d", len(txs))
	}
}

func TestCreateTransaction_ForeignWallet(t *testing.T) {
	svc, wallets := newTransactionService()
	wallet := mustCreateWallet(t, wallets, "Cash", 10000)

	_, err := svc.CreateTransaction(context.Background(), CreateTransactionParams{
		AccountID:   "someone-else",
		WalletID:    wallet.ID,
		Amount:      decimal.NewFromInt(1000),
		Type:        models.TransactionExpense,
		Category:    "food",
		Description: "Sneaky",
		Date:        testNow,
	})
	if !models.IsNotFound(err) {
		t.Errorf("expected not-found for foreign wallet, got %v", err)
	}
}

func TestCreateTransaction_FutureDate(t *testing.T) {
	svc, wallets := newTransactionService()
	wallet := mustCreateWallet(t, wallets, "Cash", 10000)

	_, err := svc.CreateTransaction(context.Background(), CreateTransactionParams{
		AccountID:   testAccountID,
		WalletID:    wallet.ID,
		Amount:      decimal.NewFromInt(1000),
		Type:        models.TransactionIncome,
		Category:    "salary",
		Description: "From the future",
		Date:        testNow.Add(time.Hour),
	})
	if !models.IsValidation(err) {
		t.Errorf("expected validation error for future date, got %v", err)
	}
}

func TestDeleteTransaction_RestoresBalance(t *testing.T) {
	svc, wallets := newTransactionService()
	ctx := context.Background()
	wallet := mustCreateWallet(t, wallets, "Cash", 100000)

	tx, err := svc.CreateTransaction(ctx, CreateTransactionParams{
		AccountID:   testAccountID,
		WalletID:    wallet.ID,
		Amount:      decimal.NewFromInt(30000),
		Type:        models.TransactionExpense,
		Category:    "food",
		Description: "Lunch",
		Date:        testNow,
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := svc.DeleteTransaction(ctx, testAccountID, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}

	got, err := wallets.GetWallet(ctx, testAccountID, wallet.ID)
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("balance after delete: got %s, want 100000", got.Balance)
	}
	if _, err := svc.GetTransaction(ctx, testAccountID, tx.ID); !models.IsNotFound(err) {
		t.Errorf("expected transaction gone, got %v", err)
	}
}

func TestDeleteTransaction_IncomeAlreadySpent(t *testing.T) {
	svc, wallets := newTransactionService()
	ctx := context.Background()
	wallet := mustCreateWallet(t, wallets, "Cash", 0)

	income, err := svc.CreateTransaction(ctx, CreateTransactionParams{
		AccountID:   testAccountID,
		WalletID:    wallet.ID,
		Amount:      decimal.NewFromInt(50000),
		Type:        models.TransactionIncome,
		Category:    "salary",
		Description: "Pay",
		Date:        testNow,
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, CreateTransactionParams{
		AccountID:   testAccountID,
		WalletID:    wallet.ID,
		Amount:      decimal.NewFromInt(40000),
		Type:        models.TransactionExpense,
		Category:    "shopping",
		Description: "Spent it",
		Date:        testNow,
	}); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	// Reversing the income would drive the balance to -30000.
	err = svc.DeleteTransaction(ctx, testAccountID, income.ID)
	if !models.IsInsufficientBalance(err) {
		t.Fatalf("expected insufficient-balance error, got %v", err)
	}

	got, err := wallets.GetWallet(ctx, testAccountID, wallet.ID)
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("balance changed on rejected delete: got %s", got.Balance)
	}
}

func TestUpdateTransaction_LeavesBalanceUntouched(t *testing.T) {
	svc, wallets := newTransactionService()
	ctx := context.Background()
	wallet := mustCreateWallet(t, wallets, "Cash", 100000)

	tx, err := svc.CreateTransaction(ctx, CreateTransactionParams{
		AccountID:   testAccountID,
		WalletID:    wallet.ID,
		Amount:      decimal.NewFromInt(30000),
		Type:        models.TransactionExpense,
		Category:    "food",
		Description: "Lunch",
		Date:        testNow,
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	updated, err := svc.UpdateTransaction(ctx, testAccountID, tx.ID, UpdateTransactionParams{
		Description: "  Team lunch  ",
		Category:    "work",
	})
	if err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}
	if updated.Description != "Team lunch" {
		t.Errorf("description: got %q, want %q", updated.Description, "Team lunch")
	}
	if updated.Category != "work" {
		t.Errorf("category: got %q, want %q", updated.Category, "work")
	}
	if !updated.Amount.Equal(tx.Amount) {
		t.Errorf("amount changed on update: got %s, want %s", updated.Amount, tx.Amount)
	}

	got, err := wallets.GetWallet(ctx, testAccountID, wallet.ID)
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(70000)) {
		t.Errorf("balance after update: got %s, want 70000", got.Balance)
	}

	persisted, err := svc.GetTransaction(ctx, testAccountID, tx.ID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if persisted.Description != "Team lunch" || persisted.Category != "work" {
		t.Errorf("update not persisted: got %q/%q", persisted.Description, persisted.Category)
	}

	if _, err := svc.UpdateTransaction(ctx, testAccountID, tx.ID, UpdateTransactionParams{
		Description: "",
		Category:    "work",
	}); !models.IsValidation(err) {
		t.Errorf("expected validation error for empty description, got %v", err)
	}
	if _, err := svc.UpdateTransaction(ctx, "someone-else", tx.ID, UpdateTransactionParams{
		Description: "Hijack",
		Category:    "work",
	}); !models.IsNotFound(err) {
		t.Errorf("expected not-found for foreign account, got %v", err)
	}
}

func TestListTransactions_Filters(t *testing.T) {
	svc, wallets := newTransactionService()
	ctx := context.Background()
	wallet := mustCreateWallet(t, wallets, "Cash", 100000)

	seed := []struct {
		typ      models.TransactionType
		category string
		desc     string
	}{
		{models.TransactionIncome, "salary", "Monthly pay"},
		{models.TransactionExpense, "food", "Pho for lunch"},
		{models.TransactionExpense, "transport", "Bus fare"},
	}
	for _, s := range seed {
		if _, err := svc.CreateTransaction(ctx, CreateTransactionParams{
			AccountID:   testAccountID,
			WalletID:    wallet.ID,
			Amount:      decimal.NewFromInt(1000),
			Type:        s.typ,
			Category:    s.category,
			Description: s.desc,
			Date:        testNow,
		}); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter TransactionFilter
		want   int
	}{
		{"no filter", TransactionFilter{}, 3},
		{"by type", TransactionFilter{Type: models.TransactionExpense}, 2},
		{"by category", TransactionFilter{Category: "salary"}, 1},
		{"search matches description", TransactionFilter{Search: "pho"}, 1},
		{"search matches category", TransactionFilter{Search: "transp"}, 1},
		{"type and search", TransactionFilter{Type: models.TransactionExpense, Search: "pay"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListTransactions(ctx, testAccountID, tt.filter)
			if err != nil {
				t.Fatalf("ListTransactions failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d transactions, want %d", len(got), tt.want)
			}
		})
	}

	if _, err := svc.ListTransactions(ctx, testAccountID, TransactionFilter{Type: "transfer"}); !models.IsValidation(err) {
		t.Errorf("expected validation error for unknown type, got %v", err)
	}
}

func TestListByDateRange(t *testing.T) {
	svc, wallets := newTransactionService()
	ctx := context.Background()
	wallet := mustCreateWallet(t, wallets, "Cash", 0)

	dates := []time.Time{
		testNow.Add(-72 * time.Hour),
		testNow.Add(-48 * time.Hour),
		testNow.Add(-24 * time.Hour),
	}
	for _, date := range dates {
		if _, err := svc.CreateTransaction(ctx, CreateTransactionParams{
			AccountID:   testAccountID,
			WalletID:    wallet.ID,
			Amount:      decimal.NewFromInt(1000),
			Type:        models.TransactionIncome,
			Category:    "salary",
			Description: "Pay",
			Date:        date,
		}); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	ranged, err := svc.ListByDateRange(ctx, testAccountID, dates[0], dates[1])
	if err != nil {
		t.Fatalf("ListByDateRange failed: %v", err)
	}
	if len(ranged) != 2 {
		t.Errorf("expected 2 transactions in range, got %d", len(ranged))
	}

	if _, err := svc.ListByDateRange(ctx, testAccountID, dates[1], dates[0]); !models.IsValidation(err) {
		t.Errorf("expected validation error for inverted range, got %v", err)
	}
}
