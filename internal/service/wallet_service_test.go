package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lnvinh/moneykeeper/internal/models"
	"github.com/lnvinh/moneykeeper/internal/storage/memory"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

const testAccountID = "acc-test"

// newWalletService wires a WalletService to a fresh in-memory store with a
// fixed clock.
func newWalletService() (*WalletService, *memory.Store) {
	store := memory.New()
	svc := NewWalletService(store)
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func mustCreateWallet(t *testing.T, svc *WalletService, name string, balance int64) models.Wallet {
	t.Helper()
	wallet, err := svc.CreateWallet(context.Background(), CreateWalletParams{
		AccountID: testAccountID,
		Name:      name,
		Type:      models.WalletCash,
		Balance:   decimal.NewFromInt(balance),
		Currency:  models.CurrencyVND,
	})
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}
	return wallet
}

func TestCreateWallet(t *testing.T) {
	svc, _ := newWalletService()
	ctx := context.Background()

	wallet := mustCreateWallet(t, svc, "Cash", 100000)
	if wallet.ID == "" {
		t.Error("expected wallet ID to be generated")
	}
	if !wallet.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt: got %v, want %v", wallet.CreatedAt, testNow)
	}

	got, err := svc.GetWallet(ctx, testAccountID, wallet.ID)
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("Balance: got %s, want 100000", got.Balance)
	}
}

func TestCreateWallet_Invalid(t *testing.T) {
	svc, _ := newWalletService()

	_, err := svc.CreateWallet(context.Background(), CreateWalletParams{
		AccountID: testAccountID,
		Name:      "Bad",
		Type:      "piggy-bank",
		Balance:   decimal.Zero,
		Currency:  models.CurrencyVND,
	})
	if !models.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGetWallet_OtherAccount(t *testing.T) {
	svc, _ := newWalletService()
	wallet := mustCreateWallet(t, svc, "Cash", 0)

	_, err := svc.GetWallet(context.Background(), "someone-else", wallet.ID)
	if !models.IsNotFound(err) {
		t.Errorf("expected not-found for foreign wallet, got %v", err)
	}
}

func TestTotalBalance(t *testing.T) {
	svc, _ := newWalletService()
	mustCreateWallet(t, svc, "Cash", 100000)
	mustCreateWallet(t, svc, "Savings", 250000)

	total, err := svc.TotalBalance(context.Background(), testAccountID)
	if err != nil {
		t.Fatalf("TotalBalance failed: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(350000)) {
		t.Errorf("TotalBalance: got %s, want 350000", total)
	}
}

func TestDeleteWallet_RequiresZeroBalance(t *testing.T) {
	svc, _ := newWalletService()
	ctx := context.Background()

	funded := mustCreateWallet(t, svc, "Funded", 5000)
	err := svc.DeleteWallet(ctx, testAccountID, funded.ID)
	if !models.IsInvalidState(err) {
		t.Errorf("expected invalid-state for funded wallet, got %v", err)
	}

	empty := mustCreateWallet(t, svc, "Empty", 0)
	if err := svc.DeleteWallet(ctx, testAccountID, empty.ID); err != nil {
		t.Fatalf("DeleteWallet failed: %v", err)
	}
	if _, err := svc.GetWallet(ctx, testAccountID, empty.ID); !models.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
}

func TestRenameWallet(t *testing.T) {
	svc, _ := newWalletService()
	ctx := context.Background()
	wallet := mustCreateWallet(t, svc, "Old Name", 0)

	renamed, err := svc.RenameWallet(ctx, testAccountID, wallet.ID, "  New Name  ")
	if err != nil {
		t.Fatalf("RenameWallet failed: %v", err)
	}
	if renamed.Name != "New Name" {
		t.Errorf("Name: got %q, want %q", renamed.Name, "New Name")
	}

	if _, err := svc.RenameWallet(ctx, testAccountID, wallet.ID, "   "); !models.IsValidation(err) {
		t.Errorf("expected validation error for blank name, got %v", err)
	}
}
