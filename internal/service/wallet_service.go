// Package service orchestrates the domain aggregates over the storage
// layer. Services own the clock: entity methods take explicit times, and
// every service resolves "now" through an injectable func so tests run on a
// fixed clock.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lnvinh/moneykeeper/internal/models"
	"github.com/lnvinh/moneykeeper/internal/storage"
)

// WalletService manages wallets and their balances.
type WalletService struct {
	wallets      storage.WalletRepository
	transactions storage.TransactionRepository
	now          func() time.Time
}

// NewWalletService creates a new WalletService with the given storage
// backend.
func NewWalletService(store storage.Store) *WalletService {
	return &WalletService{
		wallets:      store.Wallets(),
		transactions: store.Transactions(),
		now:          time.Now,
	}
}

// CreateWalletParams carries the caller-supplied fields for CreateWallet.
type CreateWalletParams struct {
	AccountID string
	Name      string
	Type      models.WalletType
	Balance   decimal.Decimal
	Currency  models.Currency
	BankInfo  string
	Color     string
}

// CreateWallet validates and persists a new wallet.
func (s *WalletService) CreateWallet(ctx context.Context, p CreateWalletParams) (models.Wallet, error) {
	wallet, err := models.NewWallet(models.NewWalletParams{
		AccountID: p.AccountID,
		Name:      p.Name,
		Type:      p.Type,
		Balance:   p.Balance,
		Currency:  p.Currency,
		BankInfo:  p.BankInfo,
		Color:     p.Color,
	}, s.now())
	if err != nil {
		return models.Wallet{}, err
	}

	if err := s.wallets.Save(ctx, wallet); err != nil {
		slog.Error("CreateWallet failed", "account_id", p.AccountID, "error", err)
		return models.Wallet{}, err
	}
	slog.Info("Wallet created", "wallet_id", wallet.ID, "account_id", wallet.AccountID)
	return wallet, nil
}

// GetWallet returns the wallet if it exists and belongs to the account.
// Wallets of other accounts are reported as not found rather than
// forbidden, so ids cannot be probed.
func (s *WalletService) GetWallet(ctx context.Context, accountID, walletID string) (models.Wallet, error) {
	wallet, err := s.wallets.FindByID(ctx, walletID)
	if err != nil {
		return models.Wallet{}, err
	}
	if wallet.AccountID != accountID {
		return models.Wallet{}, models.NewNotFoundError("wallet %s not found", walletID)
	}
	return wallet, nil
}

// ListWallets returns the account's wallets, newest first.
func (s *WalletService) ListWallets(ctx context.Context, accountID string) ([]models.Wallet, error) {
	return s.wallets.FindByAccountID(ctx, accountID)
}

// TotalBalance sums the balances of the account's wallets.
func (s *WalletService) TotalBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return s.wallets.TotalBalance(ctx, accountID)
}

// RenameWallet updates the wallet's display name.
func (s *WalletService) RenameWallet(ctx context.Context, accountID, walletID, name string) (models.Wallet, error) {
	wallet, err := s.GetWallet(ctx, accountID, walletID)
	if err != nil {
		return models.Wallet{}, err
	}

	updated, err := wallet.UpdateName(name, s.now())
	if err != nil {
		return models.Wallet{}, err
	}
	if err := s.wallets.Save(ctx, updated); err != nil {
		slog.Error("RenameWallet failed", "wallet_id", walletID, "error", err)
		return models.Wallet{}, err
	}
	return updated, nil
}

// DeleteWallet removes a wallet. A wallet holding a balance cannot be
// deleted; the money has to be spent or transferred out first. The wallet's
// transaction history is kept for reporting.
func (s *WalletService) DeleteWallet(ctx context.Context, accountID, walletID string) error {
	wallet, err := s.GetWallet(ctx, accountID, walletID)
	if err != nil {
		return err
	}
	if !wallet.CanDelete() {
		return models.NewInvalidStateError(
			"wallet %s still holds a balance of %s", walletID, wallet.Balance,
		)
	}

	if err := s.wallets.Delete(ctx, walletID); err != nil {
		slog.Error("DeleteWallet failed", "wallet_id", walletID, "error", err)
		return err
	}
	slog.Info("Wallet deleted", "wallet_id", walletID, "account_id", accountID)
	return nil
}
