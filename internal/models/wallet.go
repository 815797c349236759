package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletType identifies how money in a wallet is held.
type WalletType string

const (
	WalletCash    WalletType = "cash"
	WalletBank    WalletType = "bank"
	WalletEWallet WalletType = "e-wallet"
)

// Valid reports whether t is a known wallet type.
func (t WalletType) Valid() bool {
	switch t {
	case WalletCash, WalletBank, WalletEWallet:
		return true
	}
	return false
}

// Currency is the ISO code a wallet is denominated in. The tracker does not
// convert between currencies; the code is informational.
type Currency string

const (
	CurrencyVND Currency = "VND"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyVND, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// Wallet is a balance-bearing container owned by an account. The balance is
// never written directly: every change goes through UpdateBalance, which is
// what keeps the non-negativity invariant intact. Methods return a modified
// copy; the receiver is never mutated.
type Wallet struct {
	// ID is the unique identifier for the wallet (UUID format).
	ID string `json:"id"`

	// AccountID is the owning account.
	AccountID string `json:"account_id"`

	// Name is the display name of the wallet (e.g., "Cash", "VCB Checking").
	Name string `json:"name"`

	// Type is one of cash, bank, e-wallet.
	Type WalletType `json:"type"`

	// Balance is the current balance. Invariant: never negative.
	Balance decimal.Decimal `json:"balance"`

	// Currency the wallet is denominated in.
	Currency Currency `json:"currency"`

	// BankInfo holds the bank/account details. Required when Type is bank.
	BankInfo string `json:"bank_info,omitempty"`

	// Color is the display color used by clients.
	Color string `json:"color,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWalletParams carries the caller-supplied fields for NewWallet.
type NewWalletParams struct {
	AccountID string
	Name      string
	Type      WalletType
	Balance   decimal.Decimal
	Currency  Currency
	BankInfo  string
	Color     string
}

// NewWallet validates the parameters and constructs a wallet.
func NewWallet(p NewWalletParams, now time.Time) (Wallet, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Wallet{}, NewValidationError("wallet name is required")
	}
	if p.AccountID == "" {
		return Wallet{}, NewValidationError("account id is required")
	}
	if !p.Type.Valid() {
		return Wallet{}, NewValidationError("invalid wallet type %q", p.Type)
	}
	if !p.Currency.Valid() {
		return Wallet{}, NewValidationError("invalid currency %q", p.Currency)
	}
	if p.Type == WalletBank && strings.TrimSpace(p.BankInfo) == "" {
		return Wallet{}, NewValidationError("bank info is required for bank wallets")
	}
	if p.Balance.IsNegative() {
		return Wallet{}, NewValidationError("balance cannot be negative")
	}

	return Wallet{
		ID:        uuid.New().String(),
		AccountID: p.AccountID,
		Name:      name,
		Type:      p.Type,
		Balance:   p.Balance,
		Currency:  p.Currency,
		BankInfo:  strings.TrimSpace(p.BankInfo),
		Color:     p.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateBalance returns a copy of the wallet with delta applied. It is the
// only sanctioned balance mutation. Fails with an insufficient-balance error
// when the result would be negative.
func (w Wallet) UpdateBalance(delta decimal.Decimal, now time.Time) (Wallet, error) {
	next := w.Balance.Add(delta)
	if next.IsNegative() {
		return Wallet{}, NewInsufficientBalanceError(
			"insufficient balance in wallet %s: %s + %s would be negative",
			w.ID, w.Balance, delta,
		)
	}
	w.Balance = next
	w.UpdatedAt = now
	return w, nil
}

// UpdateName returns a copy of the wallet with the trimmed new name.
func (w Wallet) UpdateName(name string, now time.Time) (Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Wallet{}, NewValidationError("wallet name cannot be empty")
	}
	w.Name = name
	w.UpdatedAt = now
	return w, nil
}

// CanDelete reports whether the wallet may be deleted. Only wallets with a
// zero balance are deletable.
func (w Wallet) CanDelete() bool {
	return w.Balance.IsZero()
}
