package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType categorizes a monetary event. Income-like types add to the
// wallet balance, expense-like types subtract from it.
type TransactionType string

const (
	TransactionIncome       TransactionType = "income"
	TransactionExpense      TransactionType = "expense"
	TransactionLoanReceived TransactionType = "loan_received"
	TransactionLoanGiven    TransactionType = "loan_given"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionLoanReceived, TransactionLoanGiven:
		return true
	}
	return false
}

// Transaction is a signed monetary event against exactly one wallet.
// The stored Amount is normalized to the sign implied by Type at construction,
// but SignedAmount remains the authoritative balance-affecting value: callers
// must never re-derive the sign from the raw amount.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// AccountID is the owning account.
	AccountID string `json:"account_id"`

	// WalletID is the wallet this transaction settles against.
	WalletID string `json:"wallet_id"`

	// Amount is the monetary value, stored signed consistent with Type.
	Amount decimal.Decimal `json:"amount"`

	// Type is one of income, expense, loan_received, loan_given.
	Type TransactionType `json:"type"`

	// Category groups transactions for reporting (e.g., "food", "salary").
	Category string `json:"category"`

	// Description is the human-readable note.
	Description string `json:"description"`

	// Date is when the transaction happened. Never in the future.
	Date time.Time `json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTransactionParams carries the caller-supplied fields for NewTransaction.
type NewTransactionParams struct {
	AccountID   string
	WalletID    string
	Amount      decimal.Decimal
	Type        TransactionType
	Category    string
	Description string
	Date        time.Time
}

// NewTransaction validates the parameters and constructs a transaction.
// The amount magnitude is taken from p.Amount; its sign is normalized to
// match the type.
func NewTransaction(p NewTransactionParams, now time.Time) (Transaction, error) {
	description := strings.TrimSpace(p.Description)
	if description == "" {
		return Transaction{}, NewValidationError("transaction description is required")
	}
	category := strings.TrimSpace(p.Category)
	if category == "" {
		return Transaction{}, NewValidationError("transaction category is required")
	}
	if p.AccountID == "" {
		return Transaction{}, NewValidationError("account id is required")
	}
	if p.WalletID == "" {
		return Transaction{}, NewValidationError("wallet id is required")
	}
	if !p.Type.Valid() {
		return Transaction{}, NewValidationError("invalid transaction type %q", p.Type)
	}
	if p.Amount.IsZero() {
		return Transaction{}, NewValidationError("transaction amount cannot be zero")
	}
	if p.Date.After(now) {
		return Transaction{}, NewValidationError("transaction date cannot be in the future")
	}

	t := Transaction{
		ID:          uuid.New().String(),
		AccountID:   p.AccountID,
		WalletID:    p.WalletID,
		Type:        p.Type,
		Category:    category,
		Description: description,
		Date:        p.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.Amount = signFor(p.Type, p.Amount)
	return t, nil
}

func signFor(typ TransactionType, amount decimal.Decimal) decimal.Decimal {
	if typ == TransactionIncome || typ == TransactionLoanReceived {
		return amount.Abs()
	}
	return amount.Abs().Neg()
}

// IsIncome reports whether the transaction adds to the wallet balance.
func (t Transaction) IsIncome() bool {
	return t.Type == TransactionIncome || t.Type == TransactionLoanReceived
}

// IsExpense reports whether the transaction subtracts from the wallet balance.
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionExpense || t.Type == TransactionLoanGiven
}

// SignedAmount is the canonical balance-affecting value: positive for income
// and loan_received, negative for expense and loan_given, regardless of the
// sign of the stored amount.
func (t Transaction) SignedAmount() decimal.Decimal {
	return signFor(t.Type, t.Amount)
}

// UpdateDescription returns a copy with the trimmed new description.
// Does not affect the wallet balance.
func (t Transaction) UpdateDescription(description string, now time.Time) (Transaction, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Transaction{}, NewValidationError("description cannot be empty")
	}
	t.Description = description
	t.UpdatedAt = now
	return t, nil
}

// UpdateCategory returns a copy with the trimmed new category.
// Does not affect the wallet balance.
func (t Transaction) UpdateCategory(category string, now time.Time) (Transaction, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Transaction{}, NewValidationError("category cannot be empty")
	}
	t.Category = category
	t.UpdatedAt = now
	return t, nil
}
