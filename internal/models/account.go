package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the ownership and sharing boundary: every wallet, transaction,
// bill split and loan belongs to exactly one account. Accounts double as the
// login identity.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Email is the login email (unique).
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the login password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is when the account was registered.
	CreatedAt time.Time `json:"created_at"`
}

// NewAccount constructs an account with a fresh ID. The password must
// already be hashed; see the auth package.
func NewAccount(email, name, passwordHash string, now time.Time) *Account {
	return &Account{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
}
