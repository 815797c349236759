package auth

import (
	"context"

	"github.com/lnvinh/moneykeeper/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// passkeys, OAuth, etc.) without changing the handler layer.
type Authenticator interface {
	// Register creates a new account with the given email and credential.
	// The credential format depends on the implementation.
	Register(ctx context.Context, email, name, credential string) (*models.Account, error)

	// Authenticate verifies the credentials and returns the account if
	// successful.
	Authenticate(ctx context.Context, email, credential string) (*models.Account, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
