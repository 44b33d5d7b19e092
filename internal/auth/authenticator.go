package auth

import (
	"context"

	"github.com/mmynk/settlewise/internal/models"
)

// Authenticator verifies who is calling the API.
// Implementations may use passwords, OAuth tokens or anything else that
// resolves to a models.User.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential meets the implementation's rules.
	ValidateCredential(credential string) error
}
