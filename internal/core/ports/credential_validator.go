package ports

import (
	"context"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

// CredentialValidator resolves an Authorization header to an active user.
// Failures are one of domain.ErrMissingToken, ErrInvalidToken,
// ErrUserNotFound or ErrUserInactive (possibly wrapped).
type CredentialValidator interface {
	Authenticate(ctx context.Context, authorization string) (*domain.User, error)
}
