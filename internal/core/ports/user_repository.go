package ports

import (
	"context"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

// UserRepository reads the externally owned usuarios table.
type UserRepository interface {
	// FindByID returns domain.ErrUserNotFound when no row matches.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
