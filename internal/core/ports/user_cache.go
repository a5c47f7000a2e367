package ports

import (
	"context"
	"time"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

// UserCache is the short-lived cache of authenticated users, keyed by token
// digest. Get returns a nil user on a miss.
type UserCache interface {
	Get(ctx context.Context, key string) (*domain.User, error)
	Set(ctx context.Context, key string, user *domain.User, ttl time.Duration) error
}
