package ports

import (
	"context"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

// CustomerRepository is the store adapter for the clientes table. It knows
// nothing about validation rules; uniqueness and existence decisions live in
// the service.
type CustomerRepository interface {
	// List returns every customer ordered ascending by orderBy, which must be
	// one of the fields returned by ValidationProfile.ListOrder.
	List(ctx context.Context, orderBy string) ([]*domain.Customer, error)
	// FindByID returns domain.ErrCustomerNotFound when no row matches.
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	// FindIDByKey returns the id of a customer holding value under key,
	// ignoring excludeID when it is non-empty. A missing match is ("", nil).
	FindIDByKey(ctx context.Context, key domain.BusinessKey, value, excludeID string) (string, error)
	// Create inserts c and returns the stored row. A store-level unique
	// violation is reported as a *domain.DuplicateError naming the key when
	// the store can tell.
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	// Update overwrites the customer identified by id. An empty c.Status keeps
	// the stored status.
	Update(ctx context.Context, id string, c *domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}
