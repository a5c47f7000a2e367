package ports

import (
	"context"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
)

// CustomerInput is the payload accepted by Create and Update. Empty strings
// mean the field was not supplied.
type CustomerInput struct {
	CodigoCRM string
	Nome      string
	Email     string
	Telefone  string
	Status    string
}

// CustomerService defines the use-case operations on customers.
type CustomerService interface {
	List(ctx context.Context) ([]*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, input CustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}
