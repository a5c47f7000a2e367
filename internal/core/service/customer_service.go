package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/ports"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/validation"
	"github.com/BlusDevsoftware/clientes-api-bluepay/pkg/logger"
)

// CustomerService implements the customer CRUD use cases on top of a
// CustomerRepository. Existence and uniqueness are checked with separate
// round trips before mutating so callers get an actionable error.
type CustomerService struct {
	repo      ports.CustomerRepository
	validator *validation.CustomerValidator
	logger    zerolog.Logger
}

func NewCustomerService(repo ports.CustomerRepository, validator *validation.CustomerValidator, logger zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, validator: validator, logger: logger}
}

func (s *CustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	customers, err := s.repo.List(ctx, s.validator.Profile().ListOrder())
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if customers == nil {
		customers = []*domain.Customer{}
	}
	return customers, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// Create validates in, rejects a business key already in use and inserts the
// customer with status defaulted to ativo.
func (s *CustomerService) Create(ctx context.Context, in ports.CustomerInput) (*domain.Customer, error) {
	if in.Status == "" {
		in.Status = string(domain.CustomerActive)
	}
	if errs := s.validator.Validate(in); len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	customer := toCustomer(in)
	key := s.validator.Profile().BusinessKey()

	existingID, err := s.repo.FindIDByKey(ctx, key, customer.KeyValue(key), "")
	if err != nil {
		return nil, fmt.Errorf("create customer: check %s: %w", key, err)
	}
	if existingID != "" {
		return nil, createDuplicate(key)
	}

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateCustomer) {
			// Lost a race or hit the other key's constraint; the store wins.
			return nil, createDuplicate(violatedKey(err, key))
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	logger.FromContext(ctx, s.logger).Info().Str("customer_id", created.ID).Str("key", string(key)).Msg("customer created")
	return created, nil
}

// Update validates in, requires id to exist and rejects a business key held
// by any other customer before applying the change.
func (s *CustomerService) Update(ctx context.Context, id string, in ports.CustomerInput) (*domain.Customer, error) {
	if errs := s.validator.Validate(in); len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}

	customer := toCustomer(in)
	key := s.validator.Profile().BusinessKey()

	otherID, err := s.repo.FindIDByKey(ctx, key, customer.KeyValue(key), id)
	if err != nil {
		return nil, fmt.Errorf("update customer: check %s: %w", key, err)
	}
	if otherID != "" {
		return nil, updateDuplicate(key)
	}

	updated, err := s.repo.Update(ctx, id, customer)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateCustomer) {
			return nil, updateDuplicate(violatedKey(err, key))
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}

	logger.FromContext(ctx, s.logger).Info().Str("customer_id", id).Msg("customer updated")
	return updated, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	logger.FromContext(ctx, s.logger).Info().Str("customer_id", id).Msg("customer deleted")
	return nil
}

func toCustomer(in ports.CustomerInput) *domain.Customer {
	return &domain.Customer{
		CodigoCRM: domain.StringPtr(in.CodigoCRM),
		Nome:      in.Nome,
		Email:     domain.StringPtr(in.Email),
		Telefone:  domain.StringPtr(in.Telefone),
		Status:    domain.CustomerStatus(in.Status),
	}
}

// violatedKey returns the key reported by the store, or fallback.
func violatedKey(err error, fallback domain.BusinessKey) domain.BusinessKey {
	var de *domain.DuplicateError
	if errors.As(err, &de) && de.Key != "" {
		return de.Key
	}
	return fallback
}

func createDuplicate(key domain.BusinessKey) *domain.DuplicateError {
	return &domain.DuplicateError{
		Key:     key,
		Message: "Cliente já existe",
		Details: "Já existe um cliente com este " + key.Label(),
	}
}

func updateDuplicate(key domain.BusinessKey) *domain.DuplicateError {
	label := key.Label()
	return &domain.DuplicateError{
		Key:     key,
		Message: capitalize(label) + " já existe",
		Details: "Já existe outro cliente com este " + label,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
