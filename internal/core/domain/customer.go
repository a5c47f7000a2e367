package domain

import (
	"errors"
	"strings"
)

// CustomerStatus is the lifecycle flag of a customer.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "ativo"
	CustomerInactive CustomerStatus = "inativo"
)

// Valid reports whether s is one of the known statuses.
func (s CustomerStatus) Valid() bool {
	return s == CustomerActive || s == CustomerInactive
}

var ErrCustomerNotFound = errors.New("customer not found")
var ErrDuplicateCustomer = errors.New("customer already exists")
var ErrInvalidCustomer = errors.New("invalid customer")

// Customer is the managed "cliente" entity.
type Customer struct {
	ID        string         `json:"id"`
	Codigo    *int64         `json:"codigo,omitempty"`
	CodigoCRM *string        `json:"codigo_crm"`
	Nome      string         `json:"nome"`
	Email     *string        `json:"email"`
	Telefone  *string        `json:"telefone"`
	Status    CustomerStatus `json:"status"`
}

// KeyValue returns the value the customer holds for the given business key,
// or "" when it is unset.
func (c *Customer) KeyValue(key BusinessKey) string {
	var v *string
	switch key {
	case KeyCodigoCRM:
		v = c.CodigoCRM
	case KeyEmail:
		v = c.Email
	}
	if v == nil {
		return ""
	}
	return *v
}

// ValidationError carries every rule violation found in a payload.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid customer: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidCustomer
}

// DuplicateError reports a business key already held by another customer.
// Message and Details are the caller-facing texts.
type DuplicateError struct {
	Key     BusinessKey
	Message string
	Details string
}

func (e *DuplicateError) Error() string {
	return "duplicate " + string(e.Key) + ": " + e.Details
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateCustomer
}

// StringPtr returns nil for an empty string and a pointer to s otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
