// Package validation holds the customer payload rules. It is pure: no store
// access, no side effects.
package validation

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/ports"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// crmPayload carries the rules of the codigo_crm keyed profile.
type crmPayload struct {
	Nome      string `validate:"required"`
	CodigoCRM string `validate:"required"`
	Email     string `validate:"omitempty,email_basic"`
	Status    string `validate:"omitempty,oneof=ativo inativo"`
}

// emailPayload carries the rules of the email keyed profile.
type emailPayload struct {
	Nome     string `validate:"required"`
	Email    string `validate:"required,email_basic"`
	Telefone string `validate:"required"`
	Status   string `validate:"required,oneof=ativo inativo"`
}

// CustomerValidator checks customer payloads against one profile.
type CustomerValidator struct {
	v       *validator.Validate
	profile domain.ValidationProfile
}

// NewCustomerValidator returns a validator for the given profile.
func NewCustomerValidator(profile domain.ValidationProfile) *CustomerValidator {
	v := validator.New()
	_ = v.RegisterValidation("email_basic", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return &CustomerValidator{v: v, profile: profile}
}

// Profile reports the profile the validator enforces.
func (cv *CustomerValidator) Profile() domain.ValidationProfile {
	return cv.profile
}

// Validate returns every violation found in in, in field order. An empty
// result means the payload is valid.
func (cv *CustomerValidator) Validate(in ports.CustomerInput) []string {
	var payload any
	switch cv.profile {
	case domain.ProfileEmail:
		payload = &emailPayload{Nome: in.Nome, Email: in.Email, Telefone: in.Telefone, Status: in.Status}
	default:
		payload = &crmPayload{Nome: in.Nome, CodigoCRM: in.CodigoCRM, Email: in.Email, Status: in.Status}
	}

	err := cv.v.Struct(payload)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return msgs
}

var fieldLabels = map[string]string{
	"Nome":      "Nome",
	"CodigoCRM": "Código CRM",
	"Email":     "Email",
	"Telefone":  "Telefone",
	"Status":    "Status",
}

// fieldError converts a single FieldError into the message the API returns.
func fieldError(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " é obrigatório"
	default:
		return label + " inválido"
	}
}
