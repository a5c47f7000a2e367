package domain

import "fmt"

// BusinessKey names the customer field that must be unique across customers.
type BusinessKey string

const (
	KeyCodigoCRM BusinessKey = "codigo_crm"
	KeyEmail     BusinessKey = "email"
)

// Label is the Portuguese field name used in caller-facing messages.
func (k BusinessKey) Label() string {
	switch k {
	case KeyCodigoCRM:
		return "código CRM"
	case KeyEmail:
		return "email"
	default:
		return string(k)
	}
}

// ValidationProfile selects which deployment variant of the customer rules
// is in force.
type ValidationProfile string

const (
	// ProfileCRM keys customers by codigo_crm and lists them by codigo.
	ProfileCRM ValidationProfile = "crm"
	// ProfileEmail keys customers by email and lists them by nome.
	ProfileEmail ValidationProfile = "email"
)

// ParseProfile converts a configuration value into a ValidationProfile.
func ParseProfile(s string) (ValidationProfile, error) {
	switch p := ValidationProfile(s); p {
	case ProfileCRM, ProfileEmail:
		return p, nil
	case "":
		return ProfileCRM, nil
	default:
		return "", fmt.Errorf("unknown validation profile %q", s)
	}
}

// BusinessKey returns the unique field of the profile.
func (p ValidationProfile) BusinessKey() BusinessKey {
	if p == ProfileEmail {
		return KeyEmail
	}
	return KeyCodigoCRM
}

// ListOrder returns the field customers are listed by.
func (p ValidationProfile) ListOrder() string {
	if p == ProfileEmail {
		return "nome"
	}
	return "codigo"
}
