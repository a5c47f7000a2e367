package domain

import "errors"

// UserActive is the only usuarios.status that grants access.
const UserActive = "ativo"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user inactive")
)

// User is a row of the externally owned usuarios table. Only ID and Status
// are inspected; the remaining columns travel untouched in Profile.
type User struct {
	ID      string         `json:"id"`
	Status  string         `json:"status"`
	Profile map[string]any `json:"profile,omitempty"`
}

// Active reports whether the user may call the API.
func (u *User) Active() bool {
	return u != nil && u.Status == UserActive
}
