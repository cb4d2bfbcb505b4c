package user

import (
	"strings"

	"github.com/itemshare/service-sharing/internal/domain"
)

// User is a registered member of the sharing platform. Users act as item
// owners and as bookers; the booking engine only ever resolves them by id.
type User struct {
	id    int64
	name  string
	email string
}

// NewUser creates a new User with validated fields. The id is assigned by
// the store on first save.
func NewUser(name, email string) (*User, error) {
	if name == "" {
		return nil, domain.NewValidationError("user name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("user email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("user email is malformed")
	}
	return &User{name: name, email: email}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id int64, name, email string) *User {
	return &User{id: id, name: name, email: email}
}

// ID returns the user's unique identifier.
func (u *User) ID() int64 { return u.id }

// Name returns the user's display name.
func (u *User) Name() string { return u.name }

// Email returns the user's email address.
func (u *User) Email() string { return u.email }

// SetID assigns the store-generated identifier after the first save.
func (u *User) SetID(id int64) { u.id = id }

// Rename updates the display name.
func (u *User) Rename(name string) error {
	if name == "" {
		return domain.NewValidationError("user name is required")
	}
	u.name = name
	return nil
}

// ChangeEmail updates the email address.
func (u *User) ChangeEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return domain.NewValidationError("user email is malformed")
	}
	u.email = email
	return nil
}
