package user

import "context"

// UserRepository defines the persistence contract for users. It doubles as
// the user directory the booking engine consults for existence checks.
type UserRepository interface {
	// Save persists a new user and assigns its id. A duplicate email
	// surfaces as a conflict error.
	Save(ctx context.Context, u *User) error

	// Update persists changes to an existing user.
	Update(ctx context.Context, u *User) error

	// FindByID retrieves a user by id, or a not-found error.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindAll retrieves all users ordered by id.
	FindAll(ctx context.Context) ([]*User, error)

	// Delete removes a user by id.
	Delete(ctx context.Context, id int64) error
}
