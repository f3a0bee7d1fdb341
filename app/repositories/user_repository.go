package repositories

import (
	"context"
	"errors"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/models"
)

var (
	// ErrNotFound is returned when no user has the requested id or email.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when another user already owns the email.
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserRepository persists users. Emails are compared case-insensitively;
// callers store them lower-cased.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// List returns users in creation order; page is zero-based.
	List(ctx context.Context, limit, page int) ([]models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// Update replaces every mutable field of the stored user with user's.
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}
