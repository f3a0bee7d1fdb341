package seeders

import (
	"context"
	"errors"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/models"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/repositories"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/services"
)

func init() {
	Register("users", SeedUsers)
}

var sampleUsers = []models.CreateUserInput{
	{Email: "admin@example.com", Password: "password", FirstName: "Admin", LastName: "User", PermissionLevel: intPtr(7)},
	{Email: "jane@example.com", Password: "password", FirstName: "Jane", LastName: "Doe"},
	{Email: "john@example.com", Password: "password", FirstName: "John", LastName: "Doe"},
}

// SeedUsers creates the sample accounts. Existing emails are left alone, so
// seeding twice is harmless.
func SeedUsers(ctx context.Context, users *services.UsersService) error {
	for _, in := range sampleUsers {
		if _, err := users.Create(ctx, in); err != nil && !errors.Is(err, repositories.ErrDuplicateEmail) {
			return err
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }
