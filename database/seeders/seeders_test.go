package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/repositories"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/services"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/database/seeders"
)

func TestRunAllIsRepeatable(t *testing.T) {
	ctx := context.Background()
	svc := services.NewUsersService(repositories.NewMemoryUserRepository(), services.WithHashCost(bcrypt.MinCost))

	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(ctx, svc, &out))
	require.NoError(t, seeders.RunAll(ctx, svc, &out))
	assert.Contains(t, out.String(), "Seeded: users")

	users, err := svc.List(ctx, 100, 0)
	require.NoError(t, err)
	assert.Len(t, users, 3)
	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.Equal(t, 7, users[0].PermissionLevel)
}
