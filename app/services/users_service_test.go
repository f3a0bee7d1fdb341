package services_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/models"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/repositories"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/services"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/event"
)

func ptr[T any](v T) *T { return &v }

func newService() (*services.UsersService, *repositories.MemoryUserRepository) {
	repo := repositories.NewMemoryUserRepository()
	return services.NewUsersService(repo, services.WithHashCost(bcrypt.MinCost)), repo
}

func TestCreateHashesAndDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	id, err := svc.Create(ctx, models.CreateUserInput{
		Email:    "  Ada@Example.com ",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	user, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, models.DefaultPermissionLevel, user.PermissionLevel)
	assert.NotEqual(t, "s3cret", user.Password)
	assert.True(t, services.CheckPassword(user, "s3cret"))
}

func TestCreateKeepsExplicitPermissionLevel(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	id, err := svc.Create(ctx, models.CreateUserInput{Email: "a@example.com", Password: "x", PermissionLevel: ptr(0)})
	require.NoError(t, err)
	user, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, user.PermissionLevel)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.Create(ctx, models.CreateUserInput{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.CreateUserInput{Email: "A@EXAMPLE.COM", Password: "y"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
}

func TestCreateRejectsOverlongPassword(t *testing.T) {
	svc, _ := newService()
	// 40 two-byte runes pass a 72-rune limit but not bcrypt's 72 bytes.
	_, err := svc.Create(context.Background(), models.CreateUserInput{
		Email:    "a@example.com",
		Password: strings.Repeat("é", 40),
	})
	assert.ErrorIs(t, err, services.ErrPasswordTooLong)
}

func TestListClampsPaging(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, models.CreateUserInput{Email: string(rune('a'+i)) + "@example.com", Password: "x"})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, 0, -1)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := svc.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c@example.com", page[0].Email)
}

func TestListPastAnyOffset(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	_, err := svc.Create(ctx, models.CreateUserInput{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)

	users, err := svc.List(ctx, 10, 400000000000000000)
	require.NoError(t, err)
	assert.Empty(t, users)

	users, err = svc.List(ctx, 1, math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestPutReplacesEverything(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	id, err := svc.Create(ctx, models.CreateUserInput{Email: "a@example.com", Password: "old", FirstName: "Ada"})
	require.NoError(t, err)

	err = svc.Put(ctx, id, models.PutUserInput{
		Email:           "b@example.com",
		Password:        "new",
		FirstName:       "Grace",
		LastName:        "Hopper",
		PermissionLevel: ptr(4),
	})
	require.NoError(t, err)

	user, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", user.Email)
	assert.Equal(t, "Grace", user.FirstName)
	assert.Equal(t, "Hopper", user.LastName)
	assert.Equal(t, 4, user.PermissionLevel)
	assert.True(t, services.CheckPassword(user, "new"))
}

func TestPutAndPatchRejectForeignEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	a, err := svc.Create(ctx, models.CreateUserInput{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.CreateUserInput{Email: "b@example.com", Password: "x"})
	require.NoError(t, err)

	err = svc.Put(ctx, a, models.PutUserInput{
		Email: "b@example.com", Password: "x", FirstName: "f", LastName: "l", PermissionLevel: ptr(1),
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)

	err = svc.Patch(ctx, a, models.PatchUserInput{Email: ptr("B@example.com")})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)

	// keeping one's own email is fine
	require.NoError(t, svc.Patch(ctx, a, models.PatchUserInput{Email: ptr("a@example.com")}))
}

func TestPatchChangesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	id, err := svc.Create(ctx, models.CreateUserInput{Email: "a@example.com", Password: "pw", FirstName: "Ada", LastName: "Byron"})
	require.NoError(t, err)

	require.NoError(t, svc.Patch(ctx, id, models.PatchUserInput{LastName: ptr("Lovelace")}))

	user, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "Lovelace", user.LastName)
	assert.True(t, services.CheckPassword(user, "pw"))

	require.NoError(t, svc.Patch(ctx, id, models.PatchUserInput{Password: ptr("pw2")}))
	user, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, services.CheckPassword(user, "pw2"))
}

func TestMissingUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, svc.Patch(ctx, "nope", models.PatchUserInput{}), repositories.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "nope"), repositories.ErrNotFound)
}

func TestWritesFireEvents(t *testing.T) {
	ctx := context.Background()
	d := event.New()
	var got []string
	for _, name := range []string{services.EventUserCreated, services.EventUserUpdated, services.EventUserDeleted} {
		name := name // per-iteration copy (module targets go 1.21)
		d.Listen(name, func(p interface{}) {
			got = append(got, name+" "+p.(services.UserEvent).ID)
		})
	}
	svc := services.NewUsersService(repositories.NewMemoryUserRepository(),
		services.WithHashCost(bcrypt.MinCost), services.WithEvents(d))

	id, err := svc.Create(ctx, models.CreateUserInput{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)
	require.NoError(t, svc.Patch(ctx, id, models.PatchUserInput{FirstName: ptr("Ada")}))
	assert.Error(t, svc.Delete(ctx, "missing"))
	require.NoError(t, svc.Delete(ctx, id))

	assert.Equal(t, []string{
		"user.created " + id,
		"user.updated " + id,
		"user.deleted " + id,
	}, got)
}
