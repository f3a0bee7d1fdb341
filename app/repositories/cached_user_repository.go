package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/models"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/metrics"
)

// Cache is the subset of pkg/cache the repository needs.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// cachedUser mirrors models.User with every field serialised; models.User
// hides the password hash from JSON.
type cachedUser struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Password        string    `json:"password"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	PermissionLevel int       `json:"permissionLevel"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toCached(u models.User) cachedUser   { return cachedUser(u) }
func (c cachedUser) model() models.User { return models.User(c) }

// CachedUserRepository is a read-through cache for FindByID in front of
// another repository. Writes go to the inner repository first and then
// evict the cached entry. Cache failures are logged and never fail a call.
type CachedUserRepository struct {
	inner UserRepository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

func NewCachedUserRepository(inner UserRepository, cache Cache, ttl time.Duration, log *slog.Logger) *CachedUserRepository {
	if log == nil {
		log = slog.Default()
	}
	return &CachedUserRepository{inner: inner, cache: cache, ttl: ttl, log: log}
}

func userKey(id string) string { return "users:" + id }

func (r *CachedUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.inner.Create(ctx, user)
}

func (r *CachedUserRepository) List(ctx context.Context, limit, page int) ([]models.User, error) {
	return r.inner.List(ctx, limit, page)
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	var entry cachedUser
	found, err := r.cache.Get(ctx, userKey(id), &entry)
	if err != nil {
		r.log.WarnContext(ctx, "user cache read failed", "id", id, "error", err)
	}
	if found {
		metrics.CacheHit("redis")
		return entry.model(), nil
	}
	metrics.CacheMiss("redis")

	user, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if err := r.cache.Set(ctx, userKey(id), toCached(user), r.ttl); err != nil {
		r.log.WarnContext(ctx, "user cache write failed", "id", id, "error", err)
	}
	return user, nil
}

func (r *CachedUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.inner.FindByEmail(ctx, email)
}

func (r *CachedUserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.inner.Update(ctx, user); err != nil {
		return err
	}
	r.evict(ctx, user.ID)
	return nil
}

func (r *CachedUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedUserRepository) evict(ctx context.Context, id string) {
	if err := r.cache.Del(ctx, userKey(id)); err != nil {
		r.log.WarnContext(ctx, "user cache evict failed", "id", id, "error", err)
	}
}
