package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/models"
)

// MemoryUserRepository keeps users in process memory. It is the default
// store (DB_DRIVER=memory) and loses everything on restart.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
	order   []string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return ErrDuplicateEmail
	}

	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.byID[user.ID] = *user
	r.byEmail[email] = user.ID
	r.order = append(r.order, user.ID)
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context, limit, page int) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || page < 0 || page > len(r.order)/limit {
		return []models.User{}, nil
	}
	start := page * limit
	if start >= len(r.order) {
		return []models.User{}, nil
	}
	end := min(start+limit, len(r.order))

	users := make([]models.User, 0, end-start)
	for _, id := range r.order[start:end] {
		users = append(users, r.byID[id])
	}
	return users, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[user.ID]
	if !ok {
		return ErrNotFound
	}

	oldEmail, newEmail := strings.ToLower(existing.Email), strings.ToLower(user.Email)
	if owner, taken := r.byEmail[newEmail]; taken && owner != user.ID {
		return ErrDuplicateEmail
	}

	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	r.byID[user.ID] = *user
	delete(r.byEmail, oldEmail)
	r.byEmail[newEmail] = user.ID
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}

	delete(r.byID, id)
	delete(r.byEmail, strings.ToLower(user.Email))
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
