package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/models"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/repositories"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/event"
)

// Page size bounds for List.
const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Events fired after a successful write. The payload is a UserEvent.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// UserEvent is the payload of every user event.
type UserEvent struct {
	ID    string
	Email string
}

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
var ErrPasswordTooLong = errors.New("password longer than 72 bytes")

type UsersService struct {
	repo   repositories.UserRepository
	cost   int
	events *event.Dispatcher
}

// Option configures a UsersService.
type Option func(*UsersService)

// WithHashCost sets the bcrypt cost used for new password hashes.
func WithHashCost(cost int) Option {
	return func(s *UsersService) { s.cost = cost }
}

// WithEvents fires user events on d instead of a private dispatcher.
func WithEvents(d *event.Dispatcher) Option {
	return func(s *UsersService) { s.events = d }
}

func NewUsersService(repo repositories.UserRepository, opts ...Option) *UsersService {
	s := &UsersService{repo: repo, cost: bcrypt.DefaultCost, events: event.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new user and returns its id.
func (s *UsersService) Create(ctx context.Context, in models.CreateUserInput) (string, error) {
	email := normalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return "", err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return "", err
	}

	level := models.DefaultPermissionLevel
	if in.PermissionLevel != nil {
		level = *in.PermissionLevel
	}

	user := &models.User{
		ID:              uuid.NewString(),
		Email:           email,
		Password:        hash,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		PermissionLevel: level,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return "", err
	}
	s.fire(EventUserCreated, *user)
	return user.ID, nil
}

// List returns one page of users. limit is clamped to [1, MaxLimit], a
// negative page is treated as the first and a page too large to offset is
// empty.
func (s *UsersService) List(ctx context.Context, limit, page int) ([]models.User, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	page = max(page, 0)
	// No store holds more rows than an int offset can address.
	if page > (math.MaxInt-limit)/limit {
		return []models.User{}, nil
	}
	return s.repo.List(ctx, limit, page)
}

func (s *UsersService) Get(ctx context.Context, id string) (models.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Put replaces every field of the user.
func (s *UsersService) Put(ctx context.Context, id string, in models.PutUserInput) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	email := normalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, email, id); err != nil {
		return err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return err
	}

	user.Email = email
	user.Password = hash
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.PermissionLevel = *in.PermissionLevel
	return s.update(ctx, &user)
}

// Patch changes only the fields present in in.
func (s *UsersService) Patch(ctx context.Context, id string, in models.PatchUserInput) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return err
		}
		user.Email = email
	}
	if in.Password != nil {
		hash, err := s.hash(*in.Password)
		if err != nil {
			return err
		}
		user.Password = hash
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.PermissionLevel != nil {
		user.PermissionLevel = *in.PermissionLevel
	}
	return s.update(ctx, &user)
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.fire(EventUserDeleted, models.User{ID: id})
	return nil
}

func (s *UsersService) update(ctx context.Context, user *models.User) error {
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	s.fire(EventUserUpdated, *user)
	return nil
}

func (s *UsersService) fire(name string, user models.User) {
	s.events.Fire(name, UserEvent{ID: user.ID, Email: user.Email})
}

// CheckPassword reports whether plain matches the user's stored hash.
func CheckPassword(user models.User, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plain)) == nil
}

// ensureEmailFree fails with ErrDuplicateEmail when email belongs to a user
// other than self.
func (s *UsersService) ensureEmailFree(ctx context.Context, email, self string) error {
	owner, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return err
	case owner.ID != self:
		return repositories.ErrDuplicateEmail
	}
	return nil
}

func (s *UsersService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("users: hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
