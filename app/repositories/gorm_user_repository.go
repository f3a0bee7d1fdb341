package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/models"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/metrics"
)

// GormUserRepository stores users in any SQL database gorm supports. The
// users table is created by database/migrations.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("users: create: %w", err)
	}
	return nil
}

func (r *GormUserRepository) List(ctx context.Context, limit, page int) ([]models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	users := []models.User{}
	err := r.db.WithContext(ctx).
		Order("created_at, id").
		Limit(limit).
		Offset(page * limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	return users, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(email))
}

func (r *GormUserRepository) first(ctx context.Context, query string, arg interface{}) (models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var user models.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("users: find: %w", err)
	}
	return user, nil
}

func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	user.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Select("email", "password", "first_name", "last_name", "permission_level", "updated_at").
		Updates(user)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	if res.Error != nil {
		return fmt.Errorf("users: update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) Delete(ctx context.Context, id string) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return fmt.Errorf("users: delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
