package models

import "time"

// DefaultPermissionLevel is assigned when a new user does not ask for one.
const DefaultPermissionLevel = 1

// User is the account managed by the /users endpoints.
type User struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Email           string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password        string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	FirstName       string    `gorm:"size:255" json:"firstName,omitempty"`
	LastName        string    `gorm:"size:255" json:"lastName,omitempty"`
	PermissionLevel int       `gorm:"not null" json:"permissionLevel"`
	CreatedAt       time.Time `gorm:"index" json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// CreateUserInput is the POST /users body.
type CreateUserInput struct {
	Email           string `json:"email"           validate:"required,email,max=255"`
	Password        string `json:"password"        validate:"required,max=72"`
	FirstName       string `json:"firstName"       validate:"max=255"`
	LastName        string `json:"lastName"        validate:"max=255"`
	PermissionLevel *int   `json:"permissionLevel" validate:"omitempty,gte=0"`
}

// PutUserInput is the PUT /users/{userId} body; every field is required.
type PutUserInput struct {
	Email           string `json:"email"           validate:"required,email,max=255"`
	Password        string `json:"password"        validate:"required,max=72"`
	FirstName       string `json:"firstName"       validate:"required,max=255"`
	LastName        string `json:"lastName"        validate:"required,max=255"`
	PermissionLevel *int   `json:"permissionLevel" validate:"required,gte=0"`
}

// PatchUserInput is the PATCH /users/{userId} body; absent fields are kept.
type PatchUserInput struct {
	Email           *string `json:"email"           validate:"omitnil,email,max=255"`
	Password        *string `json:"password"        validate:"omitnil,min=1,max=72"`
	FirstName       *string `json:"firstName"       validate:"omitnil,max=255"`
	LastName        *string `json:"lastName"        validate:"omitnil,max=255"`
	PermissionLevel *int    `json:"permissionLevel" validate:"omitnil,gte=0"`
}
