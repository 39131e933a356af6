package domain

import "time"

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UserCreate struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"min=3,max=100"`
	Password string `json:"password" validate:"min=8,maxbytes=72"`
}

// UserUpdate holds optional fields; nil means unchanged.
type UserUpdate struct {
	Email    *string `json:"email" validate:"omitnil,email,max=255"`
	Username *string `json:"username" validate:"omitnil,min=3,max=100"`
	Password *string `json:"password" validate:"omitnil,min=8,maxbytes=72"`
	IsActive *bool   `json:"is_active"`
}
