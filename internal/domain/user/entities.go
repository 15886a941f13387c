package user

import (
	"fmt"
	"time"

	"loan-management-backend/internal/domain/apperr"
)

var (
	ErrNotFound   = fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	ErrEmailTaken = fmt.Errorf("%w: email already registered", apperr.ErrConflict)
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Table: users
type User struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID       string    `gorm:"size:32;not null;uniqueIndex:ux_users_user_id" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Email        string    `gorm:"size:190;not null;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:100;not null" json:"-"`
	Phone        string    `gorm:"size:32" json:"phone"`
	Role         Role      `gorm:"size:16;not null;default:user;index:idx_users_role" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (User) TableName() string { return "users" }

// Summary is a directory row: a user plus how many loans they applied for.
type Summary struct {
	UserID     string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	TotalLoans int64     `json:"total_loans"`
}
