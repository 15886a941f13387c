package gormrepo

import (
	"context"
	"errors"

	userDomain "loan-management-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return userDomain.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, translate(err, userDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	var out userDomain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&out).Error; err != nil {
		return nil, translate(err, userDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) Save(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) CountByRole(ctx context.Context, role userDomain.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userDomain.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

func (r *UserRepository) ListByRole(ctx context.Context, role userDomain.Role) ([]userDomain.Summary, error) {
	out := []userDomain.Summary{}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.user_id, users.name, users.email, users.phone, users.role, users.created_at, COUNT(loans.id) AS total_loans").
		Joins("LEFT JOIN loans ON loans.user_id = users.user_id").
		Where("users.role = ?", role).
		Group("users.id, users.user_id, users.name, users.email, users.phone, users.role, users.created_at").
		Order("users.created_at DESC, users.id DESC").
		Scan(&out).Error
	return out, err
}
