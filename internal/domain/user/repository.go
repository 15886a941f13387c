package user

import "context"

type Repository interface {
	// Create fails with ErrEmailTaken when the email is already registered
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error

	CountByRole(ctx context.Context, role Role) (int64, error)
	// ListByRole returns newest first, each row carrying its loan count
	ListByRole(ctx context.Context, role Role) ([]Summary, error)
}
