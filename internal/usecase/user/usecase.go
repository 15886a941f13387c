package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"loan-management-backend/internal/domain/access"
	"loan-management-backend/internal/domain/apperr"
	domain "loan-management-backend/internal/domain/user"
	"loan-management-backend/pkg/id"
)

var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)

type TokenIssuer interface {
	Issue(u *domain.User) (string, error)
}

type Usecase struct {
	repo     domain.Repository
	tokens   TokenIssuer
	log      logrus.FieldLogger
	hashCost int
}

func NewUsecase(r domain.Repository, tokens TokenIssuer, log logrus.FieldLogger) *Usecase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Usecase{repo: r, tokens: tokens, log: log, hashCost: bcrypt.DefaultCost}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Register creates an account with role user. Admin accounts only come from Seed.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, apperr.Validation("name is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, apperr.Validation("a valid email is required")
	case len(in.Password) < 6:
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	if _, err := u.repo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	usr := &domain.User{
		UserID:       id.NewID32(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         domain.RoleUser,
	}
	// the unique index still guards a concurrent registration
	if err := u.repo.Create(ctx, usr); err != nil {
		return nil, err
	}

	u.log.WithField("user_id", usr.UserID).Info("user registered")
	return usr, nil
}

// Login checks the password and, when in.Role is set, the account role.
// Every mismatch reports the same ErrInvalidCredentials.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*Session, error) {
	usr, err := u.repo.GetByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if role := strings.TrimSpace(in.Role); role != "" && domain.Role(role) != usr.Role {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tok, err := u.tokens.Issue(usr)
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"user_id": usr.UserID, "role": usr.Role}).Info("user logged in")
	return &Session{Token: tok, User: usr}, nil
}

func (u *Usecase) Me(ctx context.Context, p access.Principal) (*domain.User, error) {
	if err := access.Require(p, access.ViewOwnRecords); err != nil {
		return nil, err
	}
	return u.repo.GetByUserID(ctx, p.ID)
}

func (u *Usecase) UpdateProfile(ctx context.Context, p access.Principal, in ProfileInput) (*domain.User, error) {
	if err := access.Require(p, access.UpdateOwnProfile); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	usr, err := u.repo.GetByUserID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	usr.Name = name
	usr.Phone = strings.TrimSpace(in.Phone)
	if err := u.repo.Save(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

// List is the admin directory of role=user accounts with their loan counts.
func (u *Usecase) List(ctx context.Context, p access.Principal) ([]domain.Summary, error) {
	if err := access.Require(p, access.ManageUsers); err != nil {
		return nil, err
	}
	out, err := u.repo.ListByRole(ctx, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Summary{}
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, p access.Principal, userID string) (*domain.User, error) {
	if err := access.Require(p, access.ManageUsers); err != nil {
		return nil, err
	}
	return u.repo.GetByUserID(ctx, userID)
}

// Seed creates each account, or resets name, role and password when the
// email already exists.
func (u *Usecase) Seed(ctx context.Context, accounts []SeedAccount) error {
	for _, a := range accounts {
		if !a.Role.Valid() {
			return apperr.Validation("seed account %s has invalid role %q", a.Email, a.Role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), u.hashCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		email := normalizeEmail(a.Email)

		existing, err := u.repo.GetByEmail(ctx, email)
		switch {
		case err == nil:
			existing.Name = a.Name
			existing.Role = a.Role
			existing.Phone = a.Phone
			existing.PasswordHash = string(hash)
			if err := u.repo.Save(ctx, existing); err != nil {
				return err
			}
			u.log.WithFields(logrus.Fields{"email": email, "role": a.Role}).Info("seed account reset")
		case errors.Is(err, domain.ErrNotFound):
			usr := &domain.User{
				UserID:       id.NewID32(),
				Name:         a.Name,
				Email:        email,
				PasswordHash: string(hash),
				Phone:        a.Phone,
				Role:         a.Role,
			}
			if err := u.repo.Create(ctx, usr); err != nil {
				return err
			}
			u.log.WithFields(logrus.Fields{"email": email, "role": a.Role}).Info("seed account created")
		default:
			return err
		}
	}
	return nil
}
