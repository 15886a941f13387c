// Package token issues and verifies the HS256 bearer tokens that carry a
// principal between requests.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"loan-management-backend/internal/domain/access"
	"loan-management-backend/internal/domain/apperr"
	"loan-management-backend/internal/domain/user"
)

var ErrInvalid = fmt.Errorf("%w: invalid or expired token", apperr.ErrUnauthorized)

const DefaultTTL = 24 * time.Hour

type Claims struct {
	Role  user.Role `json:"role"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for u. The subject is the public user id.
func (m *Manager) Issue(u *user.User) (string, error) {
	now := m.now().UTC()
	claims := Claims{
		Role:  u.Role,
		Email: u.Email,
		Name:  u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the principal the token names.
func (m *Manager) Verify(raw string) (access.Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return access.Principal{}, errors.Join(ErrInvalid, err)
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return access.Principal{}, ErrInvalid
	}
	return access.Principal{ID: claims.Subject, Role: claims.Role}, nil
}
