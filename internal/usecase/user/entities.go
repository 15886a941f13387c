package user

import domain "loan-management-backend/internal/domain/user"

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Role, when set, must match the account's role.
	Role string `json:"role"`
}

type ProfileInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// SeedAccount is a default account created or reset by Seed.
type SeedAccount struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.Role
}
