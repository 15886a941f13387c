package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-management-backend/internal/domain/access"
	domain "loan-management-backend/internal/domain/user"
	"loan-management-backend/internal/usecase/user"
)

type AccountService interface {
	Register(ctx context.Context, in user.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in user.LoginInput) (*user.Session, error)
	Me(ctx context.Context, p access.Principal) (*domain.User, error)
	UpdateProfile(ctx context.Context, p access.Principal, in user.ProfileInput) (*domain.User, error)
	List(ctx context.Context, p access.Principal) ([]domain.Summary, error)
	Get(ctx context.Context, p access.Principal, userID string) (*domain.User, error)
}

type AuthHandler struct{ svc AccountService }

func NewAuthHandler(svc AccountService) *AuthHandler { return &AuthHandler{svc: svc} }

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=190"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"max=32"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	u, err := h.svc.Register(c.Request().Context(), user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user":    u,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	s, err := h.svc.Login(c.Request().Context(), user.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.svc.Me(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}
