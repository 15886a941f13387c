package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-management-backend/internal/usecase/user"
)

type UserHandler struct{ svc AccountService }

func NewUserHandler(svc AccountService) *UserHandler { return &UserHandler{svc: svc} }

type profileRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Phone string `json:"phone" validate:"max=32"`
}

// GET /api/users
func (h *UserHandler) List(c echo.Context) error {
	out, err := h.svc.List(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	u, err := h.svc.UpdateProfile(c.Request().Context(), principal(c), user.ProfileInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    u,
	})
}

// GET /api/users/:id
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.svc.Get(c.Request().Context(), principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}
