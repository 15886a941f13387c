package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loan-management-backend/internal/adapter/middleware"
	"loan-management-backend/internal/domain/access"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// principal returns the caller set by the auth middleware. An empty
// principal is refused by the access policy downstream.
func principal(c echo.Context) access.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}
