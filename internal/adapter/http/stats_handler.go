package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-management-backend/internal/domain/access"
	"loan-management-backend/internal/usecase/stats"
)

type StatsService interface {
	User(ctx context.Context, p access.Principal) (*stats.UserStats, error)
	Admin(ctx context.Context, p access.Principal) (*stats.AdminStats, error)
}

type StatsHandler struct{ svc StatsService }

func NewStatsHandler(svc StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

func (h *StatsHandler) User(c echo.Context) error {
	s, err := h.svc.User(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StatsHandler) Admin(c echo.Context) error {
	s, err := h.svc.Admin(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}
