package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"loan-management-backend/internal/adapter/middleware"
)

// Deps is everything the HTTP surface needs. A nil Redis disables the
// idempotency guard.
type Deps struct {
	Log            logrus.FieldLogger
	Verifier       middleware.Verifier
	Redis          redis.Cmdable
	IdempotencyTTL time.Duration

	Accounts AccountService
	Loans    LoanService
	Payments PaymentService
	Stats    StatsService
}

// NewServer builds the echo instance with every route mounted under /api.
func NewServer(d Deps) *echo.Echo {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.RequestLogger(log))

	h := NewHandler()
	auth := NewAuthHandler(d.Accounts)
	users := NewUserHandler(d.Accounts)
	loans := NewLoanHandler(d.Loans)
	payments := NewPaymentHandler(d.Payments)
	stats := NewStatsHandler(d.Stats)

	api := e.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)

	protected := api.Group("", middleware.Auth(d.Verifier))
	if d.Redis != nil {
		protected.Use(middleware.IdempotencyMiddleware(d.Redis, d.IdempotencyTTL, log))
	}

	protected.GET("/auth/me", auth.Me)

	protected.POST("/loans", loans.Submit)
	protected.GET("/loans", loans.ListAll)
	protected.GET("/loans/my-loans", loans.ListMine)
	protected.GET("/loans/:id", loans.Get)
	protected.PATCH("/loans/:id/status", loans.Decide)

	protected.POST("/payments", payments.Create)
	protected.GET("/payments", payments.ListAll)
	protected.GET("/payments/my-payments", payments.ListMine)

	protected.GET("/stats/user", stats.User)
	protected.GET("/stats/admin", stats.Admin)

	protected.GET("/users", users.List)
	protected.PUT("/users/profile", users.UpdateProfile)
	protected.GET("/users/:id", users.Get)

	return e
}
