package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"loan-management-backend/internal/domain/access"
)

const principalKey = "principal"

// Verifier turns a bearer token into the principal it vouches for.
type Verifier interface {
	Verify(raw string) (access.Principal, error)
}

// Auth requires "Authorization: Bearer <token>" and stores the verified
// principal on the context for handlers and later middleware.
func Auth(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "access token required"})
			}
			p, err := v.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			SetPrincipal(c, p)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

func SetPrincipal(c echo.Context, p access.Principal) { c.Set(principalKey, p) }

// PrincipalFrom returns the caller set by Auth; ok is false on public routes.
func PrincipalFrom(c echo.Context) (access.Principal, bool) {
	p, ok := c.Get(principalKey).(access.Principal)
	return p, ok
}
