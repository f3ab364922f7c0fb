package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"smartcart/internal/logging"
	"smartcart/internal/models"
	"smartcart/internal/tokens"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "email"
	ctxRole   = "role"
)

type Auth struct {
	JWTSecret []byte
}

// RequireAuth rejects requests without a valid, unexpired bearer token and
// stores the token's identity into the echo context. Handlers must read the
// user id from the context, never from request input.
func (a *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_auth")

		raw := bearerToken(c)
		if raw == "" {
			l.Warn("auth_failed", "status", 401, "reason", "missing token")
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication token required")
		}

		claims, err := tokens.Parse(raw, a.JWTSecret)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		userID, err := claims.UserID()
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid subject", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, claims.Role)
		return next(c)
	}
}

// RequireRole gates a route to an allow-set of roles. Must run after RequireAuth.
func (a *Auth) RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "require_role")

			role, ok := c.Get(ctxRole).(models.Role)
			if !ok {
				l.Warn("authz_failed", "status", 401, "reason", "no authenticated role")
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			l.Warn("authz_failed", "status", 403, "role", string(role))
			return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserID returns the authenticated user's id set by RequireAuth.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ctxUserID).(uint)
	return id, ok
}

func UserRole(c echo.Context) (models.Role, bool) {
	role, ok := c.Get(ctxRole).(models.Role)
	return role, ok
}
