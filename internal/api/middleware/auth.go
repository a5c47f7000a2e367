package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/api/metrics"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/domain"
	"github.com/BlusDevsoftware/clientes-api-bluepay/internal/core/ports"
)

// UnauthorizedMessage is the only body protected routes ever answer 401 with.
const UnauthorizedMessage = "Token inválido ou não fornecido"

// ContextKeyUser is the echo.Context key holding the authenticated *domain.User.
const ContextKeyUser = "user"

type userCtxKey struct{}

// Auth resolves the bearer token to an active user before calling next. Every
// failure answers the same 401; the reason is logged and counted.
func Auth(credentials ports.CredentialValidator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			user, err := credentials.Authenticate(req.Context(), req.Header.Get(echo.HeaderAuthorization))
			if err != nil {
				reason := failureReason(err)
				metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
				log.Warn().
					Err(err).
					Str("reason", reason).
					Str("method", req.Method).
					Str("path", c.Path()).
					Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
					Msg("authentication failed")
				return echo.NewHTTPError(http.StatusUnauthorized, UnauthorizedMessage)
			}

			c.Set(ContextKeyUser, user)
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), userCtxKey{}, user)))
			return next(c)
		}
	}
}

// CurrentUser returns the user attached by Auth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(ContextKeyUser).(*domain.User)
	return u, ok && u != nil
}

// UserFromContext returns the user attached by Auth to the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*domain.User)
	return u, ok && u != nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrUserInactive):
		return "user_inactive"
	default:
		return "error"
	}
}
