package middleware

import (
	"errors"
	"net/http"
	"strings"

	"meetquorum/core/config"
	"meetquorum/core/constants"
	coreErrors "meetquorum/core/errors"
	"meetquorum/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Middleware bundles the request middlewares shared by all routers.
type Middleware struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Middleware {
	return &Middleware{cfg: cfg}
}

// AuthMiddleware validates the Bearer token and stores its claims in the
// request context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return unauthorized(coreErrors.ErrMissingAuthorizationHeader, "Missing Authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return unauthorized(coreErrors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token")
			}

			claims, err := utils.ParseToken(parts[1], m.cfg.Auth.JWTSecret)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return unauthorized(coreErrors.ErrTokenExpired, "Token expired")
				}
				return unauthorized(coreErrors.ErrUnauthorized, "Invalid token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

func unauthorized(code coreErrors.ErrorCode, message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{
		"status":  "error",
		"code":    code,
		"message": message,
	})
}
