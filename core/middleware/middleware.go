package middleware

import (
	"net/http"
	"strings"

	"forum-api/core/cache"
	"forum-api/core/constants"
	"forum-api/core/errors"
	"forum-api/core/logger"
	"forum-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(c cache.Cache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates the bearer token, rejects blacklisted tokens and
// stores the token data in the request context under ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrMissingAuthorizationHeader))
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrInvalidTokenFormat))
			}

			tokenData, err := utils.ParseToken(parts[1])
			if err != nil {
				logger.Debug("Middleware:Auth:ParseToken", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrUnauthorized))
			}
			if tokenData.Scope != constants.ScopeTokenAccess {
				return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrUnauthorized))
			}

			blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), tokenData.TokenID)
			if err != nil {
				logger.Error("Middleware:Auth:BlacklistCheck", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, string(errors.ErrInternalServer))
			}
			if blacklisted {
				return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrUnauthorized))
			}

			c.Set(constants.ContextTokenData, tokenData)
			return next(c)
		}
	}
}

// RequireRole guards a route group to the given roles. Must run after
// AuthMiddleware.
func (m *Middleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, ok := c.Get(constants.ContextTokenData).(*utils.TokenData)
			if !ok || tokenData == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, string(errors.ErrUnauthorized))
			}
			for _, r := range roles {
				if tokenData.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, string(errors.ErrForbidden))
		}
	}
}

// TokenFromContext returns the token data set by AuthMiddleware.
func TokenFromContext(c echo.Context) (*utils.TokenData, bool) {
	tokenData, ok := c.Get(constants.ContextTokenData).(*utils.TokenData)
	return tokenData, ok && tokenData != nil
}
