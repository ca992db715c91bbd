package middleware

import (
	"strings"

	"wellness-planner/core/cache"
	"wellness-planner/core/constants"
	"wellness-planner/core/controller"
	"wellness-planner/core/errors"
	"wellness-planner/core/logger"
	"wellness-planner/core/utils"

	"github.com/labstack/echo/v4"
)

// Middleware bundles request middlewares that need access to the cache
// (token blacklist checks).
type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(cache cache.Cache) *Middleware {
	return &Middleware{cache: cache}
}

// AuthMiddleware validates the Bearer token, rejects blacklisted tokens
// and stores the parsed claims on the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "authorization header must be a Bearer token")
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:Auth:IsTokenBlacklisted:Error:", err)
					return controller.NewErrorResponse(500, errors.ErrInternalServer, "failed to check token")
				}
				if blacklisted {
					return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token is revoked")
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				if ae, ok := err.(*errors.AppError); ok {
					return controller.NewErrorResponse(401, ae.Code, ae.Message)
				}
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid token")
			}

			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token scope is not valid for API access")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
