package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/dmvault/internal/auth/domain"
	authUseCase "github.com/allisson/dmvault/internal/auth/usecase"
	apperrors "github.com/allisson/dmvault/internal/errors"
	"github.com/allisson/dmvault/internal/httputil"
)

// basicRealm is advertised in WWW-Authenticate challenges.
const basicRealm = `Basic realm="dmvault", charset="UTF-8"`

// AuthenticationMiddleware authenticates every request with HTTP Basic
// credentials.
//
// The middleware:
// 1. Reads login and password from the Authorization header
// 2. Checks them with authUseCase.Authenticate()
// 3. Stores the resulting principal in the request context
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized with a Basic challenge
//   - Unknown login or wrong password → 401 Unauthorized with a Basic challenge
//   - Storage failures → mapped by httputil.HandleErrorGin (503 when unavailable)
//
// Usage:
//
//	router.Use(AuthenticationMiddleware(authUseCase, logger))
//	router.GET("/v1/me", func(c *gin.Context) {
//	    principal, _ := GetPrincipal(c.Request.Context())
//	    ...
//	})
func AuthenticationMiddleware(useCase authUseCase.AuthUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		login, password, ok := c.Request.BasicAuth()
		if !ok {
			logger.Debug("authentication failed: missing or malformed basic credentials")
			c.Header("WWW-Authenticate", basicRealm)
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		principal, err := useCase.Authenticate(c.Request.Context(), login, password)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("login", login),
				slog.String("error", err.Error()))
			if apperrors.Is(err, apperrors.ErrUnauthorized) {
				c.Header("WWW-Authenticate", basicRealm)
			}
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("login", principal.Login),
			slog.Bool("admin", principal.Admin))

		c.Next()
	}
}

// RequireAdminMiddleware rejects callers without the administrator role.
//
// This middleware MUST be used after AuthenticationMiddleware.
//
// Error handling:
//   - No principal in context → 401 Unauthorized (AuthenticationMiddleware not run)
//   - Principal is not the administrator → 403 Forbidden
func RequireAdminMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			logger.Debug("authorization failed: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !principal.Admin {
			logger.Debug("authorization failed: administrator role required",
				slog.String("login", principal.Login),
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, authDomain.ErrAdminRequired, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
