package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsMaxAge = 12 * time.Hour

// createCORSMiddleware returns nil when CORS is disabled or CORS_ALLOW_ORIGINS
// yields no origin. A "*" entry allows every origin; browsers refuse credentialed
// requests to a wildcard, so credentials are only allowed for explicit origins.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOrigins)
	if len(origins) == 0 {
		logger.Warn("cors enabled without allowed origins, middleware not installed")
		return nil
	}

	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"X-Request-Id", "WWW-Authenticate"},
		MaxAge:        corsMaxAge,
	}

	if slices.Contains(origins, "*") {
		logger.Warn("cors allows every origin, credentialed requests disabled")
		cfg.AllowAllOrigins = true
	} else {
		logger.Info("cors enabled", slog.Any("origins", origins))
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}

// parseOrigins splits a comma-separated list, dropping blanks and duplicates.
func parseOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" || slices.Contains(origins, origin) {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
