package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutritrack/backend/internal/middleware"
	"github.com/pageza/nutritrack/backend/internal/service"
)

// Deps are the services the HTTP API is built from.
type Deps struct {
	Identity   service.IIdentityService
	Profiles   service.IProfileService
	FoodLog    service.IFoodLogService
	Recognizer service.Recognizer
	Tokens     service.ITokenService
	Limiter    middleware.Limiter
	Health     func(context.Context) error
	Location   *time.Location
	Logger     *zap.Logger
	Now        func() time.Time
}

// HealthCheck returns the health status of the API
func HealthCheck(check func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"message": service.ErrStorageUnavailable.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "NutriTrack API is running",
			"version": "v1.0.0",
		})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}

	router.GET("/health", HealthCheck(deps.Health))

	auth := middleware.AuthMiddleware(deps.Tokens, deps.Identity)

	v1 := router.Group("/api/v1")
	NewAuthHandler(deps.Identity, deps.Tokens, auth).RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(auth)
	NewProfileHandler(deps.Profiles).RegisterRoutes(protected)
	NewRecognitionHandler(deps.Recognizer, deps.Limiter, deps.Logger).RegisterRoutes(protected)
	NewFoodEntryHandler(deps.FoodLog, deps.Location, deps.Now).RegisterRoutes(protected)
	NewStatsHandler(deps.FoodLog, deps.Location, deps.Now).RegisterRoutes(protected)
}

// bindJSON binds the request body and records a validation failure on the
// context.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		_ = c.Error(&middleware.BindError{Err: err})
		return false
	}
	return true
}

// dateQuery parses a YYYY-MM-DD query parameter in loc, falling back to now.
func dateQuery(c *gin.Context, name string, loc *time.Location, now func() time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return now().In(loc), true
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		_ = c.Error(&middleware.BindError{Err: err})
		return time.Time{}, false
	}
	return t, true
}
