package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/types"
)

// Context keys set by AuthMiddleware.
const (
	SessionKey = "session"
	UserIDKey  = "user_id"
	ClaimsKey  = "token_claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// SessionResolver turns a verified token subject into a session.
type SessionResolver interface {
	SessionFor(ctx context.Context, accountID string) (*service.Session, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens and attaches
// the caller's session to the request context
func AuthMiddleware(validator TokenValidator, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c)
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), parts[1])
		if errors.Is(err, service.ErrStorageUnavailable) {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if err != nil {
			abortUnauthorized(c)
			return
		}

		session, err := sessions.SessionFor(c.Request.Context(), claims.UserID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(SessionKey, session)
		c.Set(UserIDKey, claims.UserID)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	_ = c.Error(service.ErrNotAuthenticated)
	c.Abort()
}

// SessionFrom returns the session attached by AuthMiddleware, or nil.
func SessionFrom(c *gin.Context) *service.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*service.Session)
	return session
}

// ClaimsFrom returns the verified token claims attached by AuthMiddleware, or nil.
func ClaimsFrom(c *gin.Context) *types.TokenClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*types.TokenClaims)
	return claims
}
