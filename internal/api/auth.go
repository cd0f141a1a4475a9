package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutritrack/backend/internal/middleware"
	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/types"
)

type AuthHandler struct {
	identity service.IIdentityService
	tokens   service.ITokenService
	auth     gin.HandlerFunc
}

func NewAuthHandler(identity service.IIdentityService, tokens service.ITokenService, auth gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		tokens:   tokens,
		auth:     auth,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.auth, h.Logout)
		auth.GET("/me", h.auth, h.Me)
	}
}

// Register creates an account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.identity.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, err := h.tokens.GenerateToken(service.NewSession(*account))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, types.AuthResponse{
		Success: true,
		Message: service.MsgRegistered,
		Token:   token,
		User:    account,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, err := h.tokens.GenerateToken(session)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.AuthResponse{
		Success: true,
		Message: service.MsgLoggedIn,
		Token:   token,
		User:    session.Account(),
	})
}

// Logout ends the session and revokes the bearer token it was made with.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.tokens.RevokeToken(ctx, middleware.ClaimsFrom(c)); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.identity.Logout(ctx, middleware.SessionFrom(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Response{Success: true, Message: service.MsgLoggedOut})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.SessionFrom(c).Account())
}
