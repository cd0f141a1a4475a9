package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutritrack/backend/internal/middleware"
	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/types"
)

type ProfileHandler struct {
	profiles service.IProfileService
}

func NewProfileHandler(profiles service.IProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.GetProfile)
	router.PUT("/profile", h.UpdateProfile)
}

// GetProfile returns a null profile when none has been saved yet.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile := h.profiles.GetProfile(middleware.SessionFrom(c))
	resp := types.ProfileResponse{Profile: profile}
	if profile != nil {
		resp.BMICategory = service.BMICategory(profile.BMI)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req types.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.SaveProfile(c.Request.Context(), middleware.SessionFrom(c), req.ToProfile())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.ProfileResponse{
		Profile:     profile,
		BMICategory: service.BMICategory(profile.BMI),
	})
}
