package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutritrack/backend/internal/middleware"
	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/types"
)

type FoodEntryHandler struct {
	foodLog service.IFoodLogService
	loc     *time.Location
	now     func() time.Time
}

func NewFoodEntryHandler(foodLog service.IFoodLogService, loc *time.Location, now func() time.Time) *FoodEntryHandler {
	return &FoodEntryHandler{foodLog: foodLog, loc: loc, now: now}
}

func (h *FoodEntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/food-entries")
	{
		entries.POST("", h.CreateEntry)
		entries.GET("", h.ListEntries)
	}
}

func (h *FoodEntryHandler) CreateEntry(c *gin.Context) {
	var req types.FoodEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry := req.ToEntry(h.now())
	if err := h.foodLog.SaveEntry(c.Request.Context(), middleware.SessionFrom(c), entry); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, types.FoodEntryResponse{
		Success: true,
		Message: service.MsgEntrySaved,
		Entry:   entry,
	})
}

// ListEntries returns every entry of the caller, or one day's entries when
// ?date=YYYY-MM-DD is given.
func (h *FoodEntryHandler) ListEntries(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if c.Query("date") == "" {
		entries, err := h.foodLog.EntriesByUser(c.Request.Context(), session)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, entries)
		return
	}

	date, ok := dateQuery(c, "date", h.loc, h.now)
	if !ok {
		return
	}
	entries, err := h.foodLog.EntriesByDate(c.Request.Context(), session, date)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
