package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutritrack/backend/internal/middleware"
	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/types"
)

type StatsHandler struct {
	foodLog service.IFoodLogService
	loc     *time.Location
	now     func() time.Time
}

func NewStatsHandler(foodLog service.IFoodLogService, loc *time.Location, now func() time.Time) *StatsHandler {
	return &StatsHandler{foodLog: foodLog, loc: loc, now: now}
}

func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/stats")
	{
		stats.GET("/daily", h.Daily)
		stats.GET("/weekly", h.Weekly)
	}
}

// Daily returns the macro totals and the meal breakdown of one day.
func (h *StatsHandler) Daily(c *gin.Context) {
	date, ok := dateQuery(c, "date", h.loc, h.now)
	if !ok {
		return
	}

	session := middleware.SessionFrom(c)
	entries, err := h.foodLog.EntriesByDate(c.Request.Context(), session, date)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.DailyStatsResponse{
		Date:    h.foodLog.StartOfDay(date).Format(time.DateOnly),
		Stats:   service.SumDailyStats(entries),
		Entries: service.GroupByMealType(entries),
	})
}

// Weekly returns calories per day for the seven days ending at ?end=.
func (h *StatsHandler) Weekly(c *gin.Context) {
	end, ok := dateQuery(c, "end", h.loc, h.now)
	if !ok {
		return
	}

	week, err := h.foodLog.WeeklyCalories(c.Request.Context(), middleware.SessionFrom(c), end)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, week)
}
