package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutritrack/backend/internal/logging"
	"github.com/pageza/nutritrack/backend/internal/middleware"
	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/types"
)

type RecognitionHandler struct {
	recognizer service.Recognizer
	limiter    middleware.Limiter
	log        *zap.Logger
}

// NewRecognitionHandler creates the recognition handler. A nil limiter
// disables rate limiting.
func NewRecognitionHandler(recognizer service.Recognizer, limiter middleware.Limiter, log *zap.Logger) *RecognitionHandler {
	return &RecognitionHandler{
		recognizer: recognizer,
		limiter:    limiter,
		log:        logging.OrNop(log),
	}
}

func (h *RecognitionHandler) RegisterRoutes(router *gin.RouterGroup) {
	handlers := []gin.HandlerFunc{h.Recognize}
	if h.limiter != nil {
		handlers = append([]gin.HandlerFunc{middleware.RateLimitMiddleware(h.limiter, h.log)}, handlers...)
	}
	router.POST("/recognition", handlers...)
}

func (h *RecognitionHandler) Recognize(c *gin.Context) {
	var req types.RecognitionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.recognizer.Recognize(c.Request.Context(), service.RecognitionRequest{
		FoodName:    req.FoodName,
		Ingredients: req.AdditionalIngredients,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Image:       req.Image,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
