package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/nutritrack/backend/config"
	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/server"
	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/storage"
	"github.com/pageza/nutritrack/backend/internal/testhelpers"
	"github.com/pageza/nutritrack/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sqliteConfig(path string) *config.Config {
	return &config.Config{
		ServerHost:            "127.0.0.1",
		ServerPort:            "0",
		StorageBackend:        config.StorageSQLite,
		SQLitePath:            path,
		Timezone:              "UTC",
		JWTSecret:             "integration-secret",
		TokenTTL:              time.Hour,
		RecognitionRateLimit:  10,
		RecognitionRateWindow: time.Hour,
		ImageStorage:          config.ImageStorageInline,
	}
}

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// runNutritionFlow drives a user from registration to statistics.
func runNutritionFlow(t *testing.T, handler http.Handler, email string) {
	c := &client{t: t, handler: handler}
	today := time.Now().UTC().Format(time.DateOnly)

	rr := c.do(http.MethodPost, "/api/v1/auth/register", types.RegisterRequest{
		Email: email, Password: "password123", ConfirmPassword: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = c.do(http.MethodPost, "/api/v1/auth/register", types.RegisterRequest{
		Email: email, Password: "password123", ConfirmPassword: "password123",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = c.do(http.MethodPost, "/api/v1/auth/login", types.LoginRequest{Email: email, Password: "password123"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	auth := decode[types.AuthResponse](t, rr)
	require.NotEmpty(t, auth.Token)
	assert.Empty(t, auth.User.PasswordHash)
	c.token = auth.Token

	rr = c.do(http.MethodPut, "/api/v1/profile", types.ProfileRequest{
		Age: 30, Height: 180, Weight: 90, Gender: models.GenderMale, ActivityLevel: models.ActivityModerate,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	profile := decode[types.ProfileResponse](t, rr)
	assert.InDelta(t, 27.78, profile.Profile.BMI, 0.01)
	assert.Equal(t, "Overweight", profile.BMICategory)

	rr = c.do(http.MethodPost, "/api/v1/recognition", types.RecognitionRequest{FoodName: "Oatmeal", Quantity: 200})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	recognition := decode[service.Recognition](t, rr)
	assert.Len(t, recognition.Alternatives, 2)
	assert.Equal(t, "Healthier Oatmeal", recognition.Alternatives[0].Name)

	for _, meal := range []models.MealType{models.MealBreakfast, models.MealDinner} {
		rr = c.do(http.MethodPost, "/api/v1/food-entries", types.FoodEntryRequest{
			FoodName:         "Oatmeal",
			Quantity:         200,
			MealType:         meal,
			NutritionalValue: recognition.NutritionalValue,
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr = c.do(http.MethodGet, "/api/v1/food-entries?date="+today, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	entries := decode[[]models.FoodEntry](t, rr)
	assert.Len(t, entries, 2)

	rr = c.do(http.MethodGet, "/api/v1/stats/daily?date="+today, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	daily := decode[types.DailyStatsResponse](t, rr)
	assert.Equal(t, 2*recognition.NutritionalValue.Calories, daily.Stats.TotalCalories)
	assert.Len(t, daily.Entries[models.MealBreakfast], 1)
	assert.Len(t, daily.Entries[models.MealDinner], 1)

	rr = c.do(http.MethodGet, "/api/v1/stats/weekly?end="+today, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	week := decode[[]models.DayCalories](t, rr)
	require.Len(t, week, 7)
	assert.Equal(t, daily.Stats.TotalCalories, week[6].Calories)
	assert.Zero(t, week[0].Calories)

	rr = c.do(http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = c.do(http.MethodGet, "/api/v1/food-entries", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestNutritionFlowSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutritrack.db")
	cfg := sqliteConfig(path)

	srv, err := server.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	runNutritionFlow(t, srv.Handler(), "flow@example.com")
	require.NoError(t, srv.Close())

	// A restarted server reads the same documents back
	srv, err = server.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	c := &client{t: t, handler: srv.Handler()}
	rr := c.do(http.MethodPost, "/api/v1/auth/login", types.LoginRequest{Email: "flow@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	c.token = decode[types.AuthResponse](t, rr).Token

	rr = c.do(http.MethodGet, "/api/v1/food-entries", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.FoodEntry](t, rr), 2)
}

func TestNutritionFlowUsersAreIsolated(t *testing.T) {
	backend, err := storage.Open(context.Background(), sqliteConfig(":memory:"), zap.NewNop())
	require.NoError(t, err)
	srv, err := server.NewWithBackend(context.Background(), sqliteConfig(":memory:"), backend, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	for i := 0; i < 2; i++ {
		runNutritionFlow(t, srv.Handler(), fmt.Sprintf("user%d@example.com", i))
	}
}

func TestNutritionFlowPostgres(t *testing.T) {
	cfg := testhelpers.SetupPostgres(t)
	cfg.Timezone = "UTC"
	cfg.RecognitionDelay = 0
	cfg.ImageStorage = config.ImageStorageInline

	srv, err := server.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	runNutritionFlow(t, srv.Handler(), "pg@example.com")
}
