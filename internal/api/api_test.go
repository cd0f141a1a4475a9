package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/nutritrack/backend/internal/api"
	"github.com/pageza/nutritrack/backend/internal/middleware"
	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/storage"
	"github.com/pageza/nutritrack/backend/internal/types"
)

var testNow = time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T, limit int) *testServer {
	t.Helper()
	store := storage.NewMemoryStore()
	now := func() time.Time { return testNow }
	identity := service.NewIdentityStore(store, nil, service.WithBcryptCost(bcrypt.MinCost), service.WithIdentityClock(now))

	router := gin.New()
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	api.RegisterRoutes(router, api.Deps{
		Identity:   identity,
		Profiles:   service.NewProfileStore(identity, nil),
		FoodLog:    service.NewFoodLogStore(store, nil, service.WithLocation(time.UTC), service.WithFoodLogClock(now)),
		Recognizer: service.NewMockRecognizer(nil, service.WithRand(rand.New(rand.NewPCG(1, 2)))),
		Tokens:     service.NewTokenService("test-secret", time.Hour),
		Limiter:    middleware.NewLocalLimiter(middleware.RateLimitConfig{Window: time.Hour, Limit: limit}),
		Location:   time.UTC,
		Logger:     zap.NewNop(),
		Now:        now,
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (s *testServer) register(email string) string {
	s.t.Helper()
	rr := s.do(http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Email: email, Password: "password123", ConfirmPassword: "password123",
	})
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[types.AuthResponse](s.t, rr).Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 10)
	rr := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"healthy"`)
}

func TestHealthUnavailable(t *testing.T) {
	router := gin.New()
	api.RegisterRoutes(router, api.Deps{
		Health: func(context.Context) error { return assert.AnError },
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, 10)

	rr := s.do(http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Email: "a@example.com", Password: "password123", ConfirmPassword: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	reg := decode[types.AuthResponse](t, rr)
	assert.True(t, reg.Success)
	assert.Equal(t, "Registration successful", reg.Message)
	assert.NotEmpty(t, reg.Token)
	assert.NotContains(t, rr.Body.String(), "password")

	rr = s.do(http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Email: "a@example.com", Password: "password123", ConfirmPassword: "password123",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"User already exists with this email"}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid email or password"}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Email: "a@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, rr.Code)
	login := decode[types.AuthResponse](t, rr)
	assert.Equal(t, "Login successful", login.Message)

	rr = s.do(http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[models.Account](t, rr)
	assert.Equal(t, "a@example.com", me.Email)
	assert.Empty(t, me.PasswordHash)

	rr = s.do(http.MethodPost, "/api/v1/auth/logout", login.Token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t, 10)
	s.register("a@example.com")

	rr := s.do(http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Email: "a@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, rr.Code)
	token := decode[types.AuthResponse](t, rr).Token

	rr = s.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"Logout successful"}`, rr.Body.String())

	profile := types.ProfileRequest{Age: 30, Height: 180, Weight: 81, Gender: models.GenderMale, ActivityLevel: models.ActivityModerate}
	rr = s.do(http.MethodPut, "/api/v1/profile", token, profile)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"User not authenticated"}`, rr.Body.String())

	for _, path := range []string{"/api/v1/food-entries", "/api/v1/auth/me", "/api/v1/stats/daily"} {
		rr = s.do(http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
	rr = s.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// A fresh login still works
	rr = s.do(http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{Email: "a@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = s.do(http.MethodGet, "/api/v1/auth/me", decode[types.AuthResponse](t, rr).Token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t, 10)
	for name, req := range map[string]types.RegisterRequest{
		"bad email":         {Email: "nope", Password: "password123", ConfirmPassword: "password123"},
		"short password":    {Email: "a@example.com", Password: "abc", ConfirmPassword: "abc"},
		"mismatched secret": {Email: "a@example.com", Password: "password123", ConfirmPassword: "password124"},
		"long password":     {Email: "a@example.com", Password: strings.Repeat("p", 80), ConfirmPassword: strings.Repeat("p", 80)},
	} {
		t.Run(name, func(t *testing.T) {
			rr := s.do(http.MethodPost, "/api/v1/auth/register", "", req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"success":false`)
		})
	}
}

func TestRegisterMultibyteSecretTooLong(t *testing.T) {
	s := newTestServer(t, 10)
	// 30 runes pass the binding check but take 75 bytes
	secret := strings.Repeat("é€", 15)
	rr := s.do(http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Email: "a@example.com", Password: secret, ConfirmPassword: secret,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Password must be at most 72 bytes"}`, rr.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, 10)
	for _, path := range []string{"/api/v1/profile", "/api/v1/food-entries", "/api/v1/stats/daily", "/api/v1/stats/weekly", "/api/v1/auth/me"} {
		rr := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t, 10)
	token := s.register("a@example.com")

	rr := s.do(http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"profile":null}`, rr.Body.String())

	rr = s.do(http.MethodPut, "/api/v1/profile", token, types.ProfileRequest{
		Age: 30, Height: 180, Weight: 81, Gender: models.GenderMale, ActivityLevel: models.ActivityModerate,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	saved := decode[types.ProfileResponse](t, rr)
	require.NotNil(t, saved.Profile)
	assert.InDelta(t, 25.0, saved.Profile.BMI, 1e-9)
	assert.Equal(t, "Overweight", saved.BMICategory)

	rr = s.do(http.MethodGet, "/api/v1/profile", token, nil)
	got := decode[types.ProfileResponse](t, rr)
	require.NotNil(t, got.Profile)
	assert.Equal(t, 30, got.Profile.Age)

	rr = s.do(http.MethodPut, "/api/v1/profile", token, types.ProfileRequest{
		Age: 30, Height: 10, Weight: 81, Gender: models.GenderMale, ActivityLevel: models.ActivityModerate,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecognitionEndpoint(t *testing.T) {
	s := newTestServer(t, 2)
	token := s.register("a@example.com")
	body := types.RecognitionRequest{FoodName: "Pasta", Quantity: 150, Unit: "grams"}

	rr := s.do(http.MethodPost, "/api/v1/recognition", token, body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	result := decode[service.Recognition](t, rr)
	assert.Positive(t, result.NutritionalValue.Calories)
	require.Len(t, result.Alternatives, 2)
	assert.Equal(t, "Healthier Pasta", result.Alternatives[0].Name)

	rr = s.do(http.MethodPost, "/api/v1/recognition", token, types.RecognitionRequest{FoodName: "Pasta"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// The limit of two is used up by the two requests above
	rr = s.do(http.MethodPost, "/api/v1/recognition", token, body)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestFoodEntriesAndStats(t *testing.T) {
	s := newTestServer(t, 10)
	token := s.register("a@example.com")
	other := s.register("b@example.com")

	day := time.Date(2024, time.March, 13, 8, 0, 0, 0, time.UTC)
	post := func(token, name string, meal models.MealType, date *time.Time, calories int) {
		t.Helper()
		rr := s.do(http.MethodPost, "/api/v1/food-entries", token, types.FoodEntryRequest{
			FoodName: name,
			Quantity: 100,
			MealType: meal,
			Date:     date,
			NutritionalValue: models.NutritionalValue{
				Calories: calories, Protein: 10, Carbohydrates: 20, Fat: 5,
			},
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		resp := decode[types.FoodEntryResponse](t, rr)
		assert.Equal(t, "Food entry saved successfully", resp.Message)
		assert.NotEmpty(t, resp.Entry.ID)
		assert.Equal(t, "grams", resp.Entry.Unit)
	}

	post(token, "Eggs", models.MealBreakfast, &day, 100)
	lunch := day.Add(5 * time.Hour)
	post(token, "Rice", models.MealLunch, &lunch, 200)
	post(token, "Today", models.MealSnack, nil, 50)
	post(other, "Not mine", models.MealLunch, &day, 999)

	rr := s.do(http.MethodGet, "/api/v1/food-entries", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.FoodEntry](t, rr), 3)

	rr = s.do(http.MethodGet, "/api/v1/food-entries?date=2024-03-13", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.FoodEntry](t, rr), 2)

	rr = s.do(http.MethodGet, "/api/v1/food-entries?date=13/03/2024", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/stats/daily?date=2024-03-13", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	daily := decode[types.DailyStatsResponse](t, rr)
	assert.Equal(t, "2024-03-13", daily.Date)
	assert.Equal(t, 300, daily.Stats.TotalCalories)
	assert.InDelta(t, 20, daily.Stats.TotalProtein, 1e-9)
	assert.Len(t, daily.Entries[models.MealBreakfast], 1)
	assert.Len(t, daily.Entries[models.MealLunch], 1)

	// No date means today
	rr = s.do(http.MethodGet, "/api/v1/stats/daily", token, nil)
	daily = decode[types.DailyStatsResponse](t, rr)
	assert.Equal(t, "2024-03-14", daily.Date)
	assert.Equal(t, 50, daily.Stats.TotalCalories)

	rr = s.do(http.MethodGet, "/api/v1/stats/weekly?end=2024-03-14", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	week := decode[[]models.DayCalories](t, rr)
	require.Len(t, week, 7)
	assert.Equal(t, 300, week[5].Calories)
	assert.Equal(t, 50, week[6].Calories)

	rr = s.do(http.MethodPost, "/api/v1/food-entries", token, types.FoodEntryRequest{FoodName: "x", Quantity: 1, MealType: "brunch"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
