package types

import (
	"time"

	"github.com/pageza/nutritrack/backend/internal/models"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileRequest represents the request body for saving a profile
type ProfileRequest struct {
	Age           int                  `json:"age" binding:"required,min=1,max=120"`
	Height        float64              `json:"height" binding:"required,min=50,max=300"`
	Weight        float64              `json:"weight" binding:"required,min=20,max=500"`
	Gender        models.Gender        `json:"gender" binding:"required,oneof=male female other"`
	ActivityLevel models.ActivityLevel `json:"activityLevel" binding:"required,oneof=sedentary light moderate active very-active"`
}

// ToProfile converts the request into the profile to save
func (r ProfileRequest) ToProfile() models.Profile {
	return models.Profile{
		Age:           r.Age,
		Height:        r.Height,
		Weight:        r.Weight,
		Gender:        r.Gender,
		ActivityLevel: r.ActivityLevel,
	}
}

// RecognitionRequest represents the request body for analyzing a food
type RecognitionRequest struct {
	FoodName              string   `json:"foodName" binding:"required"`
	AdditionalIngredients []string `json:"additionalIngredients"`
	Quantity              float64  `json:"quantity" binding:"required,gt=0"`
	Unit                  string   `json:"unit"`
	Image                 string   `json:"image"`
}

// FoodEntryRequest represents the request body for logging a food entry
type FoodEntryRequest struct {
	FoodName              string                  `json:"foodName" binding:"required"`
	AdditionalIngredients []string                `json:"additionalIngredients"`
	Quantity              float64                 `json:"quantity" binding:"required,gt=0"`
	Unit                  string                  `json:"unit"`
	MealType              models.MealType         `json:"mealType" binding:"required,oneof=breakfast lunch dinner snack"`
	NutritionalValue      models.NutritionalValue `json:"nutritionalValue"`
	ImageURL              string                  `json:"imageUrl"`
	Date                  *time.Time              `json:"date"`
}

// ToEntry converts the request into an entry consumed at date, or at now
// when no date was given
func (r FoodEntryRequest) ToEntry(now time.Time) *models.FoodEntry {
	date := now
	if r.Date != nil {
		date = *r.Date
	}
	unit := r.Unit
	if unit == "" {
		unit = DefaultUnit
	}
	return &models.FoodEntry{
		FoodName:              r.FoodName,
		AdditionalIngredients: r.AdditionalIngredients,
		Quantity:              r.Quantity,
		Unit:                  unit,
		MealType:              r.MealType,
		NutritionalValue:      r.NutritionalValue,
		ImageURL:              r.ImageURL,
		Date:                  date,
	}
}

// DefaultUnit is the quantity unit used when none is given.
const DefaultUnit = "grams"

// Response is the envelope of every successful mutation
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token,omitempty"`
	User    *models.Account `json:"user,omitempty"`
}

// ProfileResponse is returned by the profile endpoints
type ProfileResponse struct {
	Profile     *models.Profile `json:"profile"`
	BMICategory string          `json:"bmiCategory,omitempty"`
}

// FoodEntryResponse is returned after saving an entry
type FoodEntryResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Entry   *models.FoodEntry `json:"entry"`
}

// DailyStatsResponse is returned by the daily statistics endpoint
type DailyStatsResponse struct {
	Date    string                                 `json:"date"`
	Stats   models.DailyStats                      `json:"stats"`
	Entries map[models.MealType][]models.FoodEntry `json:"entries"`
}
