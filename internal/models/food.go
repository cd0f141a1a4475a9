package models

import "time"

// MealType is the meal a food entry belongs to.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists meal types in the order they occur during a day.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// Valid reports whether m is one of the known meal types.
func (m MealType) Valid() bool {
	for _, t := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

// NutritionalValue is a nutrient measurement. Calories are kcal, sodium and
// cholesterol milligrams, every other field grams.
type NutritionalValue struct {
	Calories      int     `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        int     `json:"sodium"`
	Cholesterol   int     `json:"cholesterol"`
}

// FoodEntry is one logged meal.
type FoodEntry struct {
	ID                    string           `json:"id"`
	UserID                string           `json:"userId"`
	FoodName              string           `json:"foodName"`
	AdditionalIngredients []string         `json:"additionalIngredients,omitempty"`
	Quantity              float64          `json:"quantity"`
	Unit                  string           `json:"unit"`
	MealType              MealType         `json:"mealType"`
	NutritionalValue      NutritionalValue `json:"nutritionalValue"`
	ImageURL              string           `json:"imageUrl,omitempty"`
	Date                  time.Time        `json:"date"`
	CreatedAt             time.Time        `json:"createdAt"`
}

// Alternative is a suggested substitute food. It is never persisted.
type Alternative struct {
	Name             string           `json:"name"`
	NutritionalValue NutritionalValue `json:"nutritionalValue"`
	Reason           string           `json:"reason"`
}
