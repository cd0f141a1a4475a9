package models

import "time"

// DailyStats are the macro totals of one calendar day.
type DailyStats struct {
	TotalCalories int     `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalFat      float64 `json:"totalFat"`
}

// DayCalories is one day of the weekly overview.
type DayCalories struct {
	Date     time.Time `json:"date"`
	Calories int       `json:"calories"`
}
