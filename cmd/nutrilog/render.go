package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/service"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func grams(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "g"
}

func nutritionRow(v models.NutritionalValue) []string {
	return []string{
		strconv.Itoa(v.Calories),
		grams(v.Protein),
		grams(v.Carbohydrates),
		grams(v.Fat),
		grams(v.Fiber),
		grams(v.Sugar),
		fmt.Sprintf("%dmg", v.Sodium),
		fmt.Sprintf("%dmg", v.Cholesterol),
	}
}

func renderRecognition(food string, r *service.Recognition) string {
	t := newTable("", "Calories", "Protein", "Carbs", "Fat", "Fiber", "Sugar", "Sodium", "Cholesterol").
		Row(append([]string{food}, nutritionRow(r.NutritionalValue)...)...)
	var b strings.Builder
	b.WriteString(titleStyle.Render("Nutrition"))
	b.WriteString("\n")
	b.WriteString(t.String())
	if len(r.Alternatives) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Alternatives"))
		for _, alt := range r.Alternatives {
			fmt.Fprintf(&b, "\n  %s: %d kcal, %s protein, %s fat %s",
				alt.Name, alt.NutritionalValue.Calories,
				grams(alt.NutritionalValue.Protein), grams(alt.NutritionalValue.Fat),
				mutedStyle.Render("("+alt.Reason+")"))
		}
	}
	return b.String()
}

func renderProfile(p *models.Profile) string {
	return newTable("Age", "Height", "Weight", "Gender", "Activity", "BMI").
		Row(
			strconv.Itoa(p.Age),
			strconv.FormatFloat(p.Height, 'f', -1, 64)+" cm",
			strconv.FormatFloat(p.Weight, 'f', -1, 64)+" kg",
			string(p.Gender),
			string(p.ActivityLevel),
			fmt.Sprintf("%.1f (%s)", p.BMI, service.BMICategory(p.BMI)),
		).String()
}

func renderEntries(entries []models.FoodEntry, loc *time.Location) string {
	t := newTable("Date", "Meal", "Food", "Quantity", "Calories", "Protein", "Carbs", "Fat")
	for _, e := range entries {
		t.Row(
			e.Date.In(loc).Format("2006-01-02 15:04"),
			string(e.MealType),
			e.FoodName,
			strconv.FormatFloat(e.Quantity, 'f', -1, 64)+" "+e.Unit,
			strconv.Itoa(e.NutritionalValue.Calories),
			grams(e.NutritionalValue.Protein),
			grams(e.NutritionalValue.Carbohydrates),
			grams(e.NutritionalValue.Fat),
		)
	}
	return t.String()
}

func renderDailyStats(s models.DailyStats) string {
	return newTable("Calories", "Protein", "Carbs", "Fat").
		Row(strconv.Itoa(s.TotalCalories), grams(s.TotalProtein), grams(s.TotalCarbs), grams(s.TotalFat)).
		String()
}

// renderMeals lists entries under one heading per meal type, in day order.
func renderMeals(groups map[models.MealType][]models.FoodEntry) string {
	var b strings.Builder
	for _, meal := range models.MealTypes {
		entries := groups[meal]
		if len(entries) == 0 {
			continue
		}
		title := strings.ToUpper(string(meal[:1])) + string(meal[1:])
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "  %s  %d kcal\n", e.FoodName, e.NutritionalValue.Calories)
		}
	}
	return b.String()
}

func renderWeek(week []models.DayCalories) string {
	peak := 0
	for _, d := range week {
		peak = max(peak, d.Calories)
	}
	t := newTable("Day", "Calories", "")
	for _, d := range week {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", d.Calories*20/peak)
		}
		t.Row(d.Date.Format("Mon 01-02"), strconv.Itoa(d.Calories), bar)
	}
	return t.String()
}
