package main

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/service"
)

func newFoodCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "food",
		Short: "Log and list meals",
	}
	cmd.AddCommand(newFoodAddCmd(a), newFoodListCmd(a))
	return cmd
}

func newFoodAddCmd(a *app) *cobra.Command {
	var (
		ingredients, unit, meal, date, image string
		quantity                             float64
	)
	cmd := &cobra.Command{
		Use:   "add FOOD",
		Short: "Analyze a food and add it to the log",
		Long: `Estimate the nutrition of FOOD for the given quantity, print two
alternatives and save the entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.session.IsAuthenticated() {
				return service.ErrNotAuthenticated
			}
			if quantity <= 0 {
				return fmt.Errorf("quantity must be positive")
			}
			mealType := models.MealType(meal)
			if !mealType.Valid() {
				return fmt.Errorf("meal must be one of %v", models.MealTypes)
			}
			day, err := a.parseDay(date)
			if err != nil {
				return err
			}

			var imageRef string
			if image != "" {
				if imageRef, err = dataURIFromFile(image); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, mutedStyle.Render("Analyzing..."))
			result, err := a.recognizer.Recognize(cmd.Context(), service.RecognitionRequest{
				FoodName:    args[0],
				Ingredients: service.SplitIngredients(ingredients),
				Quantity:    quantity,
				Unit:        unit,
				Image:       imageRef,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderRecognition(args[0], result))

			entry := &models.FoodEntry{
				FoodName:              args[0],
				AdditionalIngredients: service.SplitIngredients(ingredients),
				Quantity:              quantity,
				Unit:                  unit,
				MealType:              mealType,
				NutritionalValue:      result.NutritionalValue,
				ImageURL:              imageRef,
				Date:                  day,
			}
			if err := a.foodLog.SaveEntry(cmd.Context(), a.session, entry); err != nil {
				return err
			}
			fmt.Fprintln(out, successStyle.Render(service.MsgEntrySaved))
			return nil
		},
	}
	cmd.Flags().StringVar(&ingredients, "ingredients", "", "Comma separated additional ingredients")
	cmd.Flags().Float64Var(&quantity, "quantity", 0, "Quantity consumed")
	cmd.Flags().StringVar(&unit, "unit", "grams", "Quantity unit")
	cmd.Flags().StringVar(&meal, "meal", "", "breakfast, lunch, dinner or snack")
	cmd.Flags().StringVar(&date, "date", "", "Day consumed (YYYY-MM-DD), defaults to now")
	cmd.Flags().StringVar(&image, "image", "", "Photo of the meal")
	_ = cmd.MarkFlagRequired("quantity")
	_ = cmd.MarkFlagRequired("meal")
	return cmd
}

func newFoodListCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged meals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.session.IsAuthenticated() {
				return service.ErrNotAuthenticated
			}

			var (
				entries []models.FoodEntry
				err     error
			)
			if date == "" {
				entries, err = a.foodLog.EntriesByUser(cmd.Context(), a.session)
			} else {
				day, perr := a.parseDay(date)
				if perr != nil {
					return perr
				}
				entries, err = a.foodLog.EntriesByDate(cmd.Context(), a.session, day)
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No food entries"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderEntries(entries, a.loc))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Only entries of this day (YYYY-MM-DD)")
	return cmd
}

// dataURIFromFile reads an image into a base64 data URI.
func dataURIFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}
