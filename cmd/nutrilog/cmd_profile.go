package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/service"
)

var (
	genders        = []string{"male", "female", "other"}
	activityLevels = []string{"sedentary", "light", "moderate", "active", "very-active"}
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage body metrics",
	}
	cmd.AddCommand(newProfileSetCmd(a), newProfileShowCmd(a))
	return cmd
}

func newProfileSetCmd(a *app) *cobra.Command {
	var (
		input            models.Profile
		gender, activity string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save age, height, weight, gender and activity level",
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case input.Age < 1 || input.Age > 120:
				return fmt.Errorf("age must be between 1 and 120")
			case input.Height < 50 || input.Height > 300:
				return fmt.Errorf("height must be between 50 and 300 cm")
			case input.Weight < 20 || input.Weight > 500:
				return fmt.Errorf("weight must be between 20 and 500 kg")
			case !slices.Contains(genders, gender):
				return fmt.Errorf("gender must be one of %v", genders)
			case !slices.Contains(activityLevels, activity):
				return fmt.Errorf("activity must be one of %v", activityLevels)
			}
			input.Gender = models.Gender(gender)
			input.ActivityLevel = models.ActivityLevel(activity)

			profile, err := a.profiles.SaveProfile(cmd.Context(), a.session, input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(service.MsgProfileSaved))
			fmt.Fprintln(cmd.OutOrStdout(), renderProfile(profile))
			return nil
		},
	}
	cmd.Flags().IntVar(&input.Age, "age", 0, "Age in years")
	cmd.Flags().Float64Var(&input.Height, "height", 0, "Height in centimeters")
	cmd.Flags().Float64Var(&input.Weight, "weight", 0, "Weight in kilograms")
	cmd.Flags().StringVar(&gender, "gender", "", "male, female or other")
	cmd.Flags().StringVar(&activity, "activity", "", "sedentary, light, moderate, active or very-active")
	for _, name := range []string{"age", "height", "weight", "gender", "activity"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newProfileShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.session.IsAuthenticated() {
				return service.ErrNotAuthenticated
			}
			profile := a.profiles.GetProfile(a.session)
			if profile == nil {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No profile saved yet"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderProfile(profile))
			return nil
		},
	}
}
