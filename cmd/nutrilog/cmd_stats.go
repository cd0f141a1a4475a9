package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/nutritrack/backend/internal/service"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show nutrition statistics",
	}
	cmd.AddCommand(newStatsDayCmd(a), newStatsWeekCmd(a))
	return cmd
}

func newStatsDayCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Macro totals and meals of one day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.session.IsAuthenticated() {
				return service.ErrNotAuthenticated
			}
			day, err := a.parseDay(date)
			if err != nil {
				return err
			}

			stats, err := a.foodLog.DailyStats(cmd.Context(), a.session, day)
			if err != nil {
				return err
			}
			entries, err := a.foodLog.EntriesByDate(cmd.Context(), a.session, day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(a.foodLog.StartOfDay(day).Format("Monday, January 2, 2006")))
			fmt.Fprintln(out, renderDailyStats(stats))
			fmt.Fprint(out, renderMeals(service.GroupByMealType(entries)))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD), defaults to today")
	return cmd
}

func newStatsWeekCmd(a *app) *cobra.Command {
	var end string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Calories of the last seven days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.session.IsAuthenticated() {
				return service.ErrNotAuthenticated
			}
			day, err := a.parseDay(end)
			if err != nil {
				return err
			}
			week, err := a.foodLog.WeeklyCalories(cmd.Context(), a.session, day)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderWeek(week))
			return nil
		},
	}
	cmd.Flags().StringVar(&end, "end", "", "Last day of the week (YYYY-MM-DD), defaults to today")
	return cmd
}
