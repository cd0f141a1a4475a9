package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/nutritrack/backend/internal/service"
)

func newRegisterCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(password) < 6 {
				return errors.New("password must be at least 6 characters")
			}
			if len(password) > service.MaxSecretBytes {
				return service.ErrInvalidSecret
			}
			if _, err := a.identity.Register(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(service.MsgRegistered))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (6 to 72 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.identity.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			a.session = session
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(service.MsgLoggedIn))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.identity.Logout(cmd.Context(), a.session); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.MsgLoggedOut)
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account := a.session.Account()
			if account == nil {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Not logged in"))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", account.Email)
			return nil
		},
	}
}
