package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/foodfast-cli/internal/adapters/api"
	"github.com/bnema/foodfast-cli/internal/application"
	"github.com/bnema/foodfast-cli/internal/domain"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your FoodFast account",
	}

	cmd.AddCommand(
		newAccountRegisterCmd(app),
		newAccountLoginCmd(app),
		newAccountLogoutCmd(app),
		newAccountWhoamiCmd(app),
		newAccountUpdateCmd(app),
	)

	return cmd
}

func newAccountRegisterCmd(app *app) *cobra.Command {
	var (
		email     string
		password  string
		firstName string
		lastName  string
		role      string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(password) < domain.PasswordMinLen {
				return fmt.Errorf("register: password must be at least %d characters", domain.PasswordMinLen)
			}

			user, err := app.accounts.Register(cmd.Context(), application.RegisterCommand{
				Email:     email,
				Password:  password,
				FirstName: firstName,
				LastName:  lastName,
				Role:      domain.Role(role),
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s (%s)\n", user.DisplayName(), user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleCustomer), "Account role (customer or employee)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAccountLoginCmd(app *app) *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := app.accounts.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.DisplayName(), user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAccountLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.accounts.Logout(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newAccountWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := app.accounts.Profile(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s id=%d\n", user.DisplayName(), user.Email, user.Role, user.ID)
			return nil
		},
	}
}

func newAccountUpdateCmd(app *app) *cobra.Command {
	var (
		firstName string
		lastName  string
		email     string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAuth(app); err != nil {
				return err
			}

			user, err := app.api.UpdateProfile(cmd.Context(), api.ProfileUpdate{
				FirstName: firstName,
				LastName:  lastName,
				Email:     email,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s %s <%s>\n", user.FirstName, user.LastName, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "New first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "New last name")
	cmd.Flags().StringVar(&email, "email", "", "New email")

	return cmd
}
