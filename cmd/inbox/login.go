package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/inbox/internal/api"
	"github.com/nhle/inbox/internal/browser"
	"github.com/nhle/inbox/internal/theme"
)

var (
	loginCookie string
	loginOpen   bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a backend session cookie",
	Long: `Sign in through the backend's web login, then paste the session cookie
here. The cookie is verified against the backend and kept in the system
keyring.

Examples:
  inbox login --open          # Open the login page, then prompt
  inbox login --cookie VALUE  # Non-interactive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if loginOpen {
			if err := browser.Open(client.LoginURL()); err != nil {
				fmt.Printf("Could not open a browser. Visit %s\n", client.LoginURL())
			}
		}

		cookie := strings.TrimSpace(loginCookie)
		if cookie == "" {
			fmt.Println(theme.HelpStyle.Render("Sign in at " + client.LoginURL()))
			err := huh.NewInput().
				Title("Session cookie").
				EchoMode(huh.EchoModePassword).
				Value(&cookie).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("cookie is required")
					}
					return nil
				}).
				Run()
			if err != nil {
				return err
			}
			cookie = strings.TrimSpace(cookie)
		}

		client.SetSessionCookie(cookie)
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()

		ok, err := client.AuthStatus(ctx)
		if err != nil && !api.IsAuthError(err) {
			return fmt.Errorf("checking session: %w", err)
		}
		if !ok {
			return errors.New("the backend did not accept this cookie")
		}

		vault, err := openVault()
		if err != nil {
			return err
		}
		if err := vault.SaveSessionCookie(cookie); err != nil {
			return err
		}

		email, err := client.CurrentUser(ctx)
		if err != nil || email == "" {
			email = "unknown account"
		}
		fmt.Println(theme.NotificationStyle("success").Render("Signed in as " + email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the backend session and forget the stored cookie",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		vault, err := openVault()
		if err != nil {
			return err
		}

		cookie, err := vault.SessionCookie()
		if err == nil {
			client.SetSessionCookie(cookie)
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
			defer cancel()
			if err := client.Logout(ctx); err != nil && !api.IsAuthError(err) {
				fmt.Println(theme.NotificationStyle("error").Render(api.ErrorDetail(err, "Logout request failed")))
			}
		}

		if err := vault.ClearSessionCookie(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginCookie, "cookie", "", "Session cookie value")
	loginCmd.Flags().BoolVar(&loginOpen, "open", false, "Open the login page in a browser first")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
