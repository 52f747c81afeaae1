package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/inbox/internal/api"
	"github.com/nhle/inbox/internal/credential"
	"github.com/nhle/inbox/internal/theme"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show backend, session and local paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		session := "none stored"
		if vault, err := openVault(); err != nil {
			session = "keyring unavailable: " + err.Error()
		} else if cookie, err := vault.SessionCookie(); err == nil {
			client.SetSessionCookie(cookie)
			session = "stored"
		} else if !errors.Is(err, credential.ErrNoSession) {
			session = "error: " + err.Error()
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()

		auth := "signed out"
		ok, err := client.AuthStatus(ctx)
		switch {
		case err != nil && !api.IsAuthError(err):
			auth = "unreachable: " + api.ErrorDetail(err, err.Error())
		case ok:
			auth = "signed in"
			if email, err := client.CurrentUser(ctx); err == nil && email != "" {
				auth += " as " + email
			}
		}

		label := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(10)
		row := func(k, v string) {
			fmt.Println(label.Render(k) + v)
		}

		fmt.Println(theme.SectionTitleStyle.Render("inbox"))
		row("Backend", client.BaseURL())
		row("Auth", auth)
		row("Session", session)
		row("Config", configPath)
		row("Journal", cfg.Paths.JournalDB)
		row("Log", cfg.Paths.LogFile)
		row("Polling", cfg.PollInterval().String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
