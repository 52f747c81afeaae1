package app

import (
	"context"
	"errors"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/inbox/internal/api"
	"github.com/nhle/inbox/internal/credential"
	"github.com/nhle/inbox/internal/mailbox"
)

const authTimeout = 15 * time.Second

// Account is the backend surface the app needs. *api.Client satisfies it.
type Account interface {
	mailbox.Backend
	AuthStatus(ctx context.Context) (bool, error)
	CurrentUser(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	LoginURL() string
	SetSessionCookie(value string)
	ClearSessionCookie()
}

// Sessions persists the backend session cookie between runs.
type Sessions interface {
	SessionCookie() (string, error)
	ClearSessionCookie() error
}

// authCheckedMsg carries the result of the startup login check.
type authCheckedMsg struct {
	loggedIn bool
	email    string
	err      error
}

// loginPageMsg reports a failure to open the login page.
type loginPageMsg struct {
	err error
}

// loggedOutMsg is sent once the backend session and stored cookie are gone.
type loggedOutMsg struct{}

// checkAuth reloads the stored cookie, then asks the backend whether it
// is still valid.
func checkAuth(acct Account, sessions Sessions) tea.Cmd {
	return func() tea.Msg {
		if sessions != nil {
			cookie, err := sessions.SessionCookie()
			switch {
			case err == nil:
				acct.SetSessionCookie(cookie)
			case !errors.Is(err, credential.ErrNoSession):
				log.Printf("app: reading stored session: %v", err)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		ok, err := acct.AuthStatus(ctx)
		if err != nil && !api.IsAuthError(err) {
			log.Printf("app: auth check failed: %v", err)
			return authCheckedMsg{err: err}
		}
		if !ok {
			return authCheckedMsg{}
		}

		email, err := acct.CurrentUser(ctx)
		if err != nil {
			log.Printf("app: fetching current user: %v", err)
		}
		return authCheckedMsg{loggedIn: true, email: email}
	}
}

// logout ends the backend session and forgets the stored cookie. Both
// steps are attempted; failures are only logged.
func logout(acct Account, sessions Sessions) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		if err := acct.Logout(ctx); err != nil {
			log.Printf("app: logout: %v", err)
		}
		acct.ClearSessionCookie()
		if sessions != nil {
			if err := sessions.ClearSessionCookie(); err != nil {
				log.Printf("app: clearing stored session: %v", err)
			}
		}
		return loggedOutMsg{}
	}
}
