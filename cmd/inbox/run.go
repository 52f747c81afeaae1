package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/inbox/internal/app"
	"github.com/nhle/inbox/internal/browser"
	"github.com/nhle/inbox/internal/store"
)

// journalRetention is how long mutation and notification history is kept.
const journalRetention = 30 * 24 * time.Hour

func runTUI(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Paths.LogFile), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.Paths.LogFile, "inbox")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	journal, err := store.NewSQLiteStore(cfg.Paths.JournalDB)
	if err != nil {
		return err
	}
	defer journal.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	if n, err := journal.PruneBefore(ctx, time.Now().Add(-journalRetention)); err != nil {
		log.Printf("pruning journal: %v", err)
	} else if n > 0 {
		log.Printf("pruned %d journal rows", n)
	}
	cancel()

	client, err := newClient()
	if err != nil {
		return err
	}

	deps := app.Deps{
		Config:   cfg,
		Account:  client,
		Journal:  journal,
		OpenLink: browser.Open,
	}
	// The keyring is optional; without it the session lives only in memory.
	if vault, err := openVault(); err != nil {
		log.Printf("opening keyring: %v", err)
	} else {
		deps.Sessions = vault
	}

	p := tea.NewProgram(app.New(deps), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
