package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/render"
	"github.com/nhle/inbox/internal/store"
	"github.com/nhle/inbox/internal/theme"
)

var (
	journalFailed        bool
	journalLimit         int
	journalMessage       string
	journalNotifications bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent mailbox actions and their outcome",
	Long: `Show the local journal of mailbox actions (mark read, trash, archive,
label, reply, calendar) and whether the backend accepted them.

Examples:
  inbox journal                  # Last 20 actions
  inbox journal --failed         # Only actions the backend rejected
  inbox journal --message <id>   # Actions for one message
  inbox journal --notifications  # Status bar history`,
	RunE: func(cmd *cobra.Command, args []string) error {
		journal, err := store.NewSQLiteStore(cfg.Paths.JournalDB)
		if err != nil {
			return err
		}
		defer journal.Close()

		if journalNotifications {
			notes, err := journal.GetNotifications(cmd.Context(), journalLimit)
			if err != nil {
				return err
			}
			printNotifications(notes)
			return nil
		}

		recs, err := journal.GetMutations(cmd.Context(), store.MutationFilter{
			MessageID:  journalMessage,
			FailedOnly: journalFailed,
			Limit:      journalLimit,
		})
		if err != nil {
			return err
		}
		printMutations(recs)
		return nil
	},
}

func printMutations(recs []model.MutationRecord) {
	if len(recs) == 0 {
		fmt.Println(theme.HelpStyle.Render("No journaled actions."))
		return
	}

	when := lipgloss.NewStyle().Foreground(theme.ColorGray)
	ok := theme.NotificationStyle(string(model.NotificationSuccess))
	failed := theme.NotificationStyle(string(model.NotificationError))

	for _, r := range recs {
		outcome := ok.Render("ok")
		if r.Failed() {
			outcome = failed.Render("failed")
		}
		line := fmt.Sprintf("%s  %s %s %s",
			when.Render(r.CreatedAt.Local().Format("Jan 2 15:04")),
			render.Fit(string(r.Kind), 12),
			render.Fit(r.MessageID, 16),
			outcome,
		)
		if r.Detail != "" {
			line += " " + theme.LabelChipStyle.Render(r.Detail)
		}
		fmt.Println(line)
		if r.Failed() {
			fmt.Println("    " + theme.DimmedStyle.Render(render.OneLine(r.Error)))
		}
	}
}

func printNotifications(notes []model.Notification) {
	if len(notes) == 0 {
		fmt.Println(theme.HelpStyle.Render("No notifications."))
		return
	}

	when := lipgloss.NewStyle().Foreground(theme.ColorGray)
	for _, n := range notes {
		fmt.Printf("%s %s\n",
			when.Render(n.CreatedAt.Local().Format("Jan 2 15:04")),
			theme.NotificationStyle(string(n.Kind)).Render(n.Message),
		)
	}
}

func init() {
	journalCmd.Flags().BoolVar(&journalFailed, "failed", false, "Only show failed actions")
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "Maximum rows (0 for all)")
	journalCmd.Flags().StringVar(&journalMessage, "message", "", "Only show actions for this message id")
	journalCmd.Flags().BoolVar(&journalNotifications, "notifications", false, "Show notification history instead")

	rootCmd.AddCommand(journalCmd)
}
