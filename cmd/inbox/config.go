package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/inbox/internal/model"
	"github.com/nhle/inbox/internal/theme"
	"github.com/nhle/inbox/internal/ui/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit settings interactively",
	Long: `Edit the backend URL, polling, notification and archive settings, then
write them to the config file. Paths are kept as they are.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := settings.FromConfig(cfg)
		if err := settings.NewForm(&values, 80).Run(); err != nil {
			return err
		}
		if err := values.Apply(cfg); err != nil {
			return err
		}
		if err := model.SaveConfig(configPath, cfg); err != nil {
			return err
		}
		fmt.Println(theme.NotificationStyle("success").Render("Saved " + configPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
