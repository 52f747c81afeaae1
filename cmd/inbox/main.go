package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/inbox/internal/api"
	"github.com/nhle/inbox/internal/credential"
	"github.com/nhle/inbox/internal/model"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	configPath string
	baseURL    string
	cfg        *model.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "inbox",
	Short: "inbox - terminal mail client with AI triage",
	Long: `inbox talks to the mail backend over REST and shows your folders,
messages and AI analysis in the terminal.

Run without arguments to start the interactive client.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = model.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.API.BaseURL = baseURL
		}
		return nil
	},
	RunE: runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("inbox version %s\n", Version)
	},
}

// newClient builds an API client from the loaded config.
func newClient() (*api.Client, error) {
	return api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.RequestTimeout()))
}

// openVault opens the credential store next to the config file.
func openVault() (*credential.Vault, error) {
	return credential.Open(model.ConfigDir())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "Config file path")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend URL (overrides config)")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
