package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the mailbox backend.
type APIConfig struct {
	// BaseURL is the root URL of the backend (e.g. http://127.0.0.1:8001).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds every individual request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// SyncConfig holds background refresh settings.
type SyncConfig struct {
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// NotifyConfig holds status bar notification settings.
type NotifyConfig struct {
	TimeoutMs int `mapstructure:"timeout_ms" yaml:"timeout_ms"`
}

// MailConfig holds mailbox behavior settings.
type MailConfig struct {
	// ArchiveLabel is the label name attached when archiving.
	ArchiveLabel string `mapstructure:"archive_label" yaml:"archive_label"`

	// DefaultFolder is opened on start.
	DefaultFolder string `mapstructure:"default_folder" yaml:"default_folder"`
}

// PathsConfig holds on-disk locations.
type PathsConfig struct {
	LogFile   string `mapstructure:"log_file" yaml:"log_file"`
	JournalDB string `mapstructure:"journal_db" yaml:"journal_db"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API    APIConfig    `mapstructure:"api" yaml:"api"`
	Sync   SyncConfig   `mapstructure:"sync" yaml:"sync"`
	Notify NotifyConfig `mapstructure:"notify" yaml:"notify"`
	Mail   MailConfig   `mapstructure:"mail" yaml:"mail"`
	Paths  PathsConfig  `mapstructure:"paths" yaml:"paths"`
}

// RequestTimeout returns the per-request timeout.
func (c *AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// PollInterval returns the background refresh interval.
func (c *AppConfig) PollInterval() time.Duration {
	return time.Duration(c.Sync.PollIntervalSec) * time.Second
}

// NotifyTimeout returns how long a notification stays visible.
func (c *AppConfig) NotifyTimeout() time.Duration {
	return time.Duration(c.Notify.TimeoutMs) * time.Millisecond
}

// ConfigDir returns ~/.config/inbox, falling back to the working directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "inbox")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/inbox/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://127.0.0.1:8001",
			TimeoutSec: 30,
		},
		Sync:   SyncConfig{PollIntervalSec: 60},
		Notify: NotifyConfig{TimeoutMs: 3000},
		Mail: MailConfig{
			ArchiveLabel:  "AI-Handled",
			DefaultFolder: string(FolderInbox),
		},
		Paths: PathsConfig{
			LogFile:   filepath.Join(dir, "inbox.log"),
			JournalDB: filepath.Join(dir, "journal.db"),
		},
	}
}

// setDefaults registers every default with v so that both missing file
// keys and environment overrides resolve.
func setDefaults(v *viper.Viper, d *AppConfig) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_sec", d.API.TimeoutSec)
	v.SetDefault("sync.poll_interval_sec", d.Sync.PollIntervalSec)
	v.SetDefault("notify.timeout_ms", d.Notify.TimeoutMs)
	v.SetDefault("mail.archive_label", d.Mail.ArchiveLabel)
	v.SetDefault("mail.default_folder", d.Mail.DefaultFolder)
	v.SetDefault("paths.log_file", d.Paths.LogFile)
	v.SetDefault("paths.journal_db", d.Paths.JournalDB)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults are used. Environment variables
// prefixed with INBOX_ (e.g. INBOX_API_BASE_URL) override file values.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("inbox")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, defaultAppConfig())

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.normalize()

	return cfg, nil
}

// normalize replaces out-of-range values with defaults.
func (c *AppConfig) normalize() {
	d := defaultAppConfig()
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.TimeoutSec <= 0 {
		c.API.TimeoutSec = d.API.TimeoutSec
	}
	if c.Sync.PollIntervalSec <= 0 {
		c.Sync.PollIntervalSec = d.Sync.PollIntervalSec
	}
	if c.Notify.TimeoutMs <= 0 {
		c.Notify.TimeoutMs = d.Notify.TimeoutMs
	}
	if c.Mail.ArchiveLabel == "" {
		c.Mail.ArchiveLabel = d.Mail.ArchiveLabel
	}
	if c.Mail.DefaultFolder == "" {
		c.Mail.DefaultFolder = d.Mail.DefaultFolder
	}
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("sync", cfg.Sync)
	v.Set("notify", cfg.Notify)
	v.Set("mail", cfg.Mail)
	v.Set("paths", cfg.Paths)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
