package settings

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/inbox/internal/model"
)

// Values holds the editable settings as form text. huh binds to these.
type Values struct {
	BaseURL       string
	TimeoutSec    string
	PollSec       string
	NotifyMs      string
	ArchiveLabel  string
	DefaultFolder string
}

// FromConfig copies the editable fields out of cfg.
func FromConfig(cfg *model.AppConfig) Values {
	return Values{
		BaseURL:       cfg.API.BaseURL,
		TimeoutSec:    strconv.Itoa(cfg.API.TimeoutSec),
		PollSec:       strconv.Itoa(cfg.Sync.PollIntervalSec),
		NotifyMs:      strconv.Itoa(cfg.Notify.TimeoutMs),
		ArchiveLabel:  cfg.Mail.ArchiveLabel,
		DefaultFolder: cfg.Mail.DefaultFolder,
	}
}

// Apply validates v and writes it into cfg. cfg is left untouched on error.
func (v Values) Apply(cfg *model.AppConfig) error {
	if err := validateURL(v.BaseURL); err != nil {
		return err
	}
	timeout, err := parsePositive("Request timeout", v.TimeoutSec)
	if err != nil {
		return err
	}
	poll, err := parsePositive("Poll interval", v.PollSec)
	if err != nil {
		return err
	}
	notify, err := parsePositive("Notification timeout", v.NotifyMs)
	if err != nil {
		return err
	}
	if err := validateRequired("Archive label")(v.ArchiveLabel); err != nil {
		return err
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(v.BaseURL), "/")
	cfg.API.TimeoutSec = timeout
	cfg.Sync.PollIntervalSec = poll
	cfg.Notify.TimeoutMs = notify
	cfg.Mail.ArchiveLabel = strings.TrimSpace(v.ArchiveLabel)
	cfg.Mail.DefaultFolder = v.DefaultFolder
	return nil
}

// NewForm builds the settings form bound to v.
func NewForm(v *Values, width int) *huh.Form {
	folders := make([]huh.Option[string], 0, len(model.SystemFolders))
	for _, f := range model.SystemFolders {
		folders = append(folders, huh.NewOption(f.DisplayName(), string(f)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Mail backend root (e.g., http://127.0.0.1:8001)").
				Placeholder("http://127.0.0.1:8001").
				Value(&v.BaseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Value(&v.TimeoutSec).
				Validate(validateNumber("Request timeout")),
			huh.NewInput().
				Title("Poll interval (seconds)").
				Description("How often the open folder is refreshed").
				Value(&v.PollSec).
				Validate(validateNumber("Poll interval")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Notification timeout (ms)").
				Value(&v.NotifyMs).
				Validate(validateNumber("Notification timeout")),
			huh.NewInput().
				Title("Archive label").
				Description("Label attached when a message is archived").
				Value(&v.ArchiveLabel).
				Validate(validateRequired("Archive label")),
			huh.NewSelect[string]().
				Title("Start folder").
				Options(folders...).
				Value(&v.DefaultFolder),
		),
	).WithWidth(formWidth(width))
}

func formWidth(width int) int {
	w := width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// --- Validators ---

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., http://127.0.0.1:8001)")
	}
	return nil
}

func validateNumber(fieldName string) func(string) error {
	return func(s string) error {
		_, err := parsePositive(fieldName, s)
		return err
	}
}

func parsePositive(fieldName, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", fieldName)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", fieldName)
	}
	return n, nil
}
