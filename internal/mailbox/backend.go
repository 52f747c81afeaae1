package mailbox

import (
	"context"
	"time"

	"github.com/nhle/inbox/internal/model"
)

// Backend is the remote mailbox a Session drives. *api.Client satisfies it.
type Backend interface {
	Labels(ctx context.Context) ([]model.Label, error)
	Messages(ctx context.Context, folder model.Folder) ([]model.Message, error)
	Analyze(ctx context.Context, messageID string) (*model.AnalysisResult, error)
	MarkRead(ctx context.Context, messageID string) error
	Trash(ctx context.Context, messageID string) error
	Archive(ctx context.Context, messageID, labelName string) error
	AddLabel(ctx context.Context, messageID, labelName string) error
	Reply(ctx context.Context, messageID, text string) error
	CreateMeeting(ctx context.Context, req model.MeetingRequest) (string, error)
}

// Journal records the outcome of remote mutations and every notification
// shown. Implementations must be safe for use from multiple goroutines.
type Journal interface {
	RecordMutation(ctx context.Context, rec model.MutationRecord) error
	RecordNotification(ctx context.Context, n model.Notification) error
}

// LinkOpener opens a URL outside the terminal, e.g. in a browser.
type LinkOpener func(url string) error

// Options configures a Session.
type Options struct {
	// ArchiveLabel is attached to archived messages.
	ArchiveLabel string

	// NotifyTTL is how long a notification stays visible.
	NotifyTTL time.Duration

	// RequestTimeout bounds each remote call issued by the session.
	RequestTimeout time.Duration

	// Journal is optional.
	Journal Journal

	// OpenLink is optional; without it calendar links are only announced.
	OpenLink LinkOpener
}

const (
	defaultArchiveLabel   = "AI-Handled"
	defaultNotifyTTL      = 3 * time.Second
	defaultRequestTimeout = 30 * time.Second
	journalTimeout        = 5 * time.Second
)

func (o Options) withDefaults() Options {
	if o.ArchiveLabel == "" {
		o.ArchiveLabel = defaultArchiveLabel
	}
	if o.NotifyTTL <= 0 {
		o.NotifyTTL = defaultNotifyTTL
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = defaultRequestTimeout
	}
	return o
}
