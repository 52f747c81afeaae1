package store

import (
	"context"
	"time"

	"github.com/nhle/inbox/internal/model"
)

// MutationFilter holds the options for querying the mutation journal.
type MutationFilter struct {
	// MessageID restricts results to one message when set.
	MessageID string

	// FailedOnly returns only mutations whose remote call failed.
	FailedOnly bool

	// Limit caps the number of rows; zero means no limit.
	Limit int
}

// Store is the local journal of remote mutation outcomes and shown
// notifications. It never holds mailbox contents.
type Store interface {
	RecordMutation(ctx context.Context, rec model.MutationRecord) error
	GetMutations(ctx context.Context, opts MutationFilter) ([]model.MutationRecord, error)

	RecordNotification(ctx context.Context, n model.Notification) error
	GetNotifications(ctx context.Context, limit int) ([]model.Notification, error)

	// PruneBefore deletes journal rows older than cutoff.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)

	Close() error
}
