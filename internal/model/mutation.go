package model

import "time"

// MutationKind names a user-triggered remote mutation.
type MutationKind string

const (
	MutationMarkRead    MutationKind = "mark_read"
	MutationTrash       MutationKind = "trash"
	MutationArchive     MutationKind = "archive"
	MutationAddLabel    MutationKind = "add_label"
	MutationReply       MutationKind = "reply"
	MutationCreateEvent MutationKind = "create_event"
)

// MutationRecord is one journaled remote mutation and its outcome.
type MutationRecord struct {
	ID        string       `db:"id"`
	Kind      MutationKind `db:"kind"`
	MessageID string       `db:"message_id"`

	// Detail carries the mutation argument (label name, archive tag).
	Detail string `db:"detail"`

	// Error is empty when the remote call succeeded.
	Error     string    `db:"error"`
	CreatedAt time.Time `db:"created_at"`
}

// Failed reports whether the remote call behind this record failed.
func (r MutationRecord) Failed() bool {
	return r.Error != ""
}
