package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/inbox/internal/model"
)

// RecordMutation appends a mutation outcome to the journal. A missing ID
// or timestamp is filled in.
func (s *SQLiteStore) RecordMutation(ctx context.Context, rec model.MutationRecord) error {
	if rec.Kind == "" {
		return fmt.Errorf("mutation kind must not be empty")
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mutations (id, kind, message_id, detail, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), rec.MessageID, rec.Detail, rec.Error,
		rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording %s mutation for %s: %w", rec.Kind, rec.MessageID, err)
	}
	return nil
}

// GetMutations returns journaled mutations, newest first.
func (s *SQLiteStore) GetMutations(
	ctx context.Context,
	opts MutationFilter,
) ([]model.MutationRecord, error) {
	var conditions []string
	var args []interface{}

	if opts.MessageID != "" {
		conditions = append(conditions, "message_id = ?")
		args = append(args, opts.MessageID)
	}
	if opts.FailedOnly {
		conditions = append(conditions, "error != ''")
	}

	query := "SELECT id, kind, message_id, detail, error, created_at FROM mutations"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	var recs []model.MutationRecord
	if err := s.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("querying mutations: %w", err)
	}
	return recs, nil
}

// RecordNotification appends a shown notification to the history.
func (s *SQLiteStore) RecordNotification(ctx context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, message, kind, created_at)
		VALUES (?, ?, ?, ?)`,
		n.ID, n.Message, string(n.Kind), n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording notification: %w", err)
	}
	return nil
}

// GetNotifications returns up to limit notifications, newest first.
// A non-positive limit returns all of them.
func (s *SQLiteStore) GetNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	query := "SELECT id, message, kind, created_at FROM notifications ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var out []model.Notification
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	return out, nil
}

// PruneBefore deletes journal rows older than cutoff and returns how many
// were removed.
func (s *SQLiteStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var total int64
	for _, table := range []string{"mutations", "notifications"} {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE created_at < ?", cutoff.UTC())
		if err != nil {
			return 0, fmt.Errorf("pruning %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing prune: %w", err)
	}
	return total, nil
}
