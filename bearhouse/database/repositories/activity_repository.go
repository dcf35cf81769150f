package repositories

import (
	"context"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/uptrace/bun"
)

// maxActivityEntries bounds the audit trail to the most recent entries.
const maxActivityEntries = 5000

// ActivityRepository is the append-only audit trail of ledger mutations.
type ActivityRepository interface {
	Append(ctx context.Context, entry *models.ActivityEntry) error
	// List returns newest-first entries, filtered to one user when userID is
	// non-empty.
	List(ctx context.Context, userID string, limit int) ([]*models.ActivityEntry, error)
}

type activityRepository struct {
	db *bun.DB
}

func NewActivityRepository(db *bun.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, entry *models.ActivityEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if _, err := r.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return err
	}

	// Trim everything older than the newest maxActivityEntries rows.
	_, err := r.db.NewDelete().
		Model((*models.ActivityEntry)(nil)).
		Where("id NOT IN (SELECT id FROM activity_log ORDER BY timestamp DESC, id DESC LIMIT ?)", maxActivityEntries).
		Exec(ctx)
	return err
}

func (r *activityRepository) List(ctx context.Context, userID string, limit int) ([]*models.ActivityEntry, error) {
	if limit <= 0 || limit > maxActivityEntries {
		limit = 50
	}

	var entries []*models.ActivityEntry
	q := r.db.NewSelect().
		Model(&entries).
		Order("timestamp DESC", "id DESC").
		Limit(limit)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return entries, nil
}
