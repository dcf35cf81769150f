package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/uptrace/bun"
)

// LeaderboardRepository stores the single derived snapshot document.
type LeaderboardRepository interface {
	// Get returns the current snapshot, or (nil, nil) before the first
	// rebuild.
	Get(ctx context.Context) (*models.LeaderboardSnapshot, error)
	Save(ctx context.Context, snapshot *models.LeaderboardSnapshot) error
}

type leaderboardRepository struct {
	db *bun.DB
}

func NewLeaderboardRepository(db *bun.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) Get(ctx context.Context) (*models.LeaderboardSnapshot, error) {
	snapshot := new(models.LeaderboardSnapshot)
	err := r.db.NewSelect().
		Model(snapshot).
		Order("id ASC").
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return snapshot, nil
}

func (r *leaderboardRepository) Save(ctx context.Context, snapshot *models.LeaderboardSnapshot) error {
	snapshot.UpdatedAt = time.Now()

	if snapshot.ID == 0 {
		_, err := r.db.NewInsert().Model(snapshot).Exec(ctx)
		return err
	}

	_, err := r.db.NewUpdate().
		Model(snapshot).
		WherePK().
		Exec(ctx)
	return err
}
