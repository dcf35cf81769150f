package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/uptrace/bun"
)

// UserStatsRepository loads and saves whole per-user stats documents. The
// engine works load-mutate-save; there are no partial-field updates.
type UserStatsRepository interface {
	// Get returns the stats for a user, or (nil, nil) when none exist yet.
	Get(ctx context.Context, userID string) (*models.UserStats, error)
	GetAll(ctx context.Context) ([]*models.UserStats, error)
	Save(ctx context.Context, stats *models.UserStats) error
}

type userStatsRepository struct {
	db *bun.DB
}

func NewUserStatsRepository(db *bun.DB) UserStatsRepository {
	return &userStatsRepository{db: db}
}

func (r *userStatsRepository) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	stats := new(models.UserStats)
	err := r.db.NewSelect().
		Model(stats).
		Where("user_id = ?", userID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return stats, nil
}

func (r *userStatsRepository) GetAll(ctx context.Context) ([]*models.UserStats, error) {
	var all []*models.UserStats
	err := r.db.NewSelect().
		Model(&all).
		Order("user_id ASC").
		Scan(ctx)

	return all, err
}

func (r *userStatsRepository) Save(ctx context.Context, stats *models.UserStats) error {
	stats.UpdatedAt = time.Now()
	if stats.CreatedAt.IsZero() {
		stats.CreatedAt = stats.UpdatedAt
	}

	if stats.ID == 0 {
		_, err := r.db.NewInsert().Model(stats).Exec(ctx)
		return err
	}

	_, err := r.db.NewUpdate().
		Model(stats).
		WherePK().
		Exec(ctx)
	return err
}
