package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/uptrace/bun"
)

// StreakRepository stores the per-location budget-hit streak documents.
type StreakRepository interface {
	// Get returns the streak state for a location, or (nil, nil) when the
	// location has no state yet.
	Get(ctx context.Context, location string) (*models.LocationStreak, error)
	Save(ctx context.Context, streak *models.LocationStreak) error
}

type streakRepository struct {
	db *bun.DB
}

func NewStreakRepository(db *bun.DB) StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) Get(ctx context.Context, location string) (*models.LocationStreak, error) {
	streak := new(models.LocationStreak)
	err := r.db.NewSelect().
		Model(streak).
		Where("location = ?", location).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return streak, nil
}

func (r *streakRepository) Save(ctx context.Context, streak *models.LocationStreak) error {
	streak.UpdatedAt = time.Now()

	if streak.ID == 0 {
		_, err := r.db.NewInsert().Model(streak).Exec(ctx)
		return err
	}

	_, err := r.db.NewUpdate().
		Model(streak).
		WherePK().
		Exec(ctx)
	return err
}
