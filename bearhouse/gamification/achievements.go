package gamification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/bearhouse/dashboard/bearhouse/logger"
)

type AchievementResult struct {
	Achievement     Achievement `json:"achievement"`
	AlreadyUnlocked bool        `json:"alreadyUnlocked"`
	UnlockedAt      time.Time   `json:"unlockedAt"`
}

// AchievementView annotates a catalog achievement with the user's progress.
type AchievementView struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// UnlockAchievement grants an achievement by id. Unlocking is idempotent: a
// second call reports AlreadyUnlocked without touching the record.
func (s *Service) UnlockAchievement(ctx context.Context, userID, achievementID string) (*AchievementResult, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	achievement, ok := s.catalog.Achievement(achievementID)
	if !ok {
		return nil, ErrAchievementNotFound
	}

	release := s.locks.lock(userID)
	defer release()

	stats, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if stats.HasAchievement(achievementID) {
		result := &AchievementResult{Achievement: achievement, AlreadyUnlocked: true}
		if at, ok := stats.AchievementDates[achievementID]; ok {
			result.UnlockedAt = at
		}
		return result, nil
	}

	if err := s.unlockLocked(ctx, stats, achievement); err != nil {
		return nil, err
	}
	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save stats for %s: %w", userID, err)
	}

	return &AchievementResult{
		Achievement: achievement,
		UnlockedAt:  stats.AchievementDates[achievementID],
	}, nil
}

// unlockLocked grants an achievement on an already-locked stats document.
// The caller persists.
func (s *Service) unlockLocked(ctx context.Context, stats *models.UserStats, achievement Achievement) error {
	stats.Achievements = append(stats.Achievements, achievement.ID)
	if stats.AchievementDates == nil {
		stats.AchievementDates = make(map[string]time.Time)
	}
	stats.AchievementDates[achievement.ID] = s.now()

	logger.LogGame("Achievement unlocked",
		slog.String("user_id", stats.UserID),
		slog.String("achievement", achievement.ID))

	return s.logActivity(ctx, stats.UserID, models.ActivityAchievementUnlock, map[string]any{
		"achievementId": achievement.ID,
		"name":          achievement.Name,
		"icon":          achievement.Icon,
	})
}

// checkWatchers unlocks every not-yet-held achievement watching the given
// counter once its threshold is reached.
func (s *Service) checkWatchers(ctx context.Context, stats *models.UserStats, kind TriggerKind, value int) error {
	for _, achievement := range s.catalog.WatchersFor(kind) {
		if value < achievement.Threshold || stats.HasAchievement(achievement.ID) {
			continue
		}
		if err := s.unlockLocked(ctx, stats, achievement); err != nil {
			return err
		}
	}
	return nil
}

// UserAchievements returns the full catalog annotated with the user's unlock
// state.
func (s *Service) UserAchievements(ctx context.Context, userID string) ([]AchievementView, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	release := s.locks.lock(userID)
	defer release()

	stats, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]AchievementView, 0, len(s.catalog.Achievements))
	for _, achievement := range s.catalog.Achievements {
		view := AchievementView{Achievement: achievement}
		if stats.HasAchievement(achievement.ID) {
			view.Unlocked = true
			if at, ok := stats.AchievementDates[achievement.ID]; ok {
				t := at
				view.UnlockedAt = &t
			}
		}
		views = append(views, view)
	}
	return views, nil
}
