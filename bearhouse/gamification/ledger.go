package gamification

import (
	"context"
	"fmt"

	"github.com/bearhouse/dashboard/bearhouse/calendar"
	"github.com/bearhouse/dashboard/bearhouse/database/models"
)

// Login streak milestones with their one-time XP bonuses.
const (
	streakMilestoneWeek     = 7
	streakMilestoneWeekXP   = 75
	streakMilestoneMonth    = 30
	streakMilestoneMonthXP  = 200
	streakMultiplierMin     = 7
	streakMultiplierBoost   = 2
	streakMultiplierDefault = 1
)

type LedgerResult struct {
	XPAdded       int    `json:"xpAdded"`
	TotalXP       int    `json:"totalXp"`
	Level         int    `json:"level"`
	XPToNextLevel int    `json:"xpToNextLevel"`
	LeveledUp     bool   `json:"leveledUp"`
	NewLevel      int    `json:"newLevel,omitempty"`
	Reward        string `json:"reward,omitempty"`
}

type LoginStreakResult struct {
	Streak        int  `json:"streak"`
	LongestStreak int  `json:"longestStreak"`
	Extended      bool `json:"extended"`
	BonusXP       int  `json:"bonusXp,omitempty"`
}

// AddXP credits (or debits) XP against a user's ledger. The total never goes
// below zero; only positive deltas feed the period accumulators.
func (s *Service) AddXP(ctx context.Context, userID string, amount int, reason string) (*LedgerResult, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	release := s.locks.lock(userID)
	defer release()

	stats, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.applyXP(ctx, stats, amount, reason)
	if err != nil {
		return nil, err
	}
	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save stats for %s: %w", userID, err)
	}
	return result, nil
}

// applyXP mutates an already-locked, already-loaded stats document. Callers
// own persistence; this keeps quest completion and event handlers on a single
// load-mutate-save cycle.
func (s *Service) applyXP(ctx context.Context, stats *models.UserStats, amount int, reason string) (*LedgerResult, error) {
	s.resetPeriods(stats)

	oldLevel := stats.Level

	stats.TotalXP += amount
	if stats.TotalXP < 0 {
		stats.TotalXP = 0
	}
	if amount > 0 {
		stats.DailyXP += amount
		stats.WeeklyXP += amount
		stats.MonthlyXP += amount
	}

	stats.Level = s.levels.LevelFor(stats.TotalXP)
	stats.XPToNextLevel = s.levels.XPToNext(stats.Level, stats.TotalXP)

	result := &LedgerResult{
		XPAdded:       amount,
		TotalXP:       stats.TotalXP,
		Level:         stats.Level,
		XPToNextLevel: stats.XPToNextLevel,
	}

	if err := s.logActivity(ctx, stats.UserID, models.ActivityXP, map[string]any{
		"amount":   amount,
		"reason":   reason,
		"newTotal": stats.TotalXP,
		"level":    stats.Level,
	}); err != nil {
		return nil, err
	}

	if stats.Level > oldLevel {
		result.LeveledUp = true
		result.NewLevel = stats.Level
		result.Reward = s.levels.Reward(stats.Level)
		if err := s.checkWatchers(ctx, stats, TriggerLevel, stats.Level); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UpdateStreak records a daily login. Consecutive days extend the streak, a
// gap resets it to 1, and repeated logins on the same day are no-ops. The 7
// and 30 day milestones pay a one-time XP bonus on the exact day they are
// reached.
func (s *Service) UpdateStreak(ctx context.Context, userID string) (*LoginStreakResult, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	release := s.locks.lock(userID)
	defer release()

	stats, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := calendar.DayKey(s.now())
	if stats.LastLoginDate == today {
		return &LoginStreakResult{
			Streak:        stats.CurrentStreak,
			LongestStreak: stats.LongestStreak,
		}, nil
	}

	yesterday, err := calendar.Yesterday(today)
	if err != nil {
		return nil, err
	}

	result := &LoginStreakResult{}
	if stats.LastLoginDate == yesterday {
		stats.CurrentStreak++
		result.Extended = true

		switch stats.CurrentStreak {
		case streakMilestoneWeek:
			result.BonusXP = streakMilestoneWeekXP
		case streakMilestoneMonth:
			result.BonusXP = streakMilestoneMonthXP
		}
		if result.BonusXP > 0 {
			reason := fmt.Sprintf("%d-dagers streak bonus! 🔥", stats.CurrentStreak)
			if _, err := s.applyXP(ctx, stats, result.BonusXP, reason); err != nil {
				return nil, err
			}
		}
	} else {
		if stats.CurrentStreak > 0 {
			if err := s.logActivity(ctx, userID, models.ActivityStreakLost, map[string]any{
				"oldStreak": stats.CurrentStreak,
			}); err != nil {
				return nil, err
			}
		}
		stats.CurrentStreak = 1
	}

	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastLoginDate = today

	if err := s.checkWatchers(ctx, stats, TriggerLoginStreak, stats.CurrentStreak); err != nil {
		return nil, err
	}

	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save stats for %s: %w", userID, err)
	}

	result.Streak = stats.CurrentStreak
	result.LongestStreak = stats.LongestStreak
	return result, nil
}

// XPMultiplier is the display multiplier for an active streak.
func XPMultiplier(streak int) int {
	if streak >= streakMultiplierMin {
		return streakMultiplierBoost
	}
	return streakMultiplierDefault
}
