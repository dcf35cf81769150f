// Package gamification is the accounting engine behind the dashboard: it
// turns logins, quest completions, reviews and sales events into XP, levels,
// streaks and achievements, with per-period idempotence for quests.
package gamification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/calendar"
	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/bearhouse/dashboard/bearhouse/database/repositories"
	"github.com/bearhouse/dashboard/bearhouse/logger"
	"github.com/bearhouse/dashboard/bearhouse/registry"
)

// questHistoryLimit bounds the per-user completion log.
const questHistoryLimit = 100

type Service struct {
	stats    repositories.UserStatsRepository
	activity repositories.ActivityRepository
	users    registry.Directory
	catalog  *Catalog
	levels   *LevelTable
	locks    *userLocks

	defaultLocation string

	// now is swapped out by tests to cross period boundaries.
	now func() time.Time
}

func NewService(
	stats repositories.UserStatsRepository,
	activity repositories.ActivityRepository,
	users registry.Directory,
	catalog *Catalog,
	levels *LevelTable,
	defaultLocation string,
) *Service {
	return &Service{
		stats:           stats,
		activity:        activity,
		users:           users,
		catalog:         catalog,
		levels:          levels,
		locks:           newUserLocks(),
		defaultLocation: defaultLocation,
		now:             time.Now,
	}
}

// Catalog exposes the validated catalog for read-only use (search, views).
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// loadOrCreate returns the user's stats document, creating the canonical
// zeroed record on first contact.
func (s *Service) loadOrCreate(ctx context.Context, userID string) (*models.UserStats, error) {
	stats, err := s.stats.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats for %s: %w", userID, err)
	}
	if stats != nil {
		return stats, nil
	}

	stats = s.newUserStats(ctx, userID)
	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to create stats for %s: %w", userID, err)
	}

	logger.LogGame("Created stats record",
		slog.String("user_id", userID),
		slog.String("location", stats.Location))
	return stats, nil
}

// newUserStats is the single canonical constructor for fresh records: all
// counters zeroed, level 1, period keys stamped for the current periods, and
// the first-login achievement pre-seeded.
func (s *Service) newUserStats(ctx context.Context, userID string) *models.UserStats {
	now := s.now()

	username, fullName, location := "unknown", "Unknown User", s.defaultLocation
	if user, err := s.users.Lookup(ctx, userID); err == nil && user != nil {
		username, fullName, location = user.Username, user.FullName, user.Location
	}

	categories := make(map[string]int, len(questTags))
	for tag := range questTags {
		categories[tag] = 0
	}

	return &models.UserStats{
		UserID:   userID,
		Username: username,
		FullName: fullName,
		Location: location,

		TotalXP:       0,
		Level:         1,
		XPToNextLevel: s.levels.XPToNext(1, 0),

		QuestHistory:     []models.QuestRecord{},
		Achievements:     []string{"first-login"},
		AchievementDates: map[string]time.Time{"first-login": now},
		CategoryStats:    categories,

		DailyQuests:        []string{},
		LastDailyReset:     calendar.DayKey(now),
		WeeklyQuests:       []string{},
		LastWeeklyReset:    calendar.WeekKey(now),
		MonthlyQuests:      []string{},
		LastMonthlyReset:   calendar.MonthKey(now),
		QuarterlyQuests:    []string{},
		LastQuarterlyReset: calendar.QuarterKey(now),
	}
}

// resetPeriods clears any accumulator whose stored period key no longer
// matches the current period. Idempotent; a no-op when nothing rolled over.
func (s *Service) resetPeriods(stats *models.UserStats) {
	now := s.now()

	if today := calendar.DayKey(now); stats.LastDailyReset != today {
		stats.DailyQuests = []string{}
		stats.DailyXP = 0
		stats.LastDailyReset = today
	}
	if week := calendar.WeekKey(now); stats.LastWeeklyReset != week {
		stats.WeeklyQuests = []string{}
		stats.WeeklyXP = 0
		stats.LastWeeklyReset = week
	}
	if month := calendar.MonthKey(now); stats.LastMonthlyReset != month {
		stats.MonthlyQuests = []string{}
		stats.MonthlyXP = 0
		stats.LastMonthlyReset = month
	}
	if quarter := calendar.QuarterKey(now); stats.LastQuarterlyReset != quarter {
		stats.QuarterlyQuests = []string{}
		stats.QuarterlyXP = 0
		stats.LastQuarterlyReset = quarter
	}
}

// logActivity appends one audit-trail entry. Write failures surface to the
// caller; a silently lost audit entry is undetectable later.
func (s *Service) logActivity(ctx context.Context, userID, entryType string, data map[string]any) error {
	entry := &models.ActivityEntry{
		UserID:    userID,
		Type:      entryType,
		Data:      data,
		Timestamp: s.now(),
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append activity entry: %w", err)
	}
	return nil
}

// Activity returns newest-first audit entries, optionally filtered to one
// user.
func (s *Service) Activity(ctx context.Context, userID string, limit int) ([]*models.ActivityEntry, error) {
	return s.activity.List(ctx, userID, limit)
}
