package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
)

// Profile is the dashboard's single-user view: level card, streaks, period
// XP, quest progress and lifetime event counters in one payload.
type Profile struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Location string `json:"location"`

	Level struct {
		Level         int    `json:"level"`
		Title         string `json:"title"`
		TotalXP       int    `json:"totalXp"`
		XPToNextLevel int    `json:"xpToNextLevel"`
		Progress      int    `json:"progress"`
	} `json:"level"`

	Streak struct {
		Current      int    `json:"current"`
		Longest      int    `json:"longest"`
		LastLogin    string `json:"lastLogin"`
		XPMultiplier int    `json:"xpMultiplier"`
	} `json:"streak"`

	XP struct {
		Daily   int `json:"daily"`
		Weekly  int `json:"weekly"`
		Monthly int `json:"monthly"`
	} `json:"xp"`

	Quests struct {
		Completed      int                  `json:"completed"`
		CompletedToday int                  `json:"completedToday"`
		History        []models.QuestRecord `json:"history"`
	} `json:"quests"`

	Achievements struct {
		Unlocked int      `json:"unlocked"`
		Total    int      `json:"total"`
		IDs      []string `json:"ids"`
		Recent   []string `json:"recent"`
	} `json:"achievements"`

	Counters struct {
		FiveStarReviews int            `json:"fiveStarReviews"`
		BadReviews      int            `json:"badReviews"`
		BudgetDays      int            `json:"budgetDays"`
		RecordDays      int            `json:"recordDays"`
		AvgTicketDays   int            `json:"avgTicketDays"`
		EarlyLogins     int            `json:"earlyLogins"`
		CleaningQuests  int            `json:"cleaningQuests"`
		Categories      map[string]int `json:"categories"`
	} `json:"counters"`
}

// XPBreakdown summarizes where a user's recent XP came from, sourced from the
// audit trail rather than the ledger itself.
type XPBreakdown struct {
	UserID  string             `json:"userId"`
	Total   int                `json:"total"`
	Sources map[string]int     `json:"sources"`
	Recent  []XPBreakdownEntry `json:"recent"`
}

type XPBreakdownEntry struct {
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// FullProfile assembles the dashboard profile. Identity fields are refreshed
// from the employee directory on every read so renames and transfers show up
// without a backfill.
func (s *Service) FullProfile(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	release := s.locks.lock(userID)
	defer release()

	stats, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.resetPeriods(stats)

	if user, err := s.users.Lookup(ctx, userID); err == nil && user != nil {
		stats.Username = user.Username
		stats.FullName = user.FullName
		if user.Location != "" {
			stats.Location = user.Location
		}
	}

	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save stats for %s: %w", userID, err)
	}

	p := &Profile{
		UserID:   stats.UserID,
		Username: stats.Username,
		FullName: stats.FullName,
		Location: stats.Location,
	}

	p.Level.Level = stats.Level
	p.Level.Title = s.levels.Title(stats.Level)
	p.Level.TotalXP = stats.TotalXP
	p.Level.XPToNextLevel = stats.XPToNextLevel
	p.Level.Progress = s.levels.Progress(stats.Level, stats.TotalXP)

	p.Streak.Current = stats.CurrentStreak
	p.Streak.Longest = stats.LongestStreak
	p.Streak.LastLogin = stats.LastLoginDate
	p.Streak.XPMultiplier = XPMultiplier(stats.CurrentStreak)

	p.XP.Daily = stats.DailyXP
	p.XP.Weekly = stats.WeeklyXP
	p.XP.Monthly = stats.MonthlyXP

	p.Quests.Completed = stats.QuestsCompleted
	p.Quests.CompletedToday = len(stats.DailyQuests)
	p.Quests.History = stats.QuestHistory

	p.Achievements.Unlocked = len(stats.Achievements)
	p.Achievements.Total = len(s.catalog.Achievements)
	p.Achievements.IDs = stats.Achievements
	recent := stats.Achievements
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	p.Achievements.Recent = recent

	p.Counters.FiveStarReviews = stats.FiveStarReviews
	p.Counters.BadReviews = stats.BadReviews
	p.Counters.BudgetDays = stats.BudgetDays
	p.Counters.RecordDays = stats.RecordDays
	p.Counters.AvgTicketDays = stats.AvgTicketDays
	p.Counters.EarlyLogins = stats.EarlyLogins
	p.Counters.CleaningQuests = stats.CleaningQuests
	p.Counters.Categories = stats.CategoryStats

	return p, nil
}

// UserXPBreakdown reports recent XP sources for an existing user. Unlike the
// profile it never creates a record; asking about an unknown user is an
// error.
func (s *Service) UserXPBreakdown(ctx context.Context, userID string) (*XPBreakdown, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	stats, err := s.stats.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats for %s: %w", userID, err)
	}
	if stats == nil {
		return nil, ErrUserNotFound
	}

	entries, err := s.activity.List(ctx, userID, questHistoryLimit)
	if err != nil {
		return nil, err
	}

	breakdown := &XPBreakdown{
		UserID:  userID,
		Total:   stats.TotalXP,
		Sources: make(map[string]int),
	}
	for _, entry := range entries {
		if entry.Type != models.ActivityXP {
			continue
		}
		amount := intFromAny(entry.Data["amount"])
		reason, _ := entry.Data["reason"].(string)
		breakdown.Sources[reason] += amount
		breakdown.Recent = append(breakdown.Recent, XPBreakdownEntry{
			Amount:    amount,
			Reason:    reason,
			Timestamp: entry.Timestamp,
		})
	}
	return breakdown, nil
}

// intFromAny handles the two shapes numbers take in activity payloads:
// native ints from the in-memory store and float64 after a jsonb round trip.
func intFromAny(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
