package models

import (
	"time"

	"github.com/uptrace/bun"
)

// QuestRecord is one entry in a user's bounded quest history.
type QuestRecord struct {
	QuestID     string    `json:"questId"`
	Category    string    `json:"category"`
	XP          int       `json:"xp"`
	CompletedAt time.Time `json:"completedAt"`
}

type UserStats struct {
	bun.BaseModel `bun:"table:user_stats,alias:us"`

	ID       int64  `bun:"id,pk,autoincrement"`
	UserID   string `bun:"user_id,notnull,unique"`
	Username string `bun:"username,notnull"`
	FullName string `bun:"full_name,notnull"`
	Location string `bun:"location,notnull"`

	// XP & level. Level is a cache of the threshold-table lookup and is
	// recomputed on every XP change.
	TotalXP       int `bun:"total_xp,notnull,default:0"`
	Level         int `bun:"level,notnull,default:1"`
	XPToNextLevel int `bun:"xp_to_next_level,notnull,default:0"`

	// Login streak
	CurrentStreak int    `bun:"current_streak,notnull,default:0"`
	LongestStreak int    `bun:"longest_streak,notnull,default:0"`
	LastLoginDate string `bun:"last_login_date"`

	// Quest tracking
	QuestsCompleted int           `bun:"quests_completed,notnull,default:0"`
	QuestHistory    []QuestRecord `bun:"quest_history,type:jsonb"`

	// Achievement tracking
	Achievements     []string             `bun:"achievements,type:jsonb"`
	AchievementDates map[string]time.Time `bun:"achievement_dates,type:jsonb"`

	// Counters only achievements key off
	FiveStarReviews int            `bun:"five_star_reviews,notnull,default:0"`
	BadReviews      int            `bun:"bad_reviews,notnull,default:0"`
	BudgetDays      int            `bun:"budget_days,notnull,default:0"`
	RecordDays      int            `bun:"record_days,notnull,default:0"`
	AvgTicketDays   int            `bun:"avg_ticket_days,notnull,default:0"`
	EarlyLogins     int            `bun:"early_logins,notnull,default:0"`
	CleaningQuests  int            `bun:"cleaning_quests,notnull,default:0"`
	CategoryStats   map[string]int `bun:"category_stats,type:jsonb"`

	// Period accumulators. Each pairs the set of quest ids completed in the
	// running period with the XP earned in it, plus the key of the period
	// they were last reset for.
	DailyQuests        []string `bun:"daily_quests,type:jsonb"`
	DailyXP            int      `bun:"daily_xp,notnull,default:0"`
	LastDailyReset     string   `bun:"last_daily_reset"`
	WeeklyQuests       []string `bun:"weekly_quests,type:jsonb"`
	WeeklyXP           int      `bun:"weekly_xp,notnull,default:0"`
	LastWeeklyReset    string   `bun:"last_weekly_reset"`
	MonthlyQuests      []string `bun:"monthly_quests,type:jsonb"`
	MonthlyXP          int      `bun:"monthly_xp,notnull,default:0"`
	LastMonthlyReset   string   `bun:"last_monthly_reset"`
	QuarterlyQuests    []string `bun:"quarterly_quests,type:jsonb"`
	QuarterlyXP        int      `bun:"quarterly_xp,notnull,default:0"`
	LastQuarterlyReset string   `bun:"last_quarterly_reset"`

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// HasAchievement reports whether the achievement id is already unlocked.
func (s *UserStats) HasAchievement(id string) bool {
	for _, a := range s.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, used by the in-memory store so callers never
// alias stored state.
func (s *UserStats) Clone() *UserStats {
	c := *s
	c.QuestHistory = append([]QuestRecord(nil), s.QuestHistory...)
	c.Achievements = append([]string(nil), s.Achievements...)
	c.DailyQuests = append([]string(nil), s.DailyQuests...)
	c.WeeklyQuests = append([]string(nil), s.WeeklyQuests...)
	c.MonthlyQuests = append([]string(nil), s.MonthlyQuests...)
	c.QuarterlyQuests = append([]string(nil), s.QuarterlyQuests...)
	c.AchievementDates = make(map[string]time.Time, len(s.AchievementDates))
	for k, v := range s.AchievementDates {
		c.AchievementDates[k] = v
	}
	c.CategoryStats = make(map[string]int, len(s.CategoryStats))
	for k, v := range s.CategoryStats {
		c.CategoryStats[k] = v
	}
	return &c
}
