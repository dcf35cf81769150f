package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Leaderboard board types.
const (
	BoardDaily   = "daily"
	BoardWeekly  = "weekly"
	BoardMonthly = "monthly"
	BoardAllTime = "allTime"
)

// LeaderboardEntry is one ranked row. Rank is filled in on read, after any
// location filtering.
type LeaderboardEntry struct {
	Rank            int    `json:"rank,omitempty"`
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	FullName        string `json:"fullName"`
	Location        string `json:"location"`
	TotalXP         int    `json:"totalXp"`
	Level           int    `json:"level"`
	DailyXP         int    `json:"dailyXp"`
	WeeklyXP        int    `json:"weeklyXp"`
	MonthlyXP       int    `json:"monthlyXp"`
	Streak          int    `json:"streak"`
	QuestsCompleted int    `json:"questsCompleted"`
}

// LeaderboardSnapshot is the single derived document the four boards are
// cached in. It is never the source of truth for ranking; Rebuild recomputes
// it wholesale from user stats.
type LeaderboardSnapshot struct {
	bun.BaseModel `bun:"table:leaderboard_snapshots,alias:lbs"`

	ID        int64              `bun:"id,pk,autoincrement" json:"-"`
	Daily     []LeaderboardEntry `bun:"daily,type:jsonb" json:"daily"`
	Weekly    []LeaderboardEntry `bun:"weekly,type:jsonb" json:"weekly"`
	Monthly   []LeaderboardEntry `bun:"monthly,type:jsonb" json:"monthly"`
	AllTime   []LeaderboardEntry `bun:"all_time,type:jsonb" json:"allTime"`
	UpdatedAt time.Time          `bun:"updated_at,notnull" json:"updatedAt"`
}

// Board returns the named board, nil for unknown types.
func (s *LeaderboardSnapshot) Board(boardType string) []LeaderboardEntry {
	switch boardType {
	case BoardDaily:
		return s.Daily
	case BoardWeekly:
		return s.Weekly
	case BoardMonthly:
		return s.Monthly
	case BoardAllTime:
		return s.AllTime
	}
	return nil
}

func (s *LeaderboardSnapshot) Clone() *LeaderboardSnapshot {
	c := *s
	c.Daily = append([]LeaderboardEntry(nil), s.Daily...)
	c.Weekly = append([]LeaderboardEntry(nil), s.Weekly...)
	c.Monthly = append([]LeaderboardEntry(nil), s.Monthly...)
	c.AllTime = append([]LeaderboardEntry(nil), s.AllTime...)
	return &c
}
