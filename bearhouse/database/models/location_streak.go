package models

import (
	"time"

	"github.com/uptrace/bun"
)

// StreakParticipant tracks one worker's share of an active budget-hit
// streak. BonusPaid is the streak length their bonus XP has been settled up
// to; it resets to zero with the streak.
type StreakParticipant struct {
	Days      []string `json:"days"`
	BonusPaid int      `json:"bonusPaid"`
}

// StreakDay is one bounded-history record. A day either extends the streak
// (Streak > 0) or breaks it (StreakBroken with the final length).
type StreakDay struct {
	Date         string  `json:"date"`
	Sales        float64 `json:"sales"`
	Budget       float64 `json:"budget"`
	Streak       int     `json:"streak,omitempty"`
	Workers      int     `json:"workers,omitempty"`
	XPAwarded    int     `json:"xpAwarded,omitempty"`
	StreakBroken bool    `json:"streakBroken,omitempty"`
	FinalStreak  int     `json:"finalStreak,omitempty"`
}

// LocationStreak is the per-location budget-hit streak document.
type LocationStreak struct {
	bun.BaseModel `bun:"table:location_streaks,alias:ls"`

	ID            int64                         `bun:"id,pk,autoincrement"`
	Location      string                        `bun:"location,notnull,unique"`
	CurrentStreak int                           `bun:"current_streak,notnull,default:0"`
	LastHitDate   string                        `bun:"last_hit_date"`
	Participants  map[string]*StreakParticipant `bun:"participants,type:jsonb"`
	History       []StreakDay                   `bun:"history,type:jsonb"`
	UpdatedAt     time.Time                     `bun:"updated_at,notnull"`
}

func (l *LocationStreak) Clone() *LocationStreak {
	c := *l
	c.History = append([]StreakDay(nil), l.History...)
	c.Participants = make(map[string]*StreakParticipant, len(l.Participants))
	for name, p := range l.Participants {
		cp := *p
		cp.Days = append([]string(nil), p.Days...)
		c.Participants[name] = &cp
	}
	return &c
}
