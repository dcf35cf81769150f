package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Activity entry kinds appended by the engine.
const (
	ActivityXP                = "xp"
	ActivityQuestComplete     = "quest_complete"
	ActivityAchievementUnlock = "achievement_unlock"
	ActivityStreakLost        = "streak_lost"
)

// ActivityEntry is one row of the append-only audit trail of ledger
// mutations. The log is bounded to the most recent 5000 entries.
type ActivityEntry struct {
	bun.BaseModel `bun:"table:activity_log,alias:al"`

	ID        int64          `bun:"id,pk,autoincrement" json:"id"`
	UserID    string         `bun:"user_id,notnull" json:"userId"`
	Type      string         `bun:"type,notnull" json:"type"`
	Data      map[string]any `bun:"data,type:jsonb" json:"data"`
	Timestamp time.Time      `bun:"timestamp,notnull" json:"timestamp"`
}
