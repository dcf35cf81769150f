package gamification

import (
	"fmt"

	"github.com/sahilm/fuzzy"
)

// QuestCategory controls how often a quest can be completed: once per
// period for the four periodic categories, repeatable for seasonal and
// special.
type QuestCategory string

const (
	QuestDaily     QuestCategory = "daily"
	QuestWeekly    QuestCategory = "weekly"
	QuestMonthly   QuestCategory = "monthly"
	QuestQuarterly QuestCategory = "quarterly"
	QuestSeasonal  QuestCategory = "seasonal"
	QuestSpecial   QuestCategory = "special"
)

// Periodic reports whether completions are idempotent within a period.
func (c QuestCategory) Periodic() bool {
	switch c {
	case QuestDaily, QuestWeekly, QuestMonthly, QuestQuarterly:
		return true
	}
	return false
}

var questCategories = []QuestCategory{
	QuestDaily, QuestWeekly, QuestMonthly, QuestQuarterly, QuestSeasonal, QuestSpecial,
}

// Domain tags quests can carry; each tag has a per-user completion counter.
var questTags = map[string]bool{
	"basis": true, "drift": true, "renhold": true, "utstyr": true,
	"haccp": true, "salg": true, "service": true, "admin": true,
	"team": true, "opplæring": true, "markedsføring": true, "uteområde": true,
	"miljø": true, "sikkerhet": true, "produksjon": true, "innovasjon": true,
	"bærekraft": true, "sesong": true,
}

type Quest struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category QuestCategory `json:"category"`
	XP       int           `json:"xp"`
	// Tag names the domain counter bumped on completion.
	Tag string `json:"tag,omitempty"`
	// Season gates availability: a coarse gate (winter/summer/spring-summer)
	// on weekly and monthly quests, a month window ("november-december") on
	// seasonal ones.
	Season string `json:"season,omitempty"`
	// AutoTrack marks special quests completed by an external trigger, not
	// through the manual quest list.
	AutoTrack bool `json:"autoTrack,omitempty"`
}

// TriggerKind names the lifetime counter an achievement watches.
type TriggerKind string

const (
	TriggerQuestsCompleted TriggerKind = "quests_completed"
	TriggerLoginStreak     TriggerKind = "login_streak"
	TriggerLevel           TriggerKind = "level"
	TriggerFiveStarReviews TriggerKind = "five_star_reviews"
	TriggerBudgetDays      TriggerKind = "budget_days"
	TriggerRecordDays      TriggerKind = "record_days"
	TriggerAvgTicketDays   TriggerKind = "avg_ticket_days"
	TriggerEarlyLogins     TriggerKind = "early_logins"
	TriggerCleaningQuests  TriggerKind = "cleaning_quests"
	// TriggerManual achievements are only unlocked explicitly (first-login,
	// admin grants).
	TriggerManual TriggerKind = "manual"
)

var triggerKinds = map[TriggerKind]bool{
	TriggerQuestsCompleted: true, TriggerLoginStreak: true, TriggerLevel: true,
	TriggerFiveStarReviews: true, TriggerBudgetDays: true, TriggerRecordDays: true,
	TriggerAvgTicketDays: true, TriggerEarlyLogins: true, TriggerCleaningQuests: true,
	TriggerManual: true,
}

type Achievement struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Trigger     TriggerKind `json:"trigger"`
	Threshold   int         `json:"threshold,omitempty"`
}

// Catalog is the static quest and achievement content, validated once at
// construction so the engine can index it by untyped id strings safely.
type Catalog struct {
	Quests       map[QuestCategory][]Quest
	Achievements []Achievement

	questByID       map[string]Quest
	achievementByID map[string]Achievement
}

// NewCatalog validates and indexes catalog content.
func NewCatalog(quests map[QuestCategory][]Quest, achievements []Achievement) (*Catalog, error) {
	c := &Catalog{
		Quests:          quests,
		Achievements:    achievements,
		questByID:       make(map[string]Quest),
		achievementByID: make(map[string]Achievement),
	}

	for category, list := range quests {
		valid := false
		for _, known := range questCategories {
			if category == known {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("unknown quest category %q", category)
		}
		for _, q := range list {
			if q.ID == "" || q.Name == "" {
				return nil, fmt.Errorf("quest in category %q missing id or name", category)
			}
			if q.XP <= 0 {
				return nil, fmt.Errorf("quest %q has non-positive xp", q.ID)
			}
			if q.Category != category {
				return nil, fmt.Errorf("quest %q declares category %q but is listed under %q", q.ID, q.Category, category)
			}
			if q.Tag != "" && !questTags[q.Tag] {
				return nil, fmt.Errorf("quest %q has unknown tag %q", q.ID, q.Tag)
			}
			if _, dup := c.questByID[q.ID]; dup {
				return nil, fmt.Errorf("duplicate quest id %q", q.ID)
			}
			c.questByID[q.ID] = q
		}
	}

	for _, a := range achievements {
		if a.ID == "" || a.Name == "" {
			return nil, fmt.Errorf("achievement missing id or name")
		}
		if !triggerKinds[a.Trigger] {
			return nil, fmt.Errorf("achievement %q has unknown trigger %q", a.ID, a.Trigger)
		}
		if a.Trigger != TriggerManual && a.Threshold <= 0 {
			return nil, fmt.Errorf("achievement %q has no threshold", a.ID)
		}
		if _, dup := c.achievementByID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate achievement id %q", a.ID)
		}
		c.achievementByID[a.ID] = a
	}

	return c, nil
}

// Quest finds a quest by id within a category, matching the completion API
// which is always called with both.
func (c *Catalog) Quest(category QuestCategory, questID string) (Quest, bool) {
	for _, q := range c.Quests[category] {
		if q.ID == questID {
			return q, true
		}
	}
	return Quest{}, false
}

// QuestByID finds a quest across all categories.
func (c *Catalog) QuestByID(questID string) (Quest, bool) {
	q, ok := c.questByID[questID]
	return q, ok
}

// Achievement finds an achievement by id.
func (c *Catalog) Achievement(id string) (Achievement, bool) {
	a, ok := c.achievementByID[id]
	return a, ok
}

// WatchersFor returns the achievements watching one counter kind.
func (c *Catalog) WatchersFor(kind TriggerKind) []Achievement {
	var out []Achievement
	for _, a := range c.Achievements {
		if a.Trigger == kind {
			out = append(out, a)
		}
	}
	return out
}

// SearchQuests fuzzy-matches quest names for the admin UI.
func (c *Catalog) SearchQuests(query string) []Quest {
	var all []Quest
	var names []string
	for _, category := range questCategories {
		for _, q := range c.Quests[category] {
			all = append(all, q)
			names = append(names, q.Name)
		}
	}

	matches := fuzzy.Find(query, names)
	out := make([]Quest, 0, len(matches))
	for _, m := range matches {
		out = append(out, all[m.Index])
	}
	return out
}
