package gamification

import (
	"context"
	"fmt"
	"slices"

	"github.com/bearhouse/dashboard/bearhouse/calendar"
	"github.com/bearhouse/dashboard/bearhouse/database/models"
)

type QuestResult struct {
	LedgerResult
	Quest            string `json:"quest"`
	XPEarned         int    `json:"xpEarned"`
	QuestsCompleted  int    `json:"questsCompleted"`
	AlreadyCompleted bool   `json:"alreadyCompleted,omitempty"`
}

// QuestView annotates a catalog quest with the user's completion state for
// the current period.
type QuestView struct {
	Quest
	Completed bool `json:"completed"`
}

// CatalogView is the per-user quest board: every category filtered and
// annotated for right now.
type CatalogView struct {
	Daily     []QuestView `json:"daily"`
	Weekly    []QuestView `json:"weekly"`
	Monthly   []QuestView `json:"monthly"`
	Quarterly []QuestView `json:"quarterly"`
	Seasonal  []QuestView `json:"seasonal"`
	Special   []QuestView `json:"special"`
}

// CompleteQuest marks a quest done and credits its XP. Periodic quests are
// once per period: a repeat within the same period reports AlreadyCompleted
// and changes nothing.
func (s *Service) CompleteQuest(ctx context.Context, userID, questID string, category QuestCategory) (*QuestResult, error) {
	if userID == "" || questID == "" {
		return nil, ErrInvalidInput
	}
	quest, ok := s.catalog.Quest(category, questID)
	if !ok {
		return nil, ErrQuestNotFound
	}

	release := s.locks.lock(userID)
	defer release()

	stats, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.resetPeriods(stats)

	if category.Periodic() && slices.Contains(*periodSet(stats, category), questID) {
		return &QuestResult{
			Quest:            quest.Name,
			QuestsCompleted:  stats.QuestsCompleted,
			AlreadyCompleted: true,
		}, nil
	}

	stats.QuestsCompleted++
	stats.QuestHistory = append(stats.QuestHistory, models.QuestRecord{
		QuestID:     questID,
		Category:    string(category),
		XP:          quest.XP,
		CompletedAt: s.now(),
	})
	if len(stats.QuestHistory) > questHistoryLimit {
		stats.QuestHistory = stats.QuestHistory[len(stats.QuestHistory)-questHistoryLimit:]
	}
	if category.Periodic() {
		set := periodSet(stats, category)
		*set = append(*set, questID)
	}
	if cleaningQuestIDs[questID] {
		stats.CleaningQuests++
	}
	if quest.Tag != "" {
		if stats.CategoryStats == nil {
			stats.CategoryStats = make(map[string]int)
		}
		stats.CategoryStats[quest.Tag]++
	}

	ledger, err := s.applyXP(ctx, stats, quest.XP, "Quest: "+quest.Name)
	if err != nil {
		return nil, err
	}

	if err := s.checkWatchers(ctx, stats, TriggerQuestsCompleted, stats.QuestsCompleted); err != nil {
		return nil, err
	}
	if cleaningQuestIDs[questID] {
		if err := s.checkWatchers(ctx, stats, TriggerCleaningQuests, stats.CleaningQuests); err != nil {
			return nil, err
		}
	}

	if err := s.logActivity(ctx, userID, models.ActivityQuestComplete, map[string]any{
		"questId":  questID,
		"quest":    quest.Name,
		"category": string(category),
		"xp":       quest.XP,
	}); err != nil {
		return nil, err
	}

	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save stats for %s: %w", userID, err)
	}

	return &QuestResult{
		LedgerResult:    *ledger,
		Quest:           quest.Name,
		XPEarned:        quest.XP,
		QuestsCompleted: stats.QuestsCompleted,
	}, nil
}

// periodSet returns the completion set backing a periodic category.
func periodSet(stats *models.UserStats, category QuestCategory) *[]string {
	switch category {
	case QuestDaily:
		return &stats.DailyQuests
	case QuestWeekly:
		return &stats.WeeklyQuests
	case QuestMonthly:
		return &stats.MonthlyQuests
	case QuestQuarterly:
		return &stats.QuarterlyQuests
	}
	return new([]string)
}

// AvailableQuests builds the current quest board for a user: period resets
// applied first, seasonal quests filtered to their calendar windows, and
// auto-tracked specials hidden from manual completion.
func (s *Service) AvailableQuests(ctx context.Context, userID string) (*CatalogView, error) {
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
	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save stats for %s: %w", userID, err)
	}

	now := s.now()
	view := &CatalogView{}

	for _, q := range s.catalog.Quests[QuestDaily] {
		view.Daily = append(view.Daily, QuestView{Quest: q, Completed: slices.Contains(stats.DailyQuests, q.ID)})
	}
	for _, q := range s.catalog.Quests[QuestWeekly] {
		if !calendar.InCoarseSeason(q.Season, now) {
			continue
		}
		view.Weekly = append(view.Weekly, QuestView{Quest: q, Completed: slices.Contains(stats.WeeklyQuests, q.ID)})
	}
	for _, q := range s.catalog.Quests[QuestMonthly] {
		if !calendar.InCoarseSeason(q.Season, now) {
			continue
		}
		view.Monthly = append(view.Monthly, QuestView{Quest: q, Completed: slices.Contains(stats.MonthlyQuests, q.ID)})
	}
	for _, q := range s.catalog.Quests[QuestQuarterly] {
		view.Quarterly = append(view.Quarterly, QuestView{Quest: q, Completed: slices.Contains(stats.QuarterlyQuests, q.ID)})
	}
	for _, q := range s.catalog.Quests[QuestSeasonal] {
		if !calendar.InSeasonWindow(q.Season, now) {
			continue
		}
		view.Seasonal = append(view.Seasonal, QuestView{Quest: q})
	}
	for _, q := range s.catalog.Quests[QuestSpecial] {
		if q.AutoTrack {
			continue
		}
		view.Special = append(view.Special, QuestView{Quest: q})
	}

	return view, nil
}
