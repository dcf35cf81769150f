package gamification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/bearhouse/dashboard/bearhouse/database/repositories"
	"github.com/bearhouse/dashboard/bearhouse/registry"
)

// testClock is a Tuesday in March, mid-quarter, well clear of any period
// boundary.
var testClock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *repositories.MemoryUserStatsRepository, *repositories.MemoryActivityRepository) {
	t.Helper()

	catalog, err := NewDefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}

	users := repositories.NewMemoryUserRepository()
	ctx := context.Background()
	if err := users.Save(ctx, &models.User{UserID: "emp-1", Username: "kari", FullName: "Kari Nordmann", Location: "Oslo", Active: true}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := users.Save(ctx, &models.User{UserID: "emp-2", Username: "ola", FullName: "Ola Hansen", Location: "Bergen", Active: true}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	dir, err := registry.New(users)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	stats := repositories.NewMemoryUserStatsRepository()
	activity := repositories.NewMemoryActivityRepository()
	svc := NewService(stats, activity, dir, catalog, NewDefaultLevelTable(), "Oslo")
	svc.now = func() time.Time { return testClock }
	return svc, stats, activity
}

func TestAddXPFloorsAtZero(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.AddXP(ctx, "emp-1", -50, "test penalty")
	if err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if result.TotalXP != 0 {
		t.Errorf("total = %d, want 0", result.TotalXP)
	}
	if result.Level != 1 {
		t.Errorf("level = %d, want 1", result.Level)
	}
}

func TestAddXPAccumulatorsSkipNegatives(t *testing.T) {
	svc, stats, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddXP(ctx, "emp-1", 100, "bonus"); err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if _, err := svc.AddXP(ctx, "emp-1", -30, "penalty"); err != nil {
		t.Fatalf("AddXP: %v", err)
	}

	got, err := stats.Get(ctx, "emp-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TotalXP != 70 {
		t.Errorf("total = %d, want 70", got.TotalXP)
	}
	if got.DailyXP != 100 || got.WeeklyXP != 100 || got.MonthlyXP != 100 {
		t.Errorf("accumulators = %d/%d/%d, want 100/100/100", got.DailyXP, got.WeeklyXP, got.MonthlyXP)
	}
}

func TestAddXPLevelUpUnlocksLevelAchievement(t *testing.T) {
	svc, stats, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.AddXP(ctx, "emp-1", 700, "big sale")
	if err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if !result.LeveledUp || result.NewLevel != 5 {
		t.Fatalf("leveledUp=%v newLevel=%d, want true/5", result.LeveledUp, result.NewLevel)
	}
	if result.Reward == "" {
		t.Error("expected a level 5 reward")
	}

	got, _ := stats.Get(ctx, "emp-1")
	if !got.HasAchievement("level-5") {
		t.Error("level-5 achievement not unlocked")
	}
}

func TestNewUserSeedsFirstLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	profile, err := svc.FullProfile(ctx, "emp-1")
	if err != nil {
		t.Fatalf("FullProfile: %v", err)
	}
	if profile.FullName != "Kari Nordmann" || profile.Location != "Oslo" {
		t.Errorf("identity = %q/%q, want Kari Nordmann/Oslo", profile.FullName, profile.Location)
	}
	if profile.Level.Level != 1 || profile.Level.XPToNextLevel != 100 {
		t.Errorf("level = %d xpToNext = %d, want 1/100", profile.Level.Level, profile.Level.XPToNextLevel)
	}
	if len(profile.Achievements.IDs) != 1 || profile.Achievements.IDs[0] != "first-login" {
		t.Errorf("achievements = %v, want [first-login]", profile.Achievements.IDs)
	}
}

func TestCompleteQuestDailyIdempotent(t *testing.T) {
	svc, stats, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CompleteQuest(ctx, "emp-1", "clean-tables", QuestDaily)
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	if first.AlreadyCompleted {
		t.Fatal("first completion flagged as repeat")
	}
	if first.XPEarned != 10 || first.QuestsCompleted != 1 {
		t.Errorf("xp=%d completed=%d, want 10/1", first.XPEarned, first.QuestsCompleted)
	}

	second, err := svc.CompleteQuest(ctx, "emp-1", "clean-tables", QuestDaily)
	if err != nil {
		t.Fatalf("repeat CompleteQuest: %v", err)
	}
	if !second.AlreadyCompleted {
		t.Fatal("repeat completion not flagged")
	}
	if second.QuestsCompleted != 1 {
		t.Errorf("questsCompleted = %d after repeat, want 1", second.QuestsCompleted)
	}

	got, _ := stats.Get(ctx, "emp-1")
	if got.TotalXP != 10 {
		t.Errorf("total = %d after repeat, want 10", got.TotalXP)
	}
	if got.CleaningQuests != 1 {
		t.Errorf("cleaningQuests = %d, want 1", got.CleaningQuests)
	}
	if got.CategoryStats["renhold"] != 1 {
		t.Errorf("renhold counter = %d, want 1", got.CategoryStats["renhold"])
	}
}

func TestCompleteQuestUnknown(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CompleteQuest(context.Background(), "emp-1", "no-such-quest", QuestDaily)
	if !errors.Is(err, ErrQuestNotFound) {
		t.Fatalf("err = %v, want ErrQuestNotFound", err)
	}
}

func TestPeriodRolloverIsolation(t *testing.T) {
	svc, stats, _ := newTestService(t)
	ctx := context.Background()

	clock := testClock
	svc.now = func() time.Time { return clock }

	if _, err := svc.CompleteQuest(ctx, "emp-1", "clean-tables", QuestDaily); err != nil {
		t.Fatalf("daily quest: %v", err)
	}
	if _, err := svc.CompleteQuest(ctx, "emp-1", "stock-count", QuestWeekly); err != nil {
		t.Fatalf("weekly quest: %v", err)
	}

	// Next day, same week.
	clock = clock.AddDate(0, 0, 1)

	board, err := svc.AvailableQuests(ctx, "emp-1")
	if err != nil {
		t.Fatalf("AvailableQuests: %v", err)
	}
	for _, q := range board.Daily {
		if q.ID == "clean-tables" && q.Completed {
			t.Error("daily quest still marked completed after rollover")
		}
	}
	var weeklyStillDone bool
	for _, q := range board.Weekly {
		if q.ID == "stock-count" && q.Completed {
			weeklyStillDone = true
		}
	}
	if !weeklyStillDone {
		t.Error("weekly completion lost by a daily rollover")
	}

	got, _ := stats.Get(ctx, "emp-1")
	if got.DailyXP != 0 {
		t.Errorf("dailyXp = %d after rollover, want 0", got.DailyXP)
	}
	if got.WeeklyXP != 40 {
		t.Errorf("weeklyXp = %d after rollover, want 40", got.WeeklyXP)
	}
	if got.TotalXP != 40 {
		t.Errorf("total = %d, want 40", got.TotalXP)
	}
}

func TestUpdateStreakSequence(t *testing.T) {
	svc, stats, _ := newTestService(t)
	ctx := context.Background()

	clock := testClock
	svc.now = func() time.Time { return clock }

	first, err := svc.UpdateStreak(ctx, "emp-1")
	if err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}
	if first.Streak != 1 || first.Extended {
		t.Fatalf("first login streak=%d extended=%v, want 1/false", first.Streak, first.Extended)
	}

	same, err := svc.UpdateStreak(ctx, "emp-1")
	if err != nil {
		t.Fatalf("same-day UpdateStreak: %v", err)
	}
	if same.Streak != 1 || same.Extended {
		t.Fatalf("same-day login streak=%d extended=%v, want 1/false", same.Streak, same.Extended)
	}

	// Log in every day up to the 7 day milestone.
	var last *LoginStreakResult
	for day := 2; day <= 7; day++ {
		clock = clock.AddDate(0, 0, 1)
		last, err = svc.UpdateStreak(ctx, "emp-1")
		if err != nil {
			t.Fatalf("day %d UpdateStreak: %v", day, err)
		}
		if last.Streak != day || !last.Extended {
			t.Fatalf("day %d streak=%d extended=%v", day, last.Streak, last.Extended)
		}
	}
	if last.BonusXP != 75 {
		t.Errorf("day 7 bonus = %d, want 75", last.BonusXP)
	}

	got, _ := stats.Get(ctx, "emp-1")
	if got.TotalXP != 75 {
		t.Errorf("total = %d after milestone, want 75", got.TotalXP)
	}
	if !got.HasAchievement("streak-warrior") {
		t.Error("streak-warrior not unlocked at 7 days")
	}
	if got.LongestStreak != 7 {
		t.Errorf("longest = %d, want 7", got.LongestStreak)
	}
}

func TestUpdateStreakGapResets(t *testing.T) {
	svc, stats, activity := newTestService(t)
	ctx := context.Background()

	clock := testClock
	svc.now = func() time.Time { return clock }

	for day := 0; day < 3; day++ {
		if _, err := svc.UpdateStreak(ctx, "emp-1"); err != nil {
			t.Fatalf("UpdateStreak: %v", err)
		}
		clock = clock.AddDate(0, 0, 1)
	}

	// Skip two days.
	clock = clock.AddDate(0, 0, 2)

	result, err := svc.UpdateStreak(ctx, "emp-1")
	if err != nil {
		t.Fatalf("UpdateStreak after gap: %v", err)
	}
	if result.Streak != 1 || result.Extended {
		t.Errorf("streak=%d extended=%v after gap, want 1/false", result.Streak, result.Extended)
	}

	got, _ := stats.Get(ctx, "emp-1")
	if got.LongestStreak != 3 {
		t.Errorf("longest = %d, want 3", got.LongestStreak)
	}

	entries, err := activity.List(ctx, "emp-1", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var lost bool
	for _, e := range entries {
		if e.Type == models.ActivityStreakLost {
			lost = true
		}
	}
	if !lost {
		t.Error("no streak_lost entry recorded")
	}
}

func TestRecordReview(t *testing.T) {
	svc, stats, _ := newTestService(t)
	ctx := context.Background()

	five, err := svc.RecordReview(ctx, "emp-1", 5)
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	if five.XPAdded != 50 || five.TotalXP != 50 {
		t.Errorf("five-star xp=%d total=%d, want 50/50", five.XPAdded, five.TotalXP)
	}

	four, err := svc.RecordReview(ctx, "emp-1", 4)
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	if four.XPAdded != -15 {
		t.Errorf("four-star xp = %d, want -15", four.XPAdded)
	}

	bad, err := svc.RecordReview(ctx, "emp-1", 1)
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	if bad.TotalXP != 0 {
		t.Errorf("total after bad review = %d, want 0 (floored)", bad.TotalXP)
	}

	got, _ := stats.Get(ctx, "emp-1")
	if got.FiveStarReviews != 1 || got.BadReviews != 2 {
		t.Errorf("counters = %d/%d, want 1/2", got.FiveStarReviews, got.BadReviews)
	}

	if _, err := svc.RecordReview(ctx, "emp-1", 6); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("stars=6 err = %v, want ErrInvalidInput", err)
	}
}

func TestRecordBudgetHitBatch(t *testing.T) {
	svc, stats, _ := newTestService(t)
	ctx := context.Background()

	awards, err := svc.RecordBudgetHit(ctx, []string{"emp-1", "emp-2"})
	if err != nil {
		t.Fatalf("RecordBudgetHit: %v", err)
	}
	if len(awards) != 2 {
		t.Fatalf("len(awards) = %d, want 2", len(awards))
	}
	for _, award := range awards {
		if award.XPAdded != 25 {
			t.Errorf("%s xp = %d, want 25", award.UserID, award.XPAdded)
		}
	}

	got, _ := stats.Get(ctx, "emp-2")
	if got.BudgetDays != 1 {
		t.Errorf("budgetDays = %d, want 1", got.BudgetDays)
	}
}

func TestRecordAvgTicketHit(t *testing.T) {
	svc, stats, _ := newTestService(t)
	ctx := context.Background()

	awards, err := svc.RecordAvgTicketHit(ctx, []string{"emp-1", "emp-2"}, "nesbyen", 215, 200)
	if err != nil {
		t.Fatalf("RecordAvgTicketHit: %v", err)
	}
	if len(awards) != 2 {
		t.Fatalf("len(awards) = %d, want 2", len(awards))
	}
	for _, award := range awards {
		if award.XPAdded != 10 {
			t.Errorf("%s xp = %d, want 10", award.UserID, award.XPAdded)
		}
	}

	got, _ := stats.Get(ctx, "emp-1")
	if got.AvgTicketDays != 1 {
		t.Errorf("avgTicketDays = %d, want 1", got.AvgTicketDays)
	}
}

func TestUnlockAchievementIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.UnlockAchievement(ctx, "emp-1", "early-bird")
	if err != nil {
		t.Fatalf("UnlockAchievement: %v", err)
	}
	if first.AlreadyUnlocked {
		t.Fatal("fresh unlock flagged as repeat")
	}

	second, err := svc.UnlockAchievement(ctx, "emp-1", "early-bird")
	if err != nil {
		t.Fatalf("repeat UnlockAchievement: %v", err)
	}
	if !second.AlreadyUnlocked {
		t.Fatal("repeat unlock not flagged")
	}
	if !second.UnlockedAt.Equal(first.UnlockedAt) {
		t.Errorf("unlockedAt changed on repeat: %v vs %v", second.UnlockedAt, first.UnlockedAt)
	}

	if _, err := svc.UnlockAchievement(ctx, "emp-1", "no-such-achievement"); !errors.Is(err, ErrAchievementNotFound) {
		t.Errorf("err = %v, want ErrAchievementNotFound", err)
	}
}

func TestEarlyLoginCounter(t *testing.T) {
	svc, stats, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := svc.RecordEarlyLogin(ctx, "emp-1"); err != nil {
			t.Fatalf("RecordEarlyLogin: %v", err)
		}
	}

	got, _ := stats.Get(ctx, "emp-1")
	if got.EarlyLogins != 10 {
		t.Errorf("earlyLogins = %d, want 10", got.EarlyLogins)
	}
	if !got.HasAchievement("early-bird") {
		t.Error("early-bird not unlocked at 10 logins")
	}
}

func TestAvailableQuestsSeasonFilter(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// March: winter gear on the board, patio prep off it.
	board, err := svc.AvailableQuests(ctx, "emp-1")
	if err != nil {
		t.Fatalf("AvailableQuests: %v", err)
	}
	if !hasQuest(board.Weekly, "salt-walkway") {
		t.Error("winter quest missing in March")
	}
	if hasQuest(board.Weekly, "patio-setup") {
		t.Error("summer quest visible in March")
	}
	if hasQuest(board.Special, "budget-hit") {
		t.Error("auto-tracked special offered for manual completion")
	}

	// July flips the seasonal gates.
	svc.now = func() time.Time { return time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC) }
	board, err = svc.AvailableQuests(ctx, "emp-1")
	if err != nil {
		t.Fatalf("AvailableQuests: %v", err)
	}
	if hasQuest(board.Weekly, "salt-walkway") {
		t.Error("winter quest visible in July")
	}
	if !hasQuest(board.Weekly, "patio-setup") {
		t.Error("summer quest missing in July")
	}
}

func TestAddXPParallelLosesNoUpdates(t *testing.T) {
	svc, stats, _ := newTestService(t)
	ctx := context.Background()

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := svc.AddXP(ctx, "emp-1", 1, "parallel"); err != nil {
					t.Errorf("AddXP: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, _ := stats.Get(ctx, "emp-1")
	if got.TotalXP != workers*perWorker {
		t.Errorf("total = %d, want %d (lost updates)", got.TotalXP, workers*perWorker)
	}
}

func hasQuest(views []QuestView, id string) bool {
	for _, v := range views {
		if v.ID == id {
			return true
		}
	}
	return false
}
