package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/bearhouse/dashboard/bearhouse/database/repositories"
)

func newTestService(t *testing.T) (*Service, *repositories.MemoryUserStatsRepository) {
	t.Helper()
	stats := repositories.NewMemoryUserStatsRepository()
	svc := NewService(stats, repositories.NewMemoryLeaderboardRepository(), nil, "nesbyen")
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, stats
}

func seed(t *testing.T, stats *repositories.MemoryUserStatsRepository, users ...*models.UserStats) {
	t.Helper()
	for _, u := range users {
		if err := stats.Save(context.Background(), u); err != nil {
			t.Fatalf("seed %s: %v", u.UserID, err)
		}
	}
}

func TestRebuildRanksAndTieBreaks(t *testing.T) {
	svc, stats := newTestService(t)
	ctx := context.Background()

	seed(t, stats,
		&models.UserStats{UserID: "emp-3", Username: "per", Location: "nesbyen", TotalXP: 500, WeeklyXP: 100, Level: 4},
		&models.UserStats{UserID: "emp-1", Username: "kari", Location: "nesbyen", TotalXP: 500, WeeklyXP: 300, Level: 4},
		&models.UserStats{UserID: "emp-2", Username: "ola", Location: "gol", TotalXP: 900, WeeklyXP: 200, Level: 6},
	)

	snapshot, err := svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	allTime := snapshot.AllTime
	if len(allTime) != 3 {
		t.Fatalf("allTime len = %d, want 3", len(allTime))
	}
	if allTime[0].UserID != "emp-2" {
		t.Errorf("allTime[0] = %s, want emp-2", allTime[0].UserID)
	}
	// Equal totals: ascending user id decides.
	if allTime[1].UserID != "emp-1" || allTime[2].UserID != "emp-3" {
		t.Errorf("tie order = %s,%s, want emp-1,emp-3", allTime[1].UserID, allTime[2].UserID)
	}

	if snapshot.Weekly[0].UserID != "emp-1" {
		t.Errorf("weekly[0] = %s, want emp-1", snapshot.Weekly[0].UserID)
	}
}

func TestRebuildDeterministic(t *testing.T) {
	svc, stats := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c", "e", "d"} {
		seed(t, stats, &models.UserStats{UserID: id, TotalXP: 100, Level: 2})
	}

	first, err := svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	second, err := svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	for i := range first.AllTime {
		if first.AllTime[i].UserID != second.AllTime[i].UserID {
			t.Fatalf("rebuild order changed at %d: %s vs %s", i, first.AllTime[i].UserID, second.AllTime[i].UserID)
		}
	}
	if first.AllTime[0].UserID != "a" {
		t.Errorf("allTime[0] = %s, want a", first.AllTime[0].UserID)
	}
}

func TestRebuildCapsAtTen(t *testing.T) {
	svc, stats := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		seed(t, stats, &models.UserStats{
			UserID:  string(rune('a' + i)),
			TotalXP: (i + 1) * 10,
		})
	}

	snapshot, err := svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if len(snapshot.AllTime) != boardSize {
		t.Fatalf("board len = %d, want %d", len(snapshot.AllTime), boardSize)
	}
	if snapshot.AllTime[0].TotalXP != 150 {
		t.Errorf("top score = %d, want 150", snapshot.AllTime[0].TotalXP)
	}
}

func TestBoardLocationFilterRenumbersRanks(t *testing.T) {
	svc, stats := newTestService(t)
	ctx := context.Background()

	seed(t, stats,
		&models.UserStats{UserID: "emp-1", Location: "nesbyen", TotalXP: 300},
		&models.UserStats{UserID: "emp-2", Location: "gol", TotalXP: 200},
		&models.UserStats{UserID: "emp-3", Location: "nesbyen", TotalXP: 100},
	)
	if _, err := svc.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	board, err := svc.Board(ctx, models.BoardAllTime, "nesbyen")
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("filtered len = %d, want 2", len(board))
	}
	if board[0].UserID != "emp-1" || board[0].Rank != 1 {
		t.Errorf("board[0] = %s rank %d, want emp-1 rank 1", board[0].UserID, board[0].Rank)
	}
	if board[1].UserID != "emp-3" || board[1].Rank != 2 {
		t.Errorf("board[1] = %s rank %d, want emp-3 rank 2", board[1].UserID, board[1].Rank)
	}

	if _, err := svc.Board(ctx, "yearly", ""); err == nil {
		t.Error("unknown board type accepted")
	}
}

func TestBoardReflectsCurrentStats(t *testing.T) {
	svc, stats := newTestService(t)
	ctx := context.Background()

	// No Rebuild has run yet; a read must still see the stats written since.
	seed(t, stats, &models.UserStats{UserID: "emp-1", Location: "nesbyen", WeeklyXP: 40, TotalXP: 40})

	board, err := svc.Board(ctx, models.BoardWeekly, "")
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if len(board) != 1 || board[0].UserID != "emp-1" {
		t.Fatalf("board = %+v, want one emp-1 entry", board)
	}

	// A later mutation shows up on the next read without an explicit rebuild.
	seed(t, stats, &models.UserStats{UserID: "emp-2", Location: "gol", WeeklyXP: 90, TotalXP: 90})

	board, err = svc.Board(ctx, models.BoardWeekly, "")
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if len(board) != 2 || board[0].UserID != "emp-2" {
		t.Fatalf("board after update = %+v, want emp-2 first of two", board)
	}
}

func TestRankWithoutMirror(t *testing.T) {
	svc, stats := newTestService(t)
	ctx := context.Background()

	seed(t, stats,
		&models.UserStats{UserID: "emp-1", TotalXP: 300},
		&models.UserStats{UserID: "emp-2", TotalXP: 500},
	)

	rank, err := svc.Rank(ctx, models.BoardAllTime, "emp-1")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if rank != 2 {
		t.Errorf("rank = %d, want 2", rank)
	}

	rank, err = svc.Rank(ctx, models.BoardAllTime, "emp-9")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if rank != -1 {
		t.Errorf("unranked user rank = %d, want -1", rank)
	}

	if _, err := svc.Rank(ctx, "yearly", "emp-1"); err == nil {
		t.Error("unknown board type accepted")
	}
}

func TestTeamsLeaderTieFavorsDefaultLocation(t *testing.T) {
	svc, stats := newTestService(t)
	ctx := context.Background()

	seed(t, stats,
		&models.UserStats{UserID: "emp-1", Location: "gol", WeeklyXP: 100, TotalXP: 400, Level: 3},
		&models.UserStats{UserID: "emp-2", Location: "nesbyen", WeeklyXP: 60, TotalXP: 200, Level: 2},
		&models.UserStats{UserID: "emp-3", Location: "nesbyen", WeeklyXP: 40, TotalXP: 100, Level: 3},
	)

	teams, err := svc.Teams(ctx)
	if err != nil {
		t.Fatalf("Teams: %v", err)
	}
	if teams.Leader != "nesbyen" {
		t.Errorf("leader = %s, want nesbyen on a weekly tie", teams.Leader)
	}
	if teams.WeekStart != "2026-03-09" {
		t.Errorf("weekStart = %s, want 2026-03-09", teams.WeekStart)
	}

	for _, team := range teams.Teams {
		if team.Location != "nesbyen" {
			continue
		}
		if team.Members != 2 || team.WeeklyXP != 100 {
			t.Errorf("nesbyen members=%d weeklyXp=%d, want 2/100", team.Members, team.WeeklyXP)
		}
		if team.AvgLevel != 2.5 {
			t.Errorf("avgLevel = %v, want 2.5", team.AvgLevel)
		}
		if team.AvgWeeklyXP != 50 {
			t.Errorf("avgWeeklyXp = %d, want 50", team.AvgWeeklyXP)
		}
	}
}
