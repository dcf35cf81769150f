// Package leaderboard derives the ranked boards and team rollups from user
// stats. The snapshot is a cache, never a source of truth; Rebuild recomputes
// everything wholesale.
package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/calendar"
	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/bearhouse/dashboard/bearhouse/database/repositories"
	"github.com/bearhouse/dashboard/bearhouse/logger"
)

const boardSize = 10

type Service struct {
	stats     repositories.UserStatsRepository
	snapshots repositories.LeaderboardRepository
	cache     *Cache

	defaultLocation string
	now             func() time.Time
}

// TeamSummary is one location's rollup.
type TeamSummary struct {
	Location    string  `json:"location"`
	Members     int     `json:"members"`
	TotalXP     int     `json:"totalXp"`
	WeeklyXP    int     `json:"weeklyXp"`
	AvgLevel    float64 `json:"avgLevel"`
	AvgWeeklyXP int     `json:"avgWeeklyXp"`
}

type TeamStats struct {
	Teams     []TeamSummary `json:"teams"`
	Leader    string        `json:"leader"`
	WeekStart string        `json:"weekStart"`
}

// NewService builds the leaderboard service. cache may be nil; mirroring is
// then skipped.
func NewService(stats repositories.UserStatsRepository, snapshots repositories.LeaderboardRepository, cache *Cache, defaultLocation string) *Service {
	return &Service{
		stats:           stats,
		snapshots:       snapshots,
		cache:           cache,
		defaultLocation: defaultLocation,
		now:             time.Now,
	}
}

// boardMetrics maps each board to the accumulator it ranks by.
var boardMetrics = map[string]func(models.LeaderboardEntry) int{
	models.BoardDaily:   func(e models.LeaderboardEntry) int { return e.DailyXP },
	models.BoardWeekly:  func(e models.LeaderboardEntry) int { return e.WeeklyXP },
	models.BoardMonthly: func(e models.LeaderboardEntry) int { return e.MonthlyXP },
	models.BoardAllTime: func(e models.LeaderboardEntry) int { return e.TotalXP },
}

// Rebuild recomputes all four boards from every stats record and persists the
// snapshot. Redis mirroring failures are logged, not fatal; the snapshot is
// the durable copy.
func (s *Service) Rebuild(ctx context.Context) (*models.LeaderboardSnapshot, error) {
	all, err := s.stats.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(all))
	for _, st := range all {
		entries = append(entries, models.LeaderboardEntry{
			UserID:          st.UserID,
			Username:        st.Username,
			FullName:        st.FullName,
			Location:        st.Location,
			TotalXP:         st.TotalXP,
			Level:           st.Level,
			DailyXP:         st.DailyXP,
			WeeklyXP:        st.WeeklyXP,
			MonthlyXP:       st.MonthlyXP,
			Streak:          st.CurrentStreak,
			QuestsCompleted: st.QuestsCompleted,
		})
	}

	snapshot := &models.LeaderboardSnapshot{
		Daily:     topN(entries, boardMetrics[models.BoardDaily]),
		Weekly:    topN(entries, boardMetrics[models.BoardWeekly]),
		Monthly:   topN(entries, boardMetrics[models.BoardMonthly]),
		AllTime:   topN(entries, boardMetrics[models.BoardAllTime]),
		UpdatedAt: s.now(),
	}

	if existing, err := s.snapshots.Get(ctx); err == nil && existing != nil {
		snapshot.ID = existing.ID
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	if s.cache != nil {
		for board, metric := range boardMetrics {
			if err := s.cache.MirrorBoard(ctx, board, snapshot.Board(board), metric); err != nil {
				slog.Warn("Leaderboard mirror failed",
					slog.String("type", "db"),
					slog.String("board", board),
					slog.Any("error", err))
			}
		}
	}

	logger.LogGame("Rebuilt leaderboards",
		slog.Int("users", len(entries)))
	return snapshot, nil
}

// topN ranks entries by a metric, highest first, ties broken by ascending
// user id so rebuilds are deterministic.
func topN(entries []models.LeaderboardEntry, metric func(models.LeaderboardEntry) int) []models.LeaderboardEntry {
	ranked := append([]models.LeaderboardEntry(nil), entries...)
	sort.Slice(ranked, func(i, j int) bool {
		if metric(ranked[i]) != metric(ranked[j]) {
			return metric(ranked[i]) > metric(ranked[j])
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	if len(ranked) > boardSize {
		ranked = ranked[:boardSize]
	}
	return ranked
}

// Board returns one board, optionally filtered to a location, with ranks
// assigned after filtering. The board is recomputed from current stats on
// every read; the stored snapshot only answers when the recompute fails.
func (s *Service) Board(ctx context.Context, boardType, location string) ([]models.LeaderboardEntry, error) {
	if _, ok := boardMetrics[boardType]; !ok {
		return nil, fmt.Errorf("unknown board type %q", boardType)
	}

	snapshot, err := s.Rebuild(ctx)
	if err != nil {
		slog.Warn("Board recompute failed, serving stored snapshot",
			slog.String("type", "game"),
			slog.String("board", boardType),
			slog.Any("error", err))
		if snapshot, err = s.snapshots.Get(ctx); err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
	}
	if snapshot == nil {
		return []models.LeaderboardEntry{}, nil
	}

	out := make([]models.LeaderboardEntry, 0, boardSize)
	for _, entry := range snapshot.Board(boardType) {
		if location != "" && entry.Location != location {
			continue
		}
		entry.Rank = len(out) + 1
		out = append(out, entry)
	}
	return out, nil
}

// Rank returns a user's 1-indexed rank on a board, -1 when the user is not
// ranked. The Redis mirror answers when configured and reachable; otherwise
// the rank comes off the recomputed board.
func (s *Service) Rank(ctx context.Context, boardType, userID string) (int, error) {
	if _, ok := boardMetrics[boardType]; !ok {
		return 0, fmt.Errorf("unknown board type %q", boardType)
	}

	if s.cache != nil {
		rank, err := s.cache.Rank(ctx, boardType, userID)
		if err == nil {
			return int(rank), nil
		}
		slog.Warn("Rank lookup from mirror failed",
			slog.String("type", "db"),
			slog.String("board", boardType),
			slog.Any("error", err))
	}

	entries, err := s.Board(ctx, boardType, "")
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if entry.UserID == userID {
			return entry.Rank, nil
		}
	}
	return -1, nil
}

// Teams aggregates per-location stats and names the week's leading team.
// Weekly XP decides the leader; a tie goes to the default location.
func (s *Service) Teams(ctx context.Context) (*TeamStats, error) {
	all, err := s.stats.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	byLocation := make(map[string]*TeamSummary)
	levelSums := make(map[string]int)
	for _, st := range all {
		team := byLocation[st.Location]
		if team == nil {
			team = &TeamSummary{Location: st.Location}
			byLocation[st.Location] = team
		}
		team.Members++
		team.TotalXP += st.TotalXP
		team.WeeklyXP += st.WeeklyXP
		levelSums[st.Location] += st.Level
	}

	result := &TeamStats{
		Teams:     make([]TeamSummary, 0, len(byLocation)),
		WeekStart: calendar.WeekKey(s.now()),
	}
	for location, team := range byLocation {
		team.AvgLevel = math.Round(float64(levelSums[location])/float64(team.Members)*10) / 10
		team.AvgWeeklyXP = team.WeeklyXP / team.Members
		result.Teams = append(result.Teams, *team)
	}
	sort.Slice(result.Teams, func(i, j int) bool {
		return result.Teams[i].Location < result.Teams[j].Location
	})

	for _, team := range result.Teams {
		if result.Leader == "" {
			result.Leader = team.Location
			continue
		}
		leader := byLocation[result.Leader]
		switch {
		case team.WeeklyXP > leader.WeeklyXP:
			result.Leader = team.Location
		case team.WeeklyXP == leader.WeeklyXP && team.Location == s.defaultLocation:
			result.Leader = team.Location
		}
	}
	return result, nil
}
