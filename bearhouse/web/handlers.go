// Package web is the dashboard's HTTP surface. Handlers trust the caller's
// userId; authentication lives elsewhere.
package web

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bearhouse/dashboard/bearhouse/gamification"
	"github.com/bearhouse/dashboard/bearhouse/leaderboard"
	"github.com/bearhouse/dashboard/bearhouse/registry"
	"github.com/bearhouse/dashboard/bearhouse/streak"
)

// WebApp holds every dependency the handlers reach for.
type WebApp struct {
	Game        *gamification.Service
	Streaks     *streak.Machine
	Leaderboard *leaderboard.Service
	Registry    registry.Directory
	Version     string

	// POS and Budgets feed the streak history initializer. Both may be nil
	// when no live sales source is configured.
	POS     streak.POSClient
	Budgets streak.BudgetSource

	// Now is swapped out by tests that pin the login hour.
	Now func() time.Time
}

func (w *WebApp) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return sendSuccess(c, fiber.Map{
			"status":  "healthy",
			"version": webApp.Version,
		}, "Health check successful")
	}
}

// Login runs the daily login flow: extend the login streak, auto-complete
// the check-in quest, count an early login when the clock is before 07:00,
// and hand back the full profile.
func Login(webApp *WebApp) fiber.Handler {
	type loginRequest struct {
		UserID string `json:"userId"`
	}
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		var req loginRequest
		if err := c.BodyParser(&req); err != nil || req.UserID == "" {
			return sendBadRequest(c, "userId is required")
		}

		streakResult, err := webApp.Game.UpdateStreak(ctx, req.UserID)
		if err != nil {
			slog.Error("Login streak update failed",
				slog.String("type", "web"),
				slog.String("user_id", req.UserID),
				slog.Any("error", err))
			return sendInternalServerError(c, "Failed to update login streak")
		}

		checkIn, err := webApp.Game.CompleteQuest(ctx, req.UserID, "check-in", gamification.QuestDaily)
		if err != nil {
			return sendInternalServerError(c, "Failed to record check-in")
		}

		if webApp.now().Hour() < gamification.EarlyLoginHour {
			if _, err := webApp.Game.RecordEarlyLogin(ctx, req.UserID); err != nil {
				return sendInternalServerError(c, "Failed to record early login")
			}
		}

		profile, err := webApp.Game.FullProfile(ctx, req.UserID)
		if err != nil {
			return sendInternalServerError(c, "Failed to load profile")
		}

		return sendSuccess(c, fiber.Map{
			"profile": profile,
			"streak":  streakResult,
			"checkIn": checkIn,
		}, "Logged in")
	}
}

func UserProfile(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := webApp.Game.FullProfile(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, gamification.ErrInvalidInput) {
				return sendBadRequest(c, "userId is required")
			}
			return sendInternalServerError(c, "Failed to load profile")
		}
		return sendSuccess(c, profile, "")
	}
}

func UserAchievements(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := webApp.Game.UserAchievements(c.Context(), c.Params("id"))
		if err != nil {
			return sendInternalServerError(c, "Failed to load achievements")
		}
		return sendSuccess(c, views, "")
	}
}

func UserXPBreakdown(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		breakdown, err := webApp.Game.UserXPBreakdown(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, gamification.ErrUserNotFound) {
				return sendNotFound(c, "User not found")
			}
			return sendInternalServerError(c, "Failed to load XP breakdown")
		}
		return sendSuccess(c, breakdown, "")
	}
}

func UserActivity(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := webApp.Game.Activity(c.Context(), c.Params("id"), c.QueryInt("limit"))
		if err != nil {
			return sendInternalServerError(c, "Failed to load activity")
		}
		return sendSuccess(c, entries, "")
	}
}

func ActivityFeed(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := webApp.Game.Activity(c.Context(), "", c.QueryInt("limit"))
		if err != nil {
			return sendInternalServerError(c, "Failed to load activity")
		}
		return sendSuccess(c, entries, "")
	}
}

func QuestBoard(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		board, err := webApp.Game.AvailableQuests(c.Context(), c.Params("userId"))
		if err != nil {
			return sendInternalServerError(c, "Failed to load quests")
		}
		return sendSuccess(c, board, "")
	}
}

func QuestSearch(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return sendBadRequest(c, "q is required")
		}
		return sendSuccess(c, webApp.Game.Catalog().SearchQuests(query), "")
	}
}

func QuestComplete(webApp *WebApp) fiber.Handler {
	type completeRequest struct {
		UserID   string `json:"userId"`
		QuestID  string `json:"questId"`
		Category string `json:"category"`
	}
	return func(c *fiber.Ctx) error {
		var req completeRequest
		if err := c.BodyParser(&req); err != nil {
			return sendBadRequest(c, "Invalid request body")
		}

		result, err := webApp.Game.CompleteQuest(c.Context(), req.UserID, req.QuestID, gamification.QuestCategory(req.Category))
		if err != nil {
			switch {
			case errors.Is(err, gamification.ErrQuestNotFound):
				return sendNotFound(c, "Quest not found")
			case errors.Is(err, gamification.ErrInvalidInput):
				return sendBadRequest(c, "userId and questId are required")
			default:
				return sendInternalServerError(c, "Failed to complete quest")
			}
		}
		return sendSuccess(c, result, "")
	}
}

func AchievementUnlock(webApp *WebApp) fiber.Handler {
	type unlockRequest struct {
		UserID        string `json:"userId"`
		AchievementID string `json:"achievementId"`
	}
	return func(c *fiber.Ctx) error {
		var req unlockRequest
		if err := c.BodyParser(&req); err != nil {
			return sendBadRequest(c, "Invalid request body")
		}

		result, err := webApp.Game.UnlockAchievement(c.Context(), req.UserID, req.AchievementID)
		if err != nil {
			switch {
			case errors.Is(err, gamification.ErrAchievementNotFound):
				return sendNotFound(c, "Achievement not found")
			case errors.Is(err, gamification.ErrInvalidInput):
				return sendBadRequest(c, "userId is required")
			default:
				return sendInternalServerError(c, "Failed to unlock achievement")
			}
		}
		return sendSuccess(c, result, "")
	}
}

func AddXP(webApp *WebApp) fiber.Handler {
	type xpRequest struct {
		UserID string `json:"userId"`
		Amount int    `json:"amount"`
		Reason string `json:"reason"`
	}
	return func(c *fiber.Ctx) error {
		var req xpRequest
		if err := c.BodyParser(&req); err != nil || req.UserID == "" {
			return sendBadRequest(c, "userId is required")
		}

		result, err := webApp.Game.AddXP(c.Context(), req.UserID, req.Amount, req.Reason)
		if err != nil {
			return sendInternalServerError(c, "Failed to add XP")
		}
		return sendSuccess(c, result, "")
	}
}

func ReviewEvent(webApp *WebApp) fiber.Handler {
	type reviewRequest struct {
		UserID string `json:"userId"`
		Stars  int    `json:"stars"`
	}
	return func(c *fiber.Ctx) error {
		var req reviewRequest
		if err := c.BodyParser(&req); err != nil {
			return sendBadRequest(c, "Invalid request body")
		}

		result, err := webApp.Game.RecordReview(c.Context(), req.UserID, req.Stars)
		if err != nil {
			if errors.Is(err, gamification.ErrInvalidInput) {
				return sendBadRequest(c, "userId and stars 1-5 are required")
			}
			return sendInternalServerError(c, "Failed to record review")
		}
		return sendSuccess(c, result, "")
	}
}

func BudgetHitEvent(webApp *WebApp) fiber.Handler {
	type batchRequest struct {
		UserIDs []string `json:"userIds"`
	}
	return func(c *fiber.Ctx) error {
		var req batchRequest
		if err := c.BodyParser(&req); err != nil || len(req.UserIDs) == 0 {
			return sendBadRequest(c, "userIds is required")
		}

		awards, err := webApp.Game.RecordBudgetHit(c.Context(), req.UserIDs)
		if err != nil {
			slog.Error("Budget hit awards partially failed",
				slog.String("type", "web"),
				slog.Any("error", err))
		}
		return sendSuccess(c, awards, "")
	}
}

func SalesRecordEvent(webApp *WebApp) fiber.Handler {
	type batchRequest struct {
		UserIDs []string `json:"userIds"`
	}
	return func(c *fiber.Ctx) error {
		var req batchRequest
		if err := c.BodyParser(&req); err != nil || len(req.UserIDs) == 0 {
			return sendBadRequest(c, "userIds is required")
		}

		awards, err := webApp.Game.RecordNewRecord(c.Context(), req.UserIDs)
		if err != nil {
			slog.Error("Sales record awards partially failed",
				slog.String("type", "web"),
				slog.Any("error", err))
		}
		return sendSuccess(c, awards, "")
	}
}

func AvgTicketEvent(webApp *WebApp) fiber.Handler {
	type avgTicketRequest struct {
		UserIDs   []string `json:"userIds"`
		Location  string   `json:"location"`
		AvgTicket float64  `json:"avgTicket"`
		Goal      float64  `json:"goal"`
	}
	return func(c *fiber.Ctx) error {
		var req avgTicketRequest
		if err := c.BodyParser(&req); err != nil || len(req.UserIDs) == 0 {
			return sendBadRequest(c, "userIds is required")
		}

		awards, err := webApp.Game.RecordAvgTicketHit(c.Context(), req.UserIDs, req.Location, req.AvgTicket, req.Goal)
		if err != nil {
			slog.Error("Avg ticket awards partially failed",
				slog.String("type", "web"),
				slog.Any("error", err))
		}
		return sendSuccess(c, awards, "")
	}
}

func Leaderboard(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		board, err := webApp.Leaderboard.Board(c.Context(), c.Params("type"), c.Query("location"))
		if err != nil {
			return sendBadRequest(c, err.Error())
		}
		return sendSuccess(c, board, "")
	}
}

func LeaderboardRank(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		boardType, userID := c.Params("type"), c.Params("userId")
		rank, err := webApp.Leaderboard.Rank(c.Context(), boardType, userID)
		if err != nil {
			return sendBadRequest(c, err.Error())
		}
		return sendSuccess(c, fiber.Map{
			"userId": userID,
			"board":  boardType,
			"rank":   rank,
		}, "")
	}
}

func Teams(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		teams, err := webApp.Leaderboard.Teams(c.Context())
		if err != nil {
			return sendInternalServerError(c, "Failed to load team stats")
		}
		return sendSuccess(c, teams, "")
	}
}

func StreakInfo(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := webApp.Streaks.StreakInfo(c.Context(), c.Params("location"))
		if err != nil {
			return sendInternalServerError(c, "Failed to load streak")
		}
		return sendSuccess(c, info, "")
	}
}

func StreakRecord(webApp *WebApp) fiber.Handler {
	type recordRequest struct {
		Location string   `json:"location"`
		Date     string   `json:"date"`
		Sales    float64  `json:"sales"`
		Budget   float64  `json:"budget"`
		Workers  []string `json:"workers"`
	}
	return func(c *fiber.Ctx) error {
		var req recordRequest
		if err := c.BodyParser(&req); err != nil {
			return sendBadRequest(c, "Invalid request body")
		}

		result, err := webApp.Streaks.RecordHit(c.Context(), req.Location, req.Date, req.Sales, req.Budget, req.Workers)
		if err != nil {
			return sendBadRequest(c, err.Error())
		}

		// Settle the day's awards against the ledger, worker names resolved
		// through the employee directory.
		for worker, award := range result.XPAwards {
			user, err := webApp.Registry.ResolveName(c.Context(), worker)
			if err != nil || user == nil {
				slog.Warn("Unresolved streak participant",
					slog.String("type", "web"),
					slog.String("worker", worker))
				continue
			}
			if award.Daily > 0 {
				if _, err := webApp.Game.AddXP(c.Context(), user.UserID, award.Daily, "🎯 Budsjett nådd!"); err != nil {
					return sendInternalServerError(c, "Failed to apply streak awards")
				}
			}
			if award.Streak > 0 {
				if _, err := webApp.Game.AddXP(c.Context(), user.UserID, award.Streak, "🔥 Streak-bonus!"); err != nil {
					return sendInternalServerError(c, "Failed to apply streak awards")
				}
			}
		}
		return sendSuccess(c, result, "")
	}
}

// StreakInit rebuilds a location's streak state from the last two weeks of
// sales history. Admin-facing; requires a configured sales source.
func StreakInit(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if webApp.POS == nil || webApp.Budgets == nil {
			return sendError(c, fiber.StatusServiceUnavailable, "NO_SALES_SOURCE",
				"No sales history source is configured")
		}

		info, err := webApp.Streaks.InitializeFromHistory(c.Context(), c.Params("location"), webApp.POS, webApp.Budgets)
		if err != nil {
			return sendInternalServerError(c, "Failed to initialize streak from history")
		}
		return sendSuccess(c, info, "Streak initialized from history")
	}
}

func RebuildLeaderboard(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot, err := webApp.Leaderboard.Rebuild(c.Context())
		if err != nil {
			return sendInternalServerError(c, "Failed to rebuild leaderboards")
		}
		return sendSuccess(c, snapshot, "Leaderboards rebuilt")
	}
}
