package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(webApp *WebApp) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "BearHouse Dashboard",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(cors.New())

	api := app.Group("/api")

	api.Get("/health", HealthCheck(webApp))
	api.Post("/login", Login(webApp))

	api.Get("/user/:id", UserProfile(webApp))
	api.Get("/user/:id/achievements", UserAchievements(webApp))
	api.Get("/user/:id/xp-breakdown", UserXPBreakdown(webApp))
	api.Get("/user/:id/activity", UserActivity(webApp))

	api.Get("/quests/search", QuestSearch(webApp))
	api.Get("/quests/:userId", QuestBoard(webApp))
	api.Post("/quests/complete", QuestComplete(webApp))

	api.Post("/achievements/unlock", AchievementUnlock(webApp))
	api.Post("/xp", AddXP(webApp))

	api.Post("/events/review", ReviewEvent(webApp))
	api.Post("/events/budget-hit", BudgetHitEvent(webApp))
	api.Post("/events/record", SalesRecordEvent(webApp))
	api.Post("/events/avg-ticket", AvgTicketEvent(webApp))

	api.Get("/leaderboard/:type", Leaderboard(webApp))
	api.Get("/leaderboard/:type/rank/:userId", LeaderboardRank(webApp))
	api.Post("/leaderboard/rebuild", RebuildLeaderboard(webApp))
	api.Get("/teams", Teams(webApp))

	api.Get("/streak/:location", StreakInfo(webApp))
	api.Post("/streak/record", StreakRecord(webApp))
	api.Post("/streak/init/:location", StreakInit(webApp))

	api.Get("/activity", ActivityFeed(webApp))

	return app
}
