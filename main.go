package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bearhouse/dashboard/bearhouse"
	"github.com/bearhouse/dashboard/bearhouse/database"
	"github.com/bearhouse/dashboard/bearhouse/database/repositories"
	"github.com/bearhouse/dashboard/bearhouse/gamification"
	"github.com/bearhouse/dashboard/bearhouse/leaderboard"
	"github.com/bearhouse/dashboard/bearhouse/logger"
	"github.com/bearhouse/dashboard/bearhouse/registry"
	"github.com/bearhouse/dashboard/bearhouse/streak"
	"github.com/bearhouse/dashboard/bearhouse/web"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	logger.LogSystem("Starting BearHouse Dashboard",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	memoryStore := flag.Bool("memory", false, "run on the in-memory store instead of Postgres")
	flag.Parse()

	cfg, err := bearhouse.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		statsRepo    repositories.UserStatsRepository
		activityRepo repositories.ActivityRepository
		streakRepo   repositories.StreakRepository
		lbRepo       repositories.LeaderboardRepository
		userRepo     repositories.UserRepository
		db           *database.DB
	)
	if *memoryStore {
		slog.Warn("Running on the in-memory store, nothing will be persisted")
		statsRepo = repositories.NewMemoryUserStatsRepository()
		activityRepo = repositories.NewMemoryActivityRepository()
		streakRepo = repositories.NewMemoryStreakRepository()
		lbRepo = repositories.NewMemoryLeaderboardRepository()
		userRepo = repositories.NewMemoryUserRepository()
	} else {
		db, err = database.New(ctx, database.DBConfig{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Database,
			PoolSize: cfg.DB.PoolSize,
		})
		if err != nil {
			slog.Error("Failed to connect to database", slog.Any("error", err))
			os.Exit(-1)
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			slog.Error("Failed to initialize schema", slog.Any("error", err))
			os.Exit(-1)
		}

		statsRepo = repositories.NewUserStatsRepository(db.BunDB())
		activityRepo = repositories.NewActivityRepository(db.BunDB())
		streakRepo = repositories.NewStreakRepository(db.BunDB())
		lbRepo = repositories.NewLeaderboardRepository(db.BunDB())
		userRepo = repositories.NewUserRepository(db.BunDB())
	}

	directory, err := registry.New(userRepo)
	if err != nil {
		slog.Error("Failed to build employee registry", slog.Any("error", err))
		os.Exit(-1)
	}

	catalog, err := gamification.NewDefaultCatalog()
	if err != nil {
		slog.Error("Invalid quest catalog", slog.Any("error", err))
		os.Exit(-1)
	}

	game := gamification.NewService(
		statsRepo,
		activityRepo,
		directory,
		catalog,
		gamification.NewDefaultLevelTable(),
		cfg.Game.DefaultLocation,
	)

	var lbCache *leaderboard.Cache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unavailable, leaderboard mirroring disabled", slog.Any("error", err))
		} else {
			lbCache = leaderboard.NewCache(client)
		}
	}

	webApp := &web.WebApp{
		Game:        game,
		Streaks:     streak.NewMachine(streakRepo),
		Leaderboard: leaderboard.NewService(statsRepo, lbRepo, lbCache, cfg.Game.DefaultLocation),
		Registry:    directory,
		Version:     version,
	}

	app := web.NewApp(webApp)

	go func() {
		logger.LogSystem("Dashboard API listening", slog.String("addr", cfg.Server.Addr))
		if err := app.Listen(cfg.Server.Addr); err != nil {
			slog.Error("Server stopped", slog.Any("error", err))
			os.Exit(-1)
		}
	}()

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s

	logger.LogSystem("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("Shutdown failed", slog.Any("error", err))
	}
}
