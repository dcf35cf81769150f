// Command nightly settles one finished day: for every location it runs the
// budget-hit streak machine on the day's figures, pays streak awards into the
// ledger, books the team events, and rebuilds the leaderboards.
//
// Figures come from a JSON file (one object per location) so the job can run
// from any POS export:
//
//	{"nesbyen": {"sales": 12000, "budget": 10000, "transactions": 80,
//	             "workers": ["Kari Nordmann"]}}
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bearhouse/dashboard/bearhouse"
	"github.com/bearhouse/dashboard/bearhouse/calendar"
	"github.com/bearhouse/dashboard/bearhouse/database"
	"github.com/bearhouse/dashboard/bearhouse/database/repositories"
	"github.com/bearhouse/dashboard/bearhouse/gamification"
	"github.com/bearhouse/dashboard/bearhouse/leaderboard"
	"github.com/bearhouse/dashboard/bearhouse/logger"
	"github.com/bearhouse/dashboard/bearhouse/registry"
	"github.com/bearhouse/dashboard/bearhouse/streak"
)

type dayFigures struct {
	Sales        float64  `json:"sales"`
	Budget       float64  `json:"budget"`
	Transactions int      `json:"transactions"`
	Workers      []string `json:"workers"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler()))

	configPath := flag.String("config", "config.toml", "path to config")
	figuresPath := flag.String("figures", "", "path to the day's figures JSON")
	date := flag.String("date", "", "day to settle, YYYY-MM-DD (default yesterday)")
	flag.Parse()

	if *figuresPath == "" {
		slog.Error("Missing -figures")
		os.Exit(2)
	}

	cfg, err := bearhouse.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	day := *date
	if day == "" {
		if day, err = calendar.Yesterday(calendar.DayKey(time.Now())); err != nil {
			slog.Error("Failed to compute yesterday", slog.Any("error", err))
			os.Exit(1)
		}
	}
	if _, err := calendar.ParseDay(day); err != nil {
		slog.Error("Bad -date", slog.String("date", day), slog.Any("error", err))
		os.Exit(2)
	}

	figures, err := loadFigures(*figuresPath)
	if err != nil {
		slog.Error("Failed to load figures", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	statsRepo := repositories.NewUserStatsRepository(db.BunDB())
	directory, err := registry.New(repositories.NewUserRepository(db.BunDB()))
	if err != nil {
		slog.Error("Failed to build employee registry", slog.Any("error", err))
		os.Exit(1)
	}
	catalog, err := gamification.NewDefaultCatalog()
	if err != nil {
		slog.Error("Invalid quest catalog", slog.Any("error", err))
		os.Exit(1)
	}

	game := gamification.NewService(
		statsRepo,
		repositories.NewActivityRepository(db.BunDB()),
		directory,
		catalog,
		gamification.NewDefaultLevelTable(),
		cfg.Game.DefaultLocation,
	)
	machine := streak.NewMachine(repositories.NewStreakRepository(db.BunDB()))

	failed := false
	for _, location := range cfg.Game.Locations {
		if err := settleLocation(ctx, game, machine, directory, cfg, location, day, figures[location]); err != nil {
			logger.LogError("Failed to settle location", err,
				slog.String("location", location))
			failed = true
		}
	}

	boards := leaderboard.NewService(statsRepo, repositories.NewLeaderboardRepository(db.BunDB()), nil, cfg.Game.DefaultLocation)
	if _, err := boards.Rebuild(ctx); err != nil {
		slog.Error("Failed to rebuild leaderboards", slog.Any("error", err))
		failed = true
	}

	if failed {
		os.Exit(1)
	}
	logger.LogJob("Nightly settlement done", slog.String("date", day))
}

func loadFigures(path string) (map[string]dayFigures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	figures := make(map[string]dayFigures)
	if err := json.Unmarshal(raw, &figures); err != nil {
		return nil, fmt.Errorf("bad figures file: %w", err)
	}
	return figures, nil
}

func settleLocation(
	ctx context.Context,
	game *gamification.Service,
	machine *streak.Machine,
	directory registry.Directory,
	cfg *bearhouse.Config,
	location, day string,
	figures dayFigures,
) error {
	if figures.Budget <= 0 {
		slog.Warn("No budget for location, skipping",
			slog.String("type", "job"),
			slog.String("location", location),
			slog.String("date", day))
		return nil
	}

	result, err := machine.RecordHit(ctx, location, day, figures.Sales, figures.Budget, figures.Workers)
	if err != nil {
		return err
	}

	// Worker names come from the roster; the ledger wants user ids.
	var onShift []string
	for worker, award := range result.XPAwards {
		user, err := directory.ResolveName(ctx, worker)
		if err != nil || user == nil {
			slog.Warn("Unresolved worker",
				slog.String("type", "job"),
				slog.String("location", location),
				slog.String("worker", worker))
			continue
		}
		if award.Daily > 0 {
			onShift = append(onShift, user.UserID)
			if _, err := game.AddXP(ctx, user.UserID, award.Daily, "🎯 Budsjett nådd!"); err != nil {
				return err
			}
		}
		if award.Streak > 0 {
			if _, err := game.AddXP(ctx, user.UserID, award.Streak, "🔥 Streak-bonus!"); err != nil {
				return err
			}
		}
	}

	if result.HitBudget && len(onShift) > 0 {
		if _, err := game.RecordBudgetHit(ctx, onShift); err != nil {
			return err
		}
	}

	if goal := cfg.Game.AvgTicketGoals[location]; goal > 0 && figures.Transactions > 0 && len(onShift) > 0 {
		avgTicket := figures.Sales / float64(figures.Transactions)
		if avgTicket >= goal {
			if _, err := game.RecordAvgTicketHit(ctx, onShift, location, avgTicket, goal); err != nil {
				return err
			}
		}
	}

	logger.LogJob("Settled location",
		slog.String("location", location),
		slog.String("date", day),
		slog.Bool("hit", result.HitBudget),
		slog.Int("streak", result.CurrentStreak))
	return nil
}
