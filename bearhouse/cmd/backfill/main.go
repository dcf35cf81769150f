// Command backfill replays historical days through the streak machine and
// the XP ledger from CSV exports, oldest day first.
//
// budgets.csv rows: date,location,sales,budget
// shifts.csv rows:  date,location,worker
//
// With -dry-run nothing is written; the replay runs on the in-memory store
// and prints what each employee would earn.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/bearhouse/dashboard/bearhouse"
	"github.com/bearhouse/dashboard/bearhouse/calendar"
	"github.com/bearhouse/dashboard/bearhouse/database"
	"github.com/bearhouse/dashboard/bearhouse/database/repositories"
	"github.com/bearhouse/dashboard/bearhouse/gamification"
	"github.com/bearhouse/dashboard/bearhouse/logger"
	"github.com/bearhouse/dashboard/bearhouse/registry"
	"github.com/bearhouse/dashboard/bearhouse/streak"
)

type budgetRow struct {
	date     string
	location string
	sales    float64
	budget   float64
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler()))

	configPath := flag.String("config", "config.toml", "path to config")
	budgetsPath := flag.String("budgets", "", "path to budgets.csv")
	shiftsPath := flag.String("shifts", "", "path to shifts.csv")
	dryRun := flag.Bool("dry-run", false, "replay without writing, print per-employee totals")
	flag.Parse()

	if *budgetsPath == "" || *shiftsPath == "" {
		slog.Error("Missing -budgets or -shifts")
		os.Exit(2)
	}

	budgets, err := readBudgets(*budgetsPath)
	if err != nil {
		slog.Error("Failed to read budgets", slog.Any("error", err))
		os.Exit(1)
	}
	shifts, err := readShifts(*shiftsPath)
	if err != nil {
		slog.Error("Failed to read shifts", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if *dryRun {
		if err := replayDry(ctx, budgets, shifts); err != nil {
			logger.LogError("Dry run failed", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := bearhouse.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if err := replayLive(ctx, cfg, budgets, shifts); err != nil {
		logger.LogError("Backfill failed", err)
		os.Exit(1)
	}
}

func readBudgets(path string) ([]budgetRow, error) {
	records, err := readCSV(path, 4)
	if err != nil {
		return nil, err
	}

	rows := make([]budgetRow, 0, len(records))
	for _, rec := range records {
		sales, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("bad sales %q on %s: %w", rec[2], rec[0], err)
		}
		budget, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("bad budget %q on %s: %w", rec[3], rec[0], err)
		}
		if _, err := calendar.ParseDay(rec[0]); err != nil {
			return nil, fmt.Errorf("bad date %q: %w", rec[0], err)
		}
		rows = append(rows, budgetRow{date: rec[0], location: rec[1], sales: sales, budget: budget})
	}

	// Replay must run oldest first.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].date != rows[j].date {
			return rows[i].date < rows[j].date
		}
		return rows[i].location < rows[j].location
	})
	return rows, nil
}

// readShifts groups workers by date and location.
func readShifts(path string) (map[string]map[string][]string, error) {
	records, err := readCSV(path, 3)
	if err != nil {
		return nil, err
	}

	shifts := make(map[string]map[string][]string)
	for _, rec := range records {
		date, location, worker := rec[0], rec[1], rec[2]
		if shifts[date] == nil {
			shifts[date] = make(map[string][]string)
		}
		shifts[date][location] = append(shifts[date][location], worker)
	}
	return shifts, nil
}

func readCSV(path string, fields int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = fields
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	// Tolerate a header row.
	if len(records) > 0 && records[0][0] == "date" {
		records = records[1:]
	}
	return records, nil
}

func replayDry(ctx context.Context, budgets []budgetRow, shifts map[string]map[string][]string) error {
	machine := streak.NewMachine(repositories.NewMemoryStreakRepository())
	totals := make(map[string]int)

	for _, row := range budgets {
		result, err := machine.RecordHit(ctx, row.location, row.date, row.sales, row.budget, shifts[row.date][row.location])
		if err != nil {
			return err
		}
		for worker, award := range result.XPAwards {
			totals[worker] += award.Total()
			if award.Daily > 0 {
				// The budget-hit event the live run books on top.
				totals[worker] += 25
			}
		}
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("Backfill dry run: %d days\n", len(budgets))
	for _, name := range names {
		fmt.Printf("  %-30s %6d XP\n", name, totals[name])
	}
	return nil
}

func replayLive(ctx context.Context, cfg *bearhouse.Config, budgets []budgetRow, shifts map[string]map[string][]string) error {
	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	directory, err := registry.New(repositories.NewUserRepository(db.BunDB()))
	if err != nil {
		return err
	}
	catalog, err := gamification.NewDefaultCatalog()
	if err != nil {
		return err
	}

	game := gamification.NewService(
		repositories.NewUserStatsRepository(db.BunDB()),
		repositories.NewActivityRepository(db.BunDB()),
		directory,
		catalog,
		gamification.NewDefaultLevelTable(),
		cfg.Game.DefaultLocation,
	)
	machine := streak.NewMachine(repositories.NewStreakRepository(db.BunDB()))

	for _, row := range budgets {
		result, err := machine.RecordHit(ctx, row.location, row.date, row.sales, row.budget, shifts[row.date][row.location])
		if err != nil {
			return err
		}

		var onShift []string
		for worker, award := range result.XPAwards {
			user, err := directory.ResolveName(ctx, worker)
			if err != nil || user == nil {
				slog.Warn("Unresolved worker",
					slog.String("type", "job"),
					slog.String("worker", worker),
					slog.String("date", row.date))
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

		logger.LogJob("Replayed day",
			slog.String("date", row.date),
			slog.String("location", row.location),
			slog.Bool("hit", result.HitBudget),
			slog.Int("streak", result.CurrentStreak))
	}
	return nil
}
