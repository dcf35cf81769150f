// Package streak tracks consecutive budget-hit days per location. Workers on
// shift during a streak collect a flat daily award plus a growing streak
// bonus, settled incrementally so nobody is paid the same streak day twice.
package streak

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"

	"github.com/bearhouse/dashboard/bearhouse/calendar"
	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/bearhouse/dashboard/bearhouse/database/repositories"
	"github.com/bearhouse/dashboard/bearhouse/logger"
)

const (
	dailyHitXP       = 10
	historyLimit     = 30
	replayDays       = 14
	replayFetchLimit = 4
)

// POSClient provides daily gross sales per location.
type POSClient interface {
	DailySales(ctx context.Context, location, date string) (float64, error)
}

// BudgetSource provides the daily sales budget per location.
type BudgetSource interface {
	DailyBudget(ctx context.Context, location, date string) (float64, error)
}

// Award is one worker's XP from a single processed day.
type Award struct {
	Daily  int `json:"daily,omitempty"`
	Streak int `json:"streak,omitempty"`
}

func (a Award) Total() int { return a.Daily + a.Streak }

type Result struct {
	Success       bool             `json:"success"`
	HitBudget     bool             `json:"hitBudget"`
	CurrentStreak int              `json:"currentStreak"`
	XPAwards      map[string]Award `json:"xpAwards,omitempty"`
	TotalXP       int              `json:"totalXp"`
}

type ParticipantSummary struct {
	Name      string `json:"name"`
	Days      int    `json:"days"`
	BonusPaid int    `json:"bonusPaid"`
}

type Info struct {
	Location      string               `json:"location"`
	CurrentStreak int                  `json:"currentStreak"`
	LastHitDate   string               `json:"lastHitDate,omitempty"`
	Participants  []ParticipantSummary `json:"participants"`
	History       []models.StreakDay   `json:"history"`
}

type Machine struct {
	repo  repositories.StreakRepository
	locks *xsync.MapOf[string, *sync.Mutex]

	now func() time.Time
}

func NewMachine(repo repositories.StreakRepository) *Machine {
	return &Machine{
		repo:  repo,
		locks: xsync.NewMapOf[string, *sync.Mutex](),
		now:   time.Now,
	}
}

func (m *Machine) lock(location string) func() {
	mu, _ := m.locks.LoadOrStore(location, &sync.Mutex{})
	mu.Lock()
	return mu.Unlock
}

func (m *Machine) load(ctx context.Context, location string) (*models.LocationStreak, error) {
	doc, err := m.repo.Get(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to load streak for %s: %w", location, err)
	}
	if doc == nil {
		doc = &models.LocationStreak{
			Location:     location,
			Participants: make(map[string]*models.StreakParticipant),
			History:      []models.StreakDay{},
		}
	}
	return doc, nil
}

// RecordHit processes one finished day for a location. Equality with the
// budget counts as a hit. Re-processing the day already recorded is a no-op
// that reports current state.
func (m *Machine) RecordHit(ctx context.Context, location, date string, sales, budget float64, workers []string) (*Result, error) {
	if location == "" || date == "" {
		return nil, fmt.Errorf("location and date are required")
	}
	if _, err := calendar.ParseDay(date); err != nil {
		return nil, fmt.Errorf("bad date %q: %w", date, err)
	}

	release := m.lock(location)
	defer release()

	doc, err := m.load(ctx, location)
	if err != nil {
		return nil, err
	}

	if doc.LastHitDate == date {
		return &Result{Success: true, HitBudget: true, CurrentStreak: doc.CurrentStreak}, nil
	}

	result, err := m.apply(doc, date, sales, budget, workers)
	if err != nil {
		return nil, err
	}

	doc.UpdatedAt = m.now()
	if err := m.repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save streak for %s: %w", location, err)
	}

	logger.LogGame("Processed streak day",
		slog.String("location", location),
		slog.String("date", date),
		slog.Bool("hit", result.HitBudget),
		slog.Int("streak", result.CurrentStreak))
	return result, nil
}

// apply is the pure day transition. RecordHit and InitializeFromHistory both
// run through it, which is what makes a replay land on the same state as live
// processing.
func (m *Machine) apply(doc *models.LocationStreak, date string, sales, budget float64, workers []string) (*Result, error) {
	if sales < budget {
		if doc.CurrentStreak > 0 {
			m.pushHistory(doc, models.StreakDay{
				Date:         date,
				Sales:        sales,
				Budget:       budget,
				StreakBroken: true,
				FinalStreak:  doc.CurrentStreak,
			})
		}
		doc.CurrentStreak = 0
		doc.LastHitDate = ""
		doc.Participants = make(map[string]*models.StreakParticipant)
		return &Result{Success: true}, nil
	}

	yesterday, err := calendar.Yesterday(date)
	if err != nil {
		return nil, err
	}
	if doc.LastHitDate == yesterday {
		doc.CurrentStreak++
	} else {
		doc.CurrentStreak = 1
		doc.Participants = make(map[string]*models.StreakParticipant)
	}
	doc.LastHitDate = date

	awards := make(map[string]Award)
	for _, worker := range workers {
		if worker == "" {
			continue
		}
		p := doc.Participants[worker]
		if p == nil {
			p = &models.StreakParticipant{}
			doc.Participants[worker] = p
		}
		var seen bool
		for _, d := range p.Days {
			if d == date {
				seen = true
				break
			}
		}
		if !seen {
			p.Days = append(p.Days, date)
		}
		a := awards[worker]
		a.Daily = dailyHitXP
		awards[worker] = a
	}

	// Everyone riding the streak gets the unpaid part of the bonus, not just
	// today's shift.
	for worker, p := range doc.Participants {
		if delta := doc.CurrentStreak - p.BonusPaid; delta > 0 {
			a := awards[worker]
			a.Streak = delta
			awards[worker] = a
			p.BonusPaid = doc.CurrentStreak
		}
	}

	total := 0
	for _, a := range awards {
		total += a.Total()
	}

	m.pushHistory(doc, models.StreakDay{
		Date:      date,
		Sales:     sales,
		Budget:    budget,
		Streak:    doc.CurrentStreak,
		Workers:   len(workers),
		XPAwarded: total,
	})

	return &Result{
		Success:       true,
		HitBudget:     true,
		CurrentStreak: doc.CurrentStreak,
		XPAwards:      awards,
		TotalXP:       total,
	}, nil
}

func (m *Machine) pushHistory(doc *models.LocationStreak, day models.StreakDay) {
	doc.History = append(doc.History, day)
	if len(doc.History) > historyLimit {
		doc.History = doc.History[len(doc.History)-historyLimit:]
	}
}

// StreakInfo returns the dashboard view for one location: streak state,
// participant summaries and the last week of history.
func (m *Machine) StreakInfo(ctx context.Context, location string) (*Info, error) {
	release := m.lock(location)
	defer release()

	doc, err := m.load(ctx, location)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Location:      location,
		CurrentStreak: doc.CurrentStreak,
		LastHitDate:   doc.LastHitDate,
		Participants:  make([]ParticipantSummary, 0, len(doc.Participants)),
	}
	for name, p := range doc.Participants {
		info.Participants = append(info.Participants, ParticipantSummary{
			Name:      name,
			Days:      len(p.Days),
			BonusPaid: p.BonusPaid,
		})
	}

	history := doc.History
	if len(history) > 7 {
		history = history[len(history)-7:]
	}
	info.History = append(info.History, history...)

	return info, nil
}

// InitializeFromHistory rebuilds a location's streak state from the last two
// weeks of sales and budget figures. Days are fetched concurrently but
// replayed in order, through the same transition as live processing. Days
// with missing figures are skipped.
func (m *Machine) InitializeFromHistory(ctx context.Context, location string, pos POSClient, budget BudgetSource) (*Info, error) {
	type dayFigures struct {
		date   string
		sales  float64
		budget float64
		ok     bool
	}

	days := make([]dayFigures, replayDays)
	now := m.now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(replayFetchLimit)
	for i := range days {
		i := i
		date := calendar.DayKey(now.AddDate(0, 0, i-replayDays))
		days[i].date = date
		g.Go(func() error {
			sales, err := pos.DailySales(gctx, location, date)
			if err != nil {
				slog.Warn("Skipping day, sales fetch failed",
					slog.String("type", "game"),
					slog.String("location", location),
					slog.String("date", date),
					slog.Any("error", err))
				return nil
			}
			target, err := budget.DailyBudget(gctx, location, date)
			if err != nil || target <= 0 {
				return nil
			}
			days[i].sales = sales
			days[i].budget = target
			days[i].ok = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	release := m.lock(location)
	defer release()

	doc := &models.LocationStreak{
		Location:     location,
		Participants: make(map[string]*models.StreakParticipant),
		History:      []models.StreakDay{},
	}
	for _, day := range days {
		if !day.ok {
			continue
		}
		if _, err := m.apply(doc, day.date, day.sales, day.budget, nil); err != nil {
			return nil, err
		}
	}

	doc.UpdatedAt = m.now()
	if existing, err := m.repo.Get(ctx, location); err == nil && existing != nil {
		doc.ID = existing.ID
	}
	if err := m.repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save streak for %s: %w", location, err)
	}

	info := &Info{
		Location:      location,
		CurrentStreak: doc.CurrentStreak,
		LastHitDate:   doc.LastHitDate,
		Participants:  []ParticipantSummary{},
	}
	history := doc.History
	if len(history) > 7 {
		history = history[len(history)-7:]
	}
	info.History = append(info.History, history...)
	return info, nil
}
