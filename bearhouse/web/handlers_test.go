package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bearhouse/dashboard/bearhouse/calendar"
	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/bearhouse/dashboard/bearhouse/database/repositories"
	"github.com/bearhouse/dashboard/bearhouse/gamification"
	"github.com/bearhouse/dashboard/bearhouse/leaderboard"
	"github.com/bearhouse/dashboard/bearhouse/registry"
	"github.com/bearhouse/dashboard/bearhouse/streak"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) (*fiber.App, *WebApp) {
	t.Helper()

	users := repositories.NewMemoryUserRepository()
	if err := users.Save(context.Background(), &models.User{
		UserID: "emp-1", Username: "kari", FullName: "Kari Nordmann", Location: "nesbyen", Active: true,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	directory, err := registry.New(users)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	catalog, err := gamification.NewDefaultCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	stats := repositories.NewMemoryUserStatsRepository()
	game := gamification.NewService(
		stats,
		repositories.NewMemoryActivityRepository(),
		directory,
		catalog,
		gamification.NewDefaultLevelTable(),
		"nesbyen",
	)

	webApp := &WebApp{
		Game:        game,
		Streaks:     streak.NewMachine(repositories.NewMemoryStreakRepository()),
		Leaderboard: leaderboard.NewService(stats, repositories.NewMemoryLeaderboardRepository(), nil, "nesbyen"),
		Registry:    directory,
		Version:     "test",
		Now:         func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
	return NewApp(webApp), webApp
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *APIResponse {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()

	var envelope APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return &envelope
}

func getJSON(t *testing.T, app *fiber.App, path string) *APIResponse {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()

	var envelope APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return &envelope
}

// fixedSales serves sales figures keyed by day, zero for unknown days.
type fixedSales map[string]float64

func (f fixedSales) DailySales(_ context.Context, _, date string) (float64, error) {
	return f[date], nil
}

// flatBudget serves the same budget for every day.
type flatBudget float64

func (b flatBudget) DailyBudget(_ context.Context, _, _ string) (float64, error) {
	return float64(b), nil
}

func TestLoginFlow(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/api/login", map[string]string{"userId": "emp-1"})
	if !resp.Success {
		t.Fatalf("login failed: %+v", resp.Error)
	}

	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	streakData, _ := data["streak"].(map[string]any)
	if got, _ := streakData["streak"].(float64); got != 1 {
		t.Errorf("streak = %v, want 1", streakData["streak"])
	}
	checkIn, _ := data["checkIn"].(map[string]any)
	if got, _ := checkIn["xpEarned"].(float64); got != 10 {
		t.Errorf("check-in xp = %v, want 10", checkIn["xpEarned"])
	}

	profile, _ := data["profile"].(map[string]any)
	if profile["fullName"] != "Kari Nordmann" {
		t.Errorf("profile fullName = %v", profile["fullName"])
	}
}

func TestQuestCompleteEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/api/quests/complete", map[string]string{
		"userId": "emp-1", "questId": "clean-tables", "category": "daily",
	})
	if !resp.Success {
		t.Fatalf("complete failed: %+v", resp.Error)
	}

	missing := postJSON(t, app, "/api/quests/complete", map[string]string{
		"userId": "emp-1", "questId": "no-such-quest", "category": "daily",
	})
	if missing.Success || missing.Error == nil || missing.Error.Code != "NOT_FOUND" {
		t.Errorf("unknown quest response = %+v, want NOT_FOUND", missing.Error)
	}
}

func TestLeaderboardReflectsQuestCompletion(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/api/quests/complete", map[string]string{
		"userId": "emp-1", "questId": "clean-tables", "category": "daily",
	})
	if !resp.Success {
		t.Fatalf("complete failed: %+v", resp.Error)
	}

	board := getJSON(t, app, "/api/leaderboard/weekly")
	if !board.Success {
		t.Fatalf("leaderboard failed: %+v", board.Error)
	}
	entries, ok := board.Data.([]any)
	if !ok || len(entries) != 1 {
		t.Fatalf("board = %+v, want one entry", board.Data)
	}
	entry, _ := entries[0].(map[string]any)
	if entry["userId"] != "emp-1" {
		t.Errorf("entry userId = %v, want emp-1", entry["userId"])
	}
	if got, _ := entry["weeklyXp"].(float64); got != 10 {
		t.Errorf("weeklyXp = %v, want 10", entry["weeklyXp"])
	}

	rank := getJSON(t, app, "/api/leaderboard/weekly/rank/emp-1")
	if !rank.Success {
		t.Fatalf("rank failed: %+v", rank.Error)
	}
	rankData, _ := rank.Data.(map[string]any)
	if got, _ := rankData["rank"].(float64); got != 1 {
		t.Errorf("rank = %v, want 1", rankData["rank"])
	}

	unranked := getJSON(t, app, "/api/leaderboard/weekly/rank/emp-9")
	unrankedData, _ := unranked.Data.(map[string]any)
	if got, _ := unrankedData["rank"].(float64); got != -1 {
		t.Errorf("unranked rank = %v, want -1", unrankedData["rank"])
	}
}

func TestStreakInitEndpoint(t *testing.T) {
	app, webApp := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/streak/init/nesbyen", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("unconfigured status = %d, want 503", resp.StatusCode)
	}

	// Budget hit the last two days, missed before that.
	yesterday := calendar.DayKey(time.Now().AddDate(0, 0, -1))
	dayBefore := calendar.DayKey(time.Now().AddDate(0, 0, -2))
	webApp.POS = fixedSales{yesterday: 1200, dayBefore: 1100}
	webApp.Budgets = flatBudget(1000)

	result := postJSON(t, app, "/api/streak/init/nesbyen", nil)
	if !result.Success {
		t.Fatalf("init failed: %+v", result.Error)
	}
	data, _ := result.Data.(map[string]any)
	if got, _ := data["currentStreak"].(float64); got != 2 {
		t.Errorf("currentStreak = %v, want 2", data["currentStreak"])
	}
	if data["lastHitDate"] != yesterday {
		t.Errorf("lastHitDate = %v, want %s", data["lastHitDate"], yesterday)
	}
}

func TestLeaderboardEndpointRejectsUnknownBoard(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/leaderboard/yearly", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
