package gamification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bearhouse/dashboard/bearhouse/database/models"
	"github.com/bearhouse/dashboard/bearhouse/logger"
)

// Review XP deltas by star rating. Anything below three stars costs the most.
const (
	reviewFiveStarXP  = 50
	reviewFourStarXP  = -15
	reviewThreeStarXP = -40
	reviewBadXP       = -80
)

// Flat awards for auto-tracked sales events.
const (
	budgetHitXP   = 25
	salesRecordXP = 100
	avgTicketXP   = 10

	// Logins strictly before this hour count toward the early-bird counter.
	EarlyLoginHour = 7
)

type ReviewResult struct {
	LedgerResult
	Stars   int    `json:"stars"`
	Message string `json:"message"`
}

// UserAward is one user's share of a team-wide event.
type UserAward struct {
	UserID string `json:"userId"`
	LedgerResult
}

type EarlyLoginResult struct {
	EarlyLogins int `json:"earlyLogins"`
}

// RecordReview books a customer review against an employee. Five stars pay
// out, four stars and below cost XP on a sliding scale.
func (s *Service) RecordReview(ctx context.Context, userID string, stars int) (*ReviewResult, error) {
	if userID == "" || stars < 1 || stars > 5 {
		return nil, ErrInvalidInput
	}

	var (
		xp      int
		message string
	)
	switch stars {
	case 5:
		xp, message = reviewFiveStarXP, "⭐ 5-stjerners anmeldelse!"
	case 4:
		xp, message = reviewFourStarXP, "4-stjerners anmeldelse"
	case 3:
		xp, message = reviewThreeStarXP, "3-stjerners anmeldelse"
	default:
		xp, message = reviewBadXP, "Dårlig anmeldelse"
	}

	release := s.locks.lock(userID)
	defer release()

	stats, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if stars == 5 {
		stats.FiveStarReviews++
	} else {
		stats.BadReviews++
	}

	ledger, err := s.applyXP(ctx, stats, xp, message)
	if err != nil {
		return nil, err
	}
	if stars == 5 {
		if err := s.checkWatchers(ctx, stats, TriggerFiveStarReviews, stats.FiveStarReviews); err != nil {
			return nil, err
		}
	}

	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save stats for %s: %w", userID, err)
	}

	return &ReviewResult{LedgerResult: *ledger, Stars: stars, Message: message}, nil
}

// RecordBudgetHit credits every worker on shift when a location hits its
// daily budget.
func (s *Service) RecordBudgetHit(ctx context.Context, userIDs []string) ([]*UserAward, error) {
	return s.awardMany(ctx, userIDs, budgetHitXP, "🎯 Budsjett nådd!",
		func(stats *models.UserStats) (TriggerKind, int) {
			stats.BudgetDays++
			return TriggerBudgetDays, stats.BudgetDays
		})
}

// RecordNewRecord credits every worker on shift for an all-time daily sales
// record.
func (s *Service) RecordNewRecord(ctx context.Context, userIDs []string) ([]*UserAward, error) {
	return s.awardMany(ctx, userIDs, salesRecordXP, "🏆 Ny salgsrekord!",
		func(stats *models.UserStats) (TriggerKind, int) {
			stats.RecordDays++
			return TriggerRecordDays, stats.RecordDays
		})
}

// RecordAvgTicketHit credits workers at a location when the day's average
// ticket clears that location's goal.
func (s *Service) RecordAvgTicketHit(ctx context.Context, userIDs []string, location string, avgTicket, goal float64) ([]*UserAward, error) {
	reason := fmt.Sprintf("💰 Høyt snitt! %.0f kr (mål: %.0f kr)", avgTicket, goal)
	awards, err := s.awardMany(ctx, userIDs, avgTicketXP, reason,
		func(stats *models.UserStats) (TriggerKind, int) {
			stats.AvgTicketDays++
			return TriggerAvgTicketDays, stats.AvgTicketDays
		})

	logger.LogGame("Average ticket goal hit",
		slog.String("location", location),
		slog.Int("workers", len(awards)),
		slog.Float64("avg_ticket", avgTicket),
		slog.Float64("goal", goal))
	return awards, err
}

// RecordEarlyLogin bumps the early-bird counter. No XP, just a counter that
// an achievement watches.
func (s *Service) RecordEarlyLogin(ctx context.Context, userID string) (*EarlyLoginResult, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	release := s.locks.lock(userID)
	defer release()

	stats, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats.EarlyLogins++
	if err := s.checkWatchers(ctx, stats, TriggerEarlyLogins, stats.EarlyLogins); err != nil {
		return nil, err
	}
	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save stats for %s: %w", userID, err)
	}
	return &EarlyLoginResult{EarlyLogins: stats.EarlyLogins}, nil
}

// awardMany applies a flat XP award plus a counter bump to a batch of users,
// one lock and one load-mutate-save cycle per user. A failure for one user
// does not stop the rest; all errors come back joined.
func (s *Service) awardMany(ctx context.Context, userIDs []string, xp int, reason string, bump func(*models.UserStats) (TriggerKind, int)) ([]*UserAward, error) {
	var (
		awards []*UserAward
		errs   []error
	)
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		award, err := s.awardOne(ctx, userID, xp, reason, bump)
		if err != nil {
			errs = append(errs, fmt.Errorf("award for %s: %w", userID, err))
			continue
		}
		awards = append(awards, award)
	}
	return awards, errors.Join(errs...)
}

func (s *Service) awardOne(ctx context.Context, userID string, xp int, reason string, bump func(*models.UserStats) (TriggerKind, int)) (*UserAward, error) {
	release := s.locks.lock(userID)
	defer release()

	stats, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	kind, value := bump(stats)

	ledger, err := s.applyXP(ctx, stats, xp, reason)
	if err != nil {
		return nil, err
	}
	if err := s.checkWatchers(ctx, stats, kind, value); err != nil {
		return nil, err
	}
	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save stats for %s: %w", userID, err)
	}
	return &UserAward{UserID: userID, LedgerResult: *ledger}, nil
}
