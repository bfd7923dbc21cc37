package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/server/config"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
)

// WaterSummary is a day's water record together with the goal-derived
// values, which are computed on read and never stored.
type WaterSummary struct {
	Date            string
	TotalConsumedMl int64
	GoalMl          int64
	PercentOfGoal   int
	RemainingMl     int64
	Events          []models.WaterEvent
	UpdatedAt       time.Time
}

// PercentOfGoal is the whole percentage of goal reached, capped at 100.
func PercentOfGoal(totalMl, goalMl int64) int {
	if goalMl <= 0 || totalMl <= 0 {
		return 0
	}
	return int(min(100, totalMl*100/goalMl))
}

// RemainingMl is how much is left to drink to reach goal, never negative.
func RemainingMl(totalMl, goalMl int64) int64 {
	if goalMl <= 0 {
		return 0
	}
	return max(0, goalMl-totalMl)
}

func summarize(date string, rec *models.WaterRecord, goal int64) *WaterSummary {
	ws := &WaterSummary{Date: date, GoalMl: goal}
	if rec != nil {
		ws.TotalConsumedMl = rec.TotalMl
		ws.Events = rec.Events
		ws.UpdatedAt = rec.UpdatedAt
	}
	ws.PercentOfGoal = PercentOfGoal(ws.TotalConsumedMl, goal)
	ws.RemainingMl = RemainingMl(ws.TotalConsumedMl, goal)
	return ws
}

// WaterService accumulates water intake per user and day.
type WaterService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       timex.Clock
	defaultGoal int64
}

func NewWaterService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *WaterService {
	return &WaterService{
		db:          db,
		repomanager: m,
		clock:       timex.SystemClock{},
		defaultGoal: cfg.DefaultWaterGoalMl,
	}
}

// AddIntake logs amountMl for date (today when empty) and returns the
// updated day.
func (s *WaterService) AddIntake(ctx context.Context, userID, date string, amountMl int64) (*WaterSummary, error) {
	if amountMl <= 0 {
		return nil, common.Validationf("amount_ml must be positive, got %d", amountMl)
	}
	now := s.clock.Now()
	if date == "" {
		date = timex.DateKey(now)
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	// resolve the goal first so a failed lookup leaves nothing written
	goal, err := s.goalFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec, err := s.repomanager.Water(s.db).AddIntake(ctx, userID, date, models.WaterEvent{Timestamp: now, AmountMl: amountMl})
	if err != nil {
		return nil, fmt.Errorf("error adding water intake: %w", err)
	}
	return summarize(date, rec, goal), nil
}

// GetDay returns the summary for date (today when empty). A day without
// intake reports zero.
func (s *WaterService) GetDay(ctx context.Context, userID, date string) (*WaterSummary, error) {
	if date == "" {
		date = timex.Today(s.clock)
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	rec, err := s.repomanager.Water(s.db).Get(ctx, userID, date)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error getting water record: %w", err)
	}

	goal, err := s.goalFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(date, rec, goal), nil
}

func (s *WaterService) goalFor(ctx context.Context, userID string) (int64, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return s.defaultGoal, nil
		}
		return 0, fmt.Errorf("error getting water goal: %w", err)
	}
	if u.Profile.WaterGoalMl <= 0 {
		return s.defaultGoal, nil
	}
	return u.Profile.WaterGoalMl, nil
}
