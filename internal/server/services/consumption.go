package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/logging"
	"github.com/dmitrijs2005/nutriledger/internal/server/config"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
	"github.com/sethvargo/go-retry"
)

// ConsumptionState is what a scheduled meal reports after a toggle.
type ConsumptionState struct {
	MealsConsumed    []string
	CaloriesConsumed float64
	ProteinConsumed  float64
	IsCompleted      bool
}

func stateOf(m *models.ScheduledMeal) *ConsumptionState {
	return &ConsumptionState{
		MealsConsumed:    m.ConsumedKeys(),
		CaloriesConsumed: m.CaloriesConsumed,
		ProteinConsumed:  m.ProteinConsumed,
		IsCompleted:      m.IsCompleted,
	}
}

// ConsumptionService marks sub-meals of a scheduled meal as eaten or not.
type ConsumptionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       timex.Clock
	logger      logging.Logger
	retries     uint64
	backoff     time.Duration
}

func NewConsumptionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *ConsumptionService {
	return &ConsumptionService{
		db:          db,
		repomanager: m,
		clock:       timex.SystemClock{},
		logger:      logger.With("module", "consumption"),
		retries:     uint64(max(0, cfg.ConsumeRetries)),
		backoff:     10 * time.Millisecond,
	}
}

// SetConsumed adds key to (consumed=true) or removes it from the meal's
// consumed set. Adding a present key or removing an absent one changes
// nothing. Removal subtracts the amounts recorded when the key was added.
//
// The read-modify-write is guarded by the record version; a lost race is
// retried with exponential backoff and surfaces as common.ErrVersionConflict
// once the retries are used up.
func (s *ConsumptionService) SetConsumed(ctx context.Context, userID, scheduledMealID, subMealKey string,
	calories, protein float64, consumed bool) (*ConsumptionState, error) {

	if strings.TrimSpace(subMealKey) == "" {
		return nil, common.Validationf("sub-meal key must not be empty")
	}
	if calories < 0 || protein < 0 || math.IsNaN(calories) || math.IsNaN(protein) ||
		math.IsInf(calories, 0) || math.IsInf(protein, 0) {
		return nil, common.Validationf("calories and protein must be finite and non-negative")
	}
	if err := checkID(scheduledMealID); err != nil {
		return nil, err
	}

	repo := s.repomanager.ScheduledMeals(s.db)

	var (
		state   *ConsumptionState
		attempt int
	)
	backoff := retry.WithMaxRetries(s.retries, retry.NewExponential(s.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		m, err := repo.Get(ctx, userID, scheduledMealID)
		if err != nil {
			return err
		}
		expected := m.Version

		var changed bool
		if consumed {
			changed = m.MarkConsumed(subMealKey, models.ConsumedItem{Calories: calories, Protein: protein})
		} else {
			changed = m.MarkUnconsumed(subMealKey)
		}
		if !changed {
			state = stateOf(m)
			return nil
		}

		m.UpdatedAt = s.clock.Now()
		if err := repo.UpdateConsumption(ctx, m, expected); err != nil {
			if errors.Is(err, common.ErrVersionConflict) {
				s.logger.Debug(ctx, "consumption update conflicted",
					"scheduled_meal_id", scheduledMealID, "attempt", attempt)
				return retry.RetryableError(err)
			}
			return err
		}
		state = stateOf(m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error updating consumption: %w", err)
	}
	return state, nil
}
