package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/dbx"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
	"github.com/sethvargo/go-retry"
)

// activationRetries bounds how often a plan activation that lost a race
// for the active slot is replayed.
const activationRetries = 3

// MealPlanService keeps each user's plans with at most one active.
type MealPlanService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       timex.Clock
	backoff     time.Duration
}

func NewMealPlanService(db *sql.DB, m repomanager.RepositoryManager) *MealPlanService {
	return &MealPlanService{db: db, repomanager: m, clock: timex.SystemClock{}, backoff: 5 * time.Millisecond}
}

// CreateAndActivate stores a new plan as the user's only active one. The
// previous active plan, if any, is deactivated in the same transaction.
// Concurrent activations for one user resolve to the last one committed.
func (s *MealPlanService) CreateAndActivate(ctx context.Context, userID, name, date string,
	planData json.RawMessage, totals models.Totals) (string, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return "", common.Validationf("plan name must not be empty")
	}
	if err := validateDate(date); err != nil {
		return "", err
	}
	if len(planData) == 0 || !json.Valid(planData) {
		return "", common.Validationf("plan data must be a JSON document")
	}
	if err := validateTotals(totals); err != nil {
		return "", err
	}

	plan := &models.MealPlan{
		UserID:    userID,
		Name:      name,
		Date:      date,
		PlanData:  planData,
		Totals:    totals,
		IsActive:  true,
		CreatedAt: s.clock.Now(),
	}

	backoff := retry.WithMaxRetries(activationRetries, retry.NewConstant(s.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.repomanager.MealPlans(tx)
			if err := repo.LockUser(ctx, userID); err != nil {
				return err
			}
			if _, err := repo.DeactivateAll(ctx, userID); err != nil {
				return err
			}
			_, err := repo.Create(ctx, plan)
			return err
		})
		// another activation committed between our deactivate and insert
		if errors.Is(err, common.ErrAlreadyExists) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("error activating meal plan: %w", err)
	}
	return plan.ID, nil
}

func (s *MealPlanService) ListPlans(ctx context.Context, userID string) ([]*models.MealPlan, error) {
	plans, err := s.repomanager.MealPlans(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing meal plans: %w", err)
	}
	return plans, nil
}

// GetActivePlan returns common.ErrorNotFound when no plan is active.
func (s *MealPlanService) GetActivePlan(ctx context.Context, userID string) (*models.MealPlan, error) {
	p, err := s.repomanager.MealPlans(s.db).GetActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting active meal plan: %w", err)
	}
	return p, nil
}

func (s *MealPlanService) GetPlan(ctx context.Context, userID, id string) (*models.MealPlan, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, err := s.repomanager.MealPlans(s.db).Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("error getting meal plan: %w", err)
	}
	return p, nil
}
