package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/dbx"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
)

// MealContent names what a scheduled meal serves. Exactly one source is
// set: a generated recipe, a custom recipe, or plan content. Plan content
// is either embedded PlanData, a MealPlanID whose data gets embedded, or
// both.
type MealContent struct {
	RecipeID       string
	CustomRecipeID string
	MealPlanID     string
	PlanData       json.RawMessage
}

func (c MealContent) validate(slot models.MealSlot) error {
	sources := 0
	if c.RecipeID != "" {
		sources++
	}
	if c.CustomRecipeID != "" {
		sources++
	}
	isPlan := c.MealPlanID != "" || len(c.PlanData) > 0
	if isPlan {
		sources++
	}
	if sources != 1 {
		return common.Validationf("exactly one content source is required, got %d", sources)
	}
	if len(c.PlanData) > 0 && !json.Valid(c.PlanData) {
		return common.Validationf("plan data is not valid JSON")
	}
	if slot == models.SlotMealPlan && !isPlan {
		return common.Validationf("slot %q only accepts plan content", slot)
	}
	return nil
}

// DaySummary adds up one day's scheduled meals.
type DaySummary struct {
	Target   models.Totals
	Consumed models.Totals
}

func SummarizeDay(meals []*models.ScheduledMeal) DaySummary {
	var s DaySummary
	for _, m := range meals {
		s.Target.Calories += m.Target.Calories
		s.Target.Protein += m.Target.Protein
		s.Consumed.Calories += m.CaloriesConsumed
		s.Consumed.Protein += m.ProteinConsumed
	}
	return s
}

// ScheduleService assigns content to (user, date, slot) triples.
type ScheduleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       timex.Clock
}

func NewScheduleService(db *sql.DB, m repomanager.RepositoryManager) *ScheduleService {
	return &ScheduleService{db: db, repomanager: m, clock: timex.SystemClock{}}
}

// ScheduleMeal upserts the meal for (userID, date, slot). Content and totals
// replace whatever was there; consumption state is kept.
func (s *ScheduleService) ScheduleMeal(ctx context.Context, userID, date string, slot models.MealSlot,
	content MealContent, totals models.Totals) (string, error) {

	if err := validateDate(date); err != nil {
		return "", err
	}
	if !slot.Valid() {
		return "", common.Validationf("unknown meal slot %q", slot)
	}
	if err := content.validate(slot); err != nil {
		return "", err
	}
	if err := validateTotals(totals); err != nil {
		return "", err
	}

	m := &models.ScheduledMeal{
		UserID:         userID,
		Date:           date,
		Slot:           slot,
		RecipeID:       content.RecipeID,
		CustomRecipeID: content.CustomRecipeID,
		MealPlanID:     content.MealPlanID,
		MealPlanData:   content.PlanData,
		Target:         totals,
	}
	if err := s.resolveContent(ctx, userID, m); err != nil {
		return "", err
	}

	m.UpdatedAt = s.clock.Now()
	id, err := s.repomanager.ScheduledMeals(s.db).Upsert(ctx, m)
	if err != nil {
		return "", fmt.Errorf("error scheduling meal: %w", err)
	}
	return id, nil
}

// resolveContent checks that referenced content belongs to the user and
// embeds plan data when only a plan id was given.
func (s *ScheduleService) resolveContent(ctx context.Context, userID string, m *models.ScheduledMeal) error {
	switch {
	case m.RecipeID != "":
		if err := checkID(m.RecipeID); err != nil {
			return fmt.Errorf("recipe %s: %w", m.RecipeID, err)
		}
		if _, err := s.repomanager.Recipes(s.db).Get(ctx, userID, m.RecipeID); err != nil {
			return fmt.Errorf("recipe %s: %w", m.RecipeID, err)
		}
	case m.CustomRecipeID != "":
		if err := checkID(m.CustomRecipeID); err != nil {
			return fmt.Errorf("custom recipe %s: %w", m.CustomRecipeID, err)
		}
		r, err := s.repomanager.CustomRecipes(s.db).Get(ctx, userID, m.CustomRecipeID)
		if err != nil {
			return fmt.Errorf("custom recipe %s: %w", m.CustomRecipeID, err)
		}
		if !r.IsActive {
			return fmt.Errorf("custom recipe %s: %w", m.CustomRecipeID, common.ErrorNotFound)
		}
	case m.MealPlanID != "":
		if err := checkID(m.MealPlanID); err != nil {
			return fmt.Errorf("meal plan %s: %w", m.MealPlanID, err)
		}
		p, err := s.repomanager.MealPlans(s.db).Get(ctx, userID, m.MealPlanID)
		if err != nil {
			return fmt.Errorf("meal plan %s: %w", m.MealPlanID, err)
		}
		if len(m.MealPlanData) == 0 {
			m.MealPlanData = p.PlanData
		}
	}
	return nil
}

// ScheduleMealPlan puts a whole plan on date under the meal_plan slot,
// embedding its data and totals. If that slot already holds the same plan
// the existing record is returned untouched.
func (s *ScheduleService) ScheduleMealPlan(ctx context.Context, userID, mealPlanID, date string) (string, error) {
	if err := validateDate(date); err != nil {
		return "", err
	}
	if err := checkID(mealPlanID); err != nil {
		return "", fmt.Errorf("meal plan %s: %w", mealPlanID, err)
	}

	var id string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		plan, err := s.repomanager.MealPlans(tx).Get(ctx, userID, mealPlanID)
		if err != nil {
			return fmt.Errorf("meal plan %s: %w", mealPlanID, err)
		}

		meals := s.repomanager.ScheduledMeals(tx)
		existing, err := meals.FindBySlot(ctx, userID, date, models.SlotMealPlan)
		switch {
		case err == nil && existing.MealPlanID == mealPlanID:
			id = existing.ID
			return nil
		case err != nil && !errors.Is(err, common.ErrorNotFound):
			return err
		}

		id, err = meals.Upsert(ctx, &models.ScheduledMeal{
			UserID:       userID,
			Date:         date,
			Slot:         models.SlotMealPlan,
			MealPlanID:   plan.ID,
			MealPlanData: plan.PlanData,
			Target:       plan.Totals,
			UpdatedAt:    s.clock.Now(),
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("error scheduling meal plan: %w", err)
	}
	return id, nil
}

// GetDay lists the user's meals for date in slot order.
func (s *ScheduleService) GetDay(ctx context.Context, userID, date string) ([]*models.ScheduledMeal, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	meals, err := s.repomanager.ScheduledMeals(s.db).ListByDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("error listing meals: %w", err)
	}
	return meals, nil
}

func (s *ScheduleService) GetScheduledMeal(ctx context.Context, userID, id string) (*models.ScheduledMeal, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	m, err := s.repomanager.ScheduledMeals(s.db).Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("error getting meal: %w", err)
	}
	return m, nil
}

// Unschedule clears one slot assignment.
func (s *ScheduleService) Unschedule(ctx context.Context, userID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repomanager.ScheduledMeals(s.db).Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("error deleting meal: %w", err)
	}
	return nil
}
