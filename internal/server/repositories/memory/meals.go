package memory

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"sort"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/google/uuid"
)

type mealRepo struct{ s *store }

func cloneMeal(m *models.ScheduledMeal) *models.ScheduledMeal {
	cp := *m
	cp.MealPlanData = slices.Clone(m.MealPlanData)
	cp.MealsConsumed = maps.Clone(m.MealsConsumed)
	if cp.MealsConsumed == nil {
		cp.MealsConsumed = map[string]models.ConsumedItem{}
	}
	return &cp
}

// findSlot must be called with mu held.
func (r *mealRepo) findSlot(userID, date string, slot models.MealSlot) *models.ScheduledMeal {
	for _, m := range r.s.meals {
		if m.UserID == userID && m.Date == date && m.Slot == slot {
			return m
		}
	}
	return nil
}

func (r *mealRepo) Upsert(_ context.Context, m *models.ScheduledMeal) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return "", err
	}

	existing := r.findSlot(m.UserID, m.Date, m.Slot)
	if existing == nil {
		stored := cloneMeal(m)
		stored.ID = uuid.NewString()
		stored.MealsConsumed = map[string]models.ConsumedItem{}
		stored.CaloriesConsumed, stored.ProteinConsumed, stored.IsCompleted = 0, 0, false
		stored.Version = 1
		stored.CreatedAt = m.UpdatedAt
		r.s.meals[stored.ID] = stored

		m.ID, m.Version, m.CreatedAt = stored.ID, stored.Version, stored.CreatedAt
		return stored.ID, nil
	}

	existing.RecipeID = m.RecipeID
	existing.CustomRecipeID = m.CustomRecipeID
	existing.MealPlanID = m.MealPlanID
	existing.MealPlanData = slices.Clone(m.MealPlanData)
	existing.Target = m.Target
	existing.IsCompleted = len(existing.MealsConsumed) > 0 &&
		m.Target.Calories > 0 && existing.CaloriesConsumed >= m.Target.Calories
	if m.UpdatedAt.After(existing.UpdatedAt) {
		existing.UpdatedAt = m.UpdatedAt
	}
	existing.Version++

	m.ID, m.Version, m.CreatedAt, m.UpdatedAt = existing.ID, existing.Version, existing.CreatedAt, existing.UpdatedAt
	return existing.ID, nil
}

func (r *mealRepo) FindBySlot(_ context.Context, userID, date string, slot models.MealSlot) (*models.ScheduledMeal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	m := r.findSlot(userID, date, slot)
	if m == nil {
		return nil, common.ErrorNotFound
	}
	return cloneMeal(m), nil
}

func (r *mealRepo) Get(_ context.Context, userID, id string) (*models.ScheduledMeal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	m, ok := r.s.meals[id]
	if !ok || m.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return cloneMeal(m), nil
}

func (r *mealRepo) ListByDate(_ context.Context, userID, date string) ([]*models.ScheduledMeal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	var result []*models.ScheduledMeal
	for _, m := range r.s.meals {
		if m.UserID == userID && m.Date == date {
			result = append(result, cloneMeal(m))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return slices.Index(models.Slots, result[i].Slot) < slices.Index(models.Slots, result[j].Slot)
	})
	return result, nil
}

func (r *mealRepo) UpdateConsumption(_ context.Context, m *models.ScheduledMeal, expectedVersion int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return err
	}
	stored, ok := r.s.meals[m.ID]
	if !ok || stored.Version != expectedVersion {
		return common.ErrVersionConflict
	}

	// Round-trip through JSON like the JSONB column does.
	b, err := json.Marshal(m.MealsConsumed)
	if err != nil {
		return err
	}
	consumed := map[string]models.ConsumedItem{}
	if err := json.Unmarshal(b, &consumed); err != nil {
		return err
	}

	stored.MealsConsumed = consumed
	stored.CaloriesConsumed = m.CaloriesConsumed
	stored.ProteinConsumed = m.ProteinConsumed
	stored.IsCompleted = m.IsCompleted
	stored.UpdatedAt = m.UpdatedAt
	stored.Version = expectedVersion + 1
	m.Version = stored.Version
	return nil
}

func (r *mealRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return err
	}
	m, ok := r.s.meals[id]
	if !ok || m.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.meals, id)
	return nil
}
