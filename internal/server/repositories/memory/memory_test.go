package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repomanager.RepositoryManager = (*Manager)(nil)

func TestMeals_UpsertKeepsConsumption(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryManager().ScheduledMeals(nil)
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	m := &models.ScheduledMeal{UserID: "u1", Date: "2025-03-01", Slot: models.SlotLunch, RecipeID: "r1",
		Target: models.Totals{Calories: 500}, UpdatedAt: t0}
	id, err := repo.Upsert(ctx, m)
	require.NoError(t, err)

	stored, err := repo.Get(ctx, "u1", id)
	require.NoError(t, err)
	stored.MarkConsumed("lunch", models.ConsumedItem{Calories: 300, Protein: 20})
	require.NoError(t, repo.UpdateConsumption(ctx, stored, stored.Version))

	again := &models.ScheduledMeal{UserID: "u1", Date: "2025-03-01", Slot: models.SlotLunch, CustomRecipeID: "c1",
		Target: models.Totals{Calories: 250}, UpdatedAt: t0.Add(time.Minute)}
	id2, err := repo.Upsert(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	got, err := repo.Get(ctx, "u1", id)
	require.NoError(t, err)
	assert.Empty(t, got.RecipeID)
	assert.Equal(t, "c1", got.CustomRecipeID)
	assert.Equal(t, 300.0, got.CaloriesConsumed)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, int64(3), got.Version)
	assert.Equal(t, t0.Add(time.Minute), got.UpdatedAt)

	_, err = repo.Get(ctx, "u2", id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMeals_VersionConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryManager().ScheduledMeals(nil)

	id, err := repo.Upsert(ctx, &models.ScheduledMeal{UserID: "u1", Date: "2025-03-01", Slot: models.SlotDinner, RecipeID: "r1"})
	require.NoError(t, err)

	a, _ := repo.Get(ctx, "u1", id)
	b, _ := repo.Get(ctx, "u1", id)
	a.MarkConsumed("x", models.ConsumedItem{Calories: 1})
	b.MarkConsumed("y", models.ConsumedItem{Calories: 2})

	require.NoError(t, repo.UpdateConsumption(ctx, a, a.Version))
	assert.ErrorIs(t, repo.UpdateConsumption(ctx, b, b.Version), common.ErrVersionConflict)
}

func TestMeals_ListByDateOrdered(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryManager().ScheduledMeals(nil)

	for _, slot := range []models.MealSlot{models.SlotSnacks, models.SlotBreakfast, models.SlotMealPlan, models.SlotDinner} {
		_, err := repo.Upsert(ctx, &models.ScheduledMeal{UserID: "u1", Date: "2025-03-01", Slot: slot, RecipeID: "r"})
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, &models.ScheduledMeal{UserID: "u1", Date: "2025-03-02", Slot: models.SlotLunch, RecipeID: "r"})
	require.NoError(t, err)

	got, err := repo.ListByDate(ctx, "u1", "2025-03-01")
	require.NoError(t, err)
	var slots []models.MealSlot
	for _, m := range got {
		slots = append(slots, m.Slot)
	}
	assert.Equal(t, []models.MealSlot{models.SlotBreakfast, models.SlotDinner, models.SlotSnacks, models.SlotMealPlan}, slots)
}

func TestWater_Accumulates(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryManager().Water(nil)

	_, err := repo.Get(ctx, "u1", "2025-03-01")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	for _, ml := range []int64{250, 500, 1000} {
		_, err := repo.AddIntake(ctx, "u1", "2025-03-01", models.WaterEvent{AmountMl: ml, Timestamp: time.Now()})
		require.NoError(t, err)
	}
	rec, err := repo.Get(ctx, "u1", "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1750), rec.TotalMl)
	assert.Len(t, rec.Events, 3)
}

func TestPlans_SingleActive(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryManager().MealPlans(nil)

	_, err := repo.Create(ctx, &models.MealPlan{UserID: "u1", Name: "a", PlanData: json.RawMessage(`{}`), IsActive: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.MealPlan{UserID: "u1", Name: "b", PlanData: json.RawMessage(`{}`), IsActive: true})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	n, err := repo.DeactivateAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetActive(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPlans_LockUserReportsAvailability(t *testing.T) {
	m := NewRepositoryManager()
	require.NoError(t, m.MealPlans(nil).LockUser(context.Background(), "u1"))

	m.SetUnavailable(true)
	assert.ErrorIs(t, m.MealPlans(nil).LockUser(context.Background(), "u1"), common.ErrorStoreUnavailable)
}

func TestUsers_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryManager().Users(nil)

	_, err := repo.Create(ctx, &models.User{Email: "a@b.c"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.User{Email: "a@b.c"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestCustomRecipes_Deactivate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryManager().CustomRecipes(nil)

	rec, err := repo.Create(ctx, &models.CustomRecipe{UserID: "u1", RecipeContent: models.RecipeContent{Name: "x"}})
	require.NoError(t, err)
	require.NoError(t, repo.Deactivate(ctx, "u1", rec.ID))

	active, err := repo.List(ctx, "u1", true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := repo.List(ctx, "u1", false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUnavailable(t *testing.T) {
	m := NewRepositoryManager()
	m.SetUnavailable(true)

	_, err := m.Water(nil).AddIntake(context.Background(), "u1", "2025-03-01", models.WaterEvent{AmountMl: 1})
	assert.ErrorIs(t, err, common.ErrorStoreUnavailable)

	m.SetUnavailable(false)
	_, err = m.Water(nil).AddIntake(context.Background(), "u1", "2025-03-01", models.WaterEvent{AmountMl: 1})
	assert.NoError(t, err)
}
