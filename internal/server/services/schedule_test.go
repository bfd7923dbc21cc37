package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/logging"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleMeal_UpsertsPerSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "a@example.com")
	first := env.seedRecipe(t, userID)
	second := env.seedRecipe(t, userID)
	svc := env.scheduleService()

	id1, err := svc.ScheduleMeal(ctx, userID, "2025-03-14", models.SlotLunch,
		MealContent{RecipeID: first}, models.Totals{Calories: 500, Protein: 30})
	require.NoError(t, err)

	// eat something so we can check the upsert keeps it
	cons := NewConsumptionService(env.db, env.rm, env.cfg, logging.Nop{})
	_, err = cons.SetConsumed(ctx, userID, id1, "soup", 200, 10, true)
	require.NoError(t, err)

	env.clock.Advance(1)
	id2, err := svc.ScheduleMeal(ctx, userID, "2025-03-14", models.SlotLunch,
		MealContent{RecipeID: second}, models.Totals{Calories: 700, Protein: 40})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	day, err := svc.GetDay(ctx, userID, "2025-03-14")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, second, day[0].RecipeID)
	assert.Equal(t, models.Totals{Calories: 700, Protein: 40}, day[0].Target)
	assert.Equal(t, []string{"soup"}, day[0].ConsumedKeys())
	assert.Equal(t, 200.0, day[0].CaloriesConsumed)
}

func TestScheduleMeal_UpdatedAtNeverMovesBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "a@example.com")
	recipeID := env.seedRecipe(t, userID)
	svc := env.scheduleService()

	updatedAt := func() time.Time {
		t.Helper()
		day, err := svc.GetDay(ctx, userID, "2025-03-14")
		require.NoError(t, err)
		require.Len(t, day, 1)
		return day[0].UpdatedAt
	}

	_, err := svc.ScheduleMeal(ctx, userID, "2025-03-14", models.SlotDinner, MealContent{RecipeID: recipeID}, models.Totals{})
	require.NoError(t, err)
	first := updatedAt()
	assert.Equal(t, env.clock.T, first)

	env.clock.Advance(time.Minute)
	_, err = svc.ScheduleMeal(ctx, userID, "2025-03-14", models.SlotDinner, MealContent{RecipeID: recipeID}, models.Totals{Calories: 600})
	require.NoError(t, err)
	second := updatedAt()
	assert.True(t, second.After(first), "second=%s first=%s", second, first)

	// a clock step backwards must not rewind the meal
	env.clock.T = first.Add(-time.Hour)
	_, err = svc.ScheduleMeal(ctx, userID, "2025-03-14", models.SlotDinner, MealContent{RecipeID: recipeID}, models.Totals{Calories: 650})
	require.NoError(t, err)
	assert.Equal(t, second, updatedAt())
}

func TestScheduleMeal_DistinctSlotsAndDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "a@example.com")
	recipeID := env.seedRecipe(t, userID)
	svc := env.scheduleService()

	for _, slot := range []models.MealSlot{models.SlotDinner, models.SlotBreakfast, models.SlotSnacks} {
		_, err := svc.ScheduleMeal(ctx, userID, "2025-03-14", slot, MealContent{RecipeID: recipeID}, models.Totals{})
		require.NoError(t, err)
	}
	_, err := svc.ScheduleMeal(ctx, userID, "2025-03-15", models.SlotLunch, MealContent{RecipeID: recipeID}, models.Totals{})
	require.NoError(t, err)

	day, err := svc.GetDay(ctx, userID, "2025-03-14")
	require.NoError(t, err)
	var slots []models.MealSlot
	for _, m := range day {
		slots = append(slots, m.Slot)
	}
	assert.Equal(t, []models.MealSlot{models.SlotBreakfast, models.SlotDinner, models.SlotSnacks}, slots)
}

func TestScheduleMeal_Validation(t *testing.T) {
	env := newTestEnv(t)
	userID := env.seedUser(t, "a@example.com")
	recipeID := env.seedRecipe(t, userID)
	svc := env.scheduleService()

	tests := []struct {
		name    string
		date    string
		slot    models.MealSlot
		content MealContent
		totals  models.Totals
	}{
		{"bad date", "14/03/2025", models.SlotLunch, MealContent{RecipeID: recipeID}, models.Totals{}},
		{"impossible date", "2025-02-30", models.SlotLunch, MealContent{RecipeID: recipeID}, models.Totals{}},
		{"unknown slot", "2025-03-14", "brunch", MealContent{RecipeID: recipeID}, models.Totals{}},
		{"no content", "2025-03-14", models.SlotLunch, MealContent{}, models.Totals{}},
		{"two sources", "2025-03-14", models.SlotLunch,
			MealContent{RecipeID: recipeID, CustomRecipeID: recipeID}, models.Totals{}},
		{"broken plan json", "2025-03-14", models.SlotLunch,
			MealContent{PlanData: json.RawMessage(`{"meals":`)}, models.Totals{}},
		{"recipe in plan slot", "2025-03-14", models.SlotMealPlan, MealContent{RecipeID: recipeID}, models.Totals{}},
		{"negative totals", "2025-03-14", models.SlotLunch,
			MealContent{RecipeID: recipeID}, models.Totals{Calories: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ScheduleMeal(context.Background(), userID, tt.date, tt.slot, tt.content, tt.totals)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestScheduleMeal_ReferencedContentMustExist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "a@example.com")
	otherID := env.seedUser(t, "b@example.com")
	foreign := env.seedRecipe(t, otherID)
	svc := env.scheduleService()

	_, err := svc.ScheduleMeal(ctx, userID, "2025-03-14", models.SlotLunch, MealContent{RecipeID: foreign}, models.Totals{})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = svc.ScheduleMeal(ctx, userID, "2025-03-14", models.SlotLunch, MealContent{RecipeID: "nope"}, models.Totals{})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	custom, err := env.rm.CustomRecipes(nil).Create(ctx, &models.CustomRecipe{
		UserID: userID, RecipeContent: models.RecipeContent{Name: "Porridge"},
	})
	require.NoError(t, err)
	_, err = svc.ScheduleMeal(ctx, userID, "2025-03-14", models.SlotBreakfast,
		MealContent{CustomRecipeID: custom.ID}, models.Totals{})
	require.NoError(t, err)

	require.NoError(t, env.rm.CustomRecipes(nil).Deactivate(ctx, userID, custom.ID))
	_, err = svc.ScheduleMeal(ctx, userID, "2025-03-15", models.SlotBreakfast,
		MealContent{CustomRecipeID: custom.ID}, models.Totals{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestScheduleMeal_EmbedsPlanDataFromID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "a@example.com")
	plan := env.seedPlan(t, userID, "cut")
	svc := env.scheduleService()

	id, err := svc.ScheduleMeal(ctx, userID, "2025-03-14", models.SlotDinner,
		MealContent{MealPlanID: plan.ID}, models.Totals{Calories: 600})
	require.NoError(t, err)

	m, err := svc.GetScheduledMeal(ctx, userID, id)
	require.NoError(t, err)
	assert.JSONEq(t, string(plan.PlanData), string(m.MealPlanData))
}

func TestScheduleMeal_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	userID := env.seedUser(t, "a@example.com")
	env.rm.SetUnavailable(true)

	_, err := env.scheduleService().ScheduleMeal(context.Background(), userID, "2025-03-14", models.SlotLunch,
		MealContent{PlanData: json.RawMessage(`{}`)}, models.Totals{})
	assert.ErrorIs(t, err, common.ErrorStoreUnavailable)
}

func TestScheduleMealPlan_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "a@example.com")
	plan := env.seedPlan(t, userID, "bulk")
	svc := env.scheduleService()

	env.expectTx()
	env.expectTx()

	id1, err := svc.ScheduleMealPlan(ctx, userID, plan.ID, "2025-03-14")
	require.NoError(t, err)
	before, err := svc.GetScheduledMeal(ctx, userID, id1)
	require.NoError(t, err)

	id2, err := svc.ScheduleMealPlan(ctx, userID, plan.ID, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	after, err := svc.GetScheduledMeal(ctx, userID, id2)
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, models.SlotMealPlan, after.Slot)
	assert.Equal(t, plan.Totals, after.Target)
	assert.JSONEq(t, string(plan.PlanData), string(after.MealPlanData))

	day, err := svc.GetDay(ctx, userID, "2025-03-14")
	require.NoError(t, err)
	assert.Len(t, day, 1)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestScheduleMealPlan_ReplacesOtherPlan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "a@example.com")
	a := env.seedPlan(t, userID, "a")
	b := env.seedPlan(t, userID, "b")
	svc := env.scheduleService()

	env.expectTx()
	env.expectTx()

	id1, err := svc.ScheduleMealPlan(ctx, userID, a.ID, "2025-03-14")
	require.NoError(t, err)
	id2, err := svc.ScheduleMealPlan(ctx, userID, b.ID, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	m, err := svc.GetScheduledMeal(ctx, userID, id2)
	require.NoError(t, err)
	assert.Equal(t, b.ID, m.MealPlanID)
}

func TestScheduleMealPlan_UnknownPlanRollsBack(t *testing.T) {
	env := newTestEnv(t)
	userID := env.seedUser(t, "a@example.com")
	env.expectRollback()

	_, err := env.scheduleService().ScheduleMealPlan(context.Background(), userID, uuid.NewString(), "2025-03-14")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestUnschedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "a@example.com")
	recipeID := env.seedRecipe(t, userID)
	svc := env.scheduleService()

	id, err := svc.ScheduleMeal(ctx, userID, "2025-03-14", models.SlotLunch, MealContent{RecipeID: recipeID}, models.Totals{})
	require.NoError(t, err)

	require.NoError(t, svc.Unschedule(ctx, userID, id))
	assert.ErrorIs(t, svc.Unschedule(ctx, userID, id), common.ErrorNotFound)
	_, err = svc.GetScheduledMeal(ctx, userID, id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSummarizeDay(t *testing.T) {
	meals := []*models.ScheduledMeal{
		{Target: models.Totals{Calories: 500, Protein: 30}, CaloriesConsumed: 200, ProteinConsumed: 10},
		{Target: models.Totals{Calories: 700, Protein: 45}, CaloriesConsumed: 700, ProteinConsumed: 45},
	}
	got := SummarizeDay(meals)
	assert.Equal(t, models.Totals{Calories: 1200, Protein: 75}, got.Target)
	assert.Equal(t, models.Totals{Calories: 900, Protein: 55}, got.Consumed)
	assert.Equal(t, DaySummary{}, SummarizeDay(nil))
}
