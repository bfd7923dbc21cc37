package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/logging"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyInsight(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t, "a@example.com")
	recipeID := env.seedRecipe(t, userID)

	id, err := env.scheduleService().ScheduleMeal(ctx, userID, "2025-03-14", models.SlotLunch,
		MealContent{RecipeID: recipeID}, models.Totals{Calories: 600, Protein: 35})
	require.NoError(t, err)
	_, err = NewConsumptionService(env.db, env.rm, env.cfg, logging.Nop{}).
		SetConsumed(ctx, userID, id, "bowl", 450, 30, true)
	require.NoError(t, err)

	water := NewWaterService(env.db, env.rm, env.cfg)
	water.clock = env.clock
	_, err = water.AddIntake(ctx, userID, "2025-03-14", 1000)
	require.NoError(t, err)

	gen := &fakeGenerator{reply: "Nice protein at lunch. Drink a bit more water."}
	svc := NewInsightService(env.db, env.rm, water, gen)
	svc.clock = env.clock

	got, err := svc.DailyInsight(ctx, userID, "")
	require.NoError(t, err)
	assert.Equal(t, gen.reply, got)
	assert.Equal(t, insightSystemPrompt, gen.system)
	assert.Contains(t, gen.prompt, "Date: 2025-03-14")
	assert.Contains(t, gen.prompt, "- lunch: target 600 kcal / 35 g protein, eaten 450 kcal / 30 g protein (bowl)")
	assert.Contains(t, gen.prompt, "Water: 1000 of 2000 ml (50%)")
}

func TestDailyInsight_EmptyDay(t *testing.T) {
	env := newTestEnv(t)
	userID := env.seedUser(t, "a@example.com")
	gen := &fakeGenerator{reply: "ok"}
	svc := NewInsightService(env.db, env.rm, NewWaterService(env.db, env.rm, env.cfg), gen)

	_, err := svc.DailyInsight(context.Background(), userID, "2025-03-14")
	require.NoError(t, err)
	assert.Contains(t, gen.prompt, "No meals were scheduled.")
}

func TestDailyInsight_Errors(t *testing.T) {
	env := newTestEnv(t)
	userID := env.seedUser(t, "a@example.com")
	water := NewWaterService(env.db, env.rm, env.cfg)

	_, err := NewInsightService(env.db, env.rm, water, nil).DailyInsight(context.Background(), userID, "")
	assert.ErrorIs(t, err, common.ErrFeatureDisabled)

	svc := NewInsightService(env.db, env.rm, water, &fakeGenerator{})
	_, err = svc.DailyInsight(context.Background(), userID, "03/14")
	assert.ErrorIs(t, err, common.ErrorValidation)

	env.rm.SetUnavailable(true)
	_, err = svc.DailyInsight(context.Background(), userID, "2025-03-14")
	assert.ErrorIs(t, err, common.ErrorStoreUnavailable)
}
