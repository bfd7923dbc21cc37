package grpc

import (
	"github.com/dmitrijs2005/nutriledger/internal/rpc"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/services"
)

func toTotals(t rpc.Totals) models.Totals {
	return models.Totals{Calories: t.Calories, Protein: t.Protein}
}

func fromTotals(t models.Totals) rpc.Totals {
	return rpc.Totals{Calories: t.Calories, Protein: t.Protein}
}

func fromUser(u *models.User) *rpc.Profile {
	p := u.Profile
	return &rpc.Profile{
		Email:       u.Email,
		HeightCm:    p.HeightCm,
		WeightKg:    p.WeightKg,
		Age:         p.Age,
		Gender:      p.Gender,
		Goal:        p.Goal,
		DietType:    p.DietType,
		WaterGoalMl: p.WaterGoalMl,
	}
}

func toProfile(p *rpc.Profile) models.Profile {
	return models.Profile{
		HeightCm:    p.HeightCm,
		WeightKg:    p.WeightKg,
		Age:         p.Age,
		Gender:      p.Gender,
		Goal:        p.Goal,
		DietType:    p.DietType,
		WaterGoalMl: p.WaterGoalMl,
	}
}

func fromScheduledMeal(m *models.ScheduledMeal) *rpc.ScheduledMeal {
	return &rpc.ScheduledMeal{
		ID:               m.ID,
		Date:             m.Date,
		Slot:             string(m.Slot),
		RecipeID:         m.RecipeID,
		CustomRecipeID:   m.CustomRecipeID,
		MealPlanID:       m.MealPlanID,
		PlanData:         m.MealPlanData,
		Target:           fromTotals(m.Target),
		MealsConsumed:    m.ConsumedKeys(),
		CaloriesConsumed: m.CaloriesConsumed,
		ProteinConsumed:  m.ProteinConsumed,
		IsCompleted:      m.IsCompleted,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fromConsumption(c *services.ConsumptionState) *rpc.ConsumptionState {
	keys := c.MealsConsumed
	if keys == nil {
		keys = []string{}
	}
	return &rpc.ConsumptionState{
		MealsConsumed:    keys,
		CaloriesConsumed: c.CaloriesConsumed,
		ProteinConsumed:  c.ProteinConsumed,
		IsCompleted:      c.IsCompleted,
	}
}

func fromWater(w *services.WaterSummary) *rpc.WaterSummary {
	events := make([]rpc.WaterEvent, 0, len(w.Events))
	for _, e := range w.Events {
		events = append(events, rpc.WaterEvent{Timestamp: e.Timestamp, AmountMl: e.AmountMl})
	}
	return &rpc.WaterSummary{
		Date:            w.Date,
		TotalConsumedMl: w.TotalConsumedMl,
		GoalMl:          w.GoalMl,
		PercentOfGoal:   w.PercentOfGoal,
		RemainingMl:     w.RemainingMl,
		Events:          events,
	}
}

func fromPlan(p *models.MealPlan) *rpc.MealPlan {
	return &rpc.MealPlan{
		ID:        p.ID,
		Name:      p.Name,
		Date:      p.Date,
		PlanData:  p.PlanData,
		Totals:    fromTotals(p.Totals),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}

func toContent(c *rpc.RecipeContent) models.RecipeContent {
	return models.RecipeContent{
		Name:         c.Name,
		Ingredients:  c.Ingredients,
		Instructions: c.Instructions,
		Calories:     c.Calories,
		Protein:      c.Protein,
		Carbs:        c.Carbs,
		Fat:          c.Fat,
		Tags:         c.Tags,
	}
}

func fromContent(c models.RecipeContent) rpc.RecipeContent {
	return rpc.RecipeContent{
		Name:         c.Name,
		Ingredients:  c.Ingredients,
		Instructions: c.Instructions,
		Calories:     c.Calories,
		Protein:      c.Protein,
		Carbs:        c.Carbs,
		Fat:          c.Fat,
		Tags:         c.Tags,
	}
}

func fromRecipe(r *models.Recipe) *rpc.Recipe {
	return &rpc.Recipe{
		ID:            r.ID,
		RecipeContent: fromContent(r.RecipeContent),
		FavoriteDate:  r.FavoriteDate,
		CreatedAt:     r.CreatedAt,
	}
}

func fromCustomRecipe(r *models.CustomRecipe) *rpc.CustomRecipe {
	return &rpc.CustomRecipe{
		ID:            r.ID,
		RecipeContent: fromContent(r.RecipeContent),
		HasImage:      r.ImageKey != "",
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
	}
}
