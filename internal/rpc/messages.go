package rpc

import (
	"encoding/json"
	"time"
)

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Profile struct {
	Email       string  `json:"email,omitempty"`
	HeightCm    float64 `json:"height_cm"`
	WeightKg    float64 `json:"weight_kg"`
	Age         int     `json:"age"`
	Gender      string  `json:"gender,omitempty"`
	Goal        string  `json:"goal,omitempty"`
	DietType    string  `json:"diet_type,omitempty"`
	WaterGoalMl int64   `json:"water_goal_ml"`
}

type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type IDResponse struct {
	ID string `json:"id"`
}

// DayRequest selects a calendar day; an empty Date means today on the server.
type DayRequest struct {
	Date string `json:"date,omitempty"`
}

type ScheduleMealRequest struct {
	Date           string          `json:"date"`
	Slot           string          `json:"slot"`
	RecipeID       string          `json:"recipe_id,omitempty"`
	CustomRecipeID string          `json:"custom_recipe_id,omitempty"`
	MealPlanID     string          `json:"meal_plan_id,omitempty"`
	PlanData       json.RawMessage `json:"plan_data,omitempty"`
	Totals         Totals          `json:"totals"`
}

type ScheduleMealPlanRequest struct {
	MealPlanID string `json:"meal_plan_id"`
	Date       string `json:"date"`
}

type ScheduledMeal struct {
	ID               string          `json:"id"`
	Date             string          `json:"date"`
	Slot             string          `json:"slot"`
	RecipeID         string          `json:"recipe_id,omitempty"`
	CustomRecipeID   string          `json:"custom_recipe_id,omitempty"`
	MealPlanID       string          `json:"meal_plan_id,omitempty"`
	PlanData         json.RawMessage `json:"plan_data,omitempty"`
	Target           Totals          `json:"target"`
	MealsConsumed    []string        `json:"meals_consumed"`
	CaloriesConsumed float64         `json:"calories_consumed"`
	ProteinConsumed  float64         `json:"protein_consumed"`
	IsCompleted      bool            `json:"is_completed"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type DayResponse struct {
	Date     string           `json:"date"`
	Meals    []*ScheduledMeal `json:"meals"`
	Target   Totals           `json:"target"`
	Consumed Totals           `json:"consumed"`
}

type SetConsumedRequest struct {
	ScheduledMealID string  `json:"scheduled_meal_id"`
	SubMealKey      string  `json:"sub_meal_key"`
	Calories        float64 `json:"calories"`
	Protein         float64 `json:"protein"`
	Consumed        bool    `json:"consumed"`
}

type ConsumptionState struct {
	MealsConsumed    []string `json:"meals_consumed"`
	CaloriesConsumed float64  `json:"calories_consumed"`
	ProteinConsumed  float64  `json:"protein_consumed"`
	IsCompleted      bool     `json:"is_completed"`
}

type AddWaterRequest struct {
	Date     string `json:"date,omitempty"`
	AmountMl int64  `json:"amount_ml"`
}

type WaterEvent struct {
	Timestamp time.Time `json:"timestamp"`
	AmountMl  int64     `json:"amount_ml"`
}

type WaterSummary struct {
	Date            string       `json:"date"`
	TotalConsumedMl int64        `json:"total_consumed_ml"`
	GoalMl          int64        `json:"goal_ml"`
	PercentOfGoal   int          `json:"percent_of_goal"`
	RemainingMl     int64        `json:"remaining_ml"`
	Events          []WaterEvent `json:"events"`
}

type CreateMealPlanRequest struct {
	Name     string          `json:"name"`
	Date     string          `json:"date"`
	PlanData json.RawMessage `json:"plan_data"`
	Totals   Totals          `json:"totals"`
}

type MealPlan struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Date      string          `json:"date"`
	PlanData  json.RawMessage `json:"plan_data"`
	Totals    Totals          `json:"totals"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

type MealPlanList struct {
	Plans []*MealPlan `json:"plans"`
}

type RecipeContent struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	Tags         []string `json:"tags,omitempty"`
}

type Recipe struct {
	ID string `json:"id"`
	RecipeContent
	FavoriteDate string    `json:"favorite_date,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type RecipeList struct {
	Recipes []*Recipe `json:"recipes"`
}

type GenerateRecipeRequest struct {
	Request string `json:"request"`
}

type SetFavoriteRequest struct {
	ID   string `json:"id"`
	Date string `json:"date,omitempty"`
}

type CustomRecipe struct {
	ID string `json:"id"`
	RecipeContent
	HasImage  bool      `json:"has_image"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type CustomRecipeList struct {
	Recipes []*CustomRecipe `json:"recipes"`
}

type ListCustomRecipesRequest struct {
	ActiveOnly bool `json:"active_only"`
}

type ImageURLResponse struct {
	Key string `json:"key,omitempty"`
	URL string `json:"url"`
}

type InsightResponse struct {
	Text string `json:"text"`
}
