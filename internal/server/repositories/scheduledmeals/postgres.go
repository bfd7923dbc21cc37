// Package scheduledmeals stores meal assignments per (user, date, slot) and
// their consumption state.
package scheduledmeals

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/dbx"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
)

const mealColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'), meal_slot, recipe_id, custom_recipe_id,
	meal_plan_id, meal_plan_data, target_calories, target_protein, meals_consumed,
	calories_consumed, protein_consumed, is_completed, version, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert relies on the unique (user_id, date, meal_slot) index. On conflict
// only content, targets and updated_at change; completion is re-evaluated
// against the new target.
func (r *PostgresRepository) Upsert(ctx context.Context, m *models.ScheduledMeal) (string, error) {
	query := `
		INSERT INTO scheduled_meals (user_id, date, meal_slot, recipe_id, custom_recipe_id,
			meal_plan_id, meal_plan_data, target_calories, target_protein, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (user_id, date, meal_slot) DO UPDATE SET
			recipe_id = EXCLUDED.recipe_id,
			custom_recipe_id = EXCLUDED.custom_recipe_id,
			meal_plan_id = EXCLUDED.meal_plan_id,
			meal_plan_data = EXCLUDED.meal_plan_data,
			target_calories = EXCLUDED.target_calories,
			target_protein = EXCLUDED.target_protein,
			is_completed = scheduled_meals.meals_consumed <> '{}'::jsonb
				AND EXCLUDED.target_calories > 0
				AND scheduled_meals.calories_consumed >= EXCLUDED.target_calories,
			updated_at = GREATEST(scheduled_meals.updated_at, EXCLUDED.updated_at),
			version = scheduled_meals.version + 1
		RETURNING id, version, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		m.UserID, m.Date, string(m.Slot),
		dbx.NullString(m.RecipeID), dbx.NullString(m.CustomRecipeID), dbx.NullString(m.MealPlanID),
		dbx.NullJSON(m.MealPlanData), m.Target.Calories, m.Target.Protein, m.UpdatedAt,
	).Scan(&m.ID, &m.Version, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return m.ID, nil
}

func (r *PostgresRepository) FindBySlot(ctx context.Context, userID, date string, slot models.MealSlot) (*models.ScheduledMeal, error) {
	query := `SELECT ` + mealColumns + ` FROM scheduled_meals WHERE user_id = $1 AND date = $2 AND meal_slot = $3`
	return r.get(ctx, query, userID, date, string(slot))
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.ScheduledMeal, error) {
	query := `SELECT ` + mealColumns + ` FROM scheduled_meals WHERE id = $1 AND user_id = $2`
	return r.get(ctx, query, id, userID)
}

func (r *PostgresRepository) get(ctx context.Context, query string, args ...any) (*models.ScheduledMeal, error) {
	m, err := scanMeal(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return m, nil
}

// ListByDate returns the user's meals for one day ordered by slot.
func (r *PostgresRepository) ListByDate(ctx context.Context, userID, date string) ([]*models.ScheduledMeal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM scheduled_meals
		WHERE user_id = $1 AND date = $2
		ORDER BY array_position(ARRAY['breakfast', 'lunch', 'dinner', 'snacks', 'meal_plan'], meal_slot)
	`

	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	var result []*models.ScheduledMeal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return result, nil
}

func (r *PostgresRepository) UpdateConsumption(ctx context.Context, m *models.ScheduledMeal, expectedVersion int64) error {
	consumed, err := json.Marshal(m.MealsConsumed)
	if err != nil {
		return fmt.Errorf("encode consumed set: %w", err)
	}
	if m.MealsConsumed == nil {
		consumed = []byte("{}")
	}

	query := `
		UPDATE scheduled_meals
		SET meals_consumed = $3, calories_consumed = $4, protein_consumed = $5,
			is_completed = $6, updated_at = $7, version = version + 1
		WHERE id = $1 AND version = $2
	`

	res, err := r.db.ExecContext(ctx, query, m.ID, expectedVersion,
		string(consumed), m.CaloriesConsumed, m.ProteinConsumed, m.IsCompleted, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrVersionConflict
	}
	m.Version = expectedVersion + 1
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM scheduled_meals WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeal(s scanner) (*models.ScheduledMeal, error) {
	var (
		m                                  models.ScheduledMeal
		slot                               string
		recipeID, customRecipeID, mealPlan sql.NullString
		planData, consumed                 []byte
	)

	err := s.Scan(
		&m.ID, &m.UserID, &m.Date, &slot, &recipeID, &customRecipeID,
		&mealPlan, &planData, &m.Target.Calories, &m.Target.Protein, &consumed,
		&m.CaloriesConsumed, &m.ProteinConsumed, &m.IsCompleted, &m.Version, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Slot = models.MealSlot(slot)
	m.RecipeID = dbx.StringOrEmpty(recipeID)
	m.CustomRecipeID = dbx.StringOrEmpty(customRecipeID)
	m.MealPlanID = dbx.StringOrEmpty(mealPlan)
	if len(planData) > 0 {
		m.MealPlanData = json.RawMessage(planData)
	}

	m.MealsConsumed = map[string]models.ConsumedItem{}
	if len(consumed) > 0 {
		if err := json.Unmarshal(consumed, &m.MealsConsumed); err != nil {
			return nil, fmt.Errorf("decode consumed set: %w", err)
		}
	}
	return &m, nil
}
