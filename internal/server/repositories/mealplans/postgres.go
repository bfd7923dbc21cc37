// Package mealplans stores named meal plans; at most one per user is active.
package mealplans

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

const planColumns = `id, user_id, name, to_char(date, 'YYYY-MM-DD'), plan_data, total_calories, total_protein, is_active, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the plan. A second active plan for the same user violates
// meal_plans_one_active_idx and surfaces as common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, p *models.MealPlan) (*models.MealPlan, error) {
	query := `
		INSERT INTO meal_plans (user_id, name, date, plan_data, total_calories, total_protein, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.Name, p.Date, string(p.PlanData), p.Totals.Calories, p.Totals.Protein, p.IsActive, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return p, nil
}

func (r *PostgresRepository) LockUser(ctx context.Context, userID string) error {
	query := `SELECT pg_advisory_xact_lock(hashtext($1))`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return nil
}

func (r *PostgresRepository) DeactivateAll(ctx context.Context, userID string) (int64, error) {
	query := `UPDATE meal_plans SET is_active = FALSE WHERE user_id = $1 AND is_active`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.MealPlan, error) {
	query := `SELECT ` + planColumns + ` FROM meal_plans WHERE id = $1 AND user_id = $2`
	return r.get(ctx, query, id, userID)
}

func (r *PostgresRepository) GetActive(ctx context.Context, userID string) (*models.MealPlan, error) {
	query := `SELECT ` + planColumns + ` FROM meal_plans WHERE user_id = $1 AND is_active`
	return r.get(ctx, query, userID)
}

func (r *PostgresRepository) get(ctx context.Context, query string, args ...any) (*models.MealPlan, error) {
	p, err := scanPlan(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return p, nil
}

// List returns the user's plans, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.MealPlan, error) {
	query := `SELECT ` + planColumns + ` FROM meal_plans WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	var result []*models.MealPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return result, nil
}

func scanPlan(s interface{ Scan(dest ...any) error }) (*models.MealPlan, error) {
	var (
		p    models.MealPlan
		data []byte
	)
	err := s.Scan(&p.ID, &p.UserID, &p.Name, &p.Date, &data, &p.Totals.Calories, &p.Totals.Protein, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.PlanData = json.RawMessage(data)
	return &p, nil
}
