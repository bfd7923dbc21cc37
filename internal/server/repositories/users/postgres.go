// Package users provides the PostgreSQL-backed user repository.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/dbx"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
)

const userColumns = `id, email, password_hash, height_cm, weight_kg, age, gender, goal, diet_type, water_goal_ml, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the user and fills in the generated id and timestamps.
// A duplicate email surfaces as common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (email, password_hash, water_goal_ml)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash, user.Profile.WaterGoalMl).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.get(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *PostgresRepository) get(ctx context.Context, query string, arg any) (*models.User, error) {
	u := &models.User{}
	p := &u.Profile
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash,
		&p.HeightCm, &p.WeightKg, &p.Age, &p.Gender, &p.Goal, &p.DietType, &p.WaterGoalMl,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return u, nil
}

// UpdateProfile overwrites every profile attribute of the user.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, p models.Profile, at time.Time) error {
	query :=
		`UPDATE users SET height_cm = $2, weight_kg = $3, age = $4, gender = $5, goal = $6,
		 diet_type = $7, water_goal_ml = $8, updated_at = $9
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id,
		p.HeightCm, p.WeightKg, p.Age, p.Gender, p.Goal, p.DietType, p.WaterGoalMl, at)
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
