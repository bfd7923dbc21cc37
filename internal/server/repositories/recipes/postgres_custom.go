package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/dbx"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
)

const customColumns = `id, user_id, ` + contentColumns + `, image_key, is_active, created_at`

type PostgresCustomRepository struct {
	db dbx.DBTX
}

func NewPostgresCustomRepository(db dbx.DBTX) *PostgresCustomRepository {
	return &PostgresCustomRepository{db: db}
}

func (r *PostgresCustomRepository) Create(ctx context.Context, rec *models.CustomRecipe) (*models.CustomRecipe, error) {
	enc, err := encodeContent(rec.RecipeContent)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO custom_recipes (user_id, ` + contentColumns + `, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10)
		RETURNING id
	`

	err = r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.Name, enc.ingredients, enc.instructions,
		rec.Calories, rec.Protein, rec.Carbs, rec.Fat, enc.tags, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	rec.IsActive = true
	return rec, nil
}

// Get returns the recipe whether or not it is still active.
func (r *PostgresCustomRepository) Get(ctx context.Context, userID, id string) (*models.CustomRecipe, error) {
	query := `SELECT ` + customColumns + ` FROM custom_recipes WHERE id = $1 AND user_id = $2`

	rec, err := scanCustom(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return rec, nil
}

func (r *PostgresCustomRepository) List(ctx context.Context, userID string, activeOnly bool) ([]*models.CustomRecipe, error) {
	query := `SELECT ` + customColumns + ` FROM custom_recipes WHERE user_id = $1 AND (is_active OR NOT $2) ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	var result []*models.CustomRecipe
	for rows.Next() {
		rec, err := scanCustom(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return result, nil
}

func (r *PostgresCustomRepository) Deactivate(ctx context.Context, userID, id string) error {
	query := `UPDATE custom_recipes SET is_active = FALSE WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return affectedOne(res)
}

func (r *PostgresCustomRepository) SetImageKey(ctx context.Context, userID, id, key string) error {
	query := `UPDATE custom_recipes SET image_key = $3 WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID, key)
	if err != nil {
		return fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return affectedOne(res)
}

func scanCustom(s interface{ Scan(dest ...any) error }) (*models.CustomRecipe, error) {
	var (
		rec models.CustomRecipe
		raw rawContent
	)
	dest := append([]any{&rec.ID, &rec.UserID}, raw.targets(&rec.RecipeContent)...)
	dest = append(dest, &rec.ImageKey, &rec.IsActive, &rec.CreatedAt)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if err := raw.decode(&rec.RecipeContent); err != nil {
		return nil, err
	}
	return &rec, nil
}
