// Package recipes stores generated recipes and user-authored custom recipes.
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

const recipeColumns = `id, user_id, ` + contentColumns + `, COALESCE(to_char(favorite_date, 'YYYY-MM-DD'), ''), created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Recipe) (*models.Recipe, error) {
	enc, err := encodeContent(rec.RecipeContent)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO recipes (user_id, ` + contentColumns + `, favorite_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err = r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.Name, enc.ingredients, enc.instructions,
		rec.Calories, rec.Protein, rec.Carbs, rec.Fat, enc.tags,
		dbx.NullString(rec.FavoriteDate), rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return rec, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1 AND user_id = $2`

	rec, err := scanRecipe(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return rec, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	var result []*models.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
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

func (r *PostgresRepository) SetFavorite(ctx context.Context, userID, id, date string) error {
	query := `UPDATE recipes SET favorite_date = $3 WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID, dbx.NullString(date))
	if err != nil {
		return fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return affectedOne(res)
}

func scanRecipe(s interface{ Scan(dest ...any) error }) (*models.Recipe, error) {
	var (
		rec models.Recipe
		raw rawContent
	)
	dest := append([]any{&rec.ID, &rec.UserID}, raw.targets(&rec.RecipeContent)...)
	dest = append(dest, &rec.FavoriteDate, &rec.CreatedAt)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if err := raw.decode(&rec.RecipeContent); err != nil {
		return nil, err
	}
	return &rec, nil
}
