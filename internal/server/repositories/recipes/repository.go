package recipes

import (
	"context"

	"github.com/dmitrijs2005/nutriledger/internal/server/models"
)

// Repository stores recipes saved from text generation.
type Repository interface {
	Create(ctx context.Context, r *models.Recipe) (*models.Recipe, error)
	Get(ctx context.Context, userID, id string) (*models.Recipe, error)
	List(ctx context.Context, userID string) ([]*models.Recipe, error)
	// SetFavorite sets the favourite date, or clears it when date is empty.
	SetFavorite(ctx context.Context, userID, id, date string) error
}

// CustomRepository stores user-authored recipes.
type CustomRepository interface {
	Create(ctx context.Context, r *models.CustomRecipe) (*models.CustomRecipe, error)
	Get(ctx context.Context, userID, id string) (*models.CustomRecipe, error)
	List(ctx context.Context, userID string, activeOnly bool) ([]*models.CustomRecipe, error)
	Deactivate(ctx context.Context, userID, id string) error
	SetImageKey(ctx context.Context, userID, id, key string) error
}
