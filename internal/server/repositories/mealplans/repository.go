package mealplans

import (
	"context"

	"github.com/dmitrijs2005/nutriledger/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.MealPlan) (*models.MealPlan, error)
	// LockUser serializes plan activation for the user until the
	// surrounding transaction ends.
	LockUser(ctx context.Context, userID string) error
	// DeactivateAll clears the active flag on every plan of the user and
	// reports how many plans changed.
	DeactivateAll(ctx context.Context, userID string) (int64, error)
	Get(ctx context.Context, userID, id string) (*models.MealPlan, error)
	GetActive(ctx context.Context, userID string) (*models.MealPlan, error)
	List(ctx context.Context, userID string) ([]*models.MealPlan, error)
}
