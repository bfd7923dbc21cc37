package scheduledmeals

import (
	"context"

	"github.com/dmitrijs2005/nutriledger/internal/server/models"
)

type Repository interface {
	// Upsert writes content and targets for the (user, date, slot) triple,
	// leaving any existing consumption state as it is. It returns the row id.
	Upsert(ctx context.Context, m *models.ScheduledMeal) (string, error)
	FindBySlot(ctx context.Context, userID, date string, slot models.MealSlot) (*models.ScheduledMeal, error)
	Get(ctx context.Context, userID, id string) (*models.ScheduledMeal, error)
	ListByDate(ctx context.Context, userID, date string) ([]*models.ScheduledMeal, error)
	// UpdateConsumption persists the consumed set and counters of m if the
	// stored version still equals expectedVersion, otherwise it returns
	// common.ErrVersionConflict.
	UpdateConsumption(ctx context.Context, m *models.ScheduledMeal, expectedVersion int64) error
	Delete(ctx context.Context, userID, id string) error
}
