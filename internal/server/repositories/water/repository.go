package water

import (
	"context"

	"github.com/dmitrijs2005/nutriledger/internal/server/models"
)

type Repository interface {
	// AddIntake adds the event to the user's record for date, creating the
	// record if needed, and returns the record as stored afterwards.
	AddIntake(ctx context.Context, userID, date string, event models.WaterEvent) (*models.WaterRecord, error)
	// Get returns common.ErrorNotFound when nothing was logged for date.
	Get(ctx context.Context, userID, date string) (*models.WaterRecord, error)
}
