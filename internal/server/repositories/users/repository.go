package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, profile models.Profile, at time.Time) error
}
