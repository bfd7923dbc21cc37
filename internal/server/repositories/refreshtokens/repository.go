package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/server/models"
)

// Repository issues, looks up and revokes refresh tokens.
type Repository interface {
	Create(ctx context.Context, userID string, token string, expires time.Time) error
	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}
