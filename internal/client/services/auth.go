// Package services holds the CLI-side application services. AuthService keeps
// the session (email and token pair) in the local metadata store so a later
// invocation of the CLI can continue without logging in again.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nutriledger/internal/client/client"
	"github.com/dmitrijs2005/nutriledger/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/dbx"
	"github.com/dmitrijs2005/nutriledger/internal/logging"
)

// AuthClient is the part of the remote client the session logic needs.
type AuthClient interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) error
	Ping(ctx context.Context) error
	SetTokens(accessToken, refreshToken string)
	OnTokens(fn client.TokenListener)
	Close() error
}

// AuthService manages the local session.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	// Restore loads a saved session into the client and returns its email.
	// client.ErrNotLoggedIn means there is nothing to restore.
	Restore(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client AuthClient
	db     *sql.DB
	logger logging.Logger
}

// NewAuthService wires c to the metadata store in db: every token pair the
// client receives is persisted.
func NewAuthService(c AuthClient, db *sql.DB, logger logging.Logger) AuthService {
	a := &authService{client: c, db: db, logger: logger}
	c.OnTokens(a.persistTokens)
	return a
}

func (a *authService) persistTokens(ctx context.Context, accessToken, refreshToken string) {
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metadata.KeyAccessToken, []byte(accessToken)); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyRefreshToken, []byte(refreshToken))
	})
	if err != nil {
		a.logger.Warn(ctx, "session tokens not saved", "error", err)
	}
}

func (a *authService) Register(ctx context.Context, email string, password []byte) error {
	if _, err := a.client.Register(ctx, email, string(password)); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	if err := a.client.Login(ctx, email, string(password)); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := metadata.NewSQLiteRepository(a.db).Set(ctx, metadata.KeyEmail, []byte(email)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (a *authService) Restore(ctx context.Context) (string, error) {
	values, err := metadata.NewSQLiteRepository(a.db).List(ctx)
	if err != nil {
		return "", err
	}

	access, refresh := values[metadata.KeyAccessToken], values[metadata.KeyRefreshToken]
	if len(access) == 0 && len(refresh) == 0 {
		return "", client.ErrNotLoggedIn
	}

	a.client.SetTokens(string(access), string(refresh))
	return string(values[metadata.KeyEmail]), nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetTokens("", "")
	if err := metadata.NewSQLiteRepository(a.db).Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	var errs []error
	if err := a.client.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// IsAuthError reports whether err means the saved session is no longer usable.
func IsAuthError(err error) bool {
	return errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrNotLoggedIn) || errors.Is(err, common.ErrorUnauthorized)
}
