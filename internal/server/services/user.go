// Package services contains server-side business logic: accounts and
// tokens, meal scheduling, consumption toggling, water intake, meal plans,
// recipes and insights.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/dbx"
	"github.com/dmitrijs2005/nutriledger/internal/server/auth"
	"github.com/dmitrijs2005/nutriledger/internal/server/config"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides account operations:
//   - Register: create users
//   - Login: verify credentials and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - GetProfile / UpdateProfile
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	clock                        timex.Clock
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	defaultWaterGoalMl           int64
	bcryptCost                   int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		clock:                        timex.SystemClock{},
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		defaultWaterGoalMl:           cfg.DefaultWaterGoalMl,
		bcryptCost:                   bcrypt.DefaultCost,
	}
}

// Register creates a user with a bcrypt hash of password. A taken email
// yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, common.Validationf("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, common.Validationf("%v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Profile:      models.Profile{WaterGoalMl: s.defaultWaterGoalMl},
	}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the password and, on success, returns a new TokenPair.
// Unknown emails and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn comparable time for unknown accounts
			_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(s.clock.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}

// UpdateProfile replaces the user's profile after range checks.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, p models.Profile) (*models.User, error) {
	p.Gender = strings.TrimSpace(p.Gender)
	p.Goal = strings.TrimSpace(p.Goal)
	p.DietType = strings.TrimSpace(p.DietType)

	switch {
	case p.HeightCm < 0 || p.HeightCm > 300:
		return nil, common.Validationf("height_cm out of range: %v", p.HeightCm)
	case p.WeightKg < 0 || p.WeightKg > 700:
		return nil, common.Validationf("weight_kg out of range: %v", p.WeightKg)
	case p.Age < 0 || p.Age > 150:
		return nil, common.Validationf("age out of range: %d", p.Age)
	case p.WaterGoalMl <= 0 || p.WaterGoalMl > 20000:
		return nil, common.Validationf("water_goal_ml must be in (0, 20000], got %d", p.WaterGoalMl)
	}

	if err := s.repomanager.Users(s.db).UpdateProfile(ctx, userID, p, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

// --- helpers below ---

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", common.Validationf("invalid email %q", email)
	}
	return email, nil
}

func (s *UserService) dummyHash() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.bcryptCost)
	return h
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	expires := s.clock.Now().Add(s.refreshTokenValidityDuration)
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, expires); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
