package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/google/uuid"
)

type userRepo struct{ s *store }

func (r *userRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("db error: %w", common.ErrAlreadyExists)
		}
	}

	u.ID = uuid.NewString()
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	r.s.users[u.ID] = &cp
	return u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) UpdateProfile(_ context.Context, id string, p models.Profile, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Profile = p
	u.UpdatedAt = at
	return nil
}

type tokenRepo struct{ s *store }

func (r *tokenRepo) Create(_ context.Context, userID, token string, expires time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return err
	}
	if _, ok := r.s.tokens[token]; ok {
		return fmt.Errorf("db error: %w", common.ErrAlreadyExists)
	}
	r.s.tokens[token] = &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		Expires:   expires,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (r *tokenRepo) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	rt, ok := r.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rt
	return &cp, nil
}

func (r *tokenRepo) Delete(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return err
	}
	delete(r.s.tokens, token)
	return nil
}
