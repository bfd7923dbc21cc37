package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/google/uuid"
)

type planRepo struct{ s *store }

func clonePlan(p *models.MealPlan) *models.MealPlan {
	cp := *p
	cp.PlanData = slices.Clone(p.PlanData)
	return &cp
}

func (r *planRepo) Create(_ context.Context, p *models.MealPlan) (*models.MealPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	if p.IsActive {
		for _, other := range r.s.plans {
			if other.UserID == p.UserID && other.IsActive {
				return nil, fmt.Errorf("db error: %w", common.ErrAlreadyExists)
			}
		}
	}
	p.ID = uuid.NewString()
	r.s.plans[p.ID] = clonePlan(p)
	return p, nil
}

// LockUser only reports availability: the store has no transactions to
// hold a lock across, so activation races surface from Create.
func (r *planRepo) LockUser(context.Context, string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.check()
}

func (r *planRepo) DeactivateAll(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return 0, err
	}
	var n int64
	for _, p := range r.s.plans {
		if p.UserID == userID && p.IsActive {
			p.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *planRepo) Get(_ context.Context, userID, id string) (*models.MealPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	p, ok := r.s.plans[id]
	if !ok || p.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return clonePlan(p), nil
}

func (r *planRepo) GetActive(_ context.Context, userID string) (*models.MealPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	for _, p := range r.s.plans {
		if p.UserID == userID && p.IsActive {
			return clonePlan(p), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *planRepo) List(_ context.Context, userID string) ([]*models.MealPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	var result []*models.MealPlan
	for _, p := range r.s.plans {
		if p.UserID == userID {
			result = append(result, clonePlan(p))
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}
