package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/google/uuid"
)

func cloneContent(c models.RecipeContent) models.RecipeContent {
	c.Ingredients = slices.Clone(c.Ingredients)
	c.Instructions = slices.Clone(c.Instructions)
	c.Tags = slices.Clone(c.Tags)
	return c
}

type recipeRepo struct{ s *store }

func (r *recipeRepo) Create(_ context.Context, rec *models.Recipe) (*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	rec.ID = uuid.NewString()
	cp := *rec
	cp.RecipeContent = cloneContent(rec.RecipeContent)
	r.s.recipes[rec.ID] = &cp
	return rec, nil
}

func (r *recipeRepo) Get(_ context.Context, userID, id string) (*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	rec, ok := r.s.recipes[id]
	if !ok || rec.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *rec
	cp.RecipeContent = cloneContent(rec.RecipeContent)
	return &cp, nil
}

func (r *recipeRepo) List(_ context.Context, userID string) ([]*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	var result []*models.Recipe
	for _, rec := range r.s.recipes {
		if rec.UserID == userID {
			cp := *rec
			cp.RecipeContent = cloneContent(rec.RecipeContent)
			result = append(result, &cp)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *recipeRepo) SetFavorite(_ context.Context, userID, id, date string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return err
	}
	rec, ok := r.s.recipes[id]
	if !ok || rec.UserID != userID {
		return common.ErrorNotFound
	}
	rec.FavoriteDate = date
	return nil
}

type customRepo struct{ s *store }

func (r *customRepo) Create(_ context.Context, rec *models.CustomRecipe) (*models.CustomRecipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	rec.ID = uuid.NewString()
	rec.IsActive = true
	cp := *rec
	cp.RecipeContent = cloneContent(rec.RecipeContent)
	r.s.custom[rec.ID] = &cp
	return rec, nil
}

// lookup must be called with mu held.
func (r *customRepo) lookup(userID, id string) (*models.CustomRecipe, error) {
	if err := r.s.check(); err != nil {
		return nil, err
	}
	rec, ok := r.s.custom[id]
	if !ok || rec.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return rec, nil
}

func (r *customRepo) Get(_ context.Context, userID, id string) (*models.CustomRecipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	cp := *rec
	cp.RecipeContent = cloneContent(rec.RecipeContent)
	return &cp, nil
}

func (r *customRepo) List(_ context.Context, userID string, activeOnly bool) ([]*models.CustomRecipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(); err != nil {
		return nil, err
	}
	var result []*models.CustomRecipe
	for _, rec := range r.s.custom {
		if rec.UserID != userID || (activeOnly && !rec.IsActive) {
			continue
		}
		cp := *rec
		cp.RecipeContent = cloneContent(rec.RecipeContent)
		result = append(result, &cp)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *customRepo) Deactivate(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.lookup(userID, id)
	if err != nil {
		return err
	}
	rec.IsActive = false
	return nil
}

func (r *customRepo) SetImageKey(_ context.Context, userID, id, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.lookup(userID, id)
	if err != nil {
		return err
	}
	rec.ImageKey = key
	return nil
}
