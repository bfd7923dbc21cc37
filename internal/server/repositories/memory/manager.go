// Package memory is a process-local RepositoryManager. It keeps the same
// contracts as the PostgreSQL repositories (unique keys, version checks,
// per-user scoping) and backs the server's "memory" storage mode and tests.
//
// Handles passed to the factories are ignored: all repositories share one
// store, and writes made inside a transaction are not rolled back.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/dbx"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/mealplans"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/scheduledmeals"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/users"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/water"
)

type store struct {
	mu          sync.Mutex
	unavailable bool

	users   map[string]*models.User
	tokens  map[string]*models.RefreshToken
	meals   map[string]*models.ScheduledMeal
	water   map[string]*models.WaterRecord
	plans   map[string]*models.MealPlan
	recipes map[string]*models.Recipe
	custom  map[string]*models.CustomRecipe
}

// check must be called with mu held.
func (s *store) check() error {
	if s.unavailable {
		return fmt.Errorf("db error: %w", common.ErrorStoreUnavailable)
	}
	return nil
}

type Manager struct {
	s *store
}

func NewRepositoryManager() *Manager {
	return &Manager{s: &store{
		users:   map[string]*models.User{},
		tokens:  map[string]*models.RefreshToken{},
		meals:   map[string]*models.ScheduledMeal{},
		water:   map[string]*models.WaterRecord{},
		plans:   map[string]*models.MealPlan{},
		recipes: map[string]*models.Recipe{},
		custom:  map[string]*models.CustomRecipe{},
	}}
}

// SetUnavailable makes every subsequent repository call fail with
// common.ErrorStoreUnavailable until it is switched back.
func (m *Manager) SetUnavailable(v bool) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.unavailable = v
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *Manager) Users(dbx.DBTX) users.Repository { return &userRepo{m.s} }

func (m *Manager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return &tokenRepo{m.s} }

func (m *Manager) ScheduledMeals(dbx.DBTX) scheduledmeals.Repository { return &mealRepo{m.s} }

func (m *Manager) Water(dbx.DBTX) water.Repository { return &waterRepo{m.s} }

func (m *Manager) MealPlans(dbx.DBTX) mealplans.Repository { return &planRepo{m.s} }

func (m *Manager) Recipes(dbx.DBTX) recipes.Repository { return &recipeRepo{m.s} }

func (m *Manager) CustomRecipes(dbx.DBTX) recipes.CustomRepository { return &customRepo{m.s} }
