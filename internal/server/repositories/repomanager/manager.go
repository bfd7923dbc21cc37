// Package repomanager vends repository implementations bound to a DBTX so
// services can use the same code path inside and outside transactions.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/nutriledger/internal/dbx"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/mealplans"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/scheduledmeals"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/users"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/water"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	ScheduledMeals(db dbx.DBTX) scheduledmeals.Repository
	Water(db dbx.DBTX) water.Repository
	MealPlans(db dbx.DBTX) mealplans.Repository
	Recipes(db dbx.DBTX) recipes.Repository
	CustomRecipes(db dbx.DBTX) recipes.CustomRepository
}
