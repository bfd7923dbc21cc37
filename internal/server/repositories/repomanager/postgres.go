package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/nutriledger/internal/dbx"
	"github.com/dmitrijs2005/nutriledger/internal/server/migrations"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/mealplans"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/scheduledmeals"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/users"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/water"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories and applies
// the embedded goose migrations.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ScheduledMeals(db dbx.DBTX) scheduledmeals.Repository {
	return scheduledmeals.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Water(db dbx.DBTX) water.Repository {
	return water.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) MealPlans(db dbx.DBTX) mealplans.Repository {
	return mealplans.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Recipes(db dbx.DBTX) recipes.Repository {
	return recipes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) CustomRecipes(db dbx.DBTX) recipes.CustomRepository {
	return recipes.NewPostgresCustomRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
