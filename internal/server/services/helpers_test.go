package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/nutriledger/internal/server/config"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/memory"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
	"github.com/stretchr/testify/require"
)

// testEnv pairs the in-memory store with a sqlmock handle. Repositories
// ignore the handle, so the mock only needs Begin/Commit/Rollback
// expectations for service-level transactions.
type testEnv struct {
	db    *sql.DB
	mock  sqlmock.Sqlmock
	rm    *memory.Manager
	cfg   *config.Config
	clock *timex.FixedClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ConsumeRetries = 3

	return &testEnv{
		db:    db,
		mock:  mock,
		rm:    memory.NewRepositoryManager(),
		cfg:   cfg,
		clock: &timex.FixedClock{T: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)},
	}
}

func (e *testEnv) expectTx() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e *testEnv) expectRollback() {
	e.mock.ExpectBegin()
	e.mock.ExpectRollback()
}

func (e *testEnv) seedUser(t *testing.T, email string) string {
	t.Helper()
	u, err := e.rm.Users(nil).Create(context.Background(), &models.User{
		Email:   email,
		Profile: models.Profile{WaterGoalMl: 2000},
	})
	require.NoError(t, err)
	return u.ID
}

func (e *testEnv) seedRecipe(t *testing.T, userID string) string {
	t.Helper()
	r, err := e.rm.Recipes(nil).Create(context.Background(), &models.Recipe{
		UserID:        userID,
		RecipeContent: models.RecipeContent{Name: "Shakshuka", Calories: 450, Protein: 25},
	})
	require.NoError(t, err)
	return r.ID
}

func (e *testEnv) seedPlan(t *testing.T, userID, name string) *models.MealPlan {
	t.Helper()
	p, err := e.rm.MealPlans(nil).Create(context.Background(), &models.MealPlan{
		UserID:   userID,
		Name:     name,
		Date:     "2025-03-14",
		PlanData: []byte(`{"meals":["oats","salad"]}`),
		Totals:   models.Totals{Calories: 1800, Protein: 120},
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) scheduleService() *ScheduleService {
	s := NewScheduleService(e.db, e.rm)
	s.clock = e.clock
	return s
}

// fakeGenerator records the last prompt and replies with a canned answer.
type fakeGenerator struct {
	reply  string
	err    error
	system string
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	return f.reply, f.err
}
