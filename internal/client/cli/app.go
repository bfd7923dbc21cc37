package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/nutriledger/internal/client/client"
	"github.com/dmitrijs2005/nutriledger/internal/client/config"
	"github.com/dmitrijs2005/nutriledger/internal/client/services"
	"github.com/dmitrijs2005/nutriledger/internal/filex"
	"github.com/dmitrijs2005/nutriledger/internal/logging"
	"github.com/dmitrijs2005/nutriledger/internal/rpc"

	_ "modernc.org/sqlite"
)

// ledger is the remote surface the commands use. *client.GRPCClient
// implements it.
type ledger interface {
	GetProfile(ctx context.Context) (*rpc.Profile, error)
	UpdateProfile(ctx context.Context, p *rpc.Profile) (*rpc.Profile, error)
	ScheduleMeal(ctx context.Context, req *rpc.ScheduleMealRequest) (string, error)
	ScheduleMealPlan(ctx context.Context, planID, date string) (string, error)
	GetDay(ctx context.Context, date string) (*rpc.DayResponse, error)
	Unschedule(ctx context.Context, id string) error
	SetConsumed(ctx context.Context, req *rpc.SetConsumedRequest) (*rpc.ConsumptionState, error)
	AddWater(ctx context.Context, date string, amountMl int64) (*rpc.WaterSummary, error)
	GetWater(ctx context.Context, date string) (*rpc.WaterSummary, error)
	CreateMealPlan(ctx context.Context, req *rpc.CreateMealPlanRequest) (string, error)
	ListMealPlans(ctx context.Context) ([]*rpc.MealPlan, error)
	ListCustomRecipes(ctx context.Context, activeOnly bool) ([]*rpc.CustomRecipe, error)
	CustomRecipeImageUploadURL(ctx context.Context, id string) (string, string, error)
	DailyInsight(ctx context.Context, date string) (string, error)
}

// App is the nutriledger command-line client.
type App struct {
	config     *config.Config
	auth       services.AuthService
	ledger     ledger
	logger     logging.Logger
	httpClient *http.Client
	reader     *bufio.Reader
	out        io.Writer
	email      string
}

// NewApp prepares the state directory, opens the session store and creates
// a lazily connecting gRPC client.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(c.StateDir)
	if err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, config.SessionFile))
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:     c,
		auth:       services.NewAuthService(apiClient, db, logger),
		ledger:     apiClient,
		logger:     logger,
		httpClient: &http.Client{Timeout: c.RequestTimeout},
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

// Run restores a saved session, then executes args as a single command or,
// with no args, starts the interactive shell.
func (a *App) Run(ctx context.Context, args []string) error {
	defer func() {
		if err := a.auth.Close(ctx); err != nil {
			a.logger.Warn(ctx, "close", "error", err)
		}
	}()

	email, err := a.auth.Restore(ctx)
	switch {
	case err == nil:
		a.email = email
	case services.IsAuthError(err):
	default:
		return err
	}

	if len(args) > 0 {
		return a.Exec(ctx, args)
	}

	runREPL(ctx, a, a.reader, a.out)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.email != ""
}

func (a *App) status() string {
	if a.email == "" {
		return "(anonymous)"
	}
	return "(" + a.email + ")"
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
