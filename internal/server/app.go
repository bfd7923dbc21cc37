// Package server wires configuration, storage, services and the gRPC
// transport into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/nutriledger/internal/logging"
	"github.com/dmitrijs2005/nutriledger/internal/server/config"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/memory"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutriledger/internal/server/services"
	"github.com/dmitrijs2005/nutriledger/internal/textgen"

	gs "github.com/dmitrijs2005/nutriledger/internal/server/grpc"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *gs.GRPCServer
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// openStore returns the database handle and repositories selected by the
// DSN. The memory store still needs a handle for transactions, so it gets a
// private in-memory SQLite database.
func openStore(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == config.MemoryDSN {
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			return nil, nil, err
		}
		return db, memory.NewRepositoryManager(), nil
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return db, rm, nil
}

func newGenerator(c *config.Config) textgen.Generator {
	if c.TextGenURL == "" {
		return nil
	}
	return textgen.NewHTTPClient(c.TextGenURL, c.TextGenAPIKey, c.TextGenModel)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, parseLevel(c.LogLevel))

	db, rm, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	gen := newGenerator(c)
	if gen == nil {
		logger.Warn(ctx, "text generation endpoint not configured, insights and recipe generation are disabled")
	}

	water := services.NewWaterService(db, rm, c)
	svc := gs.Services{
		Users:       services.NewUserService(db, rm, c),
		Schedule:    services.NewScheduleService(db, rm),
		Consumption: services.NewConsumptionService(db, rm, c, logger),
		Water:       water,
		Plans:       services.NewMealPlanService(db, rm),
		Recipes:     services.NewRecipeService(db, rm, c, gen),
		Insights:    services.NewInsightService(db, rm, water, gen),
	}

	s := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, c.SecretKey)
	return &App{config: c, logger: logger, db: db, server: s}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or the server fails, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", storageKind(app.config.DatabaseDSN))

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing database", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}

func storageKind(dsn string) string {
	if dsn == config.MemoryDSN {
		return "memory"
	}
	return "postgres"
}
