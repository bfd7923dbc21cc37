// Package grpc exposes the nutriledger services over gRPC. It authenticates
// callers from the access_token metadata key, logs every call and maps
// service errors onto gRPC status codes.
package grpc

import (
	"context"
	"encoding/json"
	"net"

	"github.com/dmitrijs2005/nutriledger/internal/logging"
	"github.com/dmitrijs2005/nutriledger/internal/rpc"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, p models.Profile) (*models.User, error)
}

type scheduleSvc interface {
	ScheduleMeal(ctx context.Context, userID, date string, slot models.MealSlot, content services.MealContent, totals models.Totals) (string, error)
	ScheduleMealPlan(ctx context.Context, userID, mealPlanID, date string) (string, error)
	GetDay(ctx context.Context, userID, date string) ([]*models.ScheduledMeal, error)
	Unschedule(ctx context.Context, userID, id string) error
}

type consumptionSvc interface {
	SetConsumed(ctx context.Context, userID, scheduledMealID, subMealKey string, calories, protein float64, consumed bool) (*services.ConsumptionState, error)
}

type waterSvc interface {
	AddIntake(ctx context.Context, userID, date string, amountMl int64) (*services.WaterSummary, error)
	GetDay(ctx context.Context, userID, date string) (*services.WaterSummary, error)
}

type planSvc interface {
	CreateAndActivate(ctx context.Context, userID, name, date string, planData json.RawMessage, totals models.Totals) (string, error)
	ListPlans(ctx context.Context, userID string) ([]*models.MealPlan, error)
	GetActivePlan(ctx context.Context, userID string) (*models.MealPlan, error)
}

type recipeSvc interface {
	GenerateRecipe(ctx context.Context, userID, request string) (*models.Recipe, error)
	SaveGeneratedRecipe(ctx context.Context, userID string, content models.RecipeContent) (*models.Recipe, error)
	ListGeneratedRecipes(ctx context.Context, userID string) ([]*models.Recipe, error)
	SetFavorite(ctx context.Context, userID, id, date string) error
	CreateCustomRecipe(ctx context.Context, userID string, content models.RecipeContent) (*models.CustomRecipe, error)
	ListCustomRecipes(ctx context.Context, userID string, activeOnly bool) ([]*models.CustomRecipe, error)
	DeactivateCustomRecipe(ctx context.Context, userID, id string) error
	CustomRecipeImageUploadURL(ctx context.Context, userID, id string) (string, string, error)
	CustomRecipeImageURL(ctx context.Context, userID, id string) (string, error)
}

type insightSvc interface {
	DailyInsight(ctx context.Context, userID, date string) (string, error)
}

// Services bundles the business services the server dispatches to.
type Services struct {
	Users       userSvc
	Schedule    scheduleSvc
	Consumption consumptionSvc
	Water       waterSvc
	Plans       planSvc
	Recipes     recipeSvc
	Insights    insightSvc
}

type GRPCServer struct {
	address   string
	svc       Services
	logger    logging.Logger
	jwtSecret []byte
}

var _ rpc.LedgerServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		svc:       svc,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterLedgerServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
