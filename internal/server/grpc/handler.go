package grpc

import (
	"context"

	"github.com/dmitrijs2005/nutriledger/internal/rpc"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/services"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
	"google.golang.org/protobuf/types/known/emptypb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	u, err := s.svc.Users.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "Registered", "user_id", u.ID)
	return &rpc.RegisterResponse{UserID: u.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.TokenResponse, error) {
	tokens, err := s.svc.Users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.TokenResponse, error) {
	tokens, err := s.svc.Users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *emptypb.Empty) (*rpc.Profile, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.svc.Users.GetProfile(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return fromUser(u), nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *rpc.Profile) (*rpc.Profile, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.svc.Users.UpdateProfile(ctx, userID, toProfile(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return fromUser(u), nil
}

func (s *GRPCServer) ScheduleMeal(ctx context.Context, req *rpc.ScheduleMealRequest) (*rpc.IDResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	content := services.MealContent{
		RecipeID:       req.RecipeID,
		CustomRecipeID: req.CustomRecipeID,
		MealPlanID:     req.MealPlanID,
		PlanData:       req.PlanData,
	}
	id, err := s.svc.Schedule.ScheduleMeal(ctx, userID, req.Date, models.MealSlot(req.Slot), content, toTotals(req.Totals))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.IDResponse{ID: id}, nil
}

func (s *GRPCServer) ScheduleMealPlan(ctx context.Context, req *rpc.ScheduleMealPlanRequest) (*rpc.IDResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	id, err := s.svc.Schedule.ScheduleMealPlan(ctx, userID, req.MealPlanID, req.Date)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.IDResponse{ID: id}, nil
}

func (s *GRPCServer) GetDay(ctx context.Context, req *rpc.DayRequest) (*rpc.DayResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	date := req.Date
	if date == "" {
		date = timex.Today(timex.SystemClock{})
	}
	meals, err := s.svc.Schedule.GetDay(ctx, userID, date)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	sum := services.SummarizeDay(meals)
	resp := &rpc.DayResponse{
		Date:     date,
		Meals:    make([]*rpc.ScheduledMeal, 0, len(meals)),
		Target:   fromTotals(sum.Target),
		Consumed: fromTotals(sum.Consumed),
	}
	for _, m := range meals {
		resp.Meals = append(resp.Meals, fromScheduledMeal(m))
	}
	return resp, nil
}

func (s *GRPCServer) Unschedule(ctx context.Context, req *rpc.IDRequest) (*emptypb.Empty, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Schedule.Unschedule(ctx, userID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) SetConsumed(ctx context.Context, req *rpc.SetConsumedRequest) (*rpc.ConsumptionState, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	st, err := s.svc.Consumption.SetConsumed(ctx, userID, req.ScheduledMealID, req.SubMealKey,
		req.Calories, req.Protein, req.Consumed)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return fromConsumption(st), nil
}

func (s *GRPCServer) AddWater(ctx context.Context, req *rpc.AddWaterRequest) (*rpc.WaterSummary, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	ws, err := s.svc.Water.AddIntake(ctx, userID, req.Date, req.AmountMl)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return fromWater(ws), nil
}

func (s *GRPCServer) GetWater(ctx context.Context, req *rpc.DayRequest) (*rpc.WaterSummary, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	ws, err := s.svc.Water.GetDay(ctx, userID, req.Date)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return fromWater(ws), nil
}

func (s *GRPCServer) CreateMealPlan(ctx context.Context, req *rpc.CreateMealPlanRequest) (*rpc.IDResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	id, err := s.svc.Plans.CreateAndActivate(ctx, userID, req.Name, req.Date, req.PlanData, toTotals(req.Totals))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.IDResponse{ID: id}, nil
}

func (s *GRPCServer) ListMealPlans(ctx context.Context, _ *emptypb.Empty) (*rpc.MealPlanList, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.svc.Plans.ListPlans(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	resp := &rpc.MealPlanList{Plans: make([]*rpc.MealPlan, 0, len(plans))}
	for _, p := range plans {
		resp.Plans = append(resp.Plans, fromPlan(p))
	}
	return resp, nil
}

func (s *GRPCServer) GetActiveMealPlan(ctx context.Context, _ *emptypb.Empty) (*rpc.MealPlan, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.svc.Plans.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return fromPlan(p), nil
}

func (s *GRPCServer) GenerateRecipe(ctx context.Context, req *rpc.GenerateRecipeRequest) (*rpc.Recipe, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.svc.Recipes.GenerateRecipe(ctx, userID, req.Request)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return fromRecipe(r), nil
}

func (s *GRPCServer) SaveRecipe(ctx context.Context, req *rpc.RecipeContent) (*rpc.Recipe, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.svc.Recipes.SaveGeneratedRecipe(ctx, userID, toContent(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return fromRecipe(r), nil
}

func (s *GRPCServer) ListRecipes(ctx context.Context, _ *emptypb.Empty) (*rpc.RecipeList, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.svc.Recipes.ListGeneratedRecipes(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	resp := &rpc.RecipeList{Recipes: make([]*rpc.Recipe, 0, len(list))}
	for _, r := range list {
		resp.Recipes = append(resp.Recipes, fromRecipe(r))
	}
	return resp, nil
}

func (s *GRPCServer) SetFavorite(ctx context.Context, req *rpc.SetFavoriteRequest) (*emptypb.Empty, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Recipes.SetFavorite(ctx, userID, req.ID, req.Date); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) CreateCustomRecipe(ctx context.Context, req *rpc.RecipeContent) (*rpc.CustomRecipe, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.svc.Recipes.CreateCustomRecipe(ctx, userID, toContent(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return fromCustomRecipe(r), nil
}

func (s *GRPCServer) ListCustomRecipes(ctx context.Context, req *rpc.ListCustomRecipesRequest) (*rpc.CustomRecipeList, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.svc.Recipes.ListCustomRecipes(ctx, userID, req.ActiveOnly)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	resp := &rpc.CustomRecipeList{Recipes: make([]*rpc.CustomRecipe, 0, len(list))}
	for _, r := range list {
		resp.Recipes = append(resp.Recipes, fromCustomRecipe(r))
	}
	return resp, nil
}

func (s *GRPCServer) DeactivateCustomRecipe(ctx context.Context, req *rpc.IDRequest) (*emptypb.Empty, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Recipes.DeactivateCustomRecipe(ctx, userID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) CustomRecipeImageUploadURL(ctx context.Context, req *rpc.IDRequest) (*rpc.ImageURLResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	key, url, err := s.svc.Recipes.CustomRecipeImageUploadURL(ctx, userID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.ImageURLResponse{Key: key, URL: url}, nil
}

func (s *GRPCServer) CustomRecipeImageURL(ctx context.Context, req *rpc.IDRequest) (*rpc.ImageURLResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	url, err := s.svc.Recipes.CustomRecipeImageURL(ctx, userID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.ImageURLResponse{URL: url}, nil
}

func (s *GRPCServer) DailyInsight(ctx context.Context, req *rpc.DayRequest) (*rpc.InsightResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	text, err := s.svc.Insights.DailyInsight(ctx, userID, req.Date)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.InsightResponse{Text: text}, nil
}
