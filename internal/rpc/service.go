package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "nutriledger.v1.LedgerService"

// FullMethod returns the "/service/method" path of a LedgerService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Method names.
const (
	MethodPing                       = "Ping"
	MethodRegister                   = "Register"
	MethodLogin                      = "Login"
	MethodRefreshToken               = "RefreshToken"
	MethodGetProfile                 = "GetProfile"
	MethodUpdateProfile              = "UpdateProfile"
	MethodScheduleMeal               = "ScheduleMeal"
	MethodScheduleMealPlan           = "ScheduleMealPlan"
	MethodGetDay                     = "GetDay"
	MethodUnschedule                 = "Unschedule"
	MethodSetConsumed                = "SetConsumed"
	MethodAddWater                   = "AddWater"
	MethodGetWater                   = "GetWater"
	MethodCreateMealPlan             = "CreateMealPlan"
	MethodListMealPlans              = "ListMealPlans"
	MethodGetActiveMealPlan          = "GetActiveMealPlan"
	MethodGenerateRecipe             = "GenerateRecipe"
	MethodSaveRecipe                 = "SaveRecipe"
	MethodListRecipes                = "ListRecipes"
	MethodSetFavorite                = "SetFavorite"
	MethodCreateCustomRecipe         = "CreateCustomRecipe"
	MethodListCustomRecipes          = "ListCustomRecipes"
	MethodDeactivateCustomRecipe     = "DeactivateCustomRecipe"
	MethodCustomRecipeImageUploadURL = "CustomRecipeImageUploadURL"
	MethodCustomRecipeImageURL       = "CustomRecipeImageURL"
	MethodDailyInsight               = "DailyInsight"
)

// PublicMethods can be called without an access token.
var PublicMethods = map[string]bool{
	FullMethod(MethodPing):         true,
	FullMethod(MethodRegister):     true,
	FullMethod(MethodLogin):        true,
	FullMethod(MethodRefreshToken): true,
}

// LedgerServer is implemented by the gRPC server.
type LedgerServer interface {
	Ping(context.Context, *emptypb.Empty) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error)

	GetProfile(context.Context, *emptypb.Empty) (*Profile, error)
	UpdateProfile(context.Context, *Profile) (*Profile, error)

	ScheduleMeal(context.Context, *ScheduleMealRequest) (*IDResponse, error)
	ScheduleMealPlan(context.Context, *ScheduleMealPlanRequest) (*IDResponse, error)
	GetDay(context.Context, *DayRequest) (*DayResponse, error)
	Unschedule(context.Context, *IDRequest) (*emptypb.Empty, error)
	SetConsumed(context.Context, *SetConsumedRequest) (*ConsumptionState, error)

	AddWater(context.Context, *AddWaterRequest) (*WaterSummary, error)
	GetWater(context.Context, *DayRequest) (*WaterSummary, error)

	CreateMealPlan(context.Context, *CreateMealPlanRequest) (*IDResponse, error)
	ListMealPlans(context.Context, *emptypb.Empty) (*MealPlanList, error)
	GetActiveMealPlan(context.Context, *emptypb.Empty) (*MealPlan, error)

	GenerateRecipe(context.Context, *GenerateRecipeRequest) (*Recipe, error)
	SaveRecipe(context.Context, *RecipeContent) (*Recipe, error)
	ListRecipes(context.Context, *emptypb.Empty) (*RecipeList, error)
	SetFavorite(context.Context, *SetFavoriteRequest) (*emptypb.Empty, error)
	CreateCustomRecipe(context.Context, *RecipeContent) (*CustomRecipe, error)
	ListCustomRecipes(context.Context, *ListCustomRecipesRequest) (*CustomRecipeList, error)
	DeactivateCustomRecipe(context.Context, *IDRequest) (*emptypb.Empty, error)
	CustomRecipeImageUploadURL(context.Context, *IDRequest) (*ImageURLResponse, error)
	CustomRecipeImageURL(context.Context, *IDRequest) (*ImageURLResponse, error)

	DailyInsight(context.Context, *DayRequest) (*InsightResponse, error)
}

// unary builds a method descriptor that decodes Req, runs it through the
// server's interceptor chain and dispatches to call.
func unary[Req, Resp any](name string, call func(LedgerServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LedgerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LedgerServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes LedgerService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, LedgerServer.Ping),
		unary(MethodRegister, LedgerServer.Register),
		unary(MethodLogin, LedgerServer.Login),
		unary(MethodRefreshToken, LedgerServer.RefreshToken),
		unary(MethodGetProfile, LedgerServer.GetProfile),
		unary(MethodUpdateProfile, LedgerServer.UpdateProfile),
		unary(MethodScheduleMeal, LedgerServer.ScheduleMeal),
		unary(MethodScheduleMealPlan, LedgerServer.ScheduleMealPlan),
		unary(MethodGetDay, LedgerServer.GetDay),
		unary(MethodUnschedule, LedgerServer.Unschedule),
		unary(MethodSetConsumed, LedgerServer.SetConsumed),
		unary(MethodAddWater, LedgerServer.AddWater),
		unary(MethodGetWater, LedgerServer.GetWater),
		unary(MethodCreateMealPlan, LedgerServer.CreateMealPlan),
		unary(MethodListMealPlans, LedgerServer.ListMealPlans),
		unary(MethodGetActiveMealPlan, LedgerServer.GetActiveMealPlan),
		unary(MethodGenerateRecipe, LedgerServer.GenerateRecipe),
		unary(MethodSaveRecipe, LedgerServer.SaveRecipe),
		unary(MethodListRecipes, LedgerServer.ListRecipes),
		unary(MethodSetFavorite, LedgerServer.SetFavorite),
		unary(MethodCreateCustomRecipe, LedgerServer.CreateCustomRecipe),
		unary(MethodListCustomRecipes, LedgerServer.ListCustomRecipes),
		unary(MethodDeactivateCustomRecipe, LedgerServer.DeactivateCustomRecipe),
		unary(MethodCustomRecipeImageUploadURL, LedgerServer.CustomRecipeImageUploadURL),
		unary(MethodCustomRecipeImageURL, LedgerServer.CustomRecipeImageURL),
		unary(MethodDailyInsight, LedgerServer.DailyInsight),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nutriledger/v1/ledger.json",
}

func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&ServiceDesc, srv)
}
