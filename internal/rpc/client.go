package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// LedgerClient is a typed stub over a client connection. Every call is sent
// with the JSON content-subtype.
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, c *LedgerClient, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

var empty = &emptypb.Empty{}

func (c *LedgerClient) Ping(ctx context.Context, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[emptypb.Empty, PingResponse](ctx, c, MethodPing, empty, opts...)
}

func (c *LedgerClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterRequest, RegisterResponse](ctx, c, MethodRegister, in, opts...)
}

func (c *LedgerClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[LoginRequest, TokenResponse](ctx, c, MethodLogin, in, opts...)
}

func (c *LedgerClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[RefreshTokenRequest, TokenResponse](ctx, c, MethodRefreshToken, in, opts...)
}

func (c *LedgerClient) GetProfile(ctx context.Context, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[emptypb.Empty, Profile](ctx, c, MethodGetProfile, empty, opts...)
}

func (c *LedgerClient) UpdateProfile(ctx context.Context, in *Profile, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile, Profile](ctx, c, MethodUpdateProfile, in, opts...)
}

func (c *LedgerClient) ScheduleMeal(ctx context.Context, in *ScheduleMealRequest, opts ...grpc.CallOption) (*IDResponse, error) {
	return invoke[ScheduleMealRequest, IDResponse](ctx, c, MethodScheduleMeal, in, opts...)
}

func (c *LedgerClient) ScheduleMealPlan(ctx context.Context, in *ScheduleMealPlanRequest, opts ...grpc.CallOption) (*IDResponse, error) {
	return invoke[ScheduleMealPlanRequest, IDResponse](ctx, c, MethodScheduleMealPlan, in, opts...)
}

func (c *LedgerClient) GetDay(ctx context.Context, in *DayRequest, opts ...grpc.CallOption) (*DayResponse, error) {
	return invoke[DayRequest, DayResponse](ctx, c, MethodGetDay, in, opts...)
}

func (c *LedgerClient) Unschedule(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) error {
	_, err := invoke[IDRequest, emptypb.Empty](ctx, c, MethodUnschedule, in, opts...)
	return err
}

func (c *LedgerClient) SetConsumed(ctx context.Context, in *SetConsumedRequest, opts ...grpc.CallOption) (*ConsumptionState, error) {
	return invoke[SetConsumedRequest, ConsumptionState](ctx, c, MethodSetConsumed, in, opts...)
}

func (c *LedgerClient) AddWater(ctx context.Context, in *AddWaterRequest, opts ...grpc.CallOption) (*WaterSummary, error) {
	return invoke[AddWaterRequest, WaterSummary](ctx, c, MethodAddWater, in, opts...)
}

func (c *LedgerClient) GetWater(ctx context.Context, in *DayRequest, opts ...grpc.CallOption) (*WaterSummary, error) {
	return invoke[DayRequest, WaterSummary](ctx, c, MethodGetWater, in, opts...)
}

func (c *LedgerClient) CreateMealPlan(ctx context.Context, in *CreateMealPlanRequest, opts ...grpc.CallOption) (*IDResponse, error) {
	return invoke[CreateMealPlanRequest, IDResponse](ctx, c, MethodCreateMealPlan, in, opts...)
}

func (c *LedgerClient) ListMealPlans(ctx context.Context, opts ...grpc.CallOption) (*MealPlanList, error) {
	return invoke[emptypb.Empty, MealPlanList](ctx, c, MethodListMealPlans, empty, opts...)
}

func (c *LedgerClient) GetActiveMealPlan(ctx context.Context, opts ...grpc.CallOption) (*MealPlan, error) {
	return invoke[emptypb.Empty, MealPlan](ctx, c, MethodGetActiveMealPlan, empty, opts...)
}

func (c *LedgerClient) GenerateRecipe(ctx context.Context, in *GenerateRecipeRequest, opts ...grpc.CallOption) (*Recipe, error) {
	return invoke[GenerateRecipeRequest, Recipe](ctx, c, MethodGenerateRecipe, in, opts...)
}

func (c *LedgerClient) SaveRecipe(ctx context.Context, in *RecipeContent, opts ...grpc.CallOption) (*Recipe, error) {
	return invoke[RecipeContent, Recipe](ctx, c, MethodSaveRecipe, in, opts...)
}

func (c *LedgerClient) ListRecipes(ctx context.Context, opts ...grpc.CallOption) (*RecipeList, error) {
	return invoke[emptypb.Empty, RecipeList](ctx, c, MethodListRecipes, empty, opts...)
}

func (c *LedgerClient) SetFavorite(ctx context.Context, in *SetFavoriteRequest, opts ...grpc.CallOption) error {
	_, err := invoke[SetFavoriteRequest, emptypb.Empty](ctx, c, MethodSetFavorite, in, opts...)
	return err
}

func (c *LedgerClient) CreateCustomRecipe(ctx context.Context, in *RecipeContent, opts ...grpc.CallOption) (*CustomRecipe, error) {
	return invoke[RecipeContent, CustomRecipe](ctx, c, MethodCreateCustomRecipe, in, opts...)
}

func (c *LedgerClient) ListCustomRecipes(ctx context.Context, in *ListCustomRecipesRequest, opts ...grpc.CallOption) (*CustomRecipeList, error) {
	return invoke[ListCustomRecipesRequest, CustomRecipeList](ctx, c, MethodListCustomRecipes, in, opts...)
}

func (c *LedgerClient) DeactivateCustomRecipe(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) error {
	_, err := invoke[IDRequest, emptypb.Empty](ctx, c, MethodDeactivateCustomRecipe, in, opts...)
	return err
}

func (c *LedgerClient) CustomRecipeImageUploadURL(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*ImageURLResponse, error) {
	return invoke[IDRequest, ImageURLResponse](ctx, c, MethodCustomRecipeImageUploadURL, in, opts...)
}

func (c *LedgerClient) CustomRecipeImageURL(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*ImageURLResponse, error) {
	return invoke[IDRequest, ImageURLResponse](ctx, c, MethodCustomRecipeImageURL, in, opts...)
}

func (c *LedgerClient) DailyInsight(ctx context.Context, in *DayRequest, opts ...grpc.CallOption) (*InsightResponse, error) {
	return invoke[DayRequest, InsightResponse](ctx, c, MethodDailyInsight, in, opts...)
}
