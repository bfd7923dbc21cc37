package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenListener is told about every token pair the client obtains, both on
// login and on transparent refresh.
type TokenListener func(ctx context.Context, accessToken, refreshToken string)

// GRPCClient talks to the ledger service. It attaches the access token to
// every call and, when the server reports an expired token, refreshes it once
// and repeats the call.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *rpc.LedgerClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	onTokens     TokenListener
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

// SetTokens replaces the current token pair without notifying the listener.
func (s *GRPCClient) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

// OnTokens registers fn as the TokenListener.
func (s *GRPCClient) OnTokens(fn TokenListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTokens = fn
}

func (s *GRPCClient) storeTokens(ctx context.Context, accessToken, refreshToken string) {
	s.mu.Lock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	fn := s.onTokens
	s.mu.Unlock()

	if fn != nil {
		fn(ctx, accessToken, refreshToken)
	}
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if method == rpc.FullMethod(rpc.MethodRefreshToken) {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := s.tokens()
	if access != "" {
		ctx = withAccessToken(ctx, access)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	s.storeTokens(ctx, resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient dials endpointURL lazily; no network I/O happens until the
// first call.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewLedgerClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.AlreadyExists:
		return common.ErrAlreadyExists
	case codes.Unimplemented:
		return common.ErrFeatureDisabled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx)
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (string, error) {
	resp, err := s.client.Register(ctx, &rpc.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.UserID, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Email: email, Password: password})
	if err != nil {
		return s.mapError(err)
	}
	s.storeTokens(ctx, resp.AccessToken, resp.RefreshToken)
	return nil
}

func (s *GRPCClient) GetProfile(ctx context.Context) (*rpc.Profile, error) {
	resp, err := s.client.GetProfile(ctx)
	return resp, s.mapError(err)
}

func (s *GRPCClient) UpdateProfile(ctx context.Context, p *rpc.Profile) (*rpc.Profile, error) {
	resp, err := s.client.UpdateProfile(ctx, p)
	return resp, s.mapError(err)
}

func (s *GRPCClient) ScheduleMeal(ctx context.Context, req *rpc.ScheduleMealRequest) (string, error) {
	resp, err := s.client.ScheduleMeal(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.ID, nil
}

func (s *GRPCClient) ScheduleMealPlan(ctx context.Context, planID, date string) (string, error) {
	resp, err := s.client.ScheduleMealPlan(ctx, &rpc.ScheduleMealPlanRequest{MealPlanID: planID, Date: date})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.ID, nil
}

func (s *GRPCClient) GetDay(ctx context.Context, date string) (*rpc.DayResponse, error) {
	resp, err := s.client.GetDay(ctx, &rpc.DayRequest{Date: date})
	return resp, s.mapError(err)
}

func (s *GRPCClient) Unschedule(ctx context.Context, id string) error {
	return s.mapError(s.client.Unschedule(ctx, &rpc.IDRequest{ID: id}))
}

func (s *GRPCClient) SetConsumed(ctx context.Context, req *rpc.SetConsumedRequest) (*rpc.ConsumptionState, error) {
	resp, err := s.client.SetConsumed(ctx, req)
	return resp, s.mapError(err)
}

func (s *GRPCClient) AddWater(ctx context.Context, date string, amountMl int64) (*rpc.WaterSummary, error) {
	resp, err := s.client.AddWater(ctx, &rpc.AddWaterRequest{Date: date, AmountMl: amountMl})
	return resp, s.mapError(err)
}

func (s *GRPCClient) GetWater(ctx context.Context, date string) (*rpc.WaterSummary, error) {
	resp, err := s.client.GetWater(ctx, &rpc.DayRequest{Date: date})
	return resp, s.mapError(err)
}

func (s *GRPCClient) CreateMealPlan(ctx context.Context, req *rpc.CreateMealPlanRequest) (string, error) {
	resp, err := s.client.CreateMealPlan(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.ID, nil
}

func (s *GRPCClient) ListMealPlans(ctx context.Context) ([]*rpc.MealPlan, error) {
	resp, err := s.client.ListMealPlans(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Plans, nil
}

func (s *GRPCClient) ListCustomRecipes(ctx context.Context, activeOnly bool) ([]*rpc.CustomRecipe, error) {
	resp, err := s.client.ListCustomRecipes(ctx, &rpc.ListCustomRecipesRequest{ActiveOnly: activeOnly})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Recipes, nil
}

func (s *GRPCClient) CustomRecipeImageUploadURL(ctx context.Context, id string) (string, string, error) {
	resp, err := s.client.CustomRecipeImageUploadURL(ctx, &rpc.IDRequest{ID: id})
	if err != nil {
		return "", "", s.mapError(err)
	}
	return resp.Key, resp.URL, nil
}

func (s *GRPCClient) DailyInsight(ctx context.Context, date string) (string, error) {
	resp, err := s.client.DailyInsight(ctx, &rpc.DayRequest{Date: date})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Text, nil
}
