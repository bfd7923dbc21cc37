package client

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// fakeConn answers Invoke calls made by rpc.LedgerClient.
type fakeConn struct {
	calls  []string
	invoke func(ctx context.Context, method string, args, reply any) error
}

func (f *fakeConn) Invoke(ctx context.Context, method string, args, reply any, _ ...grpc.CallOption) error {
	f.calls = append(f.calls, method)
	if f.invoke == nil {
		return nil
	}
	return f.invoke(ctx, method, args, reply)
}

func (f *fakeConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("streams are not used")
}

func newTestClient(fc *fakeConn) *GRPCClient {
	return &GRPCClient{client: rpc.NewLedgerClient(fc)}
}

func tokenFrom(t *testing.T, ctx context.Context) []string {
	t.Helper()
	md, _ := metadata.FromOutgoingContext(ctx)
	return md.Get(common.AccessTokenHeaderName)
}

func refreshingConn(access, refresh string, err error) *fakeConn {
	return &fakeConn{invoke: func(_ context.Context, method string, args, reply any) error {
		if method != rpc.FullMethod(rpc.MethodRefreshToken) {
			return errors.New("unexpected method " + method)
		}
		if err != nil {
			return err
		}
		r := reply.(*rpc.TokenResponse)
		r.AccessToken = access
		r.RefreshToken = refresh
		return nil
	}}
}

func TestInterceptor_RefreshesTokenOnExpiredAndRetries(t *testing.T) {
	fc := refreshingConn("A2", "R2", nil)
	c := newTestClient(fc)
	c.SetTokens("A1", "R1")

	var saved []string
	c.OnTokens(func(_ context.Context, a, r string) { saved = append(saved, a, r) })

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		toks := tokenFrom(t, ctx)
		require.Len(t, toks, 1)
		if callCount == 1 {
			assert.Equal(t, "A1", toks[0])
			return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		assert.Equal(t, "A2", toks[0])
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), rpc.FullMethod(rpc.MethodGetDay), nil, nil, nil, invoker)
	require.NoError(t, err)
	assert.Equal(t, 2, callCount)
	assert.Equal(t, []string{"A2", "R2"}, saved)

	a, r := c.tokens()
	assert.Equal(t, "A2", a)
	assert.Equal(t, "R2", r)
}

func TestInterceptor_OtherErrorsAreNotRetried(t *testing.T) {
	fc := refreshingConn("A2", "R2", nil)
	c := newTestClient(fc)
	c.SetTokens("A1", "R1")

	tests := []struct {
		name string
		err  error
	}{
		{"invalid token", status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())},
		{"not found", status.Error(codes.NotFound, "not found")},
		{"plain error", errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
				calls++
				return tt.err
			}
			err := c.accessTokenInterceptor(context.Background(), "/svc/M", nil, nil, nil, invoker)
			assert.Equal(t, tt.err, err)
			assert.Equal(t, 1, calls)
		})
	}
	assert.Empty(t, fc.calls)
}

func TestInterceptor_NoRefreshTokenReturnsOriginalError(t *testing.T) {
	fc := &fakeConn{}
	c := newTestClient(fc)
	c.SetTokens("A1", "")

	expired := status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return expired
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/M", nil, nil, nil, invoker)
	assert.Equal(t, expired, err)
	assert.Empty(t, fc.calls)
}

func TestInterceptor_RefreshFailureIsReturned(t *testing.T) {
	refreshErr := status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	c := newTestClient(refreshingConn("", "", refreshErr))
	c.SetTokens("A1", "R1")

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/M", nil, nil, nil, invoker)
	assert.Equal(t, refreshErr, err)
}

func TestInterceptor_NoTokenNoHeader(t *testing.T) {
	c := newTestClient(&fakeConn{})

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		assert.Empty(t, tokenFrom(t, ctx))
		return nil
	}
	require.NoError(t, c.accessTokenInterceptor(context.Background(), rpc.FullMethod(rpc.MethodPing), nil, nil, nil, invoker))

	c.SetTokens("A1", "R1")
	require.NoError(t, c.accessTokenInterceptor(context.Background(), rpc.FullMethod(rpc.MethodRefreshToken), nil, nil, nil, invoker))
}

func TestWithAccessToken_ReplacesExisting(t *testing.T) {
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "old", "other", "x")
	ctx = withAccessToken(ctx, "new")

	md, _ := metadata.FromOutgoingContext(ctx)
	assert.Equal(t, []string{"new"}, md.Get(common.AccessTokenHeaderName))
	assert.Equal(t, []string{"x"}, md.Get("other"))
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unauthenticated", status.Error(codes.Unauthenticated, "x"), ErrUnauthorized},
		{"unavailable", status.Error(codes.Unavailable, "x"), ErrUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "x"), ErrUnavailable},
		{"invalid", status.Error(codes.InvalidArgument, "amount_ml must be positive"), common.ErrorValidation},
		{"not found", status.Error(codes.NotFound, "x"), common.ErrorNotFound},
		{"exists", status.Error(codes.AlreadyExists, "x"), common.ErrAlreadyExists},
		{"disabled", status.Error(codes.Unimplemented, "x"), common.ErrFeatureDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.mapError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	internal := status.Error(codes.Internal, "internal error")
	got := c.mapError(internal)
	assert.ErrorContains(t, got, "rpc error")
	assert.ErrorIs(t, got, internal)
}

func TestLogin_StoresAndReportsTokens(t *testing.T) {
	fc := &fakeConn{invoke: func(_ context.Context, method string, args, reply any) error {
		req := args.(*rpc.LoginRequest)
		if req.Password != "secret" {
			return status.Error(codes.Unauthenticated, "unauthorized")
		}
		r := reply.(*rpc.TokenResponse)
		r.AccessToken, r.RefreshToken = "acc", "ref"
		return nil
	}}
	c := newTestClient(fc)

	var got string
	c.OnTokens(func(_ context.Context, a, r string) { got = a + "/" + r })

	require.ErrorIs(t, c.Login(context.Background(), "a@b.c", "wrong"), ErrUnauthorized)
	assert.Empty(t, got)

	require.NoError(t, c.Login(context.Background(), "a@b.c", "secret"))
	assert.Equal(t, "acc/ref", got)
	assert.Equal(t, []string{rpc.FullMethod(rpc.MethodLogin), rpc.FullMethod(rpc.MethodLogin)}, fc.calls)
}

func TestPing(t *testing.T) {
	pingStatus := "OK"
	fc := &fakeConn{invoke: func(_ context.Context, _ string, _, reply any) error {
		reply.(*rpc.PingResponse).Status = pingStatus
		return nil
	}}
	c := newTestClient(fc)

	require.NoError(t, c.Ping(context.Background()))

	pingStatus = "DEGRADED"
	assert.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestAddWater_PassesRequestAndMapsErrors(t *testing.T) {
	fc := &fakeConn{invoke: func(_ context.Context, _ string, args, reply any) error {
		req := args.(*rpc.AddWaterRequest)
		if req.AmountMl <= 0 {
			return status.Error(codes.InvalidArgument, "amount_ml must be positive")
		}
		reply.(*rpc.WaterSummary).TotalConsumedMl = req.AmountMl
		return nil
	}}
	c := newTestClient(fc)

	ws, err := c.AddWater(context.Background(), "2025-03-14", 250)
	require.NoError(t, err)
	assert.Equal(t, int64(250), ws.TotalConsumedMl)

	_, err = c.AddWater(context.Background(), "2025-03-14", 0)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestNewGRPCClient_IsLazy(t *testing.T) {
	c, err := NewGRPCClient("127.0.0.1:1")
	require.NoError(t, err)
	require.NoError(t, c.Close())
}
