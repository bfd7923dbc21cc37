package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/logging"
	"github.com/dmitrijs2005/nutriledger/internal/rpc"
	"github.com/dmitrijs2005/nutriledger/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const UserIDKey ctxKey = "userID"

// userIDFrom returns the caller set by accessTokenInterceptor.
func userIDFrom(ctx context.Context) (string, error) {
	id, ok := ctx.Value(UserIDKey).(string)
	if !ok || id == "" {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return id, nil
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if rpc.PublicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		// the client refreshes on this exact message
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return handler(context.WithValue(ctx, UserIDKey, userID), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)
	_ = grpc.SetHeader(ctx, metadata.Pairs(common.RequestIDHeaderName, requestID))

	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)

	args := []any{
		"method", info.FullMethod,
		"code", code.String(),
		"duration", time.Since(start),
	}
	switch code {
	case codes.OK:
		s.logger.Info(ctx, "rpc", args...)
	case codes.Internal, codes.Unavailable, codes.Unknown:
		s.logger.Error(ctx, "rpc", append(args, "error", status.Convert(err).Message())...)
	default:
		s.logger.Warn(ctx, "rpc", append(args, "error", status.Convert(err).Message())...)
	}
	return resp, err
}
