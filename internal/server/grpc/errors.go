package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error onto a gRPC status. Internal failures are
// logged with their cause and reported without it.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, common.ErrorValidation):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrorStoreUnavailable):
		code = codes.Unavailable
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired):
		code = codes.Unauthenticated
	case errors.Is(err, common.ErrAlreadyExists):
		code = codes.AlreadyExists
	case errors.Is(err, common.ErrVersionConflict):
		code = codes.Aborted
	case errors.Is(err, common.ErrFeatureDisabled):
		code = codes.Unimplemented
	case errors.Is(err, common.ErrGenerationFailed):
		code = codes.Unavailable
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		s.logger.Error(ctx, "internal error", "error", err)
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
	return status.Error(code, err.Error())
}
