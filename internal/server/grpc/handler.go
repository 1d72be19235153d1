package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/dmitrijs2005/projecthub/internal/server/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {

	return wrapperspb.String("OK"), nil

}

func (s *GRPCServer) Whoami(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {

	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	return wrapperspb.String(session.UserID), nil

}

func (s *GRPCServer) Revoke(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {

	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	if err := s.sessions.Logout(ctx, session); err != nil {
		switch {
		case errors.Is(err, common.ErrStoreUnavailable):
			s.logger.Error(ctx, "revoke failed", "error", err)
			return nil, status.Error(codes.Unavailable, "service unavailable")
		case errors.Is(err, common.ErrUnauthenticated):
			return nil, status.Error(codes.Unauthenticated, "unauthenticated")
		default:
			s.logger.Error(ctx, "revoke failed", "error", err)
			return nil, status.Error(codes.Internal, "internal error")
		}
	}

	return &emptypb.Empty{}, nil

}
