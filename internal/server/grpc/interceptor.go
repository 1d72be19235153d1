package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/dmitrijs2005/projecthub/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicMethods skip the session gate.
var publicMethods = map[string]bool{
	MethodPing: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}

	session, err := s.gate.Authenticate(ctx, accessToken)
	if err != nil {
		if errors.Is(err, common.ErrStoreUnavailable) {
			s.logger.Error(ctx, "session check failed", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Unavailable, "service unavailable")
		}
		s.logger.Info(ctx, "rejected", "method", info.FullMethod, "reason", auth.Reason(err))
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	return handler(auth.WithSession(ctx, session), req)
}
