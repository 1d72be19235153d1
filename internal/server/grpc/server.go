// Package grpc exposes the session gate to internal callers over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/projecthub/internal/logging"
	"github.com/dmitrijs2005/projecthub/internal/server/auth"
	"google.golang.org/grpc"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

type SessionRevoker interface {
	Logout(ctx context.Context, session *auth.Session) error
}

type GRPCServer struct {
	address  string
	gate     Authenticator
	sessions SessionRevoker
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, gate Authenticator, sessions SessionRevoker) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		gate:     gate,
		sessions: sessions,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	RegisterSessionServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
