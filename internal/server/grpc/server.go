// Package grpc exposes the relay services over gRPC using the JSON codec
// from package relay.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/logging"
	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/dmitrijs2005/clipshare/internal/relay"
	"github.com/dmitrijs2005/clipshare/internal/server/services"
	"google.golang.org/grpc"
)

type SessionService interface {
	Join(ctx context.Context, code, deviceID string, nameEncrypted *string, create bool) (*services.JoinResult, error)
	Touch(ctx context.Context, code, deviceID string) (time.Time, error)
}

type ItemService interface {
	Put(ctx context.Context, code, deviceID string, row models.ItemRow) (*models.ItemRow, error)
	List(ctx context.Context, code string, after models.ItemCursor, limit int) ([]models.ItemRow, error)
	Delete(ctx context.Context, code, deviceID, id string) error
}

type DeviceService interface {
	List(ctx context.Context, code string) ([]models.DeviceRow, error)
	Rename(ctx context.Context, code, deviceID string, nameEncrypted *string) error
}

type GRPCServer struct {
	address   string
	sessions  SessionService
	items     ItemService
	devices   DeviceService
	logger    logging.Logger
	jwtSecret []byte
}

var _ relay.RelayServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, ss SessionService, is ItemService, ds DeviceService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		sessions:  ss,
		items:     is,
		devices:   ds,
		jwtSecret: []byte(secretKey),
	}
}

// newServer builds the grpc.Server with the relay registered on it.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ForceServerCodec(relay.Codec{}),
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
	)
	relay.RegisterRelayServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
