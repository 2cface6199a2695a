// Package grpc serves the gateway API over gRPC with the JSON codec.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"
	"github.com/dmitrijs2005/gophtimeline/internal/logging"
	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
	"github.com/dmitrijs2005/gophtimeline/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, userName string) ([]byte, error)
	Login(ctx context.Context, userName string, verifierCandidate []byte) (*services.TokenPair, error)
}

type timelineSvc interface {
	Fetch(ctx context.Context, callerID, subject string) (*models.Timeline, error)
	Replace(ctx context.Context, userID string, items []models.TimelineItem, revision int64) (*models.Timeline, error)
}

type mediaSvc interface {
	Prepare(ctx context.Context, ownerID string, files []gatewayapi.UploadSpec) ([]gatewayapi.UploadTarget, error)
	Complete(ctx context.Context, ownerID string, ids []string) ([]gatewayapi.UploadResult, error)
	Get(ctx context.Context, id string) (*gatewayapi.Media, error)
}

type catalogSvc interface {
	Posts(ctx context.Context, callerID, authorID string) ([]models.Post, error)
	Competitions(ctx context.Context) ([]models.Competition, error)
	People(ctx context.Context, query string) ([]models.Person, error)
}

// Services groups the business logic the server exposes.
type Services struct {
	Users     userSvc
	Timelines timelineSvc
	Media     mediaSvc
	Catalog   catalogSvc
}

type GRPCServer struct {
	gatewayapi.UnimplementedGatewayServer
	address   string
	users     userSvc
	timelines timelineSvc
	media     mediaSvc
	catalog   catalogSvc
	logger    logging.Logger
	jwtSecret []byte
}

var _ gatewayapi.GatewayServer = (*GRPCServer)(nil)

func NewGRPCServer(address string, l logging.Logger, svc Services, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		users:     svc.Users,
		timelines: svc.Timelines,
		media:     svc.Media,
		catalog:   svc.Catalog,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis and stops gracefully once ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	gatewayapi.RegisterGatewayServer(srv, s)

	stop := context.AfterFunc(ctx, func() {
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	})
	defer stop()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
