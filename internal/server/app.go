// Package server wires the gateway together: Postgres repositories,
// object storage, the descriptor cache, services and the gRPC endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophtimeline/internal/logging"
	"github.com/dmitrijs2005/gophtimeline/internal/server/cache"
	"github.com/dmitrijs2005/gophtimeline/internal/server/config"
	"github.com/dmitrijs2005/gophtimeline/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtimeline/internal/server/services"
	"github.com/dmitrijs2005/gophtimeline/internal/server/storage"

	gs "github.com/dmitrijs2005/gophtimeline/internal/server/grpc"
)

type descriptorCache interface {
	services.DescriptorCache
	Close() error
}

var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	newRepoManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}
	newObjectStore = func(ctx context.Context, c storage.S3Config) (services.ObjectStore, error) {
		return storage.NewS3Store(ctx, c)
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	cache  descriptorCache
	server *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newObjectStore(ctx, storage.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		Expiry:       c.PresignExpiry,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	var dc descriptorCache = cache.NopCache{}
	if c.RedisAddr != "" {
		rc := cache.NewRedisDescriptorCache(cache.NewRedisClient(c.RedisAddr), c.MediaCacheTTL)
		if err := rc.Connect(ctx); err != nil {
			logger.Warn(ctx, "descriptor cache disabled", "error", err)
			_ = rc.Close()
		} else {
			dc = rc
		}
	}

	svc := gs.Services{
		Users:     services.NewUserService(db, rm, c),
		Timelines: services.NewTimelineService(db, rm),
		Media:     services.NewMediaService(db, rm, store, dc, logger),
		Catalog:   services.NewCatalogService(db, rm),
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		cache:  dc,
		server: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, c.SecretKey),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the database and cache.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	runErr := app.server.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "grpc server failed", "error", runErr)
	}

	if err := app.cache.Close(); err != nil {
		app.logger.Warn(ctx, "cache close failed", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
	return runErr
}
