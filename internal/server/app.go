// Package server wires the auth server together: storage backends, the
// session gate, the REST API, the internal gRPC service and the revocation
// janitor. It handles graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/projecthub/internal/cryptox"
	"github.com/dmitrijs2005/projecthub/internal/dbx"
	"github.com/dmitrijs2005/projecthub/internal/logging"
	"github.com/dmitrijs2005/projecthub/internal/metrics"
	"github.com/dmitrijs2005/projecthub/internal/server/auth"
	"github.com/dmitrijs2005/projecthub/internal/server/config"
	"github.com/dmitrijs2005/projecthub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/projecthub/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/projecthub/internal/server/repositories/users"
	"github.com/dmitrijs2005/projecthub/internal/server/rest"
	"github.com/dmitrijs2005/projecthub/internal/server/services"
	"github.com/dmitrijs2005/projecthub/internal/server/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/projecthub/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	registry    *prometheus.Registry
	pipeline    *validation.Pipeline
	gate        *auth.Gate
	userService *services.UserService
	janitor     *services.RevocationJanitor
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(context.Background(), c, logging.NewJSON(os.Stdout, c.LogLevel))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	app := &App{config: c, logger: logger}

	if c.DatabaseDSN != "" {
		db, err := dbx.Open(ctx, c.DatabaseDSN, c.StoreTimeout)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
	}

	userRepo, revRepo, err := app.initRepositories(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	issuer, err := auth.NewIssuer([]byte(c.SecretKey), c.TokenLifetime)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("token issuer error: %w", err)
	}

	creds, err := services.NewCredentialStore(userRepo, cryptox.NewPasswordHasher(cryptox.DefaultArgon2Params), c.StoreTimeout)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("credential store error: %w", err)
	}

	registry, m := metrics.NewRegistry()
	app.registry = registry
	app.pipeline = validation.NewPipeline(c.MinPasswordLength)

	app.gate = auth.NewGate(issuer, revRepo,
		auth.WithStoreTimeout(c.StoreTimeout),
		auth.WithGateMetrics(m),
		auth.WithGateLogger(logger),
	)
	app.userService = services.NewUserService(creds, issuer, revRepo,
		services.WithAutoLogin(c.AutoLogin),
		services.WithMetrics(m),
		services.WithLogger(logger),
		services.WithStoreTimeout(c.StoreTimeout),
	)
	app.janitor = services.NewRevocationJanitor(revRepo, c.PurgeInterval, c.StoreTimeout, m, logger)

	return app, nil
}

// initRepositories picks the user and revocation stores. Users live in
// PostgreSQL when a DSN is configured and in memory otherwise.
func (app *App) initRepositories(ctx context.Context) (users.Repository, revocations.Repository, error) {
	var (
		userRepo users.Repository = users.NewMemoryRepository()
		rm       repomanager.RepositoryManager
	)

	if app.db != nil {
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, app.db); err != nil {
			return nil, nil, fmt.Errorf("migrations error: %w", err)
		}
		userRepo = rm.Users(app.db)
	}

	switch app.config.RevocationBackend {
	case config.BackendRedis:
		client := revocations.NewRedisClient(app.config.RedisAddr, app.config.RedisPassword, app.config.RedisDB)
		app.redis = client

		pingCtx, cancel := context.WithTimeout(ctx, app.config.StoreTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis init error: %w", err)
		}
		return userRepo, revocations.NewRedisRepository(client, revocations.DefaultKeyPrefix), nil
	case config.BackendPostgres:
		if rm == nil {
			return nil, nil, errors.New("postgres revocation backend needs a database")
		}
		return userRepo, rm.Revocations(app.db), nil
	default:
		return userRepo, revocations.NewMemoryRepository(), nil
	}
}

func (app *App) close() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(context.Background(), "redis close error", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(context.Background(), "db close error", "error", err)
		}
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	var limiter *rest.RateLimiter
	if app.config.RateLimitPerMinute > 0 {
		limiter = rest.NewRateLimiter(ctx, app.config.RateLimitPerMinute, app.config.RateLimitBurst)
	}

	router := rest.NewRouter(rest.RouterConfig{
		Logger:   app.logger,
		Users:    app.userService,
		Gate:     app.gate,
		Pipeline: app.pipeline,
		Gatherer: app.registry,
		Limiter:  limiter,
	})

	s := rest.NewServer(app.config.EndpointAddrHTTP, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.gate, app.userService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is canceled, a signal arrives or one of the servers
// fails, then waits for everything to stop and releases storage handles.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"revocation_backend", app.config.RevocationBackend,
		"persistent_users", app.db != nil,
	)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.janitor.Run(ctx)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}
