// Package server initializes and runs the users service: it opens the
// account store, applies migrations, and runs the HTTP API next to the gRPC
// health endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/localmart-users/internal/logging"
	"github.com/dmitrijs2005/localmart-users/internal/server/auth"
	"github.com/dmitrijs2005/localmart-users/internal/server/config"
	"github.com/dmitrijs2005/localmart-users/internal/server/httpapi"
	"github.com/dmitrijs2005/localmart-users/internal/server/observability"
	"github.com/dmitrijs2005/localmart-users/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/localmart-users/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"

	gs "github.com/dmitrijs2005/localmart-users/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
	metrics  *observability.Metrics
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel).With("service", c.ServiceName)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	logger.Info(ctx, "Initializing database...")
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	logger.Info(ctx, "Database initialization completed")

	tokens := auth.NewTokenService(c.SecretKey, c.AccessTokenValidityDuration)
	accounts := services.NewAccountService(db, rm, auth.NewBcryptHasher(c.BcryptCost), tokens)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		accounts: accounts,
		metrics:  observability.NewMetrics(prometheus.NewRegistry()),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) httpServer() *httpapi.Server {
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Accounts:       app.accounts,
		Authenticator:  app.accounts.Guard(),
		DB:             app.db,
		Logger:         app.logger,
		Metrics:        app.metrics,
		ServiceName:    app.config.ServiceName,
		Version:        app.config.Version,
		AllowedOrigins: app.config.CORSAllowedOrigins,
	})
	return httpapi.NewServer(app.config.EndpointAddrHTTP, router, app.logger, app.config.ShutdownTimeout)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer().Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.config.ServiceName, app.db, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting Users Service",
		"version", app.config.Version,
		"http_address", app.config.EndpointAddrHTTP,
		"grpc_address", app.config.EndpointAddrGRPC,
	)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "Users Service stopped")
}
