// Package server wires the journal server together: storage, services, the
// HTTP API and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/logging"
	"github.com/dmitrijs2005/dailyjournal/internal/server/archive"
	"github.com/dmitrijs2005/dailyjournal/internal/server/auth"
	"github.com/dmitrijs2005/dailyjournal/internal/server/config"
	"github.com/dmitrijs2005/dailyjournal/internal/server/httpapi"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyjournal/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 10 * time.Second
)

var (
	openDB = func(dsn string) (*sql.DB, error) { return sql.Open("pgx", dsn) }

	newRepositoryManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}

	newArchive = func(ctx context.Context, c *config.Config) (services.Archiver, error) {
		return archive.NewStore(ctx, c)
	}
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

// NewApp connects to the database, applies migrations and builds the
// services and HTTP handler described by c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB) (*App, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	hasher, err := auth.NewHasher(nil, auth.DefaultArgon2Params)
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}
	tokens := auth.NewTokenManager([]byte(c.SecretKey), c.TokenValidityDuration, time.Now)

	// a nil Archiver disables archived exports
	var archiver services.Archiver
	if c.S3Enabled {
		archiver, err = newArchive(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("archive init error: %w", err)
		}
	}

	entrySvc, err := services.NewEntryService(db, rm, c, archiver)
	if err != nil {
		return nil, err
	}

	api := httpapi.New(httpapi.Options{
		Accounts:    services.NewAccountService(db, rm, hasher, tokens, c),
		Entries:     entrySvc,
		Tokens:      tokens,
		Logger:      logger,
		CORSOrigins: c.CORSOrigins,
	})

	return &App{config: c, logger: logger, db: db, handler: api.Handler()}, nil
}

// Run serves HTTP until ctx is cancelled or the process receives SIGINT,
// SIGTERM or SIGQUIT, then drains in-flight requests and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.db.Close()

	ln, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		return fmt.Errorf("listen error: %w", err)
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
