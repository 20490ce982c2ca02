// Package server initializes and runs the PassKeeper application server.
// It opens the database, runs migrations, resolves the token signing key,
// wires the services together and starts the HTTP endpoint, handling
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/passkeeper/server/internal/logging"
	"github.com/passkeeper/server/internal/server/config"
	"github.com/passkeeper/server/internal/server/httpapi"
	"github.com/passkeeper/server/internal/server/repositories/repomanager"
	"github.com/passkeeper/server/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
	keys       *services.SigningKeyService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	ks := services.NewSigningKeyService(db, rm)
	us := services.NewUserService(db, rm, ks, cfg)
	cs := services.NewCollectionService(db, rm)

	hs := httpapi.NewServer(cfg.EndpointAddr, logger, us, cs, ks, cfg.PseudoDomain)

	return &App{config: cfg, logger: logger, db: db, httpServer: hs, keys: ks}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	// Resolve the signing key up front so the first login does not pay for
	// key creation and startup fails fast on a broken database.
	if _, err := app.keys.Key(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
