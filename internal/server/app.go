// Package server wires the duty tracker together: it builds the logger and
// the records store from the configuration, loads the tracker, and runs the
// gRPC and HTTP adapters until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/dutybadge/internal/clock"
	"github.com/dmitrijs2005/dutybadge/internal/logging"
	"github.com/dmitrijs2005/dutybadge/internal/server/config"
	"github.com/dmitrijs2005/dutybadge/internal/server/repositories/records"
	"github.com/dmitrijs2005/dutybadge/internal/server/services"
	"github.com/dmitrijs2005/dutybadge/internal/server/tracker"

	gs "github.com/dmitrijs2005/dutybadge/internal/server/grpc"
	hs "github.com/dmitrijs2005/dutybadge/internal/server/http"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	store      records.Store
	grpcServer *gs.GRPCServer
	httpServer *hs.HTTPServer
}

// storeOptions maps the configuration onto records.Options. The sqlite
// backend takes its database file from DataFile.
func storeOptions(c *config.Config) records.Options {
	opts := records.Options{
		Type:        c.StorageType,
		DataFile:    c.DataFile,
		DatabaseDSN: c.DatabaseDSN,
		S3: records.S3Options{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			Key:          c.S3ObjectKey,
		},
	}
	if c.StorageType == records.TypeSQLite {
		opts.DatabaseDSN = c.DataFile
	}
	return opts
}

// NewApp opens the store and loads the persisted state. A corrupt state
// aborts startup.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	store, err := records.Open(ctx, storeOptions(c))
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	tr, err := tracker.New(ctx, store, logger.With("module", "tracker"))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("tracker init error: %w", err)
	}

	ds := services.NewDutyService(tr, clock.System{}, logger)
	rs := services.NewReportService(tr, clock.System{}, logger, c.RecentSessions)

	app := &App{
		config:     c,
		logger:     logger,
		store:      store,
		grpcServer: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, ds, rs, c.SecretKey),
	}
	if c.EndpointAddrHTTP != "" {
		app.httpServer = hs.NewHTTPServer(c.EndpointAddrHTTP, logger, ds, rs, c.SecretKey, c.ShutdownTimeout)
	}

	logger.Info(ctx, "storage ready", "type", c.StorageType, "users", tr.Users())
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// serve runs fn and cancels the whole app when it fails, so one adapter
// going down takes the other with it.
func (app *App) serve(ctx context.Context, cancelFunc context.CancelFunc, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// waits for both servers to stop and closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "grpc", app.grpcServer.Run)
	}()

	if app.httpServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.serve(ctx, cancelFunc, "http", app.httpServer.Run)
		}()
	}

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "close storage", "error", err)
	}
	app.logger.Info(ctx, "app stopped")
}
