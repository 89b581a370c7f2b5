// Package http exposes the duty tracker as a small JSON API for platforms
// that prefer plain HTTP over gRPC. Authentication uses the same bearer
// tokens as the gRPC service.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/dutybadge/internal/logging"
	"github.com/dmitrijs2005/dutybadge/internal/server/services"
)

type HTTPServer struct {
	address         string
	duty            *services.DutyService
	reports         *services.ReportService
	logger          logging.Logger
	jwtSecret       []byte
	shutdownTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, ds *services.DutyService, rs *services.ReportService, secretKey string, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         a,
		logger:          l.With("module", "http_server"),
		duty:            ds,
		reports:         rs,
		jwtSecret:       []byte(secretKey),
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler builds the router.
func (s *HTTPServer) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api/v1", s.authenticate())
	{
		api.POST("/me/start", s.handleStart)
		api.POST("/me/stop", s.handleStop)
		api.GET("/me", s.handleMe)

		admin := api.Group("", requireAdmin())
		admin.GET("/on-duty", s.handleOnDuty)
		admin.GET("/users/:id/report", s.handleReport)
	}

	return r
}

// Run listens on the configured address and serves until ctx is done.
func (s *HTTPServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is done, then shuts down,
// giving in-flight requests up to the shutdown timeout to finish.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
