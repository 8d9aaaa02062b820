package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/vsinha/bidengine/pkg/application/config"
	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/infrastructure/metrics"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 3 * time.Minute
	maxBodySize     = "4M"
)

// Engine is the bid engine surface the HTTP service exposes
type Engine interface {
	List(ctx context.Context) ([]*entities.RFP, error)
	Get(ctx context.Context, id string) (*entities.RFP, error)
	Ingest(ctx context.Context, rfps []*entities.RFP) error
	Process(ctx context.Context, id string) (*entities.BidComputation, error)
	Archive(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Priorities(ctx context.Context) ([]entities.PriorityEntry, error)
	Rerank(ctx context.Context) ([]entities.PriorityEntry, error)
}

// Server is the JSON API over one shared engine
type Server struct {
	echo    *echo.Echo
	engine  Engine
	limiter *RateLimiter
	cfg     config.ServerConfig
	logger  *zap.Logger
}

// NewServer builds the router. A nil metrics disables /metrics.
func NewServer(engine Engine, m *metrics.Metrics, cfg config.ServerConfig, logger *zap.Logger) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		echo:    echo.New(),
		engine:  engine,
		limiter: NewRateLimiter(cfg.RequestsPerMinute, cfg.Burst),
		cfg:     cfg,
		logger:  logger,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))
	e.Use(middleware.BodyLimit(maxBodySize))

	e.GET("/healthz", s.health)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	v1 := e.Group("/api/v1", s.limiter.Middleware())
	{
		v1.GET("/rfps", s.listRFPs)
		v1.POST("/rfps", s.ingestRFPs)
		v1.GET("/rfps/:id", s.getRFP)
		v1.POST("/rfps/:id/process", s.processRFP)
		v1.POST("/rfps/:id/archive", s.archiveRFP)
		v1.DELETE("/rfps/:id/archive", s.restoreRFP)
		v1.GET("/priorities", s.listPriorities)
		v1.POST("/priorities/recompute", s.recomputePriorities)
	}
	return s, nil
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully
func (s *Server) Run(ctx context.Context) error {
	go s.limiter.Cleanup(ctx, cleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
