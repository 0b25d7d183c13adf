// Package httpapi exposes the collection trigger and read-only views of
// published editions over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edition_collector/internal/cache"
	"edition_collector/internal/domain"
)

type Collector interface {
	Collect(ctx context.Context, now time.Time) (*domain.RunResult, error)
}

type EditionReader interface {
	GetBySlot(ctx context.Context, slot domain.Slot) (*domain.Edition, error)
	GetLatestPublished(ctx context.Context) (*domain.Edition, error)
}

type ArticleReader interface {
	ListByEdition(ctx context.Context, editionID int64) ([]domain.Article, error)
}

type HealthLister interface {
	List(ctx context.Context) ([]domain.SourceHealth, error)
}

type Config struct {
	Addr         string
	CronSecret   string
	RunTimeout   time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Deps struct {
	Collector Collector
	Editions  EditionReader
	Articles  ArticleReader
	Health    HealthLister
	Cache     cache.Store
}

type Server struct {
	echo   *echo.Echo
	cfg    Config
	deps   Deps
	logger *slog.Logger
	now    func() time.Time
}

func NewServer(cfg Config, deps Deps, logger *slog.Logger) *Server {
	if deps.Cache == nil {
		deps.Cache = cache.NopStore{}
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Minute
	}

	s := &Server{
		echo:   echo.New(),
		cfg:    cfg,
		deps:   deps,
		logger: logger.With("component", "http"),
		now:    time.Now,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Server.ReadTimeout = cfg.ReadTimeout
	s.echo.Server.WriteTimeout = cfg.WriteTimeout

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/healthz" || p == "/metrics"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				s.logger.Info("request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				s.logger.Error("request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	s.echo.Use(middleware.Recover())

	s.routes()
	return s
}

func (s *Server) routes() {
	cron := s.echo.Group("/api/cron", BearerAuth(s.cfg.CronSecret))
	cron.GET("/collect", s.handleCollect)
	cron.POST("/collect", s.handleCollect)

	api := s.echo.Group("/api")
	api.GET("/editions/latest", s.handleLatestEdition)
	api.GET("/editions/:type/:date", s.handleEdition)
	api.GET("/widgets", s.handleWidgets)
	if s.deps.Health != nil {
		api.GET("/sources/health", s.handleSourceHealth)
	}

	s.echo.GET("/healthz", s.handleHealthz)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	s.logger.Info("starting http server", "addr", s.cfg.Addr)
	if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
