package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dendrascience/zipsort/config"
	"github.com/dendrascience/zipsort/logging"
	"github.com/dendrascience/zipsort/store"
)

// Module wires the HTTP server. It expects a *config.Config in the graph.
var Module = fx.Options(
	fx.Provide(NewLogger),
	fx.Provide(NewSink),
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Provide(NewEcho),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(StartServer),
)

func NewLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.NewLogger(cfg.LogLevel)
}

// NewSink returns an S3 sink when one is configured, nil otherwise.
func NewSink(cfg *config.Config, log *logging.Logger) (store.Store, error) {
	if !cfg.S3.Enabled() {
		log.Info("No S3 endpoint configured, organized buckets stay in memory")
		return nil, nil
	}
	sink, err := store.NewS3Sink(cfg.S3)
	if err != nil {
		return nil, err
	}
	log.Info("Storing organized buckets in S3",
		zap.String("endpoint", cfg.S3.Endpoint),
		zap.String("bucket", cfg.S3.Bucket))
	return sink, nil
}

func NewEcho(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadMB)))
	return e
}

// errorHandler renders every error as {"error": message}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, map[string]string{"error": message})
}

func RegisterRoutes(e *echo.Echo, h *Handler) {
	api := e.Group("/api")

	api.GET("/health", h.Health)
	api.POST("/extract", h.Extract)
	api.POST("/organize", h.Organize)
	api.POST("/compress", h.Compress)

	api.GET("/operations/:id", h.GetOperation)
	api.GET("/operations/:id/progress", h.StreamProgress)
	api.GET("/operations/:id/tree", h.GetTree)
	api.GET("/operations/:id/files", h.DownloadFile)
	api.GET("/operations/:id/buckets", h.ListBuckets)
	api.GET("/operations/:id/buckets/:key", h.DownloadBucket)
	api.GET("/operations/:id/archive", h.DownloadArchive)
}

func StartServer(lc fx.Lifecycle, e *echo.Echo, cfg *config.Config, service *Service, log *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Server failed to start", zap.Error(err))
				}
			}()
			log.Info("HTTP server listening", zap.String("addr", cfg.Addr()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := e.Shutdown(ctx)
			service.Stop()
			_ = log.Sync()
			return err
		},
	})
}
