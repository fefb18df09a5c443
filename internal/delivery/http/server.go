package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/signal-map/internal/config"
	"github.com/signal-map/internal/delivery/http/handler"
	"github.com/signal-map/internal/delivery/http/middleware"
	"github.com/signal-map/internal/observability"
	"github.com/signal-map/internal/pkg/errors"
	"github.com/signal-map/internal/pkg/utils"
)

// bodyLimitSlack - запас сверх размера файла на заголовки multipart
const bodyLimitSlack = 64 * 1024

// Server - HTTP сервер на основе Fiber
type Server struct {
	app       *fiber.App
	config    *config.Config
	logger    *zap.Logger
	collector *observability.Collector

	sessionHandler *handler.SessionHandler
	viewHandler    *handler.ViewHandler
	exportHandler  *handler.ExportHandler
}

// NewServer - создание нового HTTP сервера. collector может быть nil, тогда /metrics не публикуется.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	collector *observability.Collector,
	sessionHandler *handler.SessionHandler,
	viewHandler *handler.ViewHandler,
	exportHandler *handler.ExportHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Signal Map",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.DecoderTimeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    cfg.Decoder.MaxUploadBytes + bodyLimitSlack,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		collector:      collector,
		sessionHandler: sessionHandler,
		viewHandler:    viewHandler,
		exportHandler:  exportHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - fiber-приложение, используется в тестах через app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	if s.collector != nil {
		s.app.Use(middleware.Metrics(s.collector))
	}
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.collector != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.collector.Handler()))
	}

	api := s.app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	sessions := api.Group("/sessions")
	sessions.Post("/", s.sessionHandler.Create)
	sessions.Get("/:id", s.sessionHandler.Get)
	sessions.Delete("/:id", s.sessionHandler.Delete)

	// Отправка на декодирование
	sessions.Post("/:id/process_file", s.viewHandler.ProcessFile)
	sessions.Post("/:id/process_hex", s.viewHandler.ProcessHex)
	sessions.Post("/:id/process_data", s.viewHandler.ProcessData)
	sessions.Post("/:id/clear", s.viewHandler.Clear)

	// Слои и графики
	sessions.Get("/:id/layers", s.viewHandler.GetLayers)
	sessions.Put("/:id/layers/:type", s.viewHandler.SetLayerVisibility)
	sessions.Get("/:id/aggregates", s.viewHandler.GetAggregates)

	// Выгрузка
	sessions.Get("/:id/export.zip", s.exportHandler.Archive)
	sessions.Get("/:id/export", s.exportHandler.List)
	sessions.Get("/:id/export/:type", s.exportHandler.Download)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки fiber (404 маршрута, лимит тела) в общем формате ответа
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := errors.As(err); ok {
			return utils.SendError(c, appErr)
		}

		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		switch code {
		case fiber.StatusRequestEntityTooLarge:
			return utils.SendError(c, errors.ErrFileTooLarge)
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			return c.Status(code).JSON(utils.ErrorResponse{
				Error: errors.New(errors.CodeInvalidRequest, err.Error(), code),
			})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(utils.ErrorResponse{
			Error: errors.ErrInternalServer.WithMessage(err.Error()),
		})
	}
}
