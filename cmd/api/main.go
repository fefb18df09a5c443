package main

// @title Signal Map API
// @version 1.0.0
// @description Сессии просмотра декодированных сигналов геолокации.
// @description
// @description Основные возможности:
// @description - Отправка файла или hex-строки во внешний сервис декодирования
// @description - Слои карты по типам сигналов с подбором области просмотра
// @description - Статистика по типам и широтным поясам для графиков
// @description - Выгрузка CSV по каждому типу сигнала

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	_ "github.com/signal-map/docs/swagger"
	"github.com/signal-map/internal/config"
	httpDelivery "github.com/signal-map/internal/delivery/http"
	"github.com/signal-map/internal/delivery/http/handler"
	"github.com/signal-map/internal/infrastructure/decoder"
	"github.com/signal-map/internal/observability"
	"github.com/signal-map/internal/pkg/logger"
	"github.com/signal-map/internal/repository/cache"
	redisRepo "github.com/signal-map/internal/repository/redis"
	"github.com/signal-map/internal/usecase"
	"github.com/signal-map/internal/worker"
	"github.com/signal-map/internal/worker/session"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Signal Map")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("decoder_url", cfg.Decoder.BaseURL),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 3. Decode boundary client
	decoderRepo := decoder.NewDecoderClient(&cfg.Decoder, log)

	// 4. Metrics
	var collector *observability.Collector
	var observers []usecase.StatusObserver
	if cfg.Metrics.Enabled {
		collector, err = observability.NewCollector(prometheus.DefaultRegisterer)
		if err != nil {
			log.Fatal("Failed to register metrics", zap.Error(err))
		}
		observers = append(observers, collector)
	}

	// 5. Redis: кеш декодирования и стрим статусов (опционально)
	var redisClient *cache.Redis
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Health(ctx); err != nil {
			cancel()
			log.Fatal("Redis health check failed", zap.Error(err))
		}
		cancel()

		cacheRepo := cache.NewCacheRepository(redisClient)
		decoderRepo = decoder.NewCachedDecoder(decoderRepo, cacheRepo, cfg.Cache.DecodeCacheTTL, log)

		streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
		observers = append(observers, usecase.NewStatusPublisher(streamRepo, cfg.Redis.StatusStream, log))

		log.Info("Redis connected")
	}

	// 6. Sessions
	sessions := usecase.NewSessionRegistry(decoderRepo, usecase.ViewConfig{
		Layers: usecase.LayerConfig{
			Palette:  usecase.NewPalette(cfg.Map.Palette),
			WidthPx:  cfg.Map.WidthPx,
			HeightPx: cfg.Map.HeightPx,
			MaxZoom:  cfg.Map.MaxZoom,
		},
		MaxUploadBytes: cfg.Decoder.MaxUploadBytes,
	}, log, observers...)
	if collector != nil {
		sessions.OnChange(collector.SetActiveSessions)
	}

	// 7. Workers
	workers := worker.NewWorkerManager(log)
	workers.Register(session.NewJanitor(sessions, cfg.Session.IdleTTL, cfg.Session.SweepInterval, log))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := workers.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 8. HTTP
	server := httpDelivery.NewServer(
		cfg,
		log,
		collector,
		handler.NewSessionHandler(sessions, log),
		handler.NewViewHandler(sessions, log),
		handler.NewExportHandler(sessions, log),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	stopWorkers()
	if err := workers.Stop(); err != nil {
		log.Error("Workers shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
