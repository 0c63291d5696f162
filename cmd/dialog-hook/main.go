// cmd/dialog-hook/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/validation"
	"dining-concierge/internal/dialog"
	"dining-concierge/internal/producer"
	"dining-concierge/internal/queue"
	"dining-concierge/pkg/registry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": "dialog-hook"})

	zapLog.Info("Starting dialog hook...")
	ctx := context.Background()

	catalog, err := registry.Resolve(cfg.Catalog.RegistryPath, cfg.Catalog.Locations, cfg.Catalog.Cuisines)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	loc, err := time.LoadLocation(cfg.Dialog.TimeZone)
	if err != nil {
		zapLog.Fatal("invalid dialog time zone", zap.Error(err))
	}

	// --- Redis (sessions) ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Queue ---
	var sqsClient queue.SQSService
	if cfg.Queue.Driver == config.QueueDriverSQS {
		clients, err := aws.NewClients(ctx, cfg.AWS)
		if err != nil {
			zapLog.Fatal("aws clients failed", zap.Error(err))
		}
		sqsClient = clients.SQS
	}
	q, err := queue.Open(cfg.Queue, sqsClient)
	if err != nil {
		zapLog.Fatal("queue init failed", zap.Error(err))
	}
	zapLog.Info("Queue ready", zap.String("driver", cfg.Queue.Driver))

	schema, err := validation.NewDialogEventValidator()
	if err != nil {
		zapLog.Fatal("dialog event schema failed to compile", zap.Error(err))
	}

	prod := producer.New(q, cfg.Queue.Delay(), log)
	sessions := dialog.NewRedisSessionStore(redis.Client, config.GetDuration(cfg.Dialog.SessionTTL))
	controller := dialog.NewController(dialog.NewValidator(catalog, loc), prod, sessions, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	router.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := redis.Ping(pingCtx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})
	router.Handle("/metrics", promhttp.Handler())
	dialog.NewHTTPHandler(controller, schema, log).Register(router)

	srv := &http.Server{
		Addr:              cfg.Dialog.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Dialog.ListenAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Dialog hook stopped gracefully")
}
