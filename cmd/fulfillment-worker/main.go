// cmd/fulfillment-worker/main.go
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
	"dining-concierge/internal/common/camunda"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/observability"
	"dining-concierge/internal/fulfillment"
	"dining-concierge/internal/notify"
	"dining-concierge/internal/queue"
	"dining-concierge/internal/search"
	"dining-concierge/internal/selection"
	"dining-concierge/internal/store"
	fdr "dining-concierge/internal/workers/fulfillment/fulfill-dining-request"

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
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": "fulfillment-worker"})

	zapLog.Info("Starting fulfillment worker...", zap.String("trigger", cfg.Fulfillment.Trigger))

	obs := observability.New("fulfillment-worker")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	esCfg := cfg.Database.Elasticsearch
	searcher := search.New(esClient.Client, esCfg.Index, esCfg.CategoryField, esCfg.MaxCandidates)

	// --- AWS (SNS always; SQS and DynamoDB by driver) ---
	clients, err := aws.NewClients(ctx, cfg.AWS)
	if err != nil {
		zapLog.Fatal("aws clients failed", zap.Error(err))
	}

	q, err := queue.Open(cfg.Queue, clients.SQS)
	if err != nil {
		zapLog.Fatal("queue init failed", zap.Error(err))
	}

	// --- Store ---
	var pg *database.PostgresClient
	if cfg.Store.Driver == config.StoreDriverPostgres {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	var backend store.Backend
	if pg != nil {
		backend, err = store.Open(cfg.Store.Driver, cfg.Database.DynamoDB.Table, nil, pg.DB)
	} else {
		backend, err = store.Open(cfg.Store.Driver, cfg.Database.DynamoDB.Table, clients.DynamoDB, nil)
	}
	if err != nil {
		zapLog.Fatal("store init failed", zap.Error(err))
	}

	var restaurants store.Store = backend
	if cfg.Store.CacheTTL > 0 {
		redis := database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		restaurants = store.NewCachedStore(backend, redis.Client, config.GetDuration(cfg.Store.CacheTTL), log)
		zapLog.Info("Restaurant cache enabled")
	}

	smsCfg := cfg.Notifications.SMS
	notifier := notify.NewSMSNotifier(&notify.SMSConfig{
		Enabled:     smsCfg.Enabled,
		CountryCode: smsCfg.CountryCode,
		SMSType:     smsCfg.SMSType,
		SenderID:    smsCfg.SenderID,
	}, clients.SNS, log)

	consumer := fulfillment.NewConsumer(
		&fulfillment.Config{
			VisibilityTimeout: time.Duration(cfg.Queue.VisibilityTimeout) * time.Second,
			WaitTime:          time.Duration(cfg.Queue.WaitTimeSeconds) * time.Second,
		},
		q,
		searcher,
		selection.New(selection.RandomSource, selection.DefaultLimit),
		restaurants,
		notifier,
		obs,
		log,
	)

	// --- Trigger ---
	runCtx, stopRuns := context.WithCancel(ctx)
	defer stopRuns()

	var stopTrigger func()
	switch cfg.Fulfillment.Trigger {
	case config.TriggerZeebe:
		stopTrigger = startZeebeTrigger(cfg, consumer, log, zapLog)
	default:
		done := make(chan struct{})
		go func() {
			defer close(done)
			interval := config.GetDuration(cfg.Fulfillment.PollInterval)
			if err := fulfillment.RunEvery(runCtx, consumer, interval, config.GetDuration(cfg.Fulfillment.Timeout), log); err != nil {
				zapLog.Fatal("ticker trigger failed", zap.Error(err))
			}
		}()
		stopTrigger = func() {
			stopRuns()
			<-done
		}
	}

	// --- Health and metrics ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: cfg.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		zapLog.Info("Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping trigger...")
	stopTrigger()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down metrics server", zap.Error(err))
	}

	zapLog.Info("Fulfillment worker stopped gracefully")
}

func startZeebeTrigger(cfg *config.Config, consumer *fulfillment.Consumer, log logger.Logger, zapLog *zap.Logger) func() {
	wcfg := config.GetWorkerConfig(cfg, fdr.TaskType)
	if !wcfg.Enabled {
		zapLog.Warn("zeebe trigger selected but worker disabled", zap.String("taskType", fdr.TaskType))
		return func() {}
	}

	client, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig: &camunda.RetryConfig{
			MaxRetries: 10,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
		},
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	handler := fdr.NewHandler(fdr.LoadConfig(cfg), consumer, log)
	w := camunda.NewWorker(client.GetClient(), fdr.TaskType, camunda.WorkerOptions{
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       config.GetDuration(wcfg.Timeout),
	}, handler, log)

	return func() {
		w.Stop()
		if err := client.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
}
