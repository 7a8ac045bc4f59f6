// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"staffing-workers/internal/common/camunda"
	"staffing-workers/internal/common/config"
	"staffing-workers/internal/common/database"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/observability"
	"staffing-workers/internal/common/upstream"

	// Infrastructure Workers (2)
	bmr "staffing-workers/internal/workers/infrastructure/build-match-response"
	vmr "staffing-workers/internal/workers/infrastructure/validate-match-request"

	// Data Access Workers (2)
	qe "staffing-workers/internal/workers/data-access/query-elasticsearch"
	qp "staffing-workers/internal/workers/data-access/query-postgresql"

	// Matching Workers (5)
	cfs "staffing-workers/internal/workers/matching/calculate-fit-score"
	fec "staffing-workers/internal/workers/matching/filter-eligible-candidates"
	rank "staffing-workers/internal/workers/matching/rank-match-results"
	rcl "staffing-workers/internal/workers/matching/reconcile-match-results"
	ref "staffing-workers/internal/workers/matching/refine-match-results"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		camundaClient, err := camunda.NewClient(cfg.Camunda.BrokerAddress)
		if err != nil {
			return err
		}
		zeebeClient = camundaClient.GetClient()
		return nil
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
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

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init External Service Clients ---
	matcherFeed := upstream.NewMatcherClient(
		cfg.Upstream.Matcher.BaseURL,
		cfg.Upstream.Matcher.APIToken,
		time.Duration(cfg.Upstream.Matcher.Timeout)*time.Millisecond,
	)

	zapLog.Info("All external service clients initialized")

	var workers []*camunda.CamundaWorker
	startWorker := func(taskType string, handler camunda.JobHandler) {
		wcfg := cfg.Workers[taskType]
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		w := camunda.NewWorker(
			zeebeClient,
			taskType,
			wcfg.MaxJobsActive,
			time.Duration(wcfg.Timeout)*time.Millisecond,
			handler,
			zapLog,
		)
		workers = append(workers, w)
	}

	// --- START: Register ALL 9 Workers ---

	// --- 1. Infrastructure Workers (2) ---
	startWorker(vmr.TaskType, vmr.NewHandler(
		&vmr.Config{
			Timeout: time.Duration(cfg.Workers[vmr.TaskType].Timeout) * time.Millisecond,
		},
		log,
	))

	startWorker(bmr.TaskType, bmr.NewHandler(
		&bmr.Config{
			Timeout:    time.Duration(cfg.Workers[bmr.TaskType].Timeout) * time.Millisecond,
			AppVersion: cfg.App.Version,
		},
		log,
	))

	// --- 2. Data Access Workers (2) ---
	startWorker(qp.TaskType, qp.NewHandler(
		&qp.Config{
			Timeout: time.Duration(cfg.Workers[qp.TaskType].Timeout) * time.Millisecond,
		},
		pg.DB, log,
	))

	startWorker(qe.TaskType, qe.NewHandler(
		&qe.Config{
			Timeout:     time.Duration(cfg.Workers[qe.TaskType].Timeout) * time.Millisecond,
			PoolIndex:   cfg.Database.Elasticsearch.PoolIndex,
			MaxPoolSize: cfg.Matching.MaxPoolSize,
		},
		esClient.Client, log,
	))

	// --- 3. Matching Workers (5) ---
	cacheTTL := time.Duration(cfg.Matching.CacheTTLSeconds) * time.Second

	startWorker(fec.TaskType, fec.NewHandler(
		&fec.Config{
			Timeout:               time.Duration(cfg.Workers[fec.TaskType].Timeout) * time.Millisecond,
			EnrichmentConcurrency: cfg.Matching.EnrichmentConcurrency,
			CacheTTL:              cacheTTL,
		},
		pg.DB, redis.Client, log,
	))

	startWorker(cfs.TaskType, cfs.NewHandler(
		&cfs.Config{
			Timeout:  time.Duration(cfg.Workers[cfs.TaskType].Timeout) * time.Millisecond,
			CacheTTL: cacheTTL,
		},
		pg.DB, redis.Client, log,
	))

	startWorker(rcl.TaskType, rcl.NewHandler(
		&rcl.Config{
			Timeout:  time.Duration(cfg.Workers[rcl.TaskType].Timeout) * time.Millisecond,
			CacheTTL: cacheTTL,
		},
		matcherFeed, pg.DB, redis.Client, log,
	))

	startWorker(rank.TaskType, rank.NewHandler(
		&rank.Config{
			Timeout: time.Duration(cfg.Workers[rank.TaskType].Timeout) * time.Millisecond,
		},
		log,
	))

	startWorker(ref.TaskType, ref.NewHandler(
		&ref.Config{
			Timeout:               time.Duration(cfg.Workers[ref.TaskType].Timeout) * time.Millisecond,
			PageSize:              cfg.Matching.PageSize,
			HideLowScoreThreshold: cfg.Matching.HideLowScoreThreshold,
		},
		log,
	))

	zapLog.Info("All workers registered successfully", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
