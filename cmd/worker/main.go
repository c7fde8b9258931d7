// Package main runs the batch ingest worker: on a cron schedule it reads a
// URL list and pushes every entry through the classification pipeline,
// pacing fetches to stay polite to target sites.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"pagegate/internal/app"
	"pagegate/internal/config"
	workerPkg "pagegate/internal/infra/worker"
	"pagegate/internal/observability/logging"
	"pagegate/internal/observability/tracing"
	"pagegate/internal/usecase/ingest"
)

func main() {
	logger := logging.NewLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.String("url_list", workerConfig.URLListPath),
		slog.Duration("batch_timeout", workerConfig.BatchTimeout),
		slog.Int("requests_per_second", workerConfig.RequestsPerSecond),
		slog.Int("health_port", workerConfig.HealthPort))

	pipelineConfig, err := config.LoadPipelineConfig()
	if err != nil {
		logger.Error("failed to load pipeline configuration", slog.Any("error", err))
		os.Exit(1)
	}

	contentConfig := loadContentConfig(logger)

	if pipelineConfig.Observability.EnableTracing {
		shutdownTracing := tracing.Setup("pagegate-worker")
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Error("tracing shutdown failed", slog.Any("error", err))
			}
		}()
	}

	pipeline := app.Build(ctx, pipelineConfig, contentConfig, logger)
	defer pipeline.Close()

	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	startCronWorker(logger, pipeline, workerConfig, workerMetrics, healthServer)
}

// loadContentConfig loads the optional YAML content rules. A missing or
// invalid file disables overrides rather than stopping the worker.
func loadContentConfig(logger *slog.Logger) *config.ContentConfig {
	path := os.Getenv("CONTENT_RULES_PATH")
	if path == "" {
		return nil
	}

	contentConfig, err := config.LoadContentConfig(path)
	if err != nil {
		logger.Warn("failed to load content rules, using built-in defaults",
			slog.String("path", path),
			slog.Any("error", err))
		return nil
	}

	logger.Info("content rules loaded", slog.String("path", path))
	return contentConfig
}

// startCronWorker starts the cron scheduler and runs the batch job
// periodically. Blocks forever.
func startCronWorker(logger *slog.Logger, pipeline *app.Pipeline, cfg *workerPkg.IngestWorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runBatch(logger, pipeline, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runBatch executes one batch: read the URL list, classify each entry with
// pacing, record per-URL outcomes.
func runBatch(logger *slog.Logger, pipeline *app.Pipeline, cfg *workerPkg.IngestWorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	metrics.RecordBatchRun("started")
	logger.Info("batch started", slog.String("url_list", cfg.URLListPath))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BatchTimeout)
	defer cancel()

	urls, err := readURLList(cfg.URLListPath)
	if err != nil {
		logger.Error("failed to read url list", slog.String("path", cfg.URLListPath), slog.Any("error", err))
		metrics.RecordBatchRun("failure")
		metrics.RecordBatchDuration(time.Since(startTime).Seconds())
		return
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	opts := ingest.DefaultOptions()

	var processed, failed int
	for _, rawURL := range urls {
		if err := limiter.Wait(ctx); err != nil {
			logger.Warn("batch deadline reached", slog.Int("remaining", len(urls)-processed))
			break
		}

		result, err := pipeline.Service.FetchAndClassify(ctx, rawURL, opts, cfg.ClientID)
		if err != nil {
			logger.Warn("skipping url", slog.String("url", rawURL), slog.Any("error", err))
			metrics.RecordURLProcessed("error")
			failed++
			continue
		}
		processed++
		metrics.RecordURLProcessed(outcome(result))
	}

	// Let background cache writes finish inside the batch window.
	pipeline.Sink.Flush()

	metrics.RecordBatchRun("success")
	metrics.RecordBatchDuration(time.Since(startTime).Seconds())
	metrics.RecordLastSuccess()

	logger.Info("batch completed",
		slog.Int("urls", len(urls)),
		slog.Int("processed", processed),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(startTime)))
}

// outcome maps a pipeline result to a metrics label.
func outcome(result *ingest.Result) string {
	switch {
	case result.Bypass != nil:
		return "BYPASS"
	case result.Quality != nil:
		return string(result.Quality.Recommendation)
	case result.Fetch != nil && result.Fetch.Error != nil:
		return string(result.Fetch.Error.Code)
	default:
		return "error"
	}
}

// readURLList reads one URL per line, skipping blanks and # comments.
func readURLList(path string) ([]string, error) {
	// #nosec G304 -- path comes from operator configuration, not user input
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
