// Package resultcache persists finished ingestion records to the shared
// key-value store so downstream consumers can read classification results
// without re-fetching. Writes are fire-and-forget: the pipeline's answer to
// the caller never waits on, and never fails because of, the cache.
package resultcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"pagegate/internal/domain/entity"
	"pagegate/internal/infra/kv"
	"pagegate/internal/observability/metrics"
	"pagegate/internal/resilience/retry"
)

const (
	keyPrefix = "result:"
	cacheTTL  = 24 * time.Hour

	// writeTimeout bounds a background write including retries.
	writeTimeout = 10 * time.Second
)

// Sink writes IngestRecords to the store in the background.
type Sink struct {
	store  kv.Store
	logger *slog.Logger

	// wg tracks in-flight background writes so tests and shutdown can
	// wait for them.
	wg sync.WaitGroup
}

// NewSink creates a Sink backed by the given store.
func NewSink(store kv.Store, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{store: store, logger: logger}
}

// Write persists the record asynchronously and returns immediately. The
// write retries transient store errors with backoff and gives up after
// writeTimeout; failures are logged and counted, never surfaced.
func (s *Sink) Write(record *entity.IngestRecord) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		s.write(ctx, record)
	}()
}

// Flush blocks until all in-flight writes have finished.
func (s *Sink) Flush() {
	s.wg.Wait()
}

func (s *Sink) write(ctx context.Context, record *entity.IngestRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.ErrorContext(ctx, "result record marshal failed",
			slog.String("url_hash", record.URLHash),
			slog.Any("error", err))
		metrics.RecordResultCacheWrite(false)
		return
	}

	key := keyPrefix + record.URLHash
	err = retry.WithBackoff(ctx, retry.CacheWriteConfig(), func() error {
		return s.store.SetWithTTL(ctx, key, string(payload), cacheTTL)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "result cache write failed",
			slog.String("url_hash", record.URLHash),
			slog.Any("error", err))
		metrics.RecordResultCacheWrite(false)
		return
	}
	metrics.RecordResultCacheWrite(true)
}
