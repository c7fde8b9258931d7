package resultcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pagegate/internal/domain/entity"
	"pagegate/internal/infra/kv"
)

func testRecord() *entity.IngestRecord {
	return &entity.IngestRecord{
		URLHash:        entity.URLHash("https://example.com/article"),
		FinalURL:       "https://example.com/article",
		Recommendation: entity.RecommendArticle,
		Confidence:     0.85,
		Title:          "An Article",
		Excerpt:        "The first paragraph.",
		FetchedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSink_WritesRecord(t *testing.T) {
	store := kv.NewMemoryStore()
	sink := NewSink(store, slog.Default())

	record := testRecord()
	sink.Write(record)
	sink.Flush()

	val, err := store.Get(context.Background(), "result:"+record.URLHash)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	var got entity.IngestRecord
	if err := json.Unmarshal([]byte(val), &got); err != nil {
		t.Fatalf("stored value is not valid JSON: %v", err)
	}
	if diff := cmp.Diff(*record, got); diff != "" {
		t.Errorf("stored record mismatch (-want +got):\n%s", diff)
	}
}

func TestSink_RecordExpires(t *testing.T) {
	store := kv.NewMemoryStore()
	now := time.Now()
	store.Now = func() time.Time { return now }
	sink := NewSink(store, slog.Default())

	record := testRecord()
	sink.Write(record)
	sink.Flush()

	now = now.Add(25 * time.Hour)
	if _, err := store.Get(context.Background(), "result:"+record.URLHash); err == nil {
		t.Error("Get() after 25h succeeded, want expiry")
	}
}

func TestSink_StoreFailureDoesNotPanic(t *testing.T) {
	store := kv.NewMemoryStore()
	store.FailAll = true
	sink := NewSink(store, slog.Default())

	// The write retries and gives up in the background; Flush must return
	// and the failure must stay contained.
	sink.Write(testRecord())
	sink.Flush()
}
