package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestWithIngestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithIngestID(logger, "abc-123").Info("fetch started")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["ingest_id"] != "abc-123" {
		t.Errorf("ingest_id = %v, want abc-123", entry["ingest_id"])
	}
}

func TestWithIngestID_EmptyReturnsSame(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if got := WithIngestID(logger, ""); got != logger {
		t.Error("empty ingest ID should return the original logger")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithFields(logger, map[string]interface{}{
		"domain": "example.com",
		"hops":   2,
	}).Info("redirect followed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["domain"] != "example.com" {
		t.Errorf("domain = %v, want example.com", entry["domain"])
	}
	if entry["hops"] != float64(2) {
		t.Errorf("hops = %v, want 2", entry["hops"])
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Error("FromContext should return the logger stored in context")
	}
}

func TestFromContext_Default(t *testing.T) {
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext without a stored logger should return the default, not nil")
	}
}
