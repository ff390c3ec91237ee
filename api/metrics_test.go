package api

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func TestConnMetricsLog(t *testing.T) {
	logger, hook := test.NewNullLogger()
	exporter := setupTestTracer(t)

	m := newConnMetrics(context.Background(), logger, "192.0.2.1")
	m.ObserveIntent()
	m.ObserveIntent()
	m.ObserveMalformed()
	m.Log()

	entries := hook.AllEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Message != sessionEventName {
		t.Fatalf("unexpected message %q", entry.Message)
	}
	if entry.Data["remote"] != "192.0.2.1" {
		t.Fatalf("unexpected remote %v", entry.Data["remote"])
	}
	if entry.Data["intents"] != int64(2) {
		t.Fatalf("unexpected intents %v", entry.Data["intents"])
	}
	if entry.Data["malformed"] != int64(1) {
		t.Fatalf("unexpected malformed %v", entry.Data["malformed"])
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != sessionSpanName {
		t.Fatalf("unexpected span name %q", span.Name)
	}
	var intents, malformed int64 = -1, -1
	for _, attr := range span.Attributes {
		switch string(attr.Key) {
		case "board.session.intents":
			intents = attr.Value.AsInt64()
		case "board.session.malformed":
			malformed = attr.Value.AsInt64()
		}
	}
	if intents != 2 || malformed != 1 {
		t.Fatalf("unexpected span counters intents=%d malformed=%d", intents, malformed)
	}
}

func TestConnMetricsNilSafe(t *testing.T) {
	var m *connMetrics
	m.ObserveIntent()
	m.ObserveMalformed()
	m.Log()
}
