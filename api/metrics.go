package api

import (
	"context"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	sessionSpanName  = "board.ws.session"
	sessionEventName = "ws.session.metrics"
)

// connMetrics accumulates per-connection counters and emits one
// structured log entry plus one span when the session ends. Counters are
// atomic because the read pump and the hub loop both record into them.
type connMetrics struct {
	logger *log.Logger
	span   trace.Span
	start  time.Time
	remote string

	intents   atomic.Int64
	malformed atomic.Int64
}

func newConnMetrics(ctx context.Context, logger *log.Logger, remote string) *connMetrics {
	_, span := otel.Tracer("board-sync").Start(ctx, sessionSpanName)
	span.SetAttributes(attribute.String("net.peer.addr", remote))
	return &connMetrics{
		logger: logger,
		span:   span,
		start:  time.Now(),
		remote: remote,
	}
}

func (m *connMetrics) ObserveIntent() {
	if m == nil {
		return
	}
	m.intents.Add(1)
}

func (m *connMetrics) ObserveMalformed() {
	if m == nil {
		return
	}
	m.malformed.Add(1)
}

// Log finishes the span and writes the session summary entry.
func (m *connMetrics) Log() {
	if m == nil {
		return
	}
	duration := time.Since(m.start)
	intents := m.intents.Load()
	malformed := m.malformed.Load()

	m.span.SetAttributes(
		attribute.Int64("board.session.intents", intents),
		attribute.Int64("board.session.malformed", malformed),
		attribute.Float64("board.session.duration_ms", durationToMillis(duration)),
	)
	m.span.End()

	if m.logger == nil {
		return
	}
	m.logger.WithFields(log.Fields{
		"remote":      m.remote,
		"intents":     intents,
		"malformed":   malformed,
		"duration_ms": durationToMillis(duration),
	}).Info(sessionEventName)
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
