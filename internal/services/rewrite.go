package services

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"
)

// RewriteFlusher regenerates the permalink rewrite rules
type RewriteFlusher interface {
	Flush(ctx context.Context) error
}

// CountingFlusher records each flush request. The hosting site picks up the
// new rules on its next request.
type CountingFlusher struct {
	counter metric.Int64Counter
	logger  *slog.Logger
	flushes atomic.Int64
}

// NewRewriteFlusher creates a flusher; counter may be nil
func NewRewriteFlusher(counter metric.Int64Counter, logger *slog.Logger) *CountingFlusher {
	if logger == nil {
		logger = slog.Default()
	}
	return &CountingFlusher{
		counter: counter,
		logger:  logger.With(slog.String("component", "rewrite")),
	}
}

// Flush marks the rewrite rules as stale
func (f *CountingFlusher) Flush(ctx context.Context) error {
	n := f.flushes.Add(1)
	if f.counter != nil {
		f.counter.Add(ctx, 1)
	}
	f.logger.DebugContext(ctx, "rewrite rules flushed", slog.Int64("flushes", n))
	return nil
}

// Count returns the number of flushes so far
func (f *CountingFlusher) Count() int64 {
	return f.flushes.Load()
}
