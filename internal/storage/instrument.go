package storage

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gencraft/chat-api/pkg/metrics"
	"github.com/gencraft/chat-api/pkg/tracing"
)

var tracer = tracing.Tracer("github.com/gencraft/chat-api/internal/storage")

// observe starts a span for one store call. The returned func ends it and
// records latency; ErrNotFound is not treated as a failure.
func observe(ctx context.Context, collection, operation string) (context.Context, func(error)) {
	ctx, span := tracer.Start(ctx, collection+"."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "mongodb"),
			attribute.String("db.mongodb.collection", collection),
			attribute.String("db.operation", operation),
		),
	)
	start := time.Now()

	return ctx, func(err error) {
		if errors.Is(err, ErrNotFound) {
			err = nil
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.RecordStoreOperation(collection, operation, err, time.Since(start).Seconds())
	}
}
