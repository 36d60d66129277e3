package logger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("maturity.app/assessor")

// Span starts a child span. The returned func ends it and marks the span
// failed when *errp is non-nil:
//
//	ctx, end := logger.Span(ctx, "snapshot.save")
//	defer end(&err)
func Span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(errp *error)) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
	}
}

// Annotate sets attributes on the span active in ctx, if any.
func Annotate(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}
