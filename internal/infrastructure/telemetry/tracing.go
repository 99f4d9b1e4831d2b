package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartServiceSpan starts an internal span named {service}.{method}.
// The caller ends it.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "catalog_import", "import")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx,
		fmt.Sprintf("%s.%s", service, method),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records err on the span and marks it failed
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK marks the span as successful
func SetOK(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}

// Span attribute keys shared by the services
const (
	AttrUserID   = attribute.Key("user_id")
	AttrShopID   = attribute.Key("shop_id")
	AttrOrderID  = attribute.Key("order_id")
	AttrFeedURL  = attribute.Key("feed.url")
	AttrListings = attribute.Key("listings")
	AttrResult   = attribute.Key("result")
)
