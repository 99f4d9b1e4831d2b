package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Result attribute values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// MarketMetrics records marketplace business counters
type MarketMetrics struct {
	catalogImports   metric.Int64Counter
	listingsImported metric.Int64Counter
	checkouts        metric.Int64Counter
	orderValue       metric.Float64Histogram
	orderTransitions metric.Int64Counter
	avatarJobs       metric.Int64Counter
}

// NewMarketMetrics creates the instruments on meter
func NewMarketMetrics(meter metric.Meter) (*MarketMetrics, error) {
	m := &MarketMetrics{}
	var err error

	if m.catalogImports, err = meter.Int64Counter("market.catalog.imports",
		metric.WithDescription("Partner catalog imports by result"),
		metric.WithUnit("{import}")); err != nil {
		return nil, fmt.Errorf("failed to create catalog imports counter: %w", err)
	}
	if m.listingsImported, err = meter.Int64Counter("market.catalog.listings_imported",
		metric.WithDescription("Listings written by catalog imports"),
		metric.WithUnit("{listing}")); err != nil {
		return nil, fmt.Errorf("failed to create listings counter: %w", err)
	}
	if m.checkouts, err = meter.Int64Counter("market.orders.checkouts",
		metric.WithDescription("Carts converted into orders"),
		metric.WithUnit("{order}")); err != nil {
		return nil, fmt.Errorf("failed to create checkouts counter: %w", err)
	}
	if m.orderValue, err = meter.Float64Histogram("market.orders.value",
		metric.WithDescription("Order totals at checkout"),
		metric.WithExplicitBucketBoundaries(10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000)); err != nil {
		return nil, fmt.Errorf("failed to create order value histogram: %w", err)
	}
	if m.orderTransitions, err = meter.Int64Counter("market.orders.transitions",
		metric.WithDescription("Order status changes by target status"),
		metric.WithUnit("{transition}")); err != nil {
		return nil, fmt.Errorf("failed to create transitions counter: %w", err)
	}
	if m.avatarJobs, err = meter.Int64Counter("market.avatar.jobs",
		metric.WithDescription("Avatar jobs submitted"),
		metric.WithUnit("{job}")); err != nil {
		return nil, fmt.Errorf("failed to create avatar jobs counter: %w", err)
	}
	return m, nil
}

// RecordImport counts one catalog import and the listings it wrote
func (m *MarketMetrics) RecordImport(ctx context.Context, listings int, err error) {
	if m == nil {
		return
	}
	m.catalogImports.Add(ctx, 1, metric.WithAttributes(AttrResult.String(result(err))))
	if err == nil {
		m.listingsImported.Add(ctx, int64(listings))
	}
}

// RecordCheckout counts a new order and its total
func (m *MarketMetrics) RecordCheckout(ctx context.Context, total float64) {
	if m == nil {
		return
	}
	m.checkouts.Add(ctx, 1)
	m.orderValue.Record(ctx, total)
}

// RecordOrderTransition counts a status change
func (m *MarketMetrics) RecordOrderTransition(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.orderTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordAvatarJob counts a submitted avatar job
func (m *MarketMetrics) RecordAvatarJob(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.avatarJobs.Add(ctx, 1, metric.WithAttributes(AttrResult.String(result(err))))
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
