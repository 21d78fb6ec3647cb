// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// StorefrontMetrics provides business metrics for the storefront.
// It tracks checkout submissions, cart activity, product cache
// effectiveness, and live session state.
type StorefrontMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderSubmittedTotal *Counter
	orderAmountTotal    *Counter
	cartOperationsTotal *Counter
	productCacheTotal   *Counter

	// Gauge metrics (point-in-time values)
	activeSessions *Gauge
	rotationTasks  *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	sessions  SessionCountProvider
	rotations RotationCountProvider
}

// SessionCountProvider reports the number of live visitor sessions.
// This interface allows the telemetry layer to query session state
// without depending on the session store directly.
type SessionCountProvider interface {
	ActiveSessions() int
}

// RotationCountProvider reports the number of running overlay rotation tasks.
type RotationCountProvider interface {
	ActiveTasks() int
}

// StorefrontMetricsConfig holds configuration for storefront metrics.
type StorefrontMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 30 seconds
	Sessions        SessionCountProvider
	Rotations       RotationCountProvider
}

// NewStorefrontMetrics creates a new StorefrontMetrics instance.
func NewStorefrontMetrics(cfg StorefrontMetricsConfig) (*StorefrontMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &StorefrontMetrics{
		meter:     cfg.Meter,
		logger:    logger,
		stopChan:  make(chan struct{}),
		sessions:  cfg.Sessions,
		rotations: cfg.Rotations,
	}

	// Initialize counter metrics
	var err error

	// Checkout metrics
	sm.orderSubmittedTotal, err = NewCounter(
		cfg.Meter,
		"storefront_order_submitted_total",
		"Total number of checkout submissions",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	sm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"storefront_order_amount_total",
		"Total accepted order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Cart metrics
	sm.cartOperationsTotal, err = NewCounter(
		cfg.Meter,
		"storefront_cart_operations_total",
		"Total number of cart mutations",
		"{operations}",
	)
	if err != nil {
		return nil, err
	}

	// Product cache metrics
	sm.productCacheTotal, err = NewCounter(
		cfg.Meter,
		"storefront_product_cache_total",
		"Total number of product cache lookups",
		"{lookups}",
	)
	if err != nil {
		return nil, err
	}

	// Session gauge metrics
	sm.activeSessions, err = NewGauge(
		cfg.Meter,
		"storefront_active_sessions",
		"Current number of live visitor sessions",
		"{sessions}",
	)
	if err != nil {
		return nil, err
	}

	sm.rotationTasks, err = NewGauge(
		cfg.Meter,
		"storefront_rotation_tasks",
		"Current number of running overlay rotation tasks",
		"{tasks}",
	)
	if err != nil {
		return nil, err
	}

	return sm, nil
}

// =============================================================================
// Checkout Metrics
// =============================================================================

// OrderOutcome labels the result of a checkout submission.
type OrderOutcome string

const (
	OrderOutcomeAccepted OrderOutcome = "accepted"
	OrderOutcomeRejected OrderOutcome = "rejected"
	OrderOutcomeFailed   OrderOutcome = "failed"
)

// RecordOrderSubmitted records a checkout submission attempt.
// This should be called from the application layer when a checkout completes.
func (sm *StorefrontMetrics) RecordOrderSubmitted(ctx context.Context, outcome OrderOutcome) {
	sm.orderSubmittedTotal.Inc(ctx,
		AttrOutcome.String(string(outcome)),
	)
}

// RecordOrderAmount records the total of an accepted order.
// Amount should be in the smallest currency unit (cents).
func (sm *StorefrontMetrics) RecordOrderAmount(ctx context.Context, amountCents int64) {
	sm.orderAmountTotal.Add(ctx, amountCents)
}

// RecordAcceptedOrder is a convenience method that records both the
// submission and its amount.
func (sm *StorefrontMetrics) RecordAcceptedOrder(ctx context.Context, total decimal.Decimal) {
	sm.RecordOrderSubmitted(ctx, OrderOutcomeAccepted)

	// Convert to cents (multiply by 100)
	amountCents := total.Mul(decimal.NewFromInt(100)).IntPart()
	sm.RecordOrderAmount(ctx, amountCents)
}

// =============================================================================
// Cart Metrics
// =============================================================================

// CartOp labels the kind of cart mutation.
type CartOp string

const (
	CartOpAdd    CartOp = "add"
	CartOpUpdate CartOp = "update"
	CartOpRemove CartOp = "remove"
	CartOpClear  CartOp = "clear"
)

// RecordCartOperation records a cart mutation.
func (sm *StorefrontMetrics) RecordCartOperation(ctx context.Context, op CartOp) {
	sm.cartOperationsTotal.Inc(ctx,
		AttrCartOp.String(string(op)),
	)
}

// =============================================================================
// Product Cache Metrics
// =============================================================================

// RecordCacheHit records a product cache lookup served from memory.
func (sm *StorefrontMetrics) RecordCacheHit(ctx context.Context) {
	sm.productCacheTotal.Inc(ctx,
		AttrCacheResult.String("hit"),
	)
}

// RecordCacheMiss records a product cache lookup that went to the backend.
func (sm *StorefrontMetrics) RecordCacheMiss(ctx context.Context) {
	sm.productCacheTotal.Inc(ctx,
		AttrCacheResult.String("miss"),
	)
}

// =============================================================================
// Session Metrics
// =============================================================================

// RecordActiveSessions records the current number of live sessions.
// This is a gauge metric that should be updated periodically.
func (sm *StorefrontMetrics) RecordActiveSessions(ctx context.Context, count int64) {
	sm.activeSessions.Record(ctx, count)
}

// RecordRotationTasks records the current number of running rotation tasks.
// This is a gauge metric that should be updated periodically.
func (sm *StorefrontMetrics) RecordRotationTasks(ctx context.Context, count int64) {
	sm.rotationTasks.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It samples session state every interval (default: 30 seconds).
// This is non-blocking - use Stop() to stop collection.
func (sm *StorefrontMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	sm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 30 * time.Second
		}

		go sm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (sm *StorefrontMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	sm.collectSessionGauges(ctx)

	for {
		select {
		case <-sm.stopChan:
			sm.logger.Info("Stopping periodic storefront metrics collection")
			return
		case <-ctx.Done():
			sm.logger.Info("Context cancelled, stopping periodic storefront metrics collection")
			return
		case <-ticker.C:
			sm.collectSessionGauges(ctx)
		}
	}
}

// collectSessionGauges samples session state gauges from the configured providers.
func (sm *StorefrontMetrics) collectSessionGauges(ctx context.Context) {
	if sm.sessions == nil && sm.rotations == nil {
		sm.logger.Debug("No session state providers configured, skipping gauge collection")
		return
	}

	if sm.sessions != nil {
		sm.RecordActiveSessions(ctx, int64(sm.sessions.ActiveSessions()))
	}

	if sm.rotations != nil {
		sm.RecordRotationTasks(ctx, int64(sm.rotations.ActiveTasks()))
	}
}

// Stop stops the periodic collection.
func (sm *StorefrontMetrics) Stop() {
	sm.stopOnce.Do(func() {
		close(sm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewStorefrontMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
