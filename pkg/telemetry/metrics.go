package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope for auction instruments.
const MeterName = "github.com/ghuser/livebid/auction"

// AuctionMetrics holds the bid path instruments. A nil *AuctionMetrics is
// valid and records nothing.
type AuctionMetrics struct {
	bids        metric.Int64Counter
	queueWait   metric.Float64Histogram
	connections metric.Int64UpDownCounter
	meter       metric.Meter
}

// NewAuctionMetrics creates the auction instruments on meter.
func NewAuctionMetrics(meter metric.Meter) (*AuctionMetrics, error) {
	bids, err := meter.Int64Counter("auction.bids",
		metric.WithDescription("Bid attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("auction.bids: %w", err)
	}

	queueWait, err := meter.Float64Histogram("auction.bid.queue_wait",
		metric.WithDescription("Time a bid waited for its item's turn"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("auction.bid.queue_wait: %w", err)
	}

	connections, err := meter.Int64UpDownCounter("auction.gateway.connections",
		metric.WithDescription("Open websocket connections"),
	)
	if err != nil {
		return nil, fmt.Errorf("auction.gateway.connections: %w", err)
	}

	return &AuctionMetrics{
		bids:        bids,
		queueWait:   queueWait,
		connections: connections,
		meter:       meter,
	}, nil
}

// ObserveActiveKeys registers a gauge reporting how many items currently
// have queued or running bids.
func (m *AuctionMetrics) ObserveActiveKeys(activeKeys func() int) error {
	if m == nil {
		return nil
	}
	_, err := m.meter.Int64ObservableGauge("auction.serializer.active_keys",
		metric.WithDescription("Items with pending bid operations"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(activeKeys()))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("auction.serializer.active_keys: %w", err)
	}
	return nil
}

// RecordBid counts one bid attempt and how long it waited in its item queue.
func (m *AuctionMetrics) RecordBid(ctx context.Context, outcome string, wait time.Duration) {
	if m == nil {
		return
	}
	m.bids.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.queueWait.Record(ctx, float64(wait)/float64(time.Millisecond))
}

// ConnectionOpened increments the open connection gauge.
func (m *AuctionMetrics) ConnectionOpened(ctx context.Context) {
	if m == nil {
		return
	}
	m.connections.Add(ctx, 1)
}

// ConnectionClosed decrements the open connection gauge.
func (m *AuctionMetrics) ConnectionClosed(ctx context.Context) {
	if m == nil {
		return
	}
	m.connections.Add(ctx, -1)
}
