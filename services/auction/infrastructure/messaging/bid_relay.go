// Package messaging moves accepted bids from the in-memory bid path onto
// the event bus.
package messaging

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	eventbus "github.com/ghuser/livebid/pkg/events"
	"github.com/ghuser/livebid/pkg/logger"
	"github.com/ghuser/livebid/services/auction/domain/events"
	"github.com/ghuser/livebid/services/auction/domain/models"
)

const publishTimeout = 5 * time.Second

type pending struct {
	ctx context.Context
	evt events.BidAcceptedEvent
}

// BidRelay publishes a BidAcceptedEvent for every accepted bid. Enqueue is
// installed as an accept hook and never blocks the item's turn: events go
// through a bounded buffer to a single publishing goroutine, so they reach
// the bus in application order. When the buffer is full the event is
// dropped and counted; the live auction never waits for the database.
type BidRelay struct {
	pub     eventbus.Publisher
	log     logger.Logger
	queue   chan pending
	mu      sync.RWMutex
	closed  bool
	started bool
	done    chan struct{}
	dropped atomic.Int64
}

// NewBidRelay returns a relay buffering up to buffer events.
func NewBidRelay(pub eventbus.Publisher, log logger.Logger, buffer int) *BidRelay {
	if buffer <= 0 {
		buffer = 1024
	}
	return &BidRelay{
		pub:   pub,
		log:   log,
		queue: make(chan pending, buffer),
		done:  make(chan struct{}),
	}
}

// Enqueue schedules out for publishing. Rejected outcomes are ignored.
func (r *BidRelay) Enqueue(ctx context.Context, out models.Outcome) {
	if !out.Accepted {
		return
	}
	evt := events.NewBidAccepted(out)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.log.WarnContext(ctx, "bid relay closed, event dropped", "event_id", evt.EventID, "item_id", evt.ItemID)
		return
	}
	select {
	case r.queue <- pending{ctx: context.WithoutCancel(ctx), evt: evt}:
	default:
		r.dropped.Add(1)
		r.log.ErrorContext(ctx, "bid relay buffer full, event dropped",
			"event_id", evt.EventID,
			"item_id", evt.ItemID,
			"buffer", cap(r.queue),
		)
	}
}

// Start launches the publishing goroutine.
func (r *BidRelay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	go r.run()
}

// Close stops accepting events and waits until every buffered event has
// been handed to the bus.
func (r *BidRelay) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	started := r.started
	r.mu.Unlock()

	if started {
		<-r.done
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (r *BidRelay) Dropped() int64 {
	return r.dropped.Load()
}

func (r *BidRelay) run() {
	defer close(r.done)
	for p := range r.queue {
		r.publish(p)
	}
}

func (r *BidRelay) publish(p pending) {
	msg, err := eventbus.NewJSONMessage(p.evt.EventID.String(), p.evt.Version, p.evt)
	if err != nil {
		r.log.ErrorContext(p.ctx, "bid relay encode failed", "event_id", p.evt.EventID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(p.ctx, publishTimeout)
	defer cancel()
	if err := r.pub.Publish(ctx, events.TopicBidAccepted, msg); err != nil {
		r.log.ErrorContext(ctx, "bid relay publish failed",
			"event_id", p.evt.EventID,
			"item_id", p.evt.ItemID,
			"error", err,
		)
		return
	}
	r.log.DebugContext(ctx, "bid event published", "event_id", p.evt.EventID, "item_id", p.evt.ItemID)
}
