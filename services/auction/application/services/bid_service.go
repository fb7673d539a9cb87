package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/livebid/pkg/keyqueue"
	"github.com/ghuser/livebid/pkg/logger"
	"github.com/ghuser/livebid/pkg/telemetry"
	"github.com/ghuser/livebid/services/auction/domain/models"
	"github.com/ghuser/livebid/services/auction/domain/repositories"
)

// AcceptHook observes accepted outcomes. Hooks run inside the item's
// exclusive turn, so for one item they see outcomes in the order bids were
// applied. A hook must return quickly and never block.
type AcceptHook func(ctx context.Context, out models.Outcome)

// BidService is the orchestration boundary between transport and the store:
// it stamps each bid with server time on arrival and applies it through the
// per-item serializer.
type BidService struct {
	store   repositories.AuctionStore
	queue   *keyqueue.Serializer
	log     logger.Logger
	metrics *telemetry.AuctionMetrics
	now     func() time.Time
	hooks   []AcceptHook
}

// Option configures a BidService.
type Option func(*BidService)

// WithClock replaces the process-wide time source. Tests only.
func WithClock(now func() time.Time) Option {
	return func(s *BidService) { s.now = now }
}

// WithAcceptHook appends a hook run for every accepted bid.
func WithAcceptHook(h AcceptHook) Option {
	return func(s *BidService) { s.hooks = append(s.hooks, h) }
}

// WithMetrics records bid outcomes and queue wait on m.
func WithMetrics(m *telemetry.AuctionMetrics) Option {
	return func(s *BidService) { s.metrics = m }
}

// NewBidService returns a BidService applying bids to store through queue.
func NewBidService(store repositories.AuctionStore, queue *keyqueue.Serializer, log logger.Logger, opts ...Option) *BidService {
	s := &BidService{
		store: store,
		queue: queue,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceBid applies intent to its item once every bid submitted earlier for
// the same item has finished. The auction-ended check uses the time the bid
// arrived here, not the time it reached the front of the queue.
//
// ctx carries logging and tracing values only; a submitted bid is never
// cancelled. Domain rejections are returned as Outcomes with a nil error.
// A non-nil error means the transition itself failed unexpectedly.
func (s *BidService) PlaceBid(ctx context.Context, intent models.BidIntent) (models.Outcome, error) {
	now := s.now().UTC()
	arrived := time.Now()
	var (
		out  models.Outcome
		wait time.Duration
	)

	err := s.queue.Do(intent.ItemID, func() error {
		wait = time.Since(arrived)
		out = s.store.AttemptBid(intent.ItemID, intent.Amount, intent.BidderID, now)
		if out.Accepted {
			s.runHooks(ctx, out)
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordBid(ctx, "ERROR", wait)
		s.log.ErrorContext(ctx, "bid transition failed",
			"item_id", intent.ItemID,
			"bidder_id", intent.BidderID,
			"amount", intent.Amount,
			"error", err,
		)
		return models.Reject(models.ReasonInvalidBid), fmt.Errorf("place bid on %s: %w", intent.ItemID, err)
	}

	s.metrics.RecordBid(ctx, out.Label(), wait)
	if out.Accepted {
		s.log.InfoContext(ctx, "bid accepted",
			"item_id", intent.ItemID,
			"bidder_id", intent.BidderID,
			"outcome", out.Label(),
			"current_bid", out.Item.CurrentBid,
		)
	} else {
		s.log.InfoContext(ctx, "bid rejected",
			"item_id", intent.ItemID,
			"bidder_id", intent.BidderID,
			"outcome", out.Label(),
			"amount", intent.Amount,
		)
	}
	return out, nil
}

// runHooks invokes every accept hook. A panicking hook is logged and does
// not affect the outcome or the hooks after it.
func (s *BidService) runHooks(ctx context.Context, out models.Outcome) {
	for i, h := range s.hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.ErrorContext(ctx, "accept hook panicked",
						"hook", i,
						"item_id", out.Item.ID,
						"error", r,
					)
				}
			}()
			h(ctx, out)
		}()
	}
}

// ListItems returns item snapshots in seeding order.
func (s *BidService) ListItems() []models.Item {
	return s.store.ListAll()
}

// GetItem returns one item snapshot or domain.ErrItemNotFound.
func (s *BidService) GetItem(itemID string) (models.Item, error) {
	item, err := s.store.Get(itemID)
	if err != nil {
		return models.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Now returns the authoritative server time.
func (s *BidService) Now() time.Time {
	return s.now().UTC()
}
