package repositories

import (
	"context"
	"time"

	"github.com/ghuser/livebid/services/auction/domain/events"
	"github.com/ghuser/livebid/services/auction/domain/models"
)

// AuctionStore owns authoritative item state. The domain layer owns this
// interface; infrastructure implements it.
type AuctionStore interface {
	// AttemptBid applies one bid as an indivisible step using the supplied
	// server time. Rejections are returned as Outcome values, never errors.
	// Callers must not run two AttemptBid calls for the same item at once.
	AttemptBid(itemID string, amount float64, bidderID string, now time.Time) models.Outcome

	// ListAll returns item snapshots in seeding order. Snapshots are not
	// linearized with in-flight bids.
	ListAll() []models.Item

	// Get returns a snapshot of one item or ErrItemNotFound.
	Get(itemID string) (models.Item, error)
}

// BidReader lists recently accepted bids for an item, newest first.
type BidReader interface {
	Recent(ctx context.Context, itemID string, limit int) ([]events.BidAcceptedEvent, error)
}

// BidArchive durably records accepted bids. Record is idempotent on EventID.
type BidArchive interface {
	BidReader
	Record(ctx context.Context, evt events.BidAcceptedEvent) error
}

// BidHistory is the capped read model of recent bids per item. Push is
// idempotent on EventID.
type BidHistory interface {
	BidReader
	Push(ctx context.Context, evt events.BidAcceptedEvent) error
}
