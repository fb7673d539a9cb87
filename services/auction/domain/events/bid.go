package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/livebid/services/auction/domain/models"
)

// TopicBidAccepted is the Watermill topic published for every accepted bid.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicBidAccepted).
const TopicBidAccepted = "bid.accepted"

// BidAcceptedVersion is the current schema version of BidAcceptedEvent.
const BidAcceptedVersion = 1

// BidAcceptedEvent is published after a bid has been applied to an item.
type BidAcceptedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID     string    `json:"item_id"`
	BidderID   string    `json:"bidder_id"`
	Amount     float64   `json:"amount"`
	ServerTime time.Time `json:"server_time"`
}

// NewBidAccepted builds the event for an accepted outcome.
func NewBidAccepted(out models.Outcome) BidAcceptedEvent {
	return BidAcceptedEvent{
		EventID:    uuid.New(),
		Version:    BidAcceptedVersion,
		ItemID:     out.Item.ID,
		BidderID:   out.Item.HighestBidder,
		Amount:     out.Item.CurrentBid,
		ServerTime: out.ServerTime,
	}
}
