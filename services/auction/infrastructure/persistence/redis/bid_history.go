// Package redis adapts the Redis bid history cache to the auction domain.
package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/livebid/pkg/cache"
	auctiondomain "github.com/ghuser/livebid/services/auction/domain"
	"github.com/ghuser/livebid/services/auction/domain/events"
)

// BidHistory implements repositories.BidHistory on cache.BidHistoryCache.
type BidHistory struct {
	cache *cache.BidHistoryCache
}

// NewBidHistory returns a BidHistory backed by c.
func NewBidHistory(c *cache.BidHistoryCache) *BidHistory {
	return &BidHistory{cache: c}
}

// Push adds evt to its item's history. Replays are ignored.
func (h *BidHistory) Push(ctx context.Context, evt events.BidAcceptedEvent) error {
	if _, err := h.cache.Push(ctx, toEntry(evt)); err != nil {
		return fmt.Errorf("push bid %s: %w", evt.EventID, err)
	}
	return nil
}

// Recent returns up to limit bids for itemID, newest first.
func (h *BidHistory) Recent(ctx context.Context, itemID string, limit int) ([]events.BidAcceptedEvent, error) {
	entries, err := h.cache.Recent(ctx, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent bids for %s: %w", itemID, err)
	}
	out := make([]events.BidAcceptedEvent, 0, len(entries))
	for _, e := range entries {
		evt, err := fromEntry(e)
		if err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, nil
}

func toEntry(evt events.BidAcceptedEvent) cache.BidEntry {
	return cache.BidEntry{
		EventID:    evt.EventID.String(),
		ItemID:     evt.ItemID,
		BidderID:   evt.BidderID,
		Amount:     evt.Amount,
		ServerTime: evt.ServerTime,
	}
}

func fromEntry(e cache.BidEntry) (events.BidAcceptedEvent, error) {
	id, err := uuid.Parse(e.EventID)
	if err != nil {
		return events.BidAcceptedEvent{}, fmt.Errorf("%w: event id %q", auctiondomain.ErrMalformedEvent, e.EventID)
	}
	return events.BidAcceptedEvent{
		EventID:    id,
		Version:    events.BidAcceptedVersion,
		ItemID:     e.ItemID,
		BidderID:   e.BidderID,
		Amount:     e.Amount,
		ServerTime: e.ServerTime.UTC(),
	}, nil
}
