// Package memory holds the process-local, authoritative auction state.
package memory

import (
	"fmt"
	"sync"
	"time"

	auctiondomain "github.com/ghuser/livebid/services/auction/domain"
	"github.com/ghuser/livebid/services/auction/domain/models"
	domainsvcs "github.com/ghuser/livebid/services/auction/domain/services"
)

// record guards one item's mutable fields so readers never see a current
// bid without its matching bidder.
type record struct {
	mu   sync.Mutex
	item models.Item
}

// Store implements repositories.AuctionStore in memory. Items are only added
// through Seed and never removed.
type Store struct {
	mu    sync.RWMutex
	items map[string]*record
	order []string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{items: make(map[string]*record)}
}

// Seed validates and adds items in order. Nothing is added if any item is
// invalid or duplicates an existing id.
func (s *Store) Seed(items ...*models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := domainsvcs.ValidateItemForSeeding(item); err != nil {
			return fmt.Errorf("%w: %w", auctiondomain.ErrInvalidItem, err)
		}
		if _, ok := s.items[item.ID]; ok {
			return fmt.Errorf("%w: %s", auctiondomain.ErrDuplicateItem, item.ID)
		}
		if _, ok := seen[item.ID]; ok {
			return fmt.Errorf("%w: %s", auctiondomain.ErrDuplicateItem, item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	for _, item := range items {
		s.items[item.ID] = &record{item: *item}
		s.order = append(s.order, item.ID)
	}
	return nil
}

// AttemptBid applies the bid transition for one item:
//   - unknown item: INVALID_BID, nothing is created
//   - now at or after the end time: AUCTION_ENDED
//   - amount not strictly above the current bid: OUTBID
//
// Otherwise the current bid and highest bidder are replaced together.
func (s *Store) AttemptBid(itemID string, amount float64, bidderID string, now time.Time) models.Outcome {
	s.mu.RLock()
	rec, ok := s.items[itemID]
	s.mu.RUnlock()
	if !ok {
		return models.Reject(models.ReasonInvalidBid)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.item.EndedAt(now) {
		return models.Reject(models.ReasonAuctionEnded)
	}
	if amount <= rec.item.CurrentBid {
		return models.Reject(models.ReasonOutbid)
	}

	rec.item.CurrentBid = amount
	rec.item.HighestBidder = bidderID
	return models.Accept(rec.item, now)
}

// ListAll returns snapshots of every item in seeding order.
func (s *Store) ListAll() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].snapshot())
	}
	return out
}

// Get returns a snapshot of one item.
func (s *Store) Get(itemID string) (models.Item, error) {
	s.mu.RLock()
	rec, ok := s.items[itemID]
	s.mu.RUnlock()
	if !ok {
		return models.Item{}, fmt.Errorf("get %s: %w", itemID, auctiondomain.ErrItemNotFound)
	}
	return rec.snapshot(), nil
}

// Len returns the number of seeded items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (r *record) snapshot() models.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.item
}
