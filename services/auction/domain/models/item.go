package models

import "time"

// Item is an auction lot. ID, Title, StartingPrice and AuctionEndTime never
// change after seeding; CurrentBid and HighestBidder change together, only
// through an accepted bid.
type Item struct {
	ID             string
	Title          string
	StartingPrice  float64
	CurrentBid     float64
	HighestBidder  string // empty until the first accepted bid
	AuctionEndTime time.Time
}

// NewItem returns an unbid Item whose current bid equals its starting price.
func NewItem(id, title string, startingPrice float64, endTime time.Time) *Item {
	return &Item{
		ID:             id,
		Title:          title,
		StartingPrice:  startingPrice,
		CurrentBid:     startingPrice,
		AuctionEndTime: endTime.UTC(),
	}
}

// HasBidder reports whether any bid has been accepted for the item.
func (i Item) HasBidder() bool {
	return i.HighestBidder != ""
}

// EndedAt reports whether the auction is closed at now. The end instant
// itself counts as closed.
func (i Item) EndedAt(now time.Time) bool {
	return !now.Before(i.AuctionEndTime)
}
