package models

import "time"

// RejectReason is the wire value sent in BID_REJECTED.
type RejectReason string

const (
	ReasonOutbid       RejectReason = "OUTBID"
	ReasonAuctionEnded RejectReason = "AUCTION_ENDED"
	ReasonInvalidBid   RejectReason = "INVALID_BID"
)

// BidIntent is an unapplied request to raise an item's price.
type BidIntent struct {
	ItemID   string
	Amount   float64
	BidderID string
}

// Outcome is the result of a bid transition. Rejections are ordinary values.
type Outcome struct {
	Accepted bool
	Reason   RejectReason // set when !Accepted

	// Item and ServerTime are set when Accepted.
	Item       Item
	ServerTime time.Time
}

// Accept returns an accepted Outcome carrying the post-bid snapshot.
func Accept(item Item, now time.Time) Outcome {
	return Outcome{Accepted: true, Item: item, ServerTime: now.UTC()}
}

// Reject returns a rejected Outcome.
func Reject(reason RejectReason) Outcome {
	return Outcome{Reason: reason}
}

// Label is the outcome name used in logs and metrics.
func (o Outcome) Label() string {
	if o.Accepted {
		return "ACCEPTED"
	}
	return string(o.Reason)
}
