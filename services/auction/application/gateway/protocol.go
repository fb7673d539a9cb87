package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	pkgvalidator "github.com/ghuser/livebid/pkg/validator"
	"github.com/ghuser/livebid/services/auction/domain/models"
)

// Wire event names.
const (
	EventBidPlaced   = "BID_PLACED"
	EventUpdateBid   = "UPDATE_BID"
	EventBidRejected = "BID_REJECTED"
	EventConnected   = "CONNECTED"
)

// TimeFormat is ISO-8601 in UTC with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// Envelope is the frame for every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// UpdateBidPayload is broadcast to every connection on an accepted bid.
type UpdateBidPayload struct {
	ItemID        string  `json:"itemId"`
	CurrentBid    float64 `json:"currentBid"`
	HighestBidder string  `json:"highestBidder"`
	ServerTime    string  `json:"serverTime"`
}

// BidRejectedPayload is sent only to the connection whose bid was rejected.
type BidRejectedPayload struct {
	Reason models.RejectReason `json:"reason"`
}

// ConnectedPayload greets a new connection.
type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
	ServerTime   string `json:"serverTime"`
}

// bidPlacedWire is the raw BID_PLACED payload. userId is the legacy name
// for bidderId.
type bidPlacedWire struct {
	ItemID    string     `json:"itemId"`
	BidAmount flexAmount `json:"bidAmount"`
	BidderID  string     `json:"bidderId"`
	UserID    string     `json:"userId"`
}

// bidPlaced is a BID_PLACED payload after normalization.
type bidPlaced struct {
	ItemID   string  `json:"itemId"    validate:"required"`
	Amount   float64 `json:"bidAmount" validate:"gt=0,finite"`
	BidderID string  `json:"bidderId"  validate:"required"`
}

var errMissingAmount = errors.New("bidAmount is required")

// flexAmount accepts a JSON number or a string holding a number.
type flexAmount struct {
	value float64
	set   bool
}

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("bidAmount %q is not a number", s)
		}
		a.value, a.set = f, true
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("bidAmount: %w", err)
	}
	a.value, a.set = f, true
	return nil
}

// parseBidPlaced decodes and shape-checks a BID_PLACED payload. Any error
// means the bid is answered with INVALID_BID and never reaches the service.
func parseBidPlaced(data json.RawMessage) (models.BidIntent, error) {
	if len(data) == 0 {
		return models.BidIntent{}, errors.New("missing payload")
	}
	var wire bidPlacedWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return models.BidIntent{}, fmt.Errorf("decode payload: %w", err)
	}
	if !wire.BidAmount.set {
		return models.BidIntent{}, errMissingAmount
	}

	bidder := strings.TrimSpace(wire.BidderID)
	if bidder == "" {
		bidder = strings.TrimSpace(wire.UserID)
	}
	bid := bidPlaced{
		ItemID:   strings.TrimSpace(wire.ItemID),
		Amount:   wire.BidAmount.value,
		BidderID: bidder,
	}
	if err := pkgvalidator.Validate(&bid); err != nil {
		return models.BidIntent{}, fmt.Errorf("validate payload: %w", err)
	}

	return models.BidIntent{ItemID: bid.ItemID, Amount: bid.Amount, BidderID: bid.BidderID}, nil
}

func encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

func updateBidFrame(out models.Outcome) ([]byte, error) {
	return encode(EventUpdateBid, UpdateBidPayload{
		ItemID:        out.Item.ID,
		CurrentBid:    out.Item.CurrentBid,
		HighestBidder: out.Item.HighestBidder,
		ServerTime:    FormatTime(out.ServerTime),
	})
}

func bidRejectedFrame(reason models.RejectReason) ([]byte, error) {
	return encode(EventBidRejected, BidRejectedPayload{Reason: reason})
}
