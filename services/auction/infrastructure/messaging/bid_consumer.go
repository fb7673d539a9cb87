package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	eventbus "github.com/ghuser/livebid/pkg/events"
	"github.com/ghuser/livebid/pkg/logger"
	auctiondomain "github.com/ghuser/livebid/services/auction/domain"
	"github.com/ghuser/livebid/services/auction/domain/events"
)

// Recorder persists one accepted-bid event.
type Recorder interface {
	Record(ctx context.Context, evt events.BidAcceptedEvent) error
}

// NewBidAcceptedHandler returns the bus handler for TopicBidAccepted.
// Malformed events are logged and acknowledged; retrying them cannot help.
// Any other error is returned so the bus retries the message.
func NewBidAcceptedHandler(rec Recorder, log logger.Logger) eventbus.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := decodeBidAccepted(msg)
		if err == nil {
			err = rec.Record(ctx, evt)
		}
		if errors.Is(err, auctiondomain.ErrMalformedEvent) {
			log.ErrorContext(ctx, "dropping malformed bid event", "message_id", msg.UUID, "error", err)
			return nil
		}
		return err
	}
}

func decodeBidAccepted(msg *message.Message) (events.BidAcceptedEvent, error) {
	var evt events.BidAcceptedEvent
	if err := eventbus.DecodeJSON(msg, &evt); err != nil {
		return evt, fmt.Errorf("%w: %w", auctiondomain.ErrMalformedEvent, err)
	}
	switch {
	case evt.EventID == uuid.Nil:
		return evt, fmt.Errorf("%w: missing event_id", auctiondomain.ErrMalformedEvent)
	case evt.ItemID == "" || evt.BidderID == "":
		return evt, fmt.Errorf("%w: missing item_id or bidder_id", auctiondomain.ErrMalformedEvent)
	case evt.Version > events.BidAcceptedVersion:
		return evt, fmt.Errorf("%w: unsupported version %d", auctiondomain.ErrMalformedEvent, evt.Version)
	}
	return evt, nil
}
