package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghuser/livebid/pkg/logger"
	"github.com/ghuser/livebid/services/auction/domain/events"
	"github.com/ghuser/livebid/services/auction/domain/repositories"
)

// BidRecorder projects accepted-bid events into the durable archive and the
// recent-bids read model. Either side may be nil when not configured.
type BidRecorder struct {
	archive repositories.BidArchive
	history repositories.BidHistory
	log     logger.Logger
}

// NewBidRecorder returns a BidRecorder writing to archive and history.
func NewBidRecorder(archive repositories.BidArchive, history repositories.BidHistory, log logger.Logger) *BidRecorder {
	return &BidRecorder{archive: archive, history: history, log: log}
}

// Record archives evt, then pushes it to the read model. Both writes are
// idempotent on the event id, so a redelivered event is safe to record
// again. The archive goes first: a bid visible in history is always durable.
func (r *BidRecorder) Record(ctx context.Context, evt events.BidAcceptedEvent) error {
	if r.archive != nil {
		if err := r.archive.Record(ctx, evt); err != nil {
			return fmt.Errorf("archive bid: %w", err)
		}
	}
	if r.history != nil {
		if err := r.history.Push(ctx, evt); err != nil {
			return fmt.Errorf("push bid history: %w", err)
		}
	}
	r.log.DebugContext(ctx, "bid recorded",
		"event_id", evt.EventID,
		"item_id", evt.ItemID,
		"amount", evt.Amount,
	)
	return nil
}

// Enabled reports whether any sink is configured.
func (r *BidRecorder) Enabled() bool {
	return r.archive != nil || r.history != nil
}

// errNoSinks is returned by NewWorker when neither Postgres nor Redis is configured.
var errNoSinks = errors.New("bid recorder has no sinks configured")
