package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/livebid/pkg/database"
	auctiondomain "github.com/ghuser/livebid/services/auction/domain"
	"github.com/ghuser/livebid/services/auction/domain/events"
)

const (
	insertBidSQL = `
INSERT INTO auction_bids (event_id, item_id, bidder_id, amount, server_time, version)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (event_id) DO NOTHING`

	recentBidsSQL = `
SELECT event_id, item_id, bidder_id, amount, server_time, version
FROM auction_bids
WHERE item_id = $1
ORDER BY server_time DESC, amount DESC
LIMIT $2`

	pgCheckViolation = "23514"
)

// BidArchive implements repositories.BidArchive on the auction_bids table.
type BidArchive struct {
	db *database.Database
}

// NewBidArchive returns a BidArchive on the given pool.
func NewBidArchive(db *database.Database) *BidArchive {
	return &BidArchive{db: db}
}

// Record inserts evt. Replaying an already archived event is a no-op.
// An event the schema refuses (non-positive amount) is ErrMalformedEvent and
// will never succeed on retry.
func (a *BidArchive) Record(ctx context.Context, evt events.BidAcceptedEvent) error {
	return a.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertBidSQL,
			evt.EventID, evt.ItemID, evt.BidderID, evt.Amount, evt.ServerTime, evt.Version)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
				return fmt.Errorf("%w: %s", auctiondomain.ErrMalformedEvent, pgErr.Message)
			}
			return fmt.Errorf("insert bid %s: %w", evt.EventID, err)
		}
		return nil
	})
}

// Recent returns up to limit archived bids for itemID, newest first.
func (a *BidArchive) Recent(ctx context.Context, itemID string, limit int) ([]events.BidAcceptedEvent, error) {
	rows, err := a.db.DB().QueryContext(ctx, recentBidsSQL, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("query bids: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []events.BidAcceptedEvent
	for rows.Next() {
		var evt events.BidAcceptedEvent
		if err := rows.Scan(&evt.EventID, &evt.ItemID, &evt.BidderID, &evt.Amount, &evt.ServerTime, &evt.Version); err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		evt.ServerTime = evt.ServerTime.UTC()
		out = append(out, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bids: %w", err)
	}
	return out, nil
}
