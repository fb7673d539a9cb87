package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// BidHistoryTTL bounds how long an idle item's history is kept.
	BidHistoryTTL = 24 * time.Hour

	// bidSeenTTL is how long an applied event id is remembered for dedupe.
	bidSeenTTL = 24 * time.Hour

	bidKeyPrefix = "auction"
)

// BidEntry is one accepted bid in the read model.
type BidEntry struct {
	EventID    string    `json:"event_id"`
	ItemID     string    `json:"item_id"`
	BidderID   string    `json:"bidder_id"`
	Amount     float64   `json:"amount"`
	ServerTime time.Time `json:"server_time"`
}

// LatestBid is the highest bid the read model has seen for an item.
type LatestBid struct {
	Amount     float64
	BidderID   string
	ServerTime time.Time
}

// pushBidScript applies one entry atomically:
//
//	KEYS[1] seen marker, KEYS[2] history list, KEYS[3] latest hash
//	ARGV[1] entry json, ARGV[2] history size, ARGV[3] ttl seconds,
//	ARGV[4] amount, ARGV[5] bidder, ARGV[6] server time
//
// Returns 0 when the event was already applied.
var pushBidScript = redis.NewScript(`
if redis.call("SET", KEYS[1], "1", "NX", "EX", ARGV[3]) == false then
  return 0
end
redis.call("LPUSH", KEYS[2], ARGV[1])
redis.call("LTRIM", KEYS[2], 0, tonumber(ARGV[2]) - 1)
redis.call("EXPIRE", KEYS[2], ARGV[3])
local cur = redis.call("HGET", KEYS[3], "amount")
if cur == false or tonumber(ARGV[4]) > tonumber(cur) then
  redis.call("HSET", KEYS[3], "amount", ARGV[4], "bidder_id", ARGV[5], "server_time", ARGV[6])
end
redis.call("EXPIRE", KEYS[3], ARGV[3])
return 1
`)

// BidHistoryCache keeps a capped, newest-first list of accepted bids per
// item plus the highest bid seen. Keys:
//
//	auction:item:{itemID}:bids    list of BidEntry JSON
//	auction:item:{itemID}:latest  hash amount/bidder_id/server_time
//	auction:seen:{eventID}        dedupe marker
type BidHistoryCache struct {
	client *RedisClient
	size   int
}

// NewBidHistoryCache returns a BidHistoryCache keeping size entries per item.
func NewBidHistoryCache(r *RedisClient, size int) *BidHistoryCache {
	if size <= 0 {
		size = 50
	}
	return &BidHistoryCache{client: r, size: size}
}

// Push records entry. Re-pushing an event id that was already applied is a
// no-op, so redelivered events are safe. Reports whether the entry was new.
func (c *BidHistoryCache) Push(ctx context.Context, entry BidEntry) (bool, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("cache marshal bid: %w", err)
	}

	applied, err := pushBidScript.Run(ctx, c.client.Client(),
		[]string{seenKey(entry.EventID), historyKey(entry.ItemID), latestKey(entry.ItemID)},
		payload,
		c.size,
		int(BidHistoryTTL.Seconds()),
		strconv.FormatFloat(entry.Amount, 'f', -1, 64),
		entry.BidderID,
		entry.ServerTime.UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return false, fmt.Errorf("cache push bid: %w", err)
	}
	return applied == 1, nil
}

// Recent returns up to limit entries for itemID, newest first.
func (c *BidHistoryCache) Recent(ctx context.Context, itemID string, limit int) ([]BidEntry, error) {
	if limit <= 0 || limit > c.size {
		limit = c.size
	}
	raw, err := c.client.Client().LRange(ctx, historyKey(itemID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache recent bids: %w", err)
	}

	out := make([]BidEntry, 0, len(raw))
	for _, r := range raw {
		var e BidEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, fmt.Errorf("cache decode bid: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Latest returns the highest bid recorded for itemID.
// Returns redis.Nil when nothing has been recorded.
func (c *BidHistoryCache) Latest(ctx context.Context, itemID string) (*LatestBid, error) {
	vals, err := c.client.Client().HGetAll(ctx, latestKey(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache latest bid: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}

	amount, err := strconv.ParseFloat(vals["amount"], 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse amount: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, vals["server_time"])
	if err != nil {
		return nil, fmt.Errorf("cache parse server_time: %w", err)
	}
	return &LatestBid{Amount: amount, BidderID: vals["bidder_id"], ServerTime: at}, nil
}

// IsMiss reports whether err means the key does not exist.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}

func historyKey(itemID string) string {
	return fmt.Sprintf("%s:item:%s:bids", bidKeyPrefix, itemID)
}

func latestKey(itemID string) string {
	return fmt.Sprintf("%s:item:%s:latest", bidKeyPrefix, itemID)
}

func seenKey(eventID string) string {
	return fmt.Sprintf("%s:seen:%s", bidKeyPrefix, eventID)
}
