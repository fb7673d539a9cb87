package gateway

import (
	"context"
	"sync"

	"github.com/ghuser/livebid/pkg/logger"
	"github.com/ghuser/livebid/services/auction/domain/models"
)

// Destination selects the connections a frame is sent to.
type Destination struct {
	everyone bool
	connID   string
}

// Everyone addresses every connected client, the sender included.
func Everyone() Destination { return Destination{everyone: true} }

// Only addresses a single connection.
func Only(connID string) Destination { return Destination{connID: connID} }

// Hub tracks live connections and fans frames out to them. Sends never
// block: a client whose buffer is full is disconnected.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     logger.Logger
}

// NewHub returns an empty Hub.
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// unregister removes c and closes its send buffer. Safe to call repeatedly.
func (h *Hub) unregister(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.id]; !ok || cur != c {
		return false
	}
	delete(h.clients, c.id)
	close(c.send)
	return true
}

// Send queues frame for dest and returns how many clients it was queued for.
func (h *Hub) Send(dest Destination, frame []byte) int {
	var (
		delivered int
		slow      []*Client
	)

	h.mu.RLock()
	if dest.everyone {
		for _, c := range h.clients {
			if c.enqueue(frame) {
				delivered++
			} else {
				slow = append(slow, c)
			}
		}
	} else if c, ok := h.clients[dest.connID]; ok {
		if c.enqueue(frame) {
			delivered++
		} else {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		if h.unregister(c) {
			h.log.Warn("gateway: send buffer full, dropping connection", "conn_id", c.id)
		}
	}
	return delivered
}

// PublishAccepted broadcasts UPDATE_BID for an accepted outcome. It is
// installed as a bid service accept hook so broadcasts for one item leave
// in the order the bids were applied.
func (h *Hub) PublishAccepted(ctx context.Context, out models.Outcome) {
	frame, err := updateBidFrame(out)
	if err != nil {
		h.log.ErrorContext(ctx, "gateway: encode update", "item_id", out.Item.ID, "error", err)
		return
	}
	n := h.Send(Everyone(), frame)
	h.log.DebugContext(ctx, "gateway: update broadcast",
		"item_id", out.Item.ID,
		"current_bid", out.Item.CurrentBid,
		"recipients", n,
	)
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client. Their writers send a close frame after
// draining what is already queued.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}
