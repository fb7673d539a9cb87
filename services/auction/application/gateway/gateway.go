// Package gateway is the websocket edge of the auction: it validates
// BID_PLACED messages, hands them to the bid service and routes outcomes
// back out through the Hub.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ghuser/livebid/pkg/logger"
	"github.com/ghuser/livebid/pkg/telemetry"
	"github.com/ghuser/livebid/services/auction/domain/models"
)

// BidPlacer applies a bid intent and reports the outcome. A non-nil error
// is an unexpected failure, not a rejection.
type BidPlacer interface {
	PlaceBid(ctx context.Context, intent models.BidIntent) (models.Outcome, error)
}

// Config tunes connection handling.
type Config struct {
	SendBuffer      int
	WriteWait       time.Duration
	PongWait        time.Duration
	MaxMessageBytes int64
	// CheckOrigin validates the Origin header on upgrade; nil allows all.
	CheckOrigin func(r *http.Request) bool
}

// Gateway serves the websocket endpoint.
type Gateway struct {
	hub      *Hub
	bids     BidPlacer
	log      logger.Logger
	metrics  *telemetry.AuctionMetrics
	cfg      Config
	upgrader websocket.Upgrader
	now      func() time.Time
}

// New returns a Gateway that places bids through bids and fans out via hub.
// Accepted bids are broadcast by hub.PublishAccepted, which must be
// installed as an accept hook on the bid service.
func New(hub *Hub, bids BidPlacer, log logger.Logger, metrics *telemetry.AuctionMetrics, cfg Config) *Gateway {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 256
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10 * time.Second
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = 60 * time.Second
	}
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Gateway{
		hub:     hub,
		bids:    bids,
		log:     log,
		metrics: metrics,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		now: time.Now,
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes.
// Inbound messages are handled one at a time, in arrival order.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WarnContext(r.Context(), "gateway: upgrade failed", "error", err)
		return
	}

	c := newClient(uuid.NewString(), conn, g.cfg.SendBuffer)
	ctx := logger.WithConnID(r.Context(), c.id)

	// The greeting is queued before the client is visible to broadcasts so
	// it is always the first frame on the connection.
	if welcome, err := encode(EventConnected, ConnectedPayload{
		ConnectionID: c.id,
		ServerTime:   FormatTime(g.now()),
	}); err == nil {
		c.send <- welcome
	}
	g.hub.register(c)
	g.metrics.ConnectionOpened(ctx)
	g.log.InfoContext(ctx, "gateway: client connected", "remote_addr", r.RemoteAddr)

	go c.writePump(g.cfg.WriteWait, g.pingPeriod())
	g.readPump(ctx, c)

	g.hub.unregister(c)
	g.metrics.ConnectionClosed(ctx)
	g.log.InfoContext(ctx, "gateway: client disconnected")
}

func (g *Gateway) pingPeriod() time.Duration {
	return g.cfg.PongWait * 9 / 10
}

func (g *Gateway) readPump(ctx context.Context, c *Client) {
	if g.cfg.MaxMessageBytes > 0 {
		c.conn.SetReadLimit(g.cfg.MaxMessageBytes)
	}
	extend := func() { _ = c.conn.SetReadDeadline(time.Now().Add(g.cfg.PongWait)) }
	extend()
	c.conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				g.log.WarnContext(ctx, "gateway: read failed", "error", err)
			}
			return
		}
		g.handleMessage(ctx, c.id, raw)
		extend()
	}
}

// handleMessage dispatches one inbound frame. It never panics.
func (g *Gateway) handleMessage(ctx context.Context, connID string, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.log.DebugContext(ctx, "gateway: malformed frame", "error", err)
		g.reject(ctx, connID, models.ReasonInvalidBid)
		return
	}

	switch env.Event {
	case EventBidPlaced:
		g.handleBidPlaced(ctx, connID, env.Data)
	default:
		g.log.DebugContext(ctx, "gateway: ignoring event", "event", env.Event)
	}
}

func (g *Gateway) handleBidPlaced(ctx context.Context, connID string, data json.RawMessage) {
	intent, err := parseBidPlaced(data)
	if err != nil {
		g.log.DebugContext(ctx, "gateway: invalid bid payload", "error", err)
		g.reject(ctx, connID, models.ReasonInvalidBid)
		return
	}

	out, err := g.placeBid(ctx, intent)
	if err != nil {
		g.log.ErrorContext(ctx, "gateway: bid processing failed",
			"item_id", intent.ItemID,
			"bidder_id", intent.BidderID,
			"error", err,
		)
		telemetry.CaptureBidFailure(ctx, err, intent.ItemID, intent.BidderID)
		g.reject(ctx, connID, models.ReasonInvalidBid)
		return
	}

	// Accepted outcomes were already broadcast from inside the item's turn.
	if !out.Accepted {
		g.reject(ctx, connID, out.Reason)
	}
}

// placeBid converts a panic anywhere below the gateway into an error.
func (g *Gateway) placeBid(ctx context.Context, intent models.BidIntent) (out models.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gateway: bid panicked: %v", r)
		}
	}()
	return g.bids.PlaceBid(ctx, intent)
}

func (g *Gateway) reject(ctx context.Context, connID string, reason models.RejectReason) {
	frame, err := bidRejectedFrame(reason)
	if err != nil {
		g.log.ErrorContext(ctx, "gateway: encode rejection", "error", err)
		return
	}
	g.hub.Send(Only(connID), frame)
}
