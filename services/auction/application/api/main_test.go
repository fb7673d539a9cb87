package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ghuser/livebid/pkg/app"
	"github.com/ghuser/livebid/pkg/config"
	"github.com/ghuser/livebid/pkg/logger"
	"github.com/ghuser/livebid/services/auction/application/gateway"
)

func newTestModule(t *testing.T) *Module {
	t.Helper()
	m, err := New(&app.Application{
		Config: &config.Config{
			CORSAllowedOrigins:  "*",
			SeedAuctionDuration: 5 * time.Minute,
			SeedStagger:         time.Minute,
			BidHistorySize:      50,
		},
		Logger: logger.Discard(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func newServer(t *testing.T, m *Module) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Handle("/ws", m.WebsocketHandler())
	r.Route("/api", m.AuctionRoutes)
	m.LegacyRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes(t *testing.T) {
	srv := newServer(t, newTestModule(t))

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/items", http.StatusOK},
		{"/items", http.StatusOK},
		{"/api/items/item-1", http.StatusOK},
		{"/api/items/nope", http.StatusNotFound},
		{"/api/items/item-1/bids", http.StatusServiceUnavailable},
		{"/api/time", http.StatusOK},
		{"/time", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			resp.Body.Close() //nolint:errcheck
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
		})
	}
}

// TestRESTBidIsBroadcast verifies bids placed over HTTP reach websocket
// clients through the hub hook.
func TestRESTBidIsBroadcast(t *testing.T) {
	srv := newServer(t, newTestModule(t))

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close() //nolint:errcheck
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello gateway.Envelope
	if err := conn.ReadJSON(&hello); err != nil || hello.Event != gateway.EventConnected {
		t.Fatalf("expected CONNECTED, got %+v (%v)", hello, err)
	}

	resp, err := http.Post(srv.URL+"/api/items/item-2/bids", "application/json",
		strings.NewReader(`{"bidAmount":250,"bidderId":"rest-user"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var env gateway.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	if env.Event != gateway.EventUpdateBid {
		t.Fatalf("expected UPDATE_BID, got %s", env.Event)
	}
	var upd gateway.UpdateBidPayload
	if err := json.Unmarshal(env.Data, &upd); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if upd.ItemID != "item-2" || upd.CurrentBid != 250 || upd.HighestBidder != "rest-user" {
		t.Fatalf("unexpected update %+v", upd)
	}
}
