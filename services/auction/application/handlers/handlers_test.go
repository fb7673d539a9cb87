package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/livebid/pkg/keyqueue"
	"github.com/ghuser/livebid/pkg/logger"
	appsvcs "github.com/ghuser/livebid/services/auction/application/services"
	"github.com/ghuser/livebid/services/auction/domain/events"
	"github.com/ghuser/livebid/services/auction/domain/models"
	"github.com/ghuser/livebid/services/auction/infrastructure/memory"
)

var (
	t0    = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	endAt = t0.Add(5 * time.Minute)
)

type stubHistory struct {
	bids      []events.BidAcceptedEvent
	err       error
	lastLimit int
}

func (s *stubHistory) Recent(_ context.Context, _ string, limit int) ([]events.BidAcceptedEvent, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	if len(s.bids) > limit {
		return s.bids[:limit], nil
	}
	return s.bids, nil
}

func newTestServices(t *testing.T, now time.Time, history *stubHistory) *appsvcs.Services {
	t.Helper()
	store := memory.NewStore()
	if err := store.Seed(
		models.NewItem("item-1", "Vintage Rolex Submariner", 5000, endAt),
		models.NewItem("item-2", "Limited Art Print", 200, endAt.Add(time.Minute)),
	); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svcs := &appsvcs.Services{
		Bids:         appsvcs.NewBidService(store, keyqueue.New(), logger.Discard(), appsvcs.WithClock(func() time.Time { return now })),
		HistoryLimit: 2,
	}
	if history != nil {
		svcs.History = history
	}
	return svcs
}

func newRouter(svcs *appsvcs.Services) http.Handler {
	r := chi.NewRouter()
	r.Get("/items", NewListItemsHandler(svcs).Execute)
	r.Get("/items/{id}", NewGetItemHandler(svcs).Execute)
	r.Get("/items/{id}/bids", NewGetItemBidsHandler(svcs).Execute)
	r.Post("/items/{id}/bids", NewPostBidHandler(svcs).Execute)
	r.Get("/time", NewGetTimeHandler(svcs).Execute)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestListItems(t *testing.T) {
	h := newRouter(newTestServices(t, t0, nil))

	rr := do(t, h, http.MethodGet, "/items", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var raw []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) != 2 || raw[0]["id"] != "item-1" || raw[1]["id"] != "item-2" {
		t.Fatalf("unexpected items %v", raw)
	}
	if v, ok := raw[0]["highestBidder"]; !ok || v != nil {
		t.Errorf("highestBidder must be present and null, got %v (present=%v)", v, ok)
	}
	if raw[0]["auctionEndTime"] != "2026-05-01T10:05:00.000Z" {
		t.Errorf("auctionEndTime = %v", raw[0]["auctionEndTime"])
	}
}

func TestGetItem(t *testing.T) {
	h := newRouter(newTestServices(t, t0, nil))

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/items/item-2", http.StatusOK},
		{"/items/item-404", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := do(t, h, http.MethodGet, tt.path, "")
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestGetTime(t *testing.T) {
	h := newRouter(newTestServices(t, t0.Add(1500*time.Millisecond), nil))

	got := decode[TimeResponse](t, do(t, h, http.MethodGet, "/time", ""))
	if got.ServerTime != "2026-05-01T10:00:01.500Z" {
		t.Fatalf("serverTime = %q", got.ServerTime)
	}
}

func TestPostBid(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		path       string
		body       string
		wantStatus int
		wantReason string
	}{
		{"accepted", t0, "/items/item-1/bids", `{"bidAmount":5100,"bidderId":"u1"}`, http.StatusOK, ""},
		{"tie is outbid", t0, "/items/item-1/bids", `{"bidAmount":5000,"bidderId":"u1"}`, http.StatusConflict, "OUTBID"},
		{"at end time", endAt, "/items/item-1/bids", `{"bidAmount":9000,"bidderId":"u1"}`, http.StatusConflict, "AUCTION_ENDED"},
		{"unknown item", t0, "/items/item-404/bids", `{"bidAmount":9000,"bidderId":"u1"}`, http.StatusNotFound, ""},
		{"negative amount", t0, "/items/item-1/bids", `{"bidAmount":-1,"bidderId":"u1"}`, http.StatusUnprocessableEntity, ""},
		{"blank bidder", t0, "/items/item-1/bids", `{"bidAmount":9000,"bidderId":"   "}`, http.StatusUnprocessableEntity, ""},
		{"bad json", t0, "/items/item-1/bids", `{`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRouter(newTestServices(t, tt.now, nil))
			rr := do(t, h, http.MethodPost, tt.path, tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if tt.wantReason != "" {
				if got := decode[PlaceBidResponse](t, rr); got.Accepted || got.Reason != tt.wantReason {
					t.Errorf("unexpected response %+v", got)
				}
			}
		})
	}
}

func TestPostBid_UpdatesItem(t *testing.T) {
	h := newRouter(newTestServices(t, t0, nil))

	got := decode[PlaceBidResponse](t, do(t, h, http.MethodPost, "/items/item-1/bids", `{"bidAmount":5100,"bidderId":"u1"}`))
	if !got.Accepted || got.Item == nil || got.Item.CurrentBid != 5100 || got.Item.HighestBidder == nil || *got.Item.HighestBidder != "u1" {
		t.Fatalf("unexpected response %+v", got)
	}
	if got.ServerTime != "2026-05-01T10:00:00.000Z" {
		t.Errorf("serverTime = %q", got.ServerTime)
	}

	item := decode[ItemResponse](t, do(t, h, http.MethodGet, "/items/item-1", ""))
	if item.CurrentBid != 5100 {
		t.Errorf("item not updated: %+v", item)
	}
}

func TestGetItemBids(t *testing.T) {
	bids := []events.BidAcceptedEvent{
		{EventID: uuid.New(), ItemID: "item-1", BidderID: "u2", Amount: 5200, ServerTime: t0.Add(2 * time.Second)},
		{EventID: uuid.New(), ItemID: "item-1", BidderID: "u1", Amount: 5100, ServerTime: t0.Add(time.Second)},
		{EventID: uuid.New(), ItemID: "item-1", BidderID: "u3", Amount: 5050, ServerTime: t0},
	}

	tests := []struct {
		name       string
		history    *stubHistory
		path       string
		wantStatus int
		wantLen    int
		wantLimit  int
	}{
		{"default limit", &stubHistory{bids: bids}, "/items/item-1/bids", http.StatusOK, 2, 2},
		{"smaller limit", &stubHistory{bids: bids}, "/items/item-1/bids?limit=1", http.StatusOK, 1, 1},
		{"limit capped", &stubHistory{bids: bids}, "/items/item-1/bids?limit=500", http.StatusOK, 2, 2},
		{"bad limit", &stubHistory{bids: bids}, "/items/item-1/bids?limit=x", http.StatusBadRequest, 0, 0},
		{"unknown item", &stubHistory{bids: bids}, "/items/item-404/bids", http.StatusNotFound, 0, 0},
		{"backend down", &stubHistory{err: errors.New("redis down")}, "/items/item-1/bids", http.StatusInternalServerError, 0, 2},
		{"not configured", nil, "/items/item-1/bids", http.StatusServiceUnavailable, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRouter(newTestServices(t, t0, tt.history))
			rr := do(t, h, http.MethodGet, tt.path, "")
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if tt.history != nil && tt.history.lastLimit != tt.wantLimit {
				t.Errorf("limit passed = %d, want %d", tt.history.lastLimit, tt.wantLimit)
			}
			if rr.Code != http.StatusOK {
				return
			}
			got := decode[[]BidResponse](t, rr)
			if len(got) != tt.wantLen {
				t.Fatalf("expected %d bids, got %d", tt.wantLen, len(got))
			}
			if got[0].Amount != 5200 || got[0].ServerTime != "2026-05-01T10:00:02.000Z" {
				t.Errorf("unexpected first bid %+v", got[0])
			}
		})
	}
}
