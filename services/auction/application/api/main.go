// Package api wires the auction bounded context onto the HTTP router.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/livebid/pkg/app"
	"github.com/ghuser/livebid/pkg/httpx"
	"github.com/ghuser/livebid/services/auction/application/gateway"
	"github.com/ghuser/livebid/services/auction/application/handlers"
	appsvcs "github.com/ghuser/livebid/services/auction/application/services"
)

// Module is the wired auction context: bid service, websocket hub and
// gateway.
type Module struct {
	Services *appsvcs.Services
	Hub      *gateway.Hub
	Gateway  *gateway.Gateway
}

// New wires the auction context. The hub's broadcast is installed as the
// first accept hook so UPDATE_BID frames leave in application order; extra
// hooks (the event relay) run after it.
func New(a *app.Application, hooks ...appsvcs.AcceptHook) (*Module, error) {
	hub := gateway.NewHub(a.Logger)

	svcs, err := appsvcs.New(a, append([]appsvcs.AcceptHook{hub.PublishAccepted}, hooks...)...)
	if err != nil {
		return nil, fmt.Errorf("auction services: %w", err)
	}

	gw := gateway.New(hub, svcs.Bids, a.Logger, a.Metrics, gateway.Config{
		SendBuffer:      a.Config.WSSendBuffer,
		WriteWait:       a.Config.WSWriteWait,
		PongWait:        a.Config.WSPongWait,
		MaxMessageBytes: a.Config.WSMaxMessageBytes,
		CheckOrigin:     httpx.OriginChecker(a.Config.CORSAllowedOrigins),
	})

	return &Module{Services: svcs, Hub: hub, Gateway: gw}, nil
}

// AuctionRoutes registers the REST endpoints on r, normally mounted at /api.
func (m *Module) AuctionRoutes(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", handlers.NewListItemsHandler(m.Services).Execute)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.NewGetItemHandler(m.Services).Execute)
			r.Get("/bids", handlers.NewGetItemBidsHandler(m.Services).Execute)
			r.Post("/bids", handlers.NewPostBidHandler(m.Services).Execute)
		})
	})
	r.Get("/time", handlers.NewGetTimeHandler(m.Services).Execute)
}

// LegacyRoutes registers the unprefixed GET /items and GET /time that older
// clients poll.
func (m *Module) LegacyRoutes(r chi.Router) {
	r.Get("/items", handlers.NewListItemsHandler(m.Services).Execute)
	r.Get("/time", handlers.NewGetTimeHandler(m.Services).Execute)
}

// WebsocketHandler serves the bidding websocket. Mount it outside the API
// middleware group; handler deadlines would cut long-lived connections.
func (m *Module) WebsocketHandler() http.Handler {
	return m.Gateway
}

// Close disconnects every websocket client.
func (m *Module) Close() {
	m.Hub.Close()
}
