package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/livebid/pkg/errhttp"
	"github.com/ghuser/livebid/pkg/httpx"
	appsvcs "github.com/ghuser/livebid/services/auction/application/services"
)

// GetItemBidsHandler handles GET /items/{id}/bids.
type GetItemBidsHandler struct {
	svc *appsvcs.Services
}

// NewGetItemBidsHandler returns a GetItemBidsHandler backed by the given services.
func NewGetItemBidsHandler(svc *appsvcs.Services) *GetItemBidsHandler {
	return &GetItemBidsHandler{svc: svc}
}

// Execute lists recently accepted bids for an item, newest first. The
// history is eventually consistent with the live item.
//
//	@Summary		Item bid history
//	@Tags			items
//	@Produce		json
//	@Param			id		path		string	true	"Item ID"
//	@Param			limit	query		int		false	"Max entries"
//	@Success		200		{array}		BidResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/items/{id}/bids [get]
func (h *GetItemBidsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if h.svc.History == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "bid history is not configured")
		return
	}

	limit := h.svc.HistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n < limit {
			limit = n
		}
	}

	itemID := chi.URLParam(r, "id")
	if _, err := h.svc.Bids.GetItem(itemID); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	bids, err := h.svc.History.Recent(r.Context(), itemID, limit)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, toBidResponse(b))
	}
	httpx.JSON(w, http.StatusOK, out)
}
