package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/livebid/pkg/errhttp"
	"github.com/ghuser/livebid/pkg/httpx"
	pkgvalidator "github.com/ghuser/livebid/pkg/validator"
	"github.com/ghuser/livebid/services/auction/application/gateway"
	appsvcs "github.com/ghuser/livebid/services/auction/application/services"
	"github.com/ghuser/livebid/services/auction/domain/models"
)

// PlaceBidRequest is the request body for POST /items/{id}/bids.
type PlaceBidRequest struct {
	BidAmount float64 `json:"bidAmount" validate:"gt=0,finite"       example:"5100"`
	BidderID  string  `json:"bidderId"  validate:"required,max=128"  example:"u1"`
} // @name PlaceBidRequest

// PlaceBidResponse reports the outcome of a bid.
type PlaceBidResponse struct {
	Accepted   bool          `json:"accepted"`
	Reason     string        `json:"reason,omitempty" example:"OUTBID"`
	Item       *ItemResponse `json:"item,omitempty"`
	ServerTime string        `json:"serverTime,omitempty" example:"2026-05-01T10:01:00.000Z"`
} // @name PlaceBidResponse

// PostBidHandler handles POST /items/{id}/bids.
type PostBidHandler struct {
	svc *appsvcs.Services
}

// NewPostBidHandler returns a PostBidHandler backed by the given services.
func NewPostBidHandler(svc *appsvcs.Services) *PostBidHandler {
	return &PostBidHandler{svc: svc}
}

// Execute places a bid through the same per-item queue as websocket bids.
// An accepted bid is broadcast to every websocket client.
//
//	@Summary		Place bid
//	@Tags			bids
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Item ID"
//	@Param			request	body		PlaceBidRequest	true	"Bid"
//	@Success		200		{object}	PlaceBidResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	PlaceBidResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items/{id}/bids [post]
func (h *PostBidHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[PlaceBidRequest](w, r)
	if !ok {
		return
	}
	bidderID := strings.TrimSpace(req.BidderID)
	if bidderID == "" {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "bidderId must not be blank")
		return
	}

	itemID := chi.URLParam(r, "id")
	if _, err := h.svc.Bids.GetItem(itemID); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out, err := h.svc.Bids.PlaceBid(r.Context(), models.BidIntent{
		ItemID:   itemID,
		Amount:   req.BidAmount,
		BidderID: bidderID,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	if !out.Accepted {
		httpx.JSON(w, http.StatusConflict, PlaceBidResponse{Reason: string(out.Reason)})
		return
	}
	item := toItemResponse(out.Item)
	httpx.JSON(w, http.StatusOK, PlaceBidResponse{
		Accepted:   true,
		Item:       &item,
		ServerTime: gateway.FormatTime(out.ServerTime),
	})
}
