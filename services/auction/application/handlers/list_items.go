package handlers

import (
	"net/http"

	"github.com/ghuser/livebid/pkg/httpx"
	appsvcs "github.com/ghuser/livebid/services/auction/application/services"
)

// ListItemsHandler handles GET /items.
type ListItemsHandler struct {
	svc *appsvcs.Services
}

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services) *ListItemsHandler {
	return &ListItemsHandler{svc: svc}
}

// Execute lists every auction item in catalogue order.
//
//	@Summary		List items
//	@Description	Returns a snapshot of every auction item in catalogue order
//	@Tags			items
//	@Produce		json
//	@Success		200	{array}	ItemResponse
//	@Router			/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, _ *http.Request) {
	items := h.svc.Bids.ListItems()
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	httpx.JSON(w, http.StatusOK, out)
}
