package handlers

import (
	"net/http"

	"github.com/ghuser/livebid/pkg/httpx"
	"github.com/ghuser/livebid/services/auction/application/gateway"
	appsvcs "github.com/ghuser/livebid/services/auction/application/services"
)

// TimeResponse carries the authoritative server clock.
type TimeResponse struct {
	ServerTime string `json:"serverTime" example:"2026-05-01T10:00:00.000Z"`
} // @name TimeResponse

// GetTimeHandler handles GET /time.
type GetTimeHandler struct {
	svc *appsvcs.Services
}

// NewGetTimeHandler returns a GetTimeHandler backed by the given services.
func NewGetTimeHandler(svc *appsvcs.Services) *GetTimeHandler {
	return &GetTimeHandler{svc: svc}
}

// Execute returns the server time clients use to correct countdown drift.
//
//	@Summary	Server time
//	@Tags		time
//	@Produce	json
//	@Success	200	{object}	TimeResponse
//	@Router		/time [get]
func (h *GetTimeHandler) Execute(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, TimeResponse{ServerTime: gateway.FormatTime(h.svc.Bids.Now())})
}
