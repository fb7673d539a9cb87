package handlers

import (
	"github.com/ghuser/livebid/services/auction/application/gateway"
	"github.com/ghuser/livebid/services/auction/domain/events"
	"github.com/ghuser/livebid/services/auction/domain/models"
)

// ItemResponse is the public snapshot of an auction item.
type ItemResponse struct {
	ID             string  `json:"id"             example:"item-1"`
	Title          string  `json:"title"          example:"Vintage Rolex Submariner"`
	StartingPrice  float64 `json:"startingPrice"  example:"5000"`
	CurrentBid     float64 `json:"currentBid"     example:"5100"`
	HighestBidder  *string `json:"highestBidder"  example:"u1"`
	AuctionEndTime string  `json:"auctionEndTime" example:"2026-05-01T10:05:00.000Z"`
} // @name ItemResponse

// BidResponse is one accepted bid from the history.
type BidResponse struct {
	EventID    string  `json:"eventId"    example:"123e4567-e89b-12d3-a456-426614174000"`
	BidderID   string  `json:"bidderId"   example:"u1"`
	Amount     float64 `json:"amount"     example:"5100"`
	ServerTime string  `json:"serverTime" example:"2026-05-01T10:01:00.000Z"`
} // @name BidResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"auction item not found"`
} // @name ErrorResponse

func toItemResponse(item models.Item) ItemResponse {
	resp := ItemResponse{
		ID:             item.ID,
		Title:          item.Title,
		StartingPrice:  item.StartingPrice,
		CurrentBid:     item.CurrentBid,
		AuctionEndTime: gateway.FormatTime(item.AuctionEndTime),
	}
	if item.HasBidder() {
		bidder := item.HighestBidder
		resp.HighestBidder = &bidder
	}
	return resp
}

func toBidResponse(evt events.BidAcceptedEvent) BidResponse {
	return BidResponse{
		EventID:    evt.EventID.String(),
		BidderID:   evt.BidderID,
		Amount:     evt.Amount,
		ServerTime: gateway.FormatTime(evt.ServerTime),
	}
}
