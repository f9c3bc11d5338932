package trading

import (
	tradesvc "tessera-backend/internal/application/trading"
	"tessera-backend/internal/middleware"
	"tessera-backend/internal/pkg/apperrors"
	"tessera-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *tradesvc.Service
}

type buyRequest struct {
	ListingID   string `json:"listing_id"`
	TokensToBuy int64  `json:"tokens_to_buy"`
}

// BuyTokens POST /api/v1/trading/buy
func (h *Handlers) BuyTokens(c *fiber.Ctx) error {
	buyerID := middleware.GetUserID(c)
	if buyerID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body buyRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		return apperrors.BadRequest("listing_id is required")
	}

	result, err := h.Service.BuyTokens(c.Context(), buyerID, listingID, body.TokensToBuy)
	if err != nil {
		return err
	}
	return response.Success(c, "Purchase settled", result, nil)
}

// GetMyTrades GET /api/v1/trading/trades
func (h *Handlers) GetMyTrades(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	trades, err := h.Service.GetMyTrades(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, "Trades fetched", trades, nil)
}
