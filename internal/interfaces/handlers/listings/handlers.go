package listings

import (
	"strconv"

	listsvc "tessera-backend/internal/application/listings"
	"tessera-backend/internal/middleware"
	"tessera-backend/internal/pkg/apperrors"
	"tessera-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *listsvc.Service
}

type createListingRequest struct {
	PropertyID    string          `json:"property_id"`
	PricePerToken decimal.Decimal `json:"price_per_token"`
	TotalTokens   int64           `json:"total_tokens"`
	MinOrderUSDT  decimal.Decimal `json:"min_order_usdt"`
	MaxOrderUSDT  decimal.Decimal `json:"max_order_usdt"`
}

// CreateListing POST /api/v1/listings
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	sellerID := middleware.GetUserID(c)
	if sellerID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body createListingRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	propertyID, err := uuid.Parse(body.PropertyID)
	if err != nil {
		return apperrors.BadRequest("property_id is required")
	}

	listing, err := h.Service.CreateListing(c.Context(), listsvc.CreateListingInput{
		SellerID:      sellerID,
		PropertyID:    propertyID,
		PricePerToken: body.PricePerToken,
		TotalTokens:   body.TotalTokens,
		MinOrderUSDT:  body.MinOrderUSDT,
		MaxOrderUSDT:  body.MaxOrderUSDT,
	})
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Listing created", listing)
}

// GetActiveListings GET /api/v1/listings
func (h *Handlers) GetActiveListings(c *fiber.Ctx) error {
	q := listsvc.MarketplaceQuery{
		CallerID: middleware.GetUserID(c),
		Sort:     c.Query("sort"),
	}
	q.Page, _ = strconv.Atoi(c.Query("page", "1"))
	q.Limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if raw := c.Query("property_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.BadRequest("Invalid property_id")
		}
		q.PropertyID = &id
	}

	views, total, err := h.Service.GetActiveListings(c.Context(), q)
	if err != nil {
		return err
	}
	return response.Success(c, "Listings fetched", views, fiber.Map{
		"page":  q.Page,
		"limit": q.Limit,
		"total": total,
	})
}

// GetListing GET /api/v1/listings/:listing_id
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return apperrors.BadRequest("Invalid listing_id")
	}
	view, err := h.Service.GetListing(c.Context(), listingID, middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return response.Success(c, "Listing fetched", view, nil)
}

// GetMyListings GET /api/v1/listings/mine
func (h *Handlers) GetMyListings(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.GetMyListings(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, "Listings fetched", listings, nil)
}

// CancelListing POST /api/v1/listings/:listing_id/cancel
func (h *Handlers) CancelListing(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return apperrors.BadRequest("Invalid listing_id")
	}
	listing, err := h.Service.CancelListing(c.Context(), userID, listingID)
	if err != nil {
		return err
	}
	return response.Success(c, "Listing cancelled", listing, nil)
}

// GetAvailableTokens GET /api/v1/listings/available-tokens/:property_id
func (h *Handlers) GetAvailableTokens(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	propertyID, err := uuid.Parse(c.Params("property_id"))
	if err != nil {
		return apperrors.BadRequest("Invalid property_id")
	}
	available, err := h.Service.AvailableTokens(c.Context(), userID, propertyID)
	if err != nil {
		return err
	}
	return response.Success(c, "Available tokens fetched", fiber.Map{
		"property_id":      propertyID,
		"available_tokens": available,
	}, nil)
}
