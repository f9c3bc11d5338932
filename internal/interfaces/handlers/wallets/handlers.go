package wallets

import (
	walletsvc "tessera-backend/internal/application/wallets"
	"tessera-backend/internal/middleware"
	"tessera-backend/internal/pkg/apperrors"
	"tessera-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *walletsvc.Service
}

// GetWallet GET /api/v1/wallet
func (h *Handlers) GetWallet(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	wallet, err := h.Service.GetWallet(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, "Wallet fetched", wallet, nil)
}

type depositRequest struct {
	AmountUSDT decimal.Decimal `json:"amount_usdt"`
}

// Deposit POST /api/v1/wallet/deposit
func (h *Handlers) Deposit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body depositRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	wallet, err := h.Service.Credit(c.Context(), userID, body.AmountUSDT)
	if err != nil {
		return err
	}
	return response.Success(c, "Deposit applied", wallet, nil)
}
