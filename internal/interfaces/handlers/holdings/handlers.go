package holdings

import (
	holdsvc "tessera-backend/internal/application/holdings"
	"tessera-backend/internal/middleware"
	"tessera-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *holdsvc.Service
}

// GetPortfolio GET /api/v1/holdings
func (h *Handlers) GetPortfolio(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	positions, err := h.Service.GetPortfolio(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, "Portfolio fetched", positions, nil)
}
