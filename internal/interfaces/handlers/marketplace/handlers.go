package marketplace

import (
	mktsvc "tessera-backend/internal/application/marketplace"
	"tessera-backend/internal/pkg/apperrors"
	"tessera-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *mktsvc.Service
}

// GetProperties GET /api/v1/properties
func (h *Handlers) GetProperties(c *fiber.Ctx) error {
	properties, err := h.Service.GetProperties(c.Context(), c.Query("status"))
	if err != nil {
		return err
	}
	return response.Success(c, "Properties fetched", properties, nil)
}

// GetProperty GET /api/v1/properties/:property_id
func (h *Handlers) GetProperty(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("property_id"))
	if err != nil {
		return apperrors.BadRequest("Invalid property_id")
	}
	property, err := h.Service.GetPropertyByID(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Property fetched", property, nil)
}
