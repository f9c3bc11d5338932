package notifications

import (
	notifsvc "tessera-backend/internal/application/notifications"
	"tessera-backend/internal/middleware"
	"tessera-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *notifsvc.Service
}

// GetMyNotifications GET /api/v1/notifications
func (h *Handlers) GetMyNotifications(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	items, err := h.Service.GetUserNotifications(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, "Notifications fetched", items, nil)
}
