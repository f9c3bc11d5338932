package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// JSON GET /health reports liveness plus dependency pings.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	dbStatus := "skipped"
	if h.DB != nil {
		dbStatus = "ok"
		sqlDB, err := h.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "down"
		}
	}
	redisStatus := "skipped"
	if h.Rdb != nil {
		redisStatus = "ok"
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.Rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}
	}

	status := fiber.StatusOK
	if dbStatus == "down" || redisStatus == "down" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"db":     dbStatus,
		"redis":  redisStatus,
		"time":   time.Now().UTC(),
	})
}
