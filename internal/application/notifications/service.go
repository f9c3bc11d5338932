package notifications

import (
	"context"
	"encoding/json"

	"tessera-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Queue persists an in-app notification. Delivery is at-least-once from the
// caller's point of view: callers on the settlement path invoke it after
// commit and treat a returned error as log-only.
func (s *Service) Queue(ctx context.Context, userID uuid.UUID, title, message string, data map[string]interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	n := domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Data:    datatypes.JSON(payload),
	}
	return s.DB.WithContext(ctx).Create(&n).Error
}

// QueueAsync queues in a goroutine and logs failures. Used by fire-and-forget
// call sites that must not block on the notification write.
func (s *Service) QueueAsync(userID uuid.UUID, title, message string, data map[string]interface{}) {
	go func() {
		if err := s.Queue(context.Background(), userID, title, message, data); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Str("title", title).Msg("failed to queue notification")
		}
	}()
}

// GetUserNotifications lists a user's notifications, newest first.
func (s *Service) GetUserNotifications(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var out []domain.Notification
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
