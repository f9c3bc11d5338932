package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is a queued in-app message for a user. Writing one must
// never fail a trade; queue failures are logged and dropped.
type Notification struct {
	NotificationID uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	UserID         uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Message        string         `gorm:"column:message;not null" json:"message"`
	Data           datatypes.JSON `gorm:"column:data;type:json" json:"data"`
	Read           bool           `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (Notification) TableName() string {
	return "Notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
