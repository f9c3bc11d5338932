package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Holding statuses.
const (
	HoldingStatusConfirmed = "confirmed"
	HoldingStatusSold      = "sold"
)

// Holding is a user's position in one property. AmountUSDT is the
// average-cost basis of the position; settlement reduces it pro rata
// when tokens leave the holding.
type Holding struct {
	HoldingID       uuid.UUID       `gorm:"column:holding_id;type:uuid;primaryKey" json:"holding_id"`
	DisplayCode     string          `gorm:"column:display_code;type:varchar(12);not null;uniqueIndex" json:"display_code"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	PropertyID      uuid.UUID       `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	TokensPurchased int64           `gorm:"column:tokens_purchased;not null;default:0" json:"tokens_purchased"`
	AmountUSDT      decimal.Decimal `gorm:"column:amount_usdt;type:numeric(24,6);not null;default:0" json:"amount_usdt"`
	ExpectedROI     decimal.Decimal `gorm:"column:expected_roi;type:numeric(8,4);not null;default:0" json:"expected_roi"`
	Status          string          `gorm:"column:status;type:varchar(20);not null;default:'confirmed'" json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (Holding) TableName() string {
	return "Holdings"
}

func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.HoldingID == uuid.Nil {
		h.HoldingID = uuid.New()
	}
	return nil
}
