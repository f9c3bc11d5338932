package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Listing statuses. Active is the only mutable state; sold and cancelled
// are terminal.
const (
	ListingStatusActive    = "active"
	ListingStatusSold      = "sold"
	ListingStatusCancelled = "cancelled"
)

// Listing is a sell order for a fixed quantity of one property's tokens at
// a fixed price. Property name and ROI are denormalized onto the row so
// marketplace queries never need a join.
type Listing struct {
	ListingID       uuid.UUID       `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	DisplayCode     string          `gorm:"column:display_code;type:varchar(12);not null;uniqueIndex" json:"display_code"`
	SellerID        uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	PropertyID      uuid.UUID       `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	PropertyName    string          `gorm:"column:property_name;not null" json:"property_name"`
	PricePerToken   decimal.Decimal `gorm:"column:price_per_token;type:numeric(24,6);not null" json:"price_per_token"`
	TotalTokens     int64           `gorm:"column:total_tokens;not null" json:"total_tokens"`
	RemainingTokens int64           `gorm:"column:remaining_tokens;not null" json:"remaining_tokens"`
	MinOrderUSDT    decimal.Decimal `gorm:"column:min_order_usdt;type:numeric(24,6);not null" json:"min_order_usdt"`
	MaxOrderUSDT    decimal.Decimal `gorm:"column:max_order_usdt;type:numeric(24,6);not null" json:"max_order_usdt"`
	ExpectedROI     decimal.Decimal `gorm:"column:expected_roi;type:numeric(8,4);not null;default:0" json:"expected_roi"`
	Status          string          `gorm:"column:status;type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (Listing) TableName() string {
	return "Listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}
