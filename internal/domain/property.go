package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Property statuses.
const (
	PropertyStatusActive   = "active"
	PropertyStatusInactive = "inactive"
)

// Property is a tokenized real-estate asset. Token supply and reference
// price are fixed at tokenization time; resale pricing is up to sellers.
type Property struct {
	PropertyID     uuid.UUID       `gorm:"column:property_id;type:uuid;primaryKey" json:"property_id"`
	DisplayCode    string          `gorm:"column:display_code;type:varchar(12);not null;uniqueIndex" json:"display_code"`
	Name           string          `gorm:"column:name;not null" json:"name"`
	City           string          `gorm:"column:city;not null" json:"city"`
	Country        string          `gorm:"column:country;not null" json:"country"`
	TokenPriceUSDT decimal.Decimal `gorm:"column:token_price_usdt;type:numeric(24,6);not null" json:"token_price_usdt"`
	TotalTokens    int64           `gorm:"column:total_tokens;not null" json:"total_tokens"`
	ExpectedROI    decimal.Decimal `gorm:"column:expected_roi;type:numeric(8,4);not null;default:0" json:"expected_roi"`
	ThumbnailURL   string          `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	Status         string          `gorm:"column:status;type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (Property) TableName() string {
	return "Properties"
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.PropertyID == uuid.Nil {
		p.PropertyID = uuid.New()
	}
	return nil
}
