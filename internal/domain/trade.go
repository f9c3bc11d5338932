package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Trade is the immutable record of one settled buy. The only later write
// is CertificateURL, filled in asynchronously by the certificate issuer.
// Metadata carries the buyer/seller holding ids the issuer needs.
type Trade struct {
	TradeID             uuid.UUID       `gorm:"column:trade_id;type:uuid;primaryKey" json:"trade_id"`
	DisplayCode         string          `gorm:"column:display_code;type:varchar(12);not null;uniqueIndex" json:"display_code"`
	ListingID           *uuid.UUID      `gorm:"column:listing_id;type:uuid;index" json:"listing_id"`
	BuyerID             uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	SellerID            uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	PropertyID          uuid.UUID       `gorm:"column:property_id;type:uuid;not null;index" json:"property_id"`
	TokensBought        int64           `gorm:"column:tokens_bought;not null" json:"tokens_bought"`
	TotalUSDT           decimal.Decimal `gorm:"column:total_usdt;type:numeric(24,6);not null" json:"total_usdt"`
	PricePerToken       decimal.Decimal `gorm:"column:price_per_token;type:numeric(24,6);not null" json:"price_per_token"`
	BuyerTransactionID  uuid.UUID       `gorm:"column:buyer_transaction_id;type:uuid;not null" json:"buyer_transaction_id"`
	SellerTransactionID uuid.UUID       `gorm:"column:seller_transaction_id;type:uuid;not null" json:"seller_transaction_id"`
	Metadata            datatypes.JSON  `gorm:"column:metadata;type:json" json:"metadata"`
	CertificateURL      *string         `gorm:"column:certificate_url" json:"certificate_url"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

func (Trade) TableName() string {
	return "Trades"
}

func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	if t.TradeID == uuid.Nil {
		t.TradeID = uuid.New()
	}
	return nil
}
