package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds a user's USDT balance. Balances only move inside the same
// database transaction as the trade or deposit that causes the movement.
type Wallet struct {
	WalletID           uuid.UUID       `gorm:"column:wallet_id;type:uuid;primaryKey" json:"wallet_id"`
	UserID             uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	BalanceUSDT        decimal.Decimal `gorm:"column:balance_usdt;type:numeric(24,6);not null;default:0" json:"balance_usdt"`
	TotalDepositedUSDT decimal.Decimal `gorm:"column:total_deposited_usdt;type:numeric(24,6);not null;default:0" json:"total_deposited_usdt"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func (Wallet) TableName() string {
	return "Wallets"
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.WalletID == uuid.Nil {
		w.WalletID = uuid.New()
	}
	return nil
}
