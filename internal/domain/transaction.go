package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types.
const (
	TransactionTypeDebit  = "debit"
	TransactionTypeCredit = "credit"
)

// Transaction is one side of a wallet movement. Every settled trade writes
// a linked debit/credit pair referencing the trade's display code.
type Transaction struct {
	TransactionID uuid.UUID       `gorm:"column:transaction_id;type:uuid;primaryKey" json:"transaction_id"`
	DisplayCode   string          `gorm:"column:display_code;type:varchar(12);not null;uniqueIndex" json:"display_code"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Type          string          `gorm:"column:type;type:varchar(10);not null" json:"type"`
	AmountUSDT    decimal.Decimal `gorm:"column:amount_usdt;type:numeric(24,6);not null" json:"amount_usdt"`
	Reference     string          `gorm:"column:reference;not null" json:"reference"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "Transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TransactionID == uuid.Nil {
		t.TransactionID = uuid.New()
	}
	return nil
}
