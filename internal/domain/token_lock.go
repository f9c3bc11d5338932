package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenLock reserves tokens from one holding against one listing, so the
// same tokens can never back two listings. Locks shrink as trades consume
// them and are deleted in bulk when the listing is cancelled.
type TokenLock struct {
	LockID       uuid.UUID `gorm:"column:lock_id;type:uuid;primaryKey" json:"lock_id"`
	HoldingID    uuid.UUID `gorm:"column:holding_id;type:uuid;not null;index" json:"holding_id"`
	ListingID    uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	LockedTokens int64     `gorm:"column:locked_tokens;not null" json:"locked_tokens"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (TokenLock) TableName() string {
	return "TokenLocks"
}

func (tl *TokenLock) BeforeCreate(tx *gorm.DB) error {
	if tl.LockID == uuid.Nil {
		tl.LockID = uuid.New()
	}
	return nil
}
