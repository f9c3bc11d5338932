package wallets

import (
	"context"

	"tessera-backend/internal/domain"
	"tessera-backend/internal/infrastructure/database"
	"tessera-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// GetWallet returns the user's wallet.
func (s *Service) GetWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Wallet not found")
		}
		return nil, err
	}
	return &wallet, nil
}

// Credit applies a confirmed deposit to the wallet. Reconciliation of the
// deposit itself happens upstream; this only moves the balance, under the
// same wallet row lock the settlement engine uses.
func (s *Service) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*domain.Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.BadRequest("Deposit amount must be greater than zero")
	}
	var wallet domain.Wallet
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.LockForUpdate(tx).
			Where("user_id = ?", userID).First(&wallet).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Wallet not found")
			}
			return err
		}
		amount = amount.Truncate(6)
		wallet.BalanceUSDT = wallet.BalanceUSDT.Add(amount)
		wallet.TotalDepositedUSDT = wallet.TotalDepositedUSDT.Add(amount)
		return tx.Save(&wallet).Error
	})
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}
