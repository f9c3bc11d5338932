package holdings

import (
	"context"

	"tessera-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Position is one portfolio row: the holding plus how many of its tokens
// are currently reserved by active listings.
type Position struct {
	Holding      domain.Holding  `json:"holding"`
	PropertyName string          `json:"property_name"`
	LockedTokens int64           `json:"locked_tokens"`
	CurrentValue decimal.Decimal `json:"current_value"`
}

// GetPortfolio lists the user's confirmed holdings with lock and valuation info.
func (s *Service) GetPortfolio(ctx context.Context, userID uuid.UUID) ([]Position, error) {
	var holdings []domain.Holding
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.HoldingStatusConfirmed).
		Order("created_at ASC").
		Find(&holdings).Error; err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(holdings))
	for _, h := range holdings {
		var property domain.Property
		if err := s.DB.WithContext(ctx).Where("property_id = ?", h.PropertyID).First(&property).Error; err != nil {
			return nil, err
		}

		locked, err := s.lockedTokens(ctx, h.HoldingID)
		if err != nil {
			return nil, err
		}

		positions = append(positions, Position{
			Holding:      h,
			PropertyName: property.Name,
			LockedTokens: locked,
			CurrentValue: property.TokenPriceUSDT.Mul(decimal.NewFromInt(h.TokensPurchased)).Truncate(6),
		})
	}
	return positions, nil
}

// lockedTokens sums the holding's locks that belong to still-active listings.
func (s *Service) lockedTokens(ctx context.Context, holdingID uuid.UUID) (int64, error) {
	var locks []domain.TokenLock
	if err := s.DB.WithContext(ctx).Where("holding_id = ?", holdingID).Find(&locks).Error; err != nil {
		return 0, err
	}
	total := int64(0)
	for _, l := range locks {
		var listing domain.Listing
		err := s.DB.WithContext(ctx).Select("status").Where("listing_id = ?", l.ListingID).First(&listing).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return 0, err
		}
		if listing.Status == domain.ListingStatusActive {
			total += l.LockedTokens
		}
	}
	return total, nil
}
