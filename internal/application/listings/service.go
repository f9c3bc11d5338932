package listings

import (
	"context"

	"tessera-backend/internal/application/notifications"
	"tessera-backend/internal/domain"
	"tessera-backend/internal/infrastructure/database"
	"tessera-backend/internal/pkg/apperrors"
	"tessera-backend/internal/pkg/displaycode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB            *gorm.DB
	Notifications *notifications.Service
}

type CreateListingInput struct {
	SellerID      uuid.UUID
	PropertyID    uuid.UUID
	PricePerToken decimal.Decimal
	TotalTokens   int64
	MinOrderUSDT  decimal.Decimal
	MaxOrderUSDT  decimal.Decimal
}

// CreateListing creates an active listing and reserves the seller's tokens
// against it, all in one transaction. Tokens are only locked here, never
// deducted; deduction happens when a buy settles.
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	if in.PricePerToken.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.BadRequest("Price per token must be greater than zero")
	}
	if in.TotalTokens <= 0 {
		return nil, apperrors.BadRequest("Total tokens must be greater than zero")
	}
	if in.MinOrderUSDT.LessThanOrEqual(decimal.Zero) || in.MinOrderUSDT.GreaterThan(in.MaxOrderUSDT) {
		return nil, apperrors.BadRequest("Order size bounds are invalid")
	}

	var listing *domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property domain.Property
		if err := tx.Where("property_id = ?", in.PropertyID).First(&property).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Property not found")
			}
			return err
		}

		holdings, lockedByHolding, err := sellerHoldings(tx, in.SellerID, in.PropertyID, true)
		if err != nil {
			return err
		}
		available := int64(0)
		for _, h := range holdings {
			available += h.TokensPurchased - lockedByHolding[h.HoldingID]
		}
		if in.TotalTokens > available {
			return apperrors.BadRequest("Insufficient tokens available to list")
		}

		// A listing that cannot satisfy even its own minimum order is unbuyable.
		listingValue := in.PricePerToken.Mul(decimal.NewFromInt(in.TotalTokens)).Truncate(6)
		if listingValue.LessThan(in.MinOrderUSDT) {
			return apperrors.BadRequest("Listing value is below the minimum order size")
		}

		code, err := displaycode.Next(tx, domain.ScopeListing)
		if err != nil {
			return err
		}
		listing = &domain.Listing{
			DisplayCode:     code,
			SellerID:        in.SellerID,
			PropertyID:      in.PropertyID,
			PropertyName:    property.Name,
			PricePerToken:   in.PricePerToken,
			TotalTokens:     in.TotalTokens,
			RemainingTokens: in.TotalTokens,
			MinOrderUSDT:    in.MinOrderUSDT,
			MaxOrderUSDT:    in.MaxOrderUSDT,
			ExpectedROI:     property.ExpectedROI,
			Status:          domain.ListingStatusActive,
		}
		if err := tx.Create(listing).Error; err != nil {
			return err
		}

		// Lock oldest holdings first.
		remaining := in.TotalTokens
		for _, h := range holdings {
			if remaining == 0 {
				break
			}
			free := h.TokensPurchased - lockedByHolding[h.HoldingID]
			if free <= 0 {
				continue
			}
			lockAmount := free
			if remaining < lockAmount {
				lockAmount = remaining
			}
			if err := tx.Create(&domain.TokenLock{
				HoldingID:    h.HoldingID,
				ListingID:    listing.ListingID,
				LockedTokens: lockAmount,
			}).Error; err != nil {
				return err
			}
			remaining -= lockAmount
		}
		if remaining > 0 {
			// Safety net for a concurrent lock racing past the availability check.
			return apperrors.BadRequest("Could not reserve the requested tokens")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifications.QueueAsync(in.SellerID, "Listing published",
		"Your listing "+listing.DisplayCode+" is now live on the marketplace.",
		map[string]interface{}{
			"listing_id":   listing.ListingID.String(),
			"display_code": listing.DisplayCode,
		})

	return listing, nil
}

// CancelListing deletes the listing's token locks and marks it cancelled.
// Holdings and wallets are untouched; nothing was ever deducted.
func (s *Service) CancelListing(ctx context.Context, userID, listingID uuid.UUID) (*domain.Listing, error) {
	var listing domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Same row lock the buy path takes, so an in-flight fill cannot be
		// overwritten by a stale cancel.
		if err := database.LockForUpdate(tx).
			Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Listing not found")
			}
			return err
		}
		if listing.SellerID != userID {
			return apperrors.Forbidden("Only the seller can cancel this listing")
		}
		if listing.Status != domain.ListingStatusActive {
			return apperrors.BadRequest("Listing is not active")
		}
		if err := tx.Where("listing_id = ?", listing.ListingID).Delete(&domain.TokenLock{}).Error; err != nil {
			return err
		}
		listing.Status = domain.ListingStatusCancelled
		return tx.Save(&listing).Error
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// AvailableTokens returns how many of a user's tokens in a property are
// free to list: confirmed holdings minus locks held by still-active listings.
func (s *Service) AvailableTokens(ctx context.Context, userID, propertyID uuid.UUID) (int64, error) {
	holdings, lockedByHolding, err := sellerHoldings(s.DB.WithContext(ctx), userID, propertyID, false)
	if err != nil {
		return 0, err
	}
	available := int64(0)
	for _, h := range holdings {
		available += h.TokensPurchased - lockedByHolding[h.HoldingID]
	}
	return available, nil
}

// sellerHoldings loads a user's confirmed holdings for a property
// (oldest first) plus, per holding, the tokens locked by active listings.
// forUpdate locks the holding rows so concurrent listings by the same
// seller cannot both pass the availability check; read-only callers skip it.
func sellerHoldings(tx *gorm.DB, userID, propertyID uuid.UUID, forUpdate bool) ([]domain.Holding, map[uuid.UUID]int64, error) {
	q := tx
	if forUpdate {
		q = database.LockForUpdate(tx)
	}
	var holdings []domain.Holding
	if err := q.
		Where("user_id = ? AND property_id = ? AND status = ?", userID, propertyID, domain.HoldingStatusConfirmed).
		Order("created_at ASC").
		Find(&holdings).Error; err != nil {
		return nil, nil, err
	}

	locked := make(map[uuid.UUID]int64, len(holdings))
	if len(holdings) == 0 {
		return holdings, locked, nil
	}

	holdingIDs := make([]uuid.UUID, len(holdings))
	for i, h := range holdings {
		holdingIDs[i] = h.HoldingID
	}
	var locks []domain.TokenLock
	if err := tx.Where("holding_id IN ?", holdingIDs).Find(&locks).Error; err != nil {
		return nil, nil, err
	}
	if len(locks) == 0 {
		return holdings, locked, nil
	}

	listingIDs := make([]uuid.UUID, 0, len(locks))
	for _, l := range locks {
		listingIDs = append(listingIDs, l.ListingID)
	}
	var activeListings []domain.Listing
	if err := tx.Select("listing_id").
		Where("listing_id IN ? AND status = ?", listingIDs, domain.ListingStatusActive).
		Find(&activeListings).Error; err != nil {
		return nil, nil, err
	}
	active := make(map[uuid.UUID]bool, len(activeListings))
	for _, l := range activeListings {
		active[l.ListingID] = true
	}
	for _, l := range locks {
		if active[l.ListingID] {
			locked[l.HoldingID] += l.LockedTokens
		}
	}
	return holdings, locked, nil
}
