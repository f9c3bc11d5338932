package listings

import (
	"context"

	"tessera-backend/internal/domain"
	"tessera-backend/internal/pkg/apperrors"
	"tessera-backend/internal/pkg/displaycode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sort keys accepted by the marketplace feed.
const (
	SortPriceAsc    = "price_asc"
	SortPriceDesc   = "price_desc"
	SortCreatedAsc  = "created_asc"
	SortCreatedDesc = "created_desc"
	SortROIDesc     = "roi_desc"
)

type MarketplaceQuery struct {
	PropertyID *uuid.UUID
	CallerID   uuid.UUID // uuid.Nil when identity unknown
	Sort       string
	Page       int
	Limit      int
}

// ListingView is one marketplace row. SellerCode is masked unless the
// caller is the seller.
type ListingView struct {
	ListingID       uuid.UUID       `json:"listing_id"`
	DisplayCode     string          `json:"display_code"`
	PropertyID      uuid.UUID       `json:"property_id"`
	PropertyName    string          `json:"property_name"`
	SellerCode      string          `json:"seller_code"`
	PricePerToken   decimal.Decimal `json:"price_per_token"`
	RemainingTokens int64           `json:"remaining_tokens"`
	MinOrderUSDT    decimal.Decimal `json:"min_order_usdt"`
	MaxOrderUSDT    decimal.Decimal `json:"max_order_usdt"`
	ExpectedROI     decimal.Decimal `json:"expected_roi"`
}

// GetActiveListings returns the paginated public marketplace feed. The
// caller's own listings are excluded when identity is known.
func (s *Service) GetActiveListings(ctx context.Context, q MarketplaceQuery) ([]ListingView, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}

	db := s.DB.WithContext(ctx).Model(&domain.Listing{}).Where("status = ?", domain.ListingStatusActive)
	if q.PropertyID != nil {
		db = db.Where("property_id = ?", *q.PropertyID)
	}
	if q.CallerID != uuid.Nil {
		db = db.Where("seller_id <> ?", q.CallerID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.Sort {
	case SortPriceAsc:
		db = db.Order("price_per_token ASC")
	case SortPriceDesc:
		db = db.Order("price_per_token DESC")
	case SortCreatedAsc:
		db = db.Order("created_at ASC")
	case SortROIDesc:
		db = db.Order("expected_roi DESC")
	default:
		db = db.Order("created_at DESC")
	}

	var rows []domain.Listing
	if err := db.Offset((q.Page - 1) * q.Limit).Limit(q.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	views := make([]ListingView, len(rows))
	for i, l := range rows {
		views[i] = s.toView(ctx, l, q.CallerID)
	}
	return views, total, nil
}

// GetListing returns a single listing with seller masking applied.
func (s *Service) GetListing(ctx context.Context, listingID, callerID uuid.UUID) (*ListingView, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Listing not found")
		}
		return nil, err
	}
	view := s.toView(ctx, listing, callerID)
	return &view, nil
}

// GetMyListings returns all of the caller's listings, newest first.
func (s *Service) GetMyListings(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := s.DB.WithContext(ctx).Where("seller_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) toView(ctx context.Context, l domain.Listing, callerID uuid.UUID) ListingView {
	sellerCode := ""
	var seller domain.User
	if err := s.DB.WithContext(ctx).Select("display_code").Where("user_id = ?", l.SellerID).First(&seller).Error; err == nil {
		sellerCode = seller.DisplayCode
	}
	if callerID != l.SellerID {
		sellerCode = displaycode.Mask(sellerCode)
	}
	return ListingView{
		ListingID:       l.ListingID,
		DisplayCode:     l.DisplayCode,
		PropertyID:      l.PropertyID,
		PropertyName:    l.PropertyName,
		SellerCode:      sellerCode,
		PricePerToken:   l.PricePerToken,
		RemainingTokens: l.RemainingTokens,
		MinOrderUSDT:    l.MinOrderUSDT,
		MaxOrderUSDT:    l.MaxOrderUSDT,
		ExpectedROI:     l.ExpectedROI,
	}
}
