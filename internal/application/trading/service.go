package trading

import (
	"context"
	"encoding/json"
	"strconv"

	"tessera-backend/internal/application/notifications"
	"tessera-backend/internal/domain"
	"tessera-backend/internal/infrastructure/database"
	"tessera-backend/internal/pkg/apperrors"
	"tessera-backend/internal/pkg/displaycode"
	"tessera-backend/internal/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB            *gorm.DB
	Bus           *events.Bus
	Notifications *notifications.Service
}

// BuyResult is returned to the buyer after settlement commits.
type BuyResult struct {
	Trade           domain.Trade    `json:"trade"`
	RemainingTokens int64           `json:"remaining_tokens"`
	BuyerBalance    decimal.Decimal `json:"buyer_balance"`
}

// BuyTokens settles a buy against one listing. Funds move between wallets,
// tokens move between holdings, locks shrink, and a Trade is written, all
// in one transaction or not at all.
//
// Row locks are always taken in the order listing, buyer wallet, seller
// wallet, then holdings oldest first. Concurrent buys on the same listing
// serialize on the listing row; the fixed wallet order prevents deadlocks
// when two users trade with each other in opposite roles at the same time.
// Holding rows are locked too, since buys on different listings can consume
// the same seller holding.
func (s *Service) BuyTokens(ctx context.Context, buyerID, listingID uuid.UUID, tokensToBuy int64) (*BuyResult, error) {
	if tokensToBuy <= 0 {
		return nil, apperrors.BadRequest("Tokens to buy must be greater than zero")
	}

	var (
		result BuyResult
		ev     events.TradeCompleted
		seller domain.User
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing domain.Listing
		if err := database.LockForUpdate(tx).
			Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Listing not found")
			}
			return err
		}

		var property domain.Property
		if err := tx.Where("property_id = ?", listing.PropertyID).First(&property).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Property not found")
			}
			return err
		}
		if err := tx.Where("user_id = ?", listing.SellerID).First(&seller).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Seller not found")
			}
			return err
		}

		if listing.Status != domain.ListingStatusActive {
			return apperrors.BadRequest("Listing is not active")
		}
		if buyerID == listing.SellerID {
			return apperrors.Forbidden("You cannot buy tokens from your own listing")
		}
		if tokensToBuy > listing.RemainingTokens {
			return apperrors.BadRequest("Insufficient tokens remaining in listing")
		}

		totalUSDT := listing.PricePerToken.Mul(decimal.NewFromInt(tokensToBuy)).Truncate(6)
		if totalUSDT.LessThan(listing.MinOrderUSDT) || totalUSDT.GreaterThan(listing.MaxOrderUSDT) {
			return apperrors.BadRequest("Order size is outside the listing's bounds")
		}

		var buyerWallet domain.Wallet
		if err := database.LockForUpdate(tx).
			Where("user_id = ?", buyerID).First(&buyerWallet).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Buyer wallet not found")
			}
			return err
		}
		if buyerWallet.BalanceUSDT.LessThan(totalUSDT) {
			return apperrors.BadRequest("Insufficient wallet balance")
		}

		var sellerWallet domain.Wallet
		if err := database.LockForUpdate(tx).
			Where("user_id = ?", listing.SellerID).First(&sellerWallet).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Seller wallet not found")
			}
			return err
		}

		buyerWallet.BalanceUSDT = buyerWallet.BalanceUSDT.Sub(totalUSDT)
		sellerWallet.BalanceUSDT = sellerWallet.BalanceUSDT.Add(totalUSDT)
		sellerWallet.TotalDepositedUSDT = sellerWallet.TotalDepositedUSDT.Add(totalUSDT)
		if err := tx.Save(&buyerWallet).Error; err != nil {
			return err
		}
		if err := tx.Save(&sellerWallet).Error; err != nil {
			return err
		}

		listing.RemainingTokens -= tokensToBuy
		if listing.RemainingTokens == 0 {
			listing.Status = domain.ListingStatusSold
		}
		if err := tx.Save(&listing).Error; err != nil {
			return err
		}

		sellerHoldingID, err := consumeLocks(tx, listing.ListingID, tokensToBuy)
		if err != nil {
			return err
		}

		buyerHolding, err := upsertBuyerHolding(tx, buyerID, property, tokensToBuy, totalUSDT)
		if err != nil {
			return err
		}

		tradeCode, err := displaycode.Next(tx, domain.ScopeTrade)
		if err != nil {
			return err
		}

		buyerTxn, err := newTransaction(tx, buyerID, domain.TransactionTypeDebit, totalUSDT, tradeCode)
		if err != nil {
			return err
		}
		sellerTxn, err := newTransaction(tx, listing.SellerID, domain.TransactionTypeCredit, totalUSDT, tradeCode)
		if err != nil {
			return err
		}

		metadata, err := json.Marshal(map[string]interface{}{
			"buyer_holding_id":  buyerHolding.HoldingID.String(),
			"seller_holding_id": sellerHoldingID.String(),
		})
		if err != nil {
			return err
		}
		lid := listing.ListingID
		trade := domain.Trade{
			DisplayCode:         tradeCode,
			ListingID:           &lid,
			BuyerID:             buyerID,
			SellerID:            listing.SellerID,
			PropertyID:          listing.PropertyID,
			TokensBought:        tokensToBuy,
			TotalUSDT:           totalUSDT,
			PricePerToken:       listing.PricePerToken,
			BuyerTransactionID:  buyerTxn.TransactionID,
			SellerTransactionID: sellerTxn.TransactionID,
			Metadata:            datatypes.JSON(metadata),
		}
		if err := tx.Create(&trade).Error; err != nil {
			return err
		}

		result = BuyResult{
			Trade:           trade,
			RemainingTokens: listing.RemainingTokens,
			BuyerBalance:    buyerWallet.BalanceUSDT,
		}
		ev = events.TradeCompleted{
			TradeID:         trade.TradeID,
			BuyerID:         buyerID,
			SellerID:        listing.SellerID,
			PropertyID:      listing.PropertyID,
			TokensBought:    tokensToBuy,
			TotalUSDT:       totalUSDT,
			BuyerHoldingID:  buyerHolding.HoldingID,
			SellerHoldingID: sellerHoldingID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit collaborators: best effort, never fed back into the trade.
	s.Bus.PublishTradeCompleted(context.Background(), ev)
	s.Notifications.QueueAsync(buyerID, "Purchase complete",
		"You bought "+strconv.FormatInt(result.Trade.TokensBought, 10)+" tokens in trade "+result.Trade.DisplayCode+".",
		map[string]interface{}{"trade_id": result.Trade.TradeID.String(), "tokens": result.Trade.TokensBought})
	s.Notifications.QueueAsync(result.Trade.SellerID, "Tokens sold",
		"Your listing sold tokens in trade "+result.Trade.DisplayCode+".",
		map[string]interface{}{"trade_id": result.Trade.TradeID.String(), "tokens": result.Trade.TokensBought})

	return &result, nil
}

// consumeLocks walks the listing's locks oldest first, deducting the bought
// tokens from each lock and its holding. A drained lock is deleted; a
// drained holding is marked sold. Returns the seller holding that gave up
// the most recent tokens (used for trade metadata).
func consumeLocks(tx *gorm.DB, listingID uuid.UUID, tokens int64) (uuid.UUID, error) {
	var locks []domain.TokenLock
	if err := tx.Where("listing_id = ?", listingID).Order("created_at ASC").Find(&locks).Error; err != nil {
		return uuid.Nil, err
	}

	var lastHoldingID uuid.UUID
	remaining := tokens
	for i := range locks {
		if remaining == 0 {
			break
		}
		lock := &locks[i]
		take := lock.LockedTokens
		if remaining < take {
			take = remaining
		}

		var holding domain.Holding
		if err := database.LockForUpdate(tx).
			Where("holding_id = ?", lock.HoldingID).First(&holding).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return uuid.Nil, apperrors.NotFound("Seller holding not found")
			}
			return uuid.Nil, err
		}
		if take > holding.TokensPurchased {
			return uuid.Nil, apperrors.BadRequest("Token lock exceeds holding position")
		}

		// Reduce the cost basis pro rata; truncation never manufactures value.
		if holding.TokensPurchased == take {
			holding.AmountUSDT = decimal.Zero
		} else {
			costOut := holding.AmountUSDT.
				Div(decimal.NewFromInt(holding.TokensPurchased)).
				Mul(decimal.NewFromInt(take)).
				Truncate(6)
			holding.AmountUSDT = holding.AmountUSDT.Sub(costOut)
		}
		holding.TokensPurchased -= take
		if holding.TokensPurchased == 0 {
			holding.Status = domain.HoldingStatusSold
		}
		if err := tx.Save(&holding).Error; err != nil {
			return uuid.Nil, err
		}

		lock.LockedTokens -= take
		if lock.LockedTokens == 0 {
			if err := tx.Delete(lock).Error; err != nil {
				return uuid.Nil, err
			}
		} else {
			if err := tx.Save(lock).Error; err != nil {
				return uuid.Nil, err
			}
		}

		lastHoldingID = holding.HoldingID
		remaining -= take
	}
	if remaining > 0 {
		return uuid.Nil, apperrors.BadRequest("Listing locks do not cover the purchase")
	}
	return lastHoldingID, nil
}

// upsertBuyerHolding increments the buyer's confirmed holding for the
// property, or creates one with a fresh display code.
func upsertBuyerHolding(tx *gorm.DB, buyerID uuid.UUID, property domain.Property, tokens int64, totalUSDT decimal.Decimal) (*domain.Holding, error) {
	var holding domain.Holding
	err := database.LockForUpdate(tx).
		Where("user_id = ? AND property_id = ? AND status = ?",
			buyerID, property.PropertyID, domain.HoldingStatusConfirmed).First(&holding).Error
	if err == nil {
		holding.TokensPurchased += tokens
		holding.AmountUSDT = holding.AmountUSDT.Add(totalUSDT)
		if err := tx.Save(&holding).Error; err != nil {
			return nil, err
		}
		return &holding, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	code, err := displaycode.Next(tx, domain.ScopeHolding)
	if err != nil {
		return nil, err
	}
	holding = domain.Holding{
		DisplayCode:     code,
		UserID:          buyerID,
		PropertyID:      property.PropertyID,
		TokensPurchased: tokens,
		AmountUSDT:      totalUSDT,
		ExpectedROI:     property.ExpectedROI,
		Status:          domain.HoldingStatusConfirmed,
	}
	if err := tx.Create(&holding).Error; err != nil {
		return nil, err
	}
	return &holding, nil
}

func newTransaction(tx *gorm.DB, userID uuid.UUID, txnType string, amount decimal.Decimal, reference string) (*domain.Transaction, error) {
	code, err := displaycode.Next(tx, domain.ScopeTransaction)
	if err != nil {
		return nil, err
	}
	txn := domain.Transaction{
		DisplayCode: code,
		UserID:      userID,
		Type:        txnType,
		AmountUSDT:  amount,
		Reference:   reference,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetMyTrades returns trades where the user was buyer or seller, newest first.
func (s *Service) GetMyTrades(ctx context.Context, userID uuid.UUID) ([]domain.Trade, error) {
	var out []domain.Trade
	if err := s.DB.WithContext(ctx).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
