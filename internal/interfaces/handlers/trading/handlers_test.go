package trading

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	listsvc "tessera-backend/internal/application/listings"
	"tessera-backend/internal/application/notifications"
	tradesvc "tessera-backend/internal/application/trading"
	"tessera-backend/internal/domain"
	"tessera-backend/internal/infrastructure/database"
	"tessera-backend/internal/middleware"
	"tessera-backend/internal/pkg/events"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTradingTest(t *testing.T) (*Handlers, *listsvc.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	notifs := &notifications.Service{DB: db}
	svc := &tradesvc.Service{DB: db, Bus: events.NewBus(), Notifications: notifs}
	return &Handlers{Service: svc}, &listsvc.Service{DB: db, Notifications: notifs}, db
}

func newApp(h *Handlers, userID uuid.UUID) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	if userID != uuid.Nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user", map[string]interface{}{
				"user_id": userID.String(),
			})
			return c.Next()
		})
	}
	app.Post("/buy", h.BuyTokens)
	app.Get("/trades", h.GetMyTrades)
	return app
}

func seedMarket(t *testing.T, lsvc *listsvc.Service, db *gorm.DB) (buyerID uuid.UUID, listingID uuid.UUID) {
	t.Helper()
	seller := domain.User{DisplayCode: "USR-000001", Fullname: "seller", Email: "seller@example.com", PasswordHash: "x"}
	buyer := domain.User{DisplayCode: "USR-000002", Fullname: "buyer", Email: "buyer@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&seller).Error)
	require.NoError(t, db.Create(&buyer).Error)
	property := domain.Property{
		DisplayCode: "PRP-000001", Name: "Test Property", City: "Lisbon", Country: "PT",
		TokenPriceUSDT: decimal.RequireFromString("2.00"), TotalTokens: 10000,
		Status: domain.PropertyStatusActive,
	}
	require.NoError(t, db.Create(&property).Error)
	require.NoError(t, db.Create(&domain.Wallet{UserID: seller.UserID}).Error)
	require.NoError(t, db.Create(&domain.Wallet{UserID: buyer.UserID, BalanceUSDT: decimal.RequireFromString("500")}).Error)
	require.NoError(t, db.Create(&domain.Holding{
		DisplayCode: "HLD-000901", UserID: seller.UserID, PropertyID: property.PropertyID,
		TokensPurchased: 1000, AmountUSDT: decimal.RequireFromString("1500"),
		Status: domain.HoldingStatusConfirmed,
	}).Error)

	listing, err := lsvc.CreateListing(context.Background(), listsvc.CreateListingInput{
		SellerID:      seller.UserID,
		PropertyID:    property.PropertyID,
		PricePerToken: decimal.RequireFromString("2.00"),
		TotalTokens:   1000,
		MinOrderUSDT:  decimal.RequireFromString("10"),
		MaxOrderUSDT:  decimal.RequireFromString("2000"),
	})
	require.NoError(t, err)
	return buyer.UserID, listing.ListingID
}

func TestBuyTokens_RequiresAuth(t *testing.T) {
	h, _, _ := setupTradingTest(t)
	app := newApp(h, uuid.Nil)

	body, _ := json.Marshal(map[string]interface{}{"listing_id": uuid.New().String(), "tokens_to_buy": 10})
	req := httptest.NewRequest("POST", "/buy", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestBuyTokens_InvalidListingID(t *testing.T) {
	h, _, _ := setupTradingTest(t)
	app := newApp(h, uuid.New())

	body, _ := json.Marshal(map[string]interface{}{"listing_id": "nope", "tokens_to_buy": 10})
	req := httptest.NewRequest("POST", "/buy", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestBuyTokens_SettlesAndReturnsResult(t *testing.T) {
	h, lsvc, db := setupTradingTest(t)
	buyerID, listingID := seedMarket(t, lsvc, db)
	app := newApp(h, buyerID)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id":    listingID.String(),
		"tokens_to_buy": 100,
	})
	req := httptest.NewRequest("POST", "/buy", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "success", result["status"])
	data, ok := result["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(900), data["remaining_tokens"])
	assert.Equal(t, "300", data["buyer_balance"])
	trade, ok := data["trade"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "TRD-000001", trade["display_code"])
	assert.Equal(t, "200", trade["total_usdt"])
}

func TestBuyTokens_ListingNotFoundMapsTo404(t *testing.T) {
	h, _, db := setupTradingTest(t)
	buyer := domain.User{DisplayCode: "USR-000002", Fullname: "buyer", Email: "buyer@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&buyer).Error)
	app := newApp(h, buyer.UserID)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id":    uuid.New().String(),
		"tokens_to_buy": 10,
	})
	req := httptest.NewRequest("POST", "/buy", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "error", result["status"])
}

func TestGetMyTrades_ReturnsTradeHistory(t *testing.T) {
	h, lsvc, db := setupTradingTest(t)
	buyerID, listingID := seedMarket(t, lsvc, db)
	_, err := h.Service.BuyTokens(context.Background(), buyerID, listingID, 50)
	require.NoError(t, err)

	app := newApp(h, buyerID)
	req := httptest.NewRequest("GET", "/trades", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	data, ok := result["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)
}
