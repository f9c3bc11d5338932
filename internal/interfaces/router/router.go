package router

import (
	authsvc "tessera-backend/internal/application/auth"
	holdsvc "tessera-backend/internal/application/holdings"
	listsvc "tessera-backend/internal/application/listings"
	mktsvc "tessera-backend/internal/application/marketplace"
	notifsvc "tessera-backend/internal/application/notifications"
	tradesvc "tessera-backend/internal/application/trading"
	walletsvc "tessera-backend/internal/application/wallets"
	"tessera-backend/internal/config"
	"tessera-backend/internal/infrastructure/database"
	authhandler "tessera-backend/internal/interfaces/handlers/auth"
	healthhandler "tessera-backend/internal/interfaces/handlers/health"
	holdhandler "tessera-backend/internal/interfaces/handlers/holdings"
	listhandler "tessera-backend/internal/interfaces/handlers/listings"
	mkthandler "tessera-backend/internal/interfaces/handlers/marketplace"
	notifhandler "tessera-backend/internal/interfaces/handlers/notifications"
	tradehandler "tessera-backend/internal/interfaces/handlers/trading"
	wallethandler "tessera-backend/internal/interfaces/handlers/wallets"
	"tessera-backend/internal/middleware"
	"tessera-backend/internal/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all middleware and routes. The
// returned DB/redis clients let main verify connectivity before listening.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{AllowedSuffix: cfg.FrontendURLSuffix}))

	sessionCfg := middleware.SessionConfig{
		RedisURL:     cfg.RedisURL,
		IsProduction: cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	healthHandlers := &healthhandler.Handlers{DB: db, Rdb: rdb}
	app.Get("/health", healthHandlers.JSON)

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	authHandlers := &authhandler.Handlers{UserFinder: userFinder, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	if db != nil {
		bus := events.NewBus()
		notifications := &notifsvc.Service{DB: db}

		mktHandlers := &mkthandler.Handlers{Service: &mktsvc.Service{DB: db}}
		propGroup := app.Group("/api/v1/properties", middleware.RequireAuth())
		propGroup.Get("/", mktHandlers.GetProperties)
		propGroup.Get("/:property_id", mktHandlers.GetProperty)

		listingsService := &listsvc.Service{DB: db, Notifications: notifications}
		listHandlers := &listhandler.Handlers{Service: listingsService}
		listGroup := app.Group("/api/v1/listings", middleware.RequireAuth())
		listGroup.Post("/", listHandlers.CreateListing)
		listGroup.Get("/", listHandlers.GetActiveListings)
		listGroup.Get("/mine", listHandlers.GetMyListings)
		listGroup.Get("/available-tokens/:property_id", listHandlers.GetAvailableTokens)
		listGroup.Get("/:listing_id", listHandlers.GetListing)
		listGroup.Post("/:listing_id/cancel", listHandlers.CancelListing)

		tradingService := &tradesvc.Service{DB: db, Bus: bus, Notifications: notifications}
		tradeHandlers := &tradehandler.Handlers{Service: tradingService}
		tradeGroup := app.Group("/api/v1/trading", middleware.RequireAuth())
		tradeGroup.Post("/buy", tradeHandlers.BuyTokens)
		tradeGroup.Get("/trades", tradeHandlers.GetMyTrades)

		holdHandlers := &holdhandler.Handlers{Service: &holdsvc.Service{DB: db}}
		app.Get("/api/v1/holdings", middleware.RequireAuth(), holdHandlers.GetPortfolio)

		walletHandlers := &wallethandler.Handlers{Service: &walletsvc.Service{DB: db}}
		walletGroup := app.Group("/api/v1/wallet", middleware.RequireAuth())
		walletGroup.Get("/", walletHandlers.GetWallet)
		walletGroup.Post("/deposit", walletHandlers.Deposit)

		notifHandlers := &notifhandler.Handlers{Service: notifications}
		app.Get("/api/v1/notifications", middleware.RequireAuth(), notifHandlers.GetMyNotifications)
	}

	return app, db, rdb, nil
}
