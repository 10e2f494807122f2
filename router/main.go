package router

import (
	"log"

	"github.com/coursekart/api/config"
	"github.com/coursekart/api/database"
	"github.com/coursekart/api/handlers"
	coupon_handlers "github.com/coursekart/api/handlers/coupon"
	payment_handlers "github.com/coursekart/api/handlers/payment"
	"github.com/coursekart/api/services"
	"github.com/coursekart/api/storage"
	"github.com/coursekart/api/utils/auth"
	"github.com/coursekart/api/utils/cache"
	"github.com/coursekart/api/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, cfg *config.Config) {
	if cfg.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := cfg.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "coursekart-auth"
	}

	verifier := auth.NewVerifier(auth.VerifierConfig{
		Secret: cfg.JWT_SECRET,
		Issuer: jwtIssuer,
	})

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis is optional; without it the stats endpoint just skips caching.
	var redisCache *cache.RedisCache
	if cfg.REDIS_URL != "" {
		var err error
		redisCache, err = cache.NewRedisCache(cfg.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Stats caching disabled.", err)
			redisCache = nil
		}
	}

	spaces := storage.FromEnv(cfg)

	authMiddleware := middleware.NewAuthMiddleware(verifier, db)

	couponService := services.NewCouponService(db)
	checkoutService := services.NewCheckoutService(db, couponService, spaces, cfg)
	paymentService := services.NewPaymentService(db, couponService)
	reportService := services.NewReportService(db, couponService, redisCache)

	paymentHandler := payment_handlers.NewPaymentHandler(checkoutService, paymentService)
	couponHandler := coupon_handlers.NewCouponHandler(reportService)

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins: cfg.ALLOWED_ORIGINS,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Payment routes
	payments := api.Group("/payments")
	payments.Post("/checkout/:courseId", authMiddleware.Required(), paymentHandler.Checkout) // Auth: build display-only checkout session
	payments.Post("/submit/:courseId", authMiddleware.Required(), paymentHandler.Submit)     // Auth: submit proof of payment
	payments.Get("/mine", authMiddleware.Required(), paymentHandler.Mine)                    // Auth: own payment history

	payments.Get("/manual-payments", authMiddleware.RequireAdmin(), paymentHandler.List)                // Admin: list payments
	payments.Post("/manual-payments/:id/approve", authMiddleware.RequireAdmin(), paymentHandler.Approve) // Admin: approve pending payment
	payments.Post("/manual-payments/:id/reject", authMiddleware.RequireAdmin(), paymentHandler.Reject)   // Admin: reject pending payment

	// Coupon analytics routes
	coupons := api.Group("/coupons", authMiddleware.RequireAdmin())
	coupons.Get("/usages", couponHandler.Usages) // Admin: explicit + inferred coupon usages
	coupons.Get("/stats", couponHandler.Stats)   // Admin: usage counts per code
}
