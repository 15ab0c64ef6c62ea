package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cartapp "github.com/kiylo/backend/internal/application/cart"
	catalogapp "github.com/kiylo/backend/internal/application/catalog"
	identityapp "github.com/kiylo/backend/internal/application/identity"
	inventoryapp "github.com/kiylo/backend/internal/application/inventory"
	orderapp "github.com/kiylo/backend/internal/application/order"
	"github.com/kiylo/backend/internal/infrastructure/auth"
	"github.com/kiylo/backend/internal/infrastructure/config"
	"github.com/kiylo/backend/internal/infrastructure/logger"
	"github.com/kiylo/backend/internal/infrastructure/persistence"
	"github.com/kiylo/backend/internal/interfaces/http/handler"
	"github.com/kiylo/backend/internal/interfaces/http/middleware"
	"github.com/kiylo/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Token revocation needs shared state; fall back to process-local
	// storage when Redis is unreachable.
	var blacklist auth.TokenBlacklist
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		defer redisClient.Close()
	}
	cancelPing()

	jwtService := auth.NewJWTService(cfg.JWT)

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)

	// Transaction scopes
	checkoutScope := persistence.NewGormCheckoutScope(db.DB)
	stockScope := persistence.NewGormStockScope(db.DB)
	catalogScope := persistence.NewGormCatalogScope(db.DB)

	// Application services
	productService := catalogapp.NewProductService(catalogScope, productRepo)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	brandService := catalogapp.NewBrandService(brandRepo)
	cartService := cartapp.NewCartService(cartRepo, variantRepo)
	checkoutService := orderapp.NewCheckoutService(checkoutScope, cartRepo)
	orderService := orderapp.NewOrderService(orderRepo)
	couponService := orderapp.NewCouponService(couponRepo)
	stockService := inventoryapp.NewStockService(stockScope, variantRepo, ledgerRepo)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist)
	userService := identityapp.NewUserService(userRepo)
	addressService := identityapp.NewAddressService(addressRepo)

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	brandHandler := handler.NewBrandHandler(brandService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(checkoutService, orderService)
	couponHandler := handler.NewCouponHandler(couponService)
	inventoryHandler := handler.NewInventoryHandler(stockService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, addressService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	corsConfig.AllowCredentials = true
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuth(middleware.JWTConfig{
		JWTService: jwtService,
		Blacklist:  blacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		// Catalog reads are public and carts work for guests, but a
		// token is still honored there so staff writes and user carts
		// resolve. Role middleware rejects anonymous staff calls.
		OptionalPathPrefixes: []string{
			"/api/v1/catalog",
			"/api/v1/cart",
		},
		Logger: log,
	}))

	authGroup := router.NewDomainGroup("/auth")
	authHandler.RegisterRoutes(authGroup)

	catalogGroup := router.NewDomainGroup("/catalog")
	productHandler.RegisterRoutes(catalogGroup)
	categoryHandler.RegisterRoutes(catalogGroup)
	brandHandler.RegisterRoutes(catalogGroup)

	cartGroup := router.NewDomainGroup("/cart")
	cartHandler.RegisterRoutes(cartGroup)

	orderGroup := router.NewDomainGroup("/orders")
	orderHandler.RegisterRoutes(orderGroup)

	couponGroup := router.NewDomainGroup("/coupons")
	couponHandler.RegisterRoutes(couponGroup)

	inventoryGroup := router.NewDomainGroup("/inventory")
	inventoryHandler.RegisterRoutes(inventoryGroup)

	userGroup := router.NewDomainGroup("/users")
	userHandler.RegisterRoutes(userGroup)
	userHandler.RegisterAdminRoutes(userGroup)

	r.Register(authGroup, catalogGroup, cartGroup, orderGroup, couponGroup, inventoryGroup, userGroup)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
