package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbilling "github.com/rogerioboitto/casa-backend/internal/application/billing"
	appcharging "github.com/rogerioboitto/casa-backend/internal/application/charging"
	"github.com/rogerioboitto/casa-backend/internal/domain/charging"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/asaas"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/cache"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/config"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/logger"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/persistence"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/receipt"
	"github.com/rogerioboitto/casa-backend/internal/interfaces/http/handler"
	"github.com/rogerioboitto/casa-backend/internal/interfaces/http/middleware"
	"github.com/rogerioboitto/casa-backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Casa Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready")

	// Repositories
	artifactRepo := persistence.NewGormBillArtifactRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)

	// The charge ledger moves to Redis when configured; the database-backed
	// ledger is the default
	var ledger charging.ChargeLedger = persistence.NewGormChargeLedger(db.DB)
	if cfg.Redis.Enabled {
		redisLedger, err := cache.NewRedisChargeLedger(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		ledger = redisLedger
		log.Info("Charge ledger backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	}

	provider := asaas.NewClient(cfg.Asaas, log)
	receipts := receipt.NewPDFGenerator()

	// Application services
	statementService := appbilling.NewStatementService(artifactRepo, propertyRepo, log)
	chargeService := appcharging.NewChargeService(
		statementService, tenantRepo, propertyRepo, provider, ledger, receipts,
		appcharging.ChargeOptions{
			PageLimit: cfg.Asaas.PageLimit,
			Discount:  cfg.Billing.DiscountValue,
		},
		log,
	)

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		logger.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsConfig),
	)

	r := router.NewRouter(engine)
	r.Register(handler.NewStatementHandler(statementService))
	r.Register(handler.NewChargeHandler(chargeService))
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
		log.Info("Server starting", zap.String("addr", srv.Addr))
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
