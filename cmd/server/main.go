package main // Entry point package

import (
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/propertyvision/api/internal/config"
	"github.com/propertyvision/api/internal/database"
	"github.com/propertyvision/api/internal/handler"
	"github.com/propertyvision/api/internal/lifecycle"
	"github.com/propertyvision/api/internal/mailer"
	"github.com/propertyvision/api/internal/middleware"
	"github.com/propertyvision/api/internal/queue"
	"github.com/propertyvision/api/internal/repository"
	"github.com/propertyvision/api/internal/router"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional. A nil client turns the response cache and rate
	// limiter into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, cache and rate limiting disabled")
	}

	admins := repository.NewAdminRepo(db)
	tokens := repository.NewResetTokenRepo(db)
	properties := repository.NewPropertyRepo(db)
	floors := repository.NewFloorRepo(db)
	units := repository.NewUnitRepo(db)
	tenants := repository.NewTenantRepo(db)
	rents := repository.NewRentRepo(db)
	labors := repository.NewLaborRepo(db)

	engine := lifecycle.NewEngine(db, logger)
	mail := mailer.New(cfg.MailjetAPIKey, cfg.MailjetSecretKey, cfg.MailFromEmail, cfg.MailFromName, logger)

	authH := handler.NewAuthHandler(cfg, admins, tokens, mail, logger)
	propertyH := handler.NewPropertyHandler(properties)
	floorH := handler.NewFloorHandler(floors, properties)
	unitH := handler.NewUnitHandler(units, floors)
	tenantH := handler.NewTenantHandler(engine, tenants)
	rentH := handler.NewRentHandler(engine, rents, tenants, units, properties, logger)
	laborH := handler.NewLaborHandler(labors)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	metrics := middleware.NewHTTPMetrics()
	e.Use(metrics.Middleware())

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, propertyH, floorH, unitH, cfg.JWTSecret, rateMW, cacheMW)
	router.RegisterTenancy(e, tenantH, rentH, laborH, cfg.JWTSecret, rateMW, cacheMW)

	// The consumer keeps its own connection and reconnect loop.
	go queue.StartRentPaidConsumer(logger)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
