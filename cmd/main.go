package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffee-shop/internal/api"
	"coffee-shop/internal/config"
	"coffee-shop/internal/consumer"
	"coffee-shop/internal/notify"
	"coffee-shop/internal/repository"
	"coffee-shop/internal/service"
	"coffee-shop/migrations"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func connectDBEnv(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	logLevel := gormlogger.Warn
	if cfg.IsProduction() {
		logLevel = gormlogger.Error
	}

	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(logLevel),
			TranslateError: true,
		})
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				err = sqlDB.Ping()
			} else {
				err = dbErr
			}
			if err == nil {
				log.Info().Msgf("Connected to DB %s", cfg.DBName)
				return db, nil
			}
		}
		log.Warn().Err(err).Msgf("Retry %d: failed to connect to DB %s (%s:%s)", i+1, cfg.DBName, cfg.DBHost, cfg.DBPort)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %w", cfg.DBName, cfg.DBHost, cfg.DBPort, err)
}

func rateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/api/health" || c.Path() == "/api/notifications/stream"
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		},
	})
}

func main() {
	cfg := config.Load()

	db, err := connectDBEnv(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate tables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrations.SeedLoyaltyProgram(ctx, db, cfg.LoyaltyProgramName); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed loyalty program")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.OrderTopic)
	defer kafkaWriter.Close()

	if cfg.APIKey == "" {
		log.Warn().Msg("API_KEY is not set; staff routes are open")
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set; customer routes are open")
	}

	repo := repository.NewRepository(db)
	hub := notify.NewHub()
	inventoryService := service.NewInventoryService(repo)
	services := api.Services{
		Catalog:       service.NewCatalogService(repo, rdb),
		Customers:     service.NewCustomerService(repo),
		Carts:         service.NewCartService(repo),
		Orders:        service.NewOrderService(repo, service.NewKafkaPublisher(kafkaWriter), hub, service.NewIdempotency(rdb), cfg.Location),
		Loyalty:       service.NewLoyaltyService(repo, cfg.LoyaltyProgramName),
		Discounts:     service.NewDiscountService(repo),
		Notifications: service.NewNotificationService(repo, hub),
		Inventory:     inventoryService,
		Reviews:       service.NewReviewService(repo),
		Reports:       service.NewReportService(repo, cfg.Location),
		Hub:           hub,
	}

	stockConsumer := consumer.NewConsumer(config.NewKafkaReader(cfg.KafkaBrokers, cfg.OrderTopic, cfg.StockGroupID), inventoryService)
	go stockConsumer.StartKafkaConsumer(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, "X-API-KEY", "Idempotent-Key"},
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(rateLimiter(cfg))

	api.RegisterRoutes(e, services, api.RouterConfig{APIKey: cfg.APIKey, JWTSecret: cfg.JWTSecret})

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down HTTP server")
	}
}
