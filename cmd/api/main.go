package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"storefront-api/internal/client"
	"storefront-api/internal/config"
	"storefront-api/internal/metrics"
	"storefront-api/internal/repository"
	"storefront-api/internal/server"
	"storefront-api/internal/service"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.Log.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	db := client.InitDBClient(cfg.DatabaseURL)
	shippingClient := client.NewShippingRateClient(&cfg.Shipping, logger)

	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)
	supportRepo := repository.NewSupportRepository(db)
	activityLogRepo := repository.NewActivityLogRepository(db)

	if err := productRepo.Seed(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("seed products")
	}

	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour

	orderService := service.NewOrderService(db, orderRepo, activityLogRepo, logger)
	userService := service.NewUserService(db, userRepo, activityLogRepo, cfg.Auth.JWTSecret, tokenTTL, logger)
	dashboardService := service.NewDashboardService(
		db, orderRepo, userRepo, productRepo, categoryRepo,
		supportRepo, newsletterRepo, activityLogRepo, logger,
	)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, newsletterRepo, supportRepo, shippingClient)

	collector := metrics.NewCollector(0)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(
		cfg.Auth.JWTSecret,
		orderService,
		userService,
		dashboardService,
		catalogService,
		collector,
		logger,
	)

	logger.Info().Str("addr", serverAddr).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info().Msg("signal received, starting graceful shutdown")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server shutdown error")
	}
}
