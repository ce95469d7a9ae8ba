package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/skybooking/api"
	"github.com/Domenick1991/skybooking/config"
	"github.com/Domenick1991/skybooking/internal/cache"
	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/identity"
	"github.com/Domenick1991/skybooking/internal/kafka"
	"github.com/Domenick1991/skybooking/internal/repository"
	"github.com/Domenick1991/skybooking/internal/service/booking"
	"github.com/Domenick1991/skybooking/internal/service/flights"
	"github.com/Domenick1991/skybooking/internal/service/pricing"
	"github.com/Domenick1991/skybooking/internal/service/wallet"
	"github.com/Domenick1991/skybooking/internal/ticket"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Redis.FlightsCacheTTL)*time.Second)
	resolver := identity.NewRedisResolver(cfg.Redis)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	walletRepo := repository.NewWalletRepository(pool)
	pricingRepo := repository.NewPricingRepository(pool)

	pricingService := pricing.NewPricingService(pricingRepo, surgePolicy(cfg.Pricing))
	flightService := flights.NewFlightService(flightRepo, redisCache)
	walletService := wallet.NewWalletService(walletRepo, cfg.Wallet.InitialBalance)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		pricingService,
		producer,
		ticket.NewTextGenerator(),
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithCache(redisCache),
	)

	router := api.NewRouter(
		api.NewFlightHandler(flightService, pricingService),
		api.NewBookingHandler(bookingService),
		api.NewWalletHandler(walletService),
		resolver,
	)

	srv := &http.Server{Addr: cfg.HTTP.Address, Handler: router}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		log.Fatalf("server error: %v", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("shutdown http server: %v", err)
		}
	}
}

func surgePolicy(cfg config.PricingConfig) domain.SurgePolicy {
	policy := domain.DefaultSurgePolicy()
	if cfg.AttemptWindowMinutes > 0 {
		policy.AttemptWindow = time.Duration(cfg.AttemptWindowMinutes) * time.Minute
	}
	if cfg.SurgeDurationMinutes > 0 {
		policy.SurgeDuration = time.Duration(cfg.SurgeDurationMinutes) * time.Minute
	}
	if cfg.AttemptThreshold > 0 {
		policy.AttemptThreshold = cfg.AttemptThreshold
	}
	if cfg.SurgePercent > 0 {
		policy.SurgePercent = cfg.SurgePercent
	}
	return policy
}
