package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nyxoasis/oasis-backend/api/routes"
	"github.com/nyxoasis/oasis-backend/internal/cart"
	"github.com/nyxoasis/oasis-backend/internal/checkout"
	"github.com/nyxoasis/oasis-backend/internal/items"
	"github.com/nyxoasis/oasis-backend/internal/nyxciphers"
	"github.com/nyxoasis/oasis-backend/internal/payments"
	"github.com/nyxoasis/oasis-backend/internal/tickets"
	"github.com/nyxoasis/oasis-backend/internal/users"
	"github.com/nyxoasis/oasis-backend/pkg/config"
	"github.com/nyxoasis/oasis-backend/pkg/db"
	"github.com/nyxoasis/oasis-backend/pkg/logger"
	"github.com/nyxoasis/oasis-backend/pkg/metrics"
	"github.com/nyxoasis/oasis-backend/pkg/migrate"
	"github.com/nyxoasis/oasis-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	userRepo := users.NewRepository(dbClient.DB())
	itemRepo := items.NewRepository(dbClient.DB())
	nyxcipherRepo := nyxciphers.NewRepository(dbClient.DB())
	ticketRepo := tickets.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	paymentRepo := payments.NewRepository(dbClient.DB())

	itemService, err := items.NewService(itemRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create item service", err)
		os.Exit(1)
	}

	nyxcipherService, err := nyxciphers.NewService(nyxcipherRepo, dbClient, itemService, ticketRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create nyxcipher service", err)
		os.Exit(1)
	}

	ticketService, err := tickets.NewService(ticketRepo, nyxcipherService)
	if err != nil {
		logg.Error(context.Background(), "failed to create ticket service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, dbClient, nyxcipherService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(paymentRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)
	checkoutService, err := checkout.NewService(
		userRepo,
		cartRepo,
		paymentRepo,
		ticketRepo,
		dbClient,
		redisClient,
		cfg.Checkout.LockTTL,
		checkoutMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			itemService,
			nyxcipherService,
			ticketService,
			cartService,
			paymentService,
			checkoutService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
