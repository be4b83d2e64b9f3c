package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cppfool/jigoshop/internal/cart"
	"github.com/cppfool/jigoshop/internal/cart/cache"
	"github.com/cppfool/jigoshop/internal/cart/repository"
	"github.com/cppfool/jigoshop/internal/config"
	"github.com/cppfool/jigoshop/internal/customer"
	"github.com/cppfool/jigoshop/internal/customer/attribute"
	"github.com/cppfool/jigoshop/internal/domain"
	h "github.com/cppfool/jigoshop/internal/http"
	"github.com/cppfool/jigoshop/internal/orders"
	"github.com/cppfool/jigoshop/internal/poller"
	"github.com/cppfool/jigoshop/internal/product"
	"github.com/cppfool/jigoshop/internal/users"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	opts, err := config.Load(os.Getenv("SHOP_CONFIG"), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	// MongoDB holds the carts
	mongoDB, err := repository.ConnectMongoDB(ctx, repository.ConnOptions{
		URI:              opts.MongoURI(),
		Database:         opts.MongoDatabase(),
		ConnectTimeout:   opts.MongoConnectTimeout(),
		SelectionTimeout: opts.MongoSelectionTimeout(),
		MaxPoolSize:      opts.MongoMaxPoolSize(),
		MinPoolSize:      opts.MongoMinPoolSize(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoDB.Client().Disconnect(ctx)

	repo := repository.NewMongoRepository(mongoDB)
	if err := repo.CreateIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create cart indexes")
	}
	logger.Info().Str("uri", opts.MongoURI()).Msg("connected to MongoDB")

	// Redis backs the cart cache and the customer attribute store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr(),
		Password: opts.RedisPassword(),
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Redis connection failed")
	}
	logger.Info().Str("addr", opts.RedisAddr()).Msg("Redis ping succeeded")

	cartCache := cache.NewBreakerCache(cache.NewRedisCache(redisClient))
	cartService := cart.NewService(repo, cartCache, logger)

	// SQLite product catalog
	catalog, err := product.NewRepository(opts.SQLitePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open product catalog")
	}
	defer catalog.Close()
	if err := catalog.RunMigrations(opts.SQLiteMigrations()); err != nil {
		logger.Fatal().Err(err).Msg("failed to run catalog migrations")
	}

	// Demo identities until a real user store is plugged in.
	directory := users.NewMemoryDirectory(
		users.User{ID: 1, Login: "admin", Name: "Site Admin", Email: "admin@example.com"},
		users.User{ID: 2, Login: "jdoe", Name: "John Doe", Email: "jdoe@example.com"},
	)
	ordersProvider := orders.NewMemoryProvider(domain.Order{
		ID:              1,
		BillingAddress:  domain.Address{Country: "US", State: "CA", Postcode: "90001"},
		ShippingAddress: domain.Address{Country: "US", State: "NY", Postcode: "10001"},
	})

	attrs := attribute.NewRedisStore(redisClient)
	customerService := customer.NewService(directory, attrs, opts, logger)

	cartHandler := h.NewCartHandler(cartService, catalog, opts.RequestTimeout())
	customerHandler := h.NewCustomerHandler(customerService, ordersProvider, opts.RequestTimeout())
	productHandler := h.NewProductHandler(catalog, opts.RequestTimeout())

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(opts.RequestTimeout()))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/", cartHandler.UpdateCart)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})
		r.Route("/customer", func(r chi.Router) {
			r.Get("/", customerHandler.GetCurrent)
			r.Put("/address", customerHandler.UpdateAddress)
		})
		r.Get("/orders/{order_id}/addresses", customerHandler.GetOrderAddresses)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{product_id}", productHandler.GetProduct)
		})
	})

	// Drop carts when the orders topic reports a completed checkout.
	pollerCtx, stopPoller := context.WithCancel(ctx)
	ordersPoller := poller.NewPoller(cartService, logger, opts.KafkaOrdersTopic(), opts.KafkaBrokers()...)
	go ordersPoller.Run(pollerCtx)

	srv := &http.Server{
		Addr:         ":" + opts.HTTPPort(),
		Handler:      otelhttp.NewHandler(r, "shop"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", opts.HTTPPort()).Msg("shop starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")
	stopPoller()
	ordersPoller.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
