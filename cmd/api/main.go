package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"legato/internal/cart"
	"legato/internal/checkout"
	"legato/internal/config"
	"legato/internal/db"
	"legato/internal/events"
	"legato/internal/httpserver"
	"legato/internal/redisx"
	orderrepo "legato/internal/repository/order"
	productrepo "legato/internal/repository/product"
	statsrepo "legato/internal/repository/stats"
	tokenrepo "legato/internal/repository/token"
	userrepo "legato/internal/repository/user"
	adminsvc "legato/internal/service/admin"
	authsvc "legato/internal/service/auth"
	productsvc "legato/internal/service/product"
	"legato/internal/wishlist"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.Pool)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	services := map[string]httpserver.Pinger{}

	var (
		cartStore     cart.Store
		wishlistStore wishlist.Store
	)
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		cartStore = cart.NewRedisStore(rdb, cfg.CartTTL)
		wishlistStore = wishlist.NewRedisStore(rdb, redisx.TTLWishlist)
		services["redis"] = httpserver.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		logger.Printf("session state in redis at %s", cfg.RedisAddr)
	} else {
		cartStore = cart.NewMemoryStore()
		wishlistStore = wishlist.NewMemoryStore()
		logger.Printf("REDIS_ADDR not set, session state kept in memory")
	}

	var publisher checkout.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.ServiceName, 256, logger)
		producer.Start()
		defer producer.Close()
		publisher = producer
		services["kafka"] = producer
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	statsRepo := statsrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	authService := authsvc.New(userRepo, tokenRepo, cfg.AdminTokenTTL)
	adminService := adminsvc.New(productRepo, userRepo, statsRepo, logger)
	productService := productsvc.New(productRepo)
	cartService := cart.NewService(cartStore, productRepo, cfg.Pricing, cfg.CartLimits, logger)
	checkoutService := checkout.NewOrchestrator(cartService, checkout.DelaySimulator{Delay: cfg.PaymentDelay}, cfg.Pricing, checkout.Options{
		Orders:    orderRepo,
		Publisher: publisher,
		Logger:    logger,
	})
	wishlistService := wishlist.NewService(wishlistStore)

	go adminService.Run(ctx, cfg.StatsRefresh)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		ProductSvc:     productService,
		CartSvc:        cartService,
		CheckoutSvc:    checkoutService,
		WishlistSvc:    wishlistService,
		AdminSvc:       adminService,
		AuthSvc:        authService,
		Database:       dbpool,
		Services:       services,
		SampleFallback: cfg.SampleFallback,
		CORSOrigins:    cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
