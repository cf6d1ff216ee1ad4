package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/quickbite/order-intake/internal/catalog"
	"github.com/quickbite/order-intake/internal/config"
	"github.com/quickbite/order-intake/internal/httpx"
	"github.com/quickbite/order-intake/internal/inventory"
	kafkax "github.com/quickbite/order-intake/internal/kafka"
	"github.com/quickbite/order-intake/internal/logging"
	"github.com/quickbite/order-intake/internal/orders"
	"github.com/quickbite/order-intake/internal/postgres"
	"github.com/quickbite/order-intake/internal/promotions"
	"github.com/quickbite/order-intake/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.ServiceName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Error("db migrate", "error", err)
		os.Exit(1)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer (optional: no brokers, no events)
	var prod *kafkax.Producer
	var events *orders.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
		prod.Start(ctx)
		events = &orders.Publisher{Producer: prod, Service: cfg.ServiceName}
	}

	// Repos & services
	catalogRepo := &catalog.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	promoSvc := &promotions.Service{
		Store:                  &promotions.PGStore{DB: db},
		DefaultDiscountPercent: cfg.DiscountPercent,
		DefaultWindowMinutes:   cfg.DiscountWindowMinutes,
	}
	workflow := &orders.Workflow{
		Vendors: catalogRepo,
		Ledger:  &inventory.Ledger{DB: db},
		Promos:  promoSvc,
		Store:   orderRepo,
		Admission: &orders.AdmissionController{
			Orders:  orderRepo,
			Limit:   cfg.VendorHourlyLimit,
			Window:  time.Duration(cfg.VendorWindowMinutes) * time.Minute,
			Enforce: cfg.EnforceVendorLimit,
		},
		Events:    events,
		PromoType: promotions.DefaultType,
		Log:       log,
	}

	// Router & handlers
	var limiter *redisx.Limiter
	if cfg.RateLimitEnabled {
		limiter = &redisx.Limiter{RDB: rdb, PerMinute: cfg.RateLimitPerMinute}
	}
	router := httpx.NewRouter(limiter)
	(&httpx.OrdersHandler{Workflow: workflow, Orders: orderRepo, Redis: rdb}).Register(router)
	(&httpx.CatalogHandler{Repo: catalogRepo, OrderCounts: orderRepo}).Register(router)
	(&httpx.PromotionsHandler{Promos: promoSvc}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close()      // close inbox -> flush & close writer
		prod.WaitClosed() // drain
	}
}
