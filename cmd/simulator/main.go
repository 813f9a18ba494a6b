package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/warehouse-simulator/internal/api"
	"github.com/dmehra2102/warehouse-simulator/internal/config"
	"github.com/dmehra2102/warehouse-simulator/internal/injector"
	invapp "github.com/dmehra2102/warehouse-simulator/internal/inventory/application"
	invkafka "github.com/dmehra2102/warehouse-simulator/internal/inventory/infrastructure/kafka"
	invpg "github.com/dmehra2102/warehouse-simulator/internal/inventory/infrastructure/postgres"
	orderapp "github.com/dmehra2102/warehouse-simulator/internal/order/application"
	orderkafka "github.com/dmehra2102/warehouse-simulator/internal/order/infrastructure/kafka"
	orderpg "github.com/dmehra2102/warehouse-simulator/internal/order/infrastructure/postgres"
	"github.com/dmehra2102/warehouse-simulator/internal/seed"
	"github.com/dmehra2102/warehouse-simulator/internal/simulation"
	"github.com/dmehra2102/warehouse-simulator/pkg/bus"
	"github.com/dmehra2102/warehouse-simulator/pkg/idempotency"
	"github.com/dmehra2102/warehouse-simulator/pkg/logging"
	"github.com/dmehra2102/warehouse-simulator/pkg/shutdown"
	"github.com/dmehra2102/warehouse-simulator/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(false).Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.DebugLog)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "warehouse-simulator", cfg.OTLPURL, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	// Simulation clock
	start, err := simulation.ParseSimTime(cfg.SimStartTime)
	if err != nil {
		log.Error("invalid SIM_START_TIME", "err", err)
		os.Exit(1)
	}
	end, err := simulation.ParseSimTime(cfg.SimEndTime)
	if err != nil {
		log.Error("invalid SIM_END_TIME", "err", err)
		os.Exit(1)
	}
	clock := simulation.NewClock(log, start, end, cfg.TickSeconds, cfg.SpeedFactor)

	// Postgres
	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	orderRepo := orderpg.NewRepository(log, pool)
	invRepo := invpg.NewRepository(log, pool)
	if err := orderRepo.EnsureSchema(ctx); err != nil {
		log.Error("order schema failed", "err", err)
		os.Exit(1)
	}
	if err := invRepo.EnsureSchema(ctx); err != nil {
		log.Error("inventory schema failed", "err", err)
		os.Exit(1)
	}

	// Redis idempotency
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	idem := idempotency.NewStore(rdb, cfg.IdempotencyTTL)

	// Kafka publisher
	writer := bus.NewWriter([]string{cfg.KafkaAddr})
	defer writer.Close()
	publisher := bus.NewKafkaPublisher(log, writer)

	// Inventory ledger
	ledger := invapp.NewService(log, invRepo, invapp.Defaults{
		InitialStock:          cfg.InitialStock,
		LowStockThreshold:     cfg.LowStockThreshold,
		ReplenishmentQuantity: cfg.ReplenishmentQuantity,
	})
	if cfg.UseCSV {
		seedInventory(ctx, log, cfg, ledger)
	}

	// Order workflow
	workflow := orderapp.NewService(log, orderRepo, ledger, publisher, clock, orderapp.Topics{
		InventoryUpdate: cfg.TopicInventoryUpdate(),
		OrderProcessed:  cfg.TopicOrderProcessed(),
	})

	// Consumers
	brokers := []string{cfg.KafkaAddr}
	orderConsumer := orderkafka.NewConsumer(log, brokers, cfg.TopicOrderReceived(), "order-workflow", workflow, idem)
	invConsumer := invkafka.NewConsumer(log, brokers, cfg.TopicInventoryUpdate(), "inventory-ledger", ledger, idem)
	go func() {
		if err := orderConsumer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("order consumer stopped", "err", err)
			cancel()
		}
	}()
	go func() {
		if err := invConsumer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("inventory consumer stopped", "err", err)
			cancel()
		}
	}()

	// Injector backlog
	inj := injector.New(log, publisher, cfg.TopicOrderReceived())
	if cfg.UseCSV {
		records, err := seed.ReadOrders(log, cfg.OrderCSVPath)
		if err != nil {
			log.Error("order seed load failed", "path", cfg.OrderCSVPath, "err", err)
		} else {
			inj.Load(records, clock)
		}
	}

	// Simulation driver
	runner := simulation.NewRunner(log, clock, inj, cfg.TickInterval)
	go runner.Run(ctx)

	// HTTP server
	handler := api.NewHandler(log, workflow, ledger, inj, clock)
	r := chi.NewRouter()
	r.Mount("/", handler.Routes())
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("warehouse-simulator shutdown complete")
}

func seedInventory(ctx context.Context, log *slog.Logger, cfg config.Config, ledger *invapp.Service) {
	records, err := seed.ReadInventory(log, cfg.InventoryCSVPath)
	if err != nil {
		log.Warn("inventory seed unavailable, items will be provisioned on demand",
			"path", cfg.InventoryCSVPath, "err", err)
		return
	}

	seeded := 0
	for _, rec := range records {
		threshold := cfg.LowStockThreshold
		if rec.HasThreshold {
			threshold = rec.LowStockThreshold
		}
		if err := ledger.SeedItem(ctx, rec.SKU, rec.Name, rec.Quantity, rec.TemperatureZone, threshold); err != nil {
			log.Error("inventory seed failed", "sku", rec.SKU, "err", err)
			continue
		}
		seeded++
	}
	log.Info("inventory seeded", "skus", seeded)
}
