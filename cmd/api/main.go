package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/pos-ledger-api/docs"
	"github.com/jhoicas/pos-ledger-api/internal/application/billing"
	"github.com/jhoicas/pos-ledger-api/internal/application/inventory"
	"github.com/jhoicas/pos-ledger-api/internal/application/ports"
	"github.com/jhoicas/pos-ledger-api/internal/application/settlement"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/seed"
	httpRouter "github.com/jhoicas/pos-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/pos-ledger-api/pkg/config"
	"github.com/jhoicas/pos-ledger-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Motor: postgres en producción, memoria para desarrollo local
	var txRunner ports.TxRunner
	var memStore *memory.Store
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		memStore = memory.New()
		txRunner = memStore
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool, postgres.TxOptions{
			MaxRetries: cfg.Ledger.TxMaxRetries,
			Timeout:    cfg.Ledger.TxTimeout,
		}, log.Zerolog())
	}

	productStore := inventory.NewProductStore(txRunner)
	movementLedger := inventory.NewMovementLedger(txRunner, productStore)
	paymentLedger := billing.NewPaymentLedger(txRunner, billing.NewPayableReconciler())
	coordinator := settlement.NewCoordinator(txRunner, movementLedger, paymentLedger, log.Zerolog())

	if memStore != nil {
		products := seed.Products()
		for _, p := range products {
			memStore.SeedProduct(p.Product)
		}
		for _, c := range seed.Clients() {
			memStore.SeedClient(c)
		}
		if _, err := seed.LoadInitialStock(ctx, movementLedger, products, "seed"); err != nil {
			log.Fatal().Err(err).Msg("cargar catálogo de demo")
		}
	}

	// Idempotency-Key: Redis si está configurado; si no, en memoria (una sola instancia)
	var idem ports.IdempotencyStore
	if cfg.Redis.Host != "" {
		redisStore, err := cache.NewRedisIdempotencyStore(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr()).Msg("conexión a Redis")
		}
		idem = redisStore
	} else {
		idem = cache.NewInMemoryIdempotencyStore()
	}
	defer idem.Close()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductStore:   productStore,
		MovementLedger: movementLedger,
		PaymentLedger:  paymentLedger,
		Coordinator:    coordinator,
		Idempotency:    idem,
		IdempotencyTTL: cfg.Idempotency.TTL,
		JWTSecret:      cfg.JWT.Secret,
		Log:            log.Zerolog(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
