// migrate aplica el esquema embebido en internal/infrastructure/postgres/migrations y,
// con -seed, carga el catálogo de demostración.
//
// Uso: go run ./cmd/migrate [-seed]
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/pos-ledger-api/internal/application/inventory"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/seed"
	"github.com/jhoicas/pos-ledger-api/pkg/config"
	"github.com/jhoicas/pos-ledger-api/pkg/logger"
)

func main() {
	withSeed := flag.Bool("seed", false, "cargar productos y clientes de demostración")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Int("applied", applied).Msg("esquema al día")

	if !*withSeed {
		return
	}
	if err := loadDemo(ctx, pool, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
}

func loadDemo(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config, log *logger.Logger) error {
	products := postgres.NewProductRepository(pool)
	clients := postgres.NewClientRepository(pool)

	demo := seed.Products()
	for _, p := range demo {
		p := p
		if err := products.Create(ctx, &p.Product); err != nil && !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	for _, c := range seed.Clients() {
		c := c
		if err := clients.Create(ctx, &c); err != nil && !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}

	txRunner := postgres.NewTxRunner(pool, postgres.TxOptions{
		MaxRetries: cfg.Ledger.TxMaxRetries,
		Timeout:    cfg.Ledger.TxTimeout,
	}, log.Zerolog())
	ledger := inventory.NewMovementLedger(txRunner, inventory.NewProductStore(txRunner))
	n, err := seed.LoadInitialStock(ctx, ledger, demo, "seed")
	if err != nil {
		return err
	}
	log.Info().Int("products", len(demo)).Int("stock_entries", n).Msg("catálogo de demo cargado")
	return nil
}
