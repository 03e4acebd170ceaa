package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/pos-ledger-api/internal/application/ports"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxOptions límites del runner.
type TxOptions struct {
	MaxRetries int           // reintentos ante 40001/40P01
	Timeout    time.Duration // 0 = sin límite propio
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	opts TxOptions
	log  zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts TxOptions, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, opts: opts, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si la tx falla por serialización o deadlock se repite completa hasta MaxRetries veces;
// agotados los intentos, o vencido el contexto, retorna ErrTransactionAborted.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	var err error
	for attempt := 0; attempt <= r.opts.MaxRetries; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return domain.NewLedgerError(domain.ErrTransactionAborted, "", ctx.Err().Error())
		}
		if !isRetryable(err) {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("transacción en conflicto, reintentando")

		select {
		case <-ctx.Done():
			return domain.NewLedgerError(domain.ErrTransactionAborted, "", ctx.Err().Error())
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
	return domain.NewLedgerError(domain.ErrTransactionAborted, "",
		fmt.Sprintf("%d intentos: %v", r.opts.MaxRetries+1, err))
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(RepositoriesFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RepositoriesFor arma el conjunto de repos sobre un pool o una tx.
func RepositoriesFor(q Querier) repository.Repositories {
	return repository.Repositories{
		Products:  NewProductRepository(q),
		Movements: NewStockMovementRepository(q),
		Sales:     NewSaleRepository(q),
		Credits:   NewCreditRepository(q),
		Payments:  NewPaymentRepository(q),
		Histories: NewHistoryRepository(q),
		Clients:   NewClientRepository(q),
	}
}
