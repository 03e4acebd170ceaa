package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger-api/internal/application/billing"
	"github.com/jhoicas/pos-ledger-api/internal/application/inventory"
	"github.com/jhoicas/pos-ledger-api/internal/application/ports"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Coordinator orquesta operaciones de varios pasos (venta, crédito) en una sola
// transacción: si un paso falla, se revierte todo lo anterior.
type Coordinator struct {
	txRunner  ports.TxRunner
	movements *inventory.MovementLedger
	payments  *billing.PaymentLedger
	log       zerolog.Logger
}

// NewCoordinator construye el coordinador de liquidaciones.
func NewCoordinator(
	txRunner ports.TxRunner,
	movements *inventory.MovementLedger,
	payments *billing.PaymentLedger,
	log zerolog.Logger,
) *Coordinator {
	return &Coordinator{
		txRunner:  txRunner,
		movements: movements,
		payments:  payments,
		log:       log.With().Str("component", "settlement").Logger(),
	}
}

// GetSale obtiene una venta con sus líneas y cargos.
func (c *Coordinator) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	var sale *entity.Sale
	err := c.txRunner.Run(ctx, func(repos repository.Repositories) error {
		s, err := repos.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NewLedgerError(domain.ErrPayableNotFound, id, "venta")
		}
		sale = s
		return nil
	})
	return sale, err
}

// GetCredit obtiene un crédito por ID.
func (c *Coordinator) GetCredit(ctx context.Context, id string) (*entity.Credit, error) {
	var credit *entity.Credit
	err := c.txRunner.Run(ctx, func(repos repository.Repositories) error {
		cr, err := repos.Credits.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cr == nil {
			return domain.NewLedgerError(domain.ErrPayableNotFound, id, "crédito")
		}
		credit = cr
		return nil
	})
	return credit, err
}

// ListHistory devuelve el historial de auditoría de una entidad.
func (c *Coordinator) ListHistory(ctx context.Context, entityType, entityID string) ([]*entity.History, error) {
	var list []*entity.History
	err := c.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		list, err = repos.Histories.ListByEntity(ctx, entityType, entityID)
		return err
	})
	return list, err
}

func (c *Coordinator) requireClient(ctx context.Context, repos repository.Repositories, clientID string) error {
	cl, err := repos.Clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if cl == nil {
		return domain.NewLedgerError(domain.ErrNotFound, clientID, "cliente")
	}
	return nil
}

func writeHistory(ctx context.Context, repos repository.Repositories, action, entityType, entityID, userID string, details map[string]any) error {
	return repos.Histories.Create(ctx, &entity.History{
		ID:         uuid.New().String(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedBy:  userID,
		CreatedAt:  time.Now(),
	})
}
