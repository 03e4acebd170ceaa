package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas, sus líneas y cargos.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	CreateExtraCharge(ctx context.Context, charge *entity.ExtraCharge) error
	// GetByID devuelve la venta con Items y ExtraCharges.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera; no carga líneas.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	UpdatePayment(ctx context.Context, sale *entity.Sale) error
}
