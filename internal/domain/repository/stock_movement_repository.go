package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// MovementTotals suma de cantidades por tipo para un producto.
type MovementTotals struct {
	In     int64
	Out    int64
	Adjust int64
}

// StockMovementRepository define el puerto de persistencia para movimientos de inventario (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// GetForUpdate bloquea el movimiento mientras se revierte/reaplica.
	GetForUpdate(ctx context.Context, id string) (*entity.StockMovement, error)
	Update(ctx context.Context, movement *entity.StockMovement) error
	Delete(ctx context.Context, id string) error
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	TotalsByProduct(ctx context.Context, productID string) (MovementTotals, error)
}
