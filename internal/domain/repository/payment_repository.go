package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PaymentRepository define el puerto del historial de pagos (solo inserción y lectura).
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.PaymentRecord) error
	ListByPayable(ctx context.Context, ref entity.PayableRef) ([]*entity.PaymentRecord, error)
	SumByPayable(ctx context.Context, ref entity.PayableRef) (decimal.Decimal, error)
}
