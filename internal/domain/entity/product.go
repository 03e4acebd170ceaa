package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del punto de venta con un único stock (sin bodegas).
// StockQuantity solo lo modifica el ledger de movimientos.
type Product struct {
	ID            string
	Name          string
	SKU           string
	PurchasePrice decimal.Decimal // precio de compra
	SalePrice     decimal.Decimal // precio de venta
	Unit          string          // unidad de medida (pieza, kg, caja...)
	StockQuantity int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
