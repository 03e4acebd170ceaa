package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse respuesta de producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Unit          string          `json:"unit"`
	StockQuantity int64           `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockResponse respuesta de GET /api/products/:id/stock.
type StockResponse struct {
	ProductID     string `json:"product_id"`
	StockQuantity int64  `json:"stock_quantity"`
}

// StockCheckResponse compara el stock persistido con la suma de movimientos.
type StockCheckResponse struct {
	ProductID     string `json:"product_id"`
	StockQuantity int64  `json:"stock_quantity"`
	TotalIn       int64  `json:"total_in"`
	TotalOut      int64  `json:"total_out"`
	Expected      int64  `json:"expected"`
	Drift         int64  `json:"drift"`
	Consistent    bool   `json:"consistent"`
}
