package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. unit_price 0 u omitido = precio de venta del producto.
type SaleLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"dec_gte0,dec_scale2"`
}

// ExtraChargeRequest cargo adicional (envío, instalación...).
type ExtraChargeRequest struct {
	Label string          `json:"label" validate:"required,max=120"`
	Price decimal.Decimal `json:"price" validate:"dec_gte0,dec_scale2"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	ClientID               string               `json:"client_id,omitempty"`
	Items                  []SaleLineRequest    `json:"items" validate:"required,min=1,dive"`
	ExtraCharges           []ExtraChargeRequest `json:"extra_charges,omitempty" validate:"dive"`
	Discount               decimal.Decimal      `json:"discount" validate:"dec_gte0,dec_scale2"`
	MarkPaid               bool                 `json:"mark_paid"`
	PaidAmount             decimal.Decimal      `json:"paid_amount" validate:"dec_scale2"`
	PaymentMethod          string               `json:"payment_method,omitempty" validate:"payment_method"`
	PaymentNote            string               `json:"payment_note,omitempty"`
	Note                   string               `json:"note,omitempty"`
	SaleDate               *time.Time           `json:"sale_date,omitempty"`
	AllowInsufficientStock bool                 `json:"allow_insufficient_stock"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// ExtraChargeResponse cargo adicional de una venta.
type ExtraChargeResponse struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// SaleResponse respuesta de venta.
type SaleResponse struct {
	ID              string                `json:"id"`
	ClientID        string                `json:"client_id,omitempty"`
	Discount        decimal.Decimal       `json:"discount"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	PaidAmount      decimal.Decimal       `json:"paid_amount"`
	RemainingAmount decimal.Decimal       `json:"remaining_amount"`
	State           string                `json:"state"`
	Note            string                `json:"note,omitempty"`
	SaleDate        time.Time             `json:"sale_date"`
	Items           []SaleItemResponse    `json:"items"`
	ExtraCharges    []ExtraChargeResponse `json:"extra_charges"`
	CreatedBy       string                `json:"created_by,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// CreateCreditRequest body para POST /api/credits.
type CreateCreditRequest struct {
	ClientID       string          `json:"client_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"dec_gt0,dec_scale2"`
	InitialPayment decimal.Decimal `json:"initial_payment" validate:"dec_gte0,dec_scale2"`
	PaymentMethod  string          `json:"payment_method,omitempty" validate:"payment_method"`
	PaymentNote    string          `json:"payment_note,omitempty"`
	Description    string          `json:"description,omitempty"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
}

// UpdateCreditRequest body para PATCH /api/credits/:id.
type UpdateCreditRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,dec_gt0,dec_scale2"`
	Description *string          `json:"description,omitempty"`
}

// CreditResponse respuesta de crédito. remaining_amount es derivado.
type CreditResponse struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"client_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Statut          string          `json:"statut"`
	State           string          `json:"state"`
	Description     string          `json:"description,omitempty"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RecordPaymentRequest body para POST /api/{sales|credits}/:id/payments.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"dec_gt0,dec_scale2"`
	Method      string          `json:"method" validate:"required,payment_method"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	Note        string          `json:"note,omitempty" validate:"max=255"`
}

// MarkPaidRequest body opcional para POST /api/{sales|credits}/:id/mark-paid.
type MarkPaidRequest struct {
	Method string `json:"method,omitempty" validate:"payment_method"`
	Note   string `json:"note,omitempty" validate:"max=255"`
}

// PaymentResponse registro de pago.
type PaymentResponse struct {
	ID              string          `json:"id"`
	PayableType     string          `json:"payable_type"`
	PayableID       string          `json:"payable_id"`
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method"`
	PaymentDate     time.Time       `json:"payment_date"`
	Note            string          `json:"note,omitempty"`
	SystemGenerated bool            `json:"system_generated"`
	CreatedBy       string          `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MarkPaidResponse resultado de marcar como pagado. Payment es nil si la cuenta ya estaba saldada.
type MarkPaidResponse struct {
	AlreadyPaid bool             `json:"already_paid"`
	Payment     *PaymentResponse `json:"payment,omitempty"`
}

// PaymentListResponse historial de pagos con el resumen de la cuenta.
type PaymentListResponse struct {
	PayableType   string            `json:"payable_type"`
	PayableID     string            `json:"payable_id"`
	Total         decimal.Decimal   `json:"total"`
	Paid          decimal.Decimal   `json:"paid"`
	Remaining     decimal.Decimal   `json:"remaining"`
	State         string            `json:"state"`
	PaymentsTotal decimal.Decimal   `json:"payments_total"`
	Payments      []PaymentResponse `json:"payments"`
}

// HistoryResponse registro de auditoría de una venta o crédito.
type HistoryResponse struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedBy  string         `json:"created_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
