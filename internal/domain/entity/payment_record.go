package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCheck    = "check"
)

// ValidPaymentMethod indica si m es un método de pago soportado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCheck:
		return true
	}
	return false
}

// PaymentRecord es un pago aplicado a una venta o a un crédito. Solo se agrega, nunca se edita.
type PaymentRecord struct {
	ID              string
	Payable         PayableRef
	Amount          decimal.Decimal
	Method          string
	PaymentDate     time.Time
	Note            string
	SystemGenerated bool // true si lo creó "marcar como pagado"
	CreatedBy       string
	CreatedAt       time.Time
}
