package entity

import "github.com/shopspring/decimal"

// PayableKind identifica la variante de una cuenta por cobrar.
type PayableKind string

const (
	PayableSale   PayableKind = "sale"
	PayableCredit PayableKind = "credit"
)

// PayableRef referencia una venta o un crédito (mutuamente excluyentes).
type PayableRef struct {
	Kind PayableKind
	ID   string
}

// Valid indica si la referencia tiene un tipo soportado e ID.
func (r PayableRef) Valid() bool {
	return (r.Kind == PayableSale || r.Kind == PayableCredit) && r.ID != ""
}

func (r PayableRef) String() string { return string(r.Kind) + ":" + r.ID }

// PayableState es el estado derivado de los totales de una cuenta.
type PayableState string

const (
	PayableStateOpen          PayableState = "OPEN"
	PayableStatePartiallyPaid PayableState = "PARTIALLY_PAID"
	PayableStateClosed        PayableState = "CLOSED"
)

// Payable es la capacidad común de Sale y Credit frente al ledger de pagos.
type Payable interface {
	Ref() PayableRef
	Total() decimal.Decimal
	Paid() decimal.Decimal
	Remaining() decimal.Decimal
	State() PayableState
	// ApplyPayment suma amount a lo pagado y recalcula saldo y estado.
	// No valida contra el saldo: eso es responsabilidad del reconciliador.
	ApplyPayment(amount decimal.Decimal)
}

// MoneyScale decimales con que se guardan los montos (NUMERIC(14,2)).
const MoneyScale = 2

// ValidMoneyScale indica si d no tiene más de MoneyScale decimales significativos.
// "10.500" es válido; "9.999" no.
func ValidMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// StateFor deriva el estado a partir del total y lo pagado.
func StateFor(total, paid decimal.Decimal) PayableState {
	if total.Sub(paid).LessThanOrEqual(decimal.Zero) {
		return PayableStateClosed
	}
	if paid.GreaterThan(decimal.Zero) {
		return PayableStatePartiallyPaid
	}
	return PayableStateOpen
}

// remainingOf devuelve max(0, total - paid).
func remainingOf(total, paid decimal.Decimal) decimal.Decimal {
	r := total.Sub(paid)
	if r.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return r
}
