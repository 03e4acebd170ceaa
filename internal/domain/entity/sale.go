package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

var _ Payable = (*Sale)(nil)

// Sale representa la cabecera de una venta. TotalAmount no cambia tras la creación.
type Sale struct {
	ID              string
	ClientID        string // opcional (venta de mostrador)
	Discount        decimal.Decimal
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal // max(0, TotalAmount - PaidAmount)
	Note            string
	SaleDate        time.Time
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items        []SaleItem
	ExtraCharges []ExtraCharge
}

// SaleItem línea de venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// ExtraCharge cargo adicional de una venta (envío, instalación...).
type ExtraCharge struct {
	ID     string
	SaleID string
	Label  string
	Price  decimal.Decimal
}

func (s *Sale) Ref() PayableRef { return PayableRef{Kind: PayableSale, ID: s.ID} }
func (s *Sale) Total() decimal.Decimal { return s.TotalAmount }
func (s *Sale) Paid() decimal.Decimal { return s.PaidAmount }
func (s *Sale) Remaining() decimal.Decimal { return remainingOf(s.TotalAmount, s.PaidAmount) }
func (s *Sale) State() PayableState { return StateFor(s.TotalAmount, s.PaidAmount) }

// ApplyPayment suma el pago y recalcula RemainingAmount.
func (s *Sale) ApplyPayment(amount decimal.Decimal) {
	s.PaidAmount = s.PaidAmount.Add(amount)
	s.RemainingAmount = remainingOf(s.TotalAmount, s.PaidAmount)
}
