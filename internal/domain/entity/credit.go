package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

var _ Payable = (*Credit)(nil)

// Estados de un crédito.
const (
	CreditStatutActive = "active"
	CreditStatutClosed = "closed"
)

// Credit representa una deuda de un cliente. El saldo pendiente no se persiste:
// se deriva como Amount - PaidAmount.
type Credit struct {
	ID          string
	ClientID    string
	Amount      decimal.Decimal
	PaidAmount  decimal.Decimal
	Statut      string // active | closed
	Description string
	DueDate     *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Credit) Ref() PayableRef { return PayableRef{Kind: PayableCredit, ID: c.ID} }
func (c *Credit) Total() decimal.Decimal { return c.Amount }
func (c *Credit) Paid() decimal.Decimal { return c.PaidAmount }
func (c *Credit) Remaining() decimal.Decimal { return remainingOf(c.Amount, c.PaidAmount) }
func (c *Credit) State() PayableState { return StateFor(c.Amount, c.PaidAmount) }

// ApplyPayment suma el pago y actualiza Statut.
func (c *Credit) ApplyPayment(amount decimal.Decimal) {
	c.PaidAmount = c.PaidAmount.Add(amount)
	c.RefreshStatut()
}

// RefreshStatut cierra el crédito cuando lo pagado cubre el monto; si no, queda activo.
func (c *Credit) RefreshStatut() {
	if c.PaidAmount.GreaterThanOrEqual(c.Amount) {
		c.Statut = CreditStatutClosed
		return
	}
	c.Statut = CreditStatutActive
}
