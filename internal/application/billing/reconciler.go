package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// PayableReconciler decide cómo un pago actualiza los totales de una venta o un crédito.
// Es el único código que conoce las dos variantes de entity.Payable.
type PayableReconciler struct{}

// NewPayableReconciler construye el reconciliador.
func NewPayableReconciler() *PayableReconciler {
	return &PayableReconciler{}
}

// Load obtiene la cuenta bloqueada para update según su tipo.
func (r *PayableReconciler) Load(ctx context.Context, repos repository.Repositories, ref entity.PayableRef) (entity.Payable, error) {
	if !ref.Valid() {
		return nil, domain.NewLedgerError(domain.ErrPayableNotFound, ref.ID, "referencia inválida")
	}
	switch ref.Kind {
	case entity.PayableSale:
		s, err := repos.Sales.GetForUpdate(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, domain.NewLedgerError(domain.ErrPayableNotFound, ref.ID, "venta")
		}
		return s, nil
	default:
		c, err := repos.Credits.GetForUpdate(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.NewLedgerError(domain.ErrPayableNotFound, ref.ID, "crédito")
		}
		return c, nil
	}
}

// Check valida 0 < amount <= saldo pendiente, con máximo dos decimales.
func (r *PayableReconciler) Check(p entity.Payable, amount decimal.Decimal) error {
	if !amount.GreaterThan(decimal.Zero) {
		return domain.NewLedgerError(domain.ErrOverpaymentRejected, p.Ref().ID,
			fmt.Sprintf("el monto debe ser positivo, recibido %s", amount.String()))
	}
	if !entity.ValidMoneyScale(amount) {
		return domain.NewLedgerError(domain.ErrInvalidInput, p.Ref().ID,
			fmt.Sprintf("el monto admite máximo %d decimales, recibido %s", entity.MoneyScale, amount.String()))
	}
	remaining := p.Remaining()
	if amount.GreaterThan(remaining) {
		return domain.NewLedgerError(domain.ErrOverpaymentRejected, p.Ref().ID,
			fmt.Sprintf("monto %s, saldo pendiente %s", amount.StringFixed(2), remaining.StringFixed(2)))
	}
	return nil
}

// Apply valida y aplica el pago sobre la cuenta en memoria.
func (r *PayableReconciler) Apply(p entity.Payable, amount decimal.Decimal) error {
	if err := r.Check(p, amount); err != nil {
		return err
	}
	p.ApplyPayment(amount)
	if p.Paid().GreaterThan(p.Total()) {
		return domain.NewLedgerError(domain.ErrConflict, p.Ref().ID, "pagado supera el total")
	}
	return nil
}

// Save persiste los totales de la cuenta.
func (r *PayableReconciler) Save(ctx context.Context, repos repository.Repositories, p entity.Payable) error {
	switch v := p.(type) {
	case *entity.Sale:
		v.UpdatedAt = time.Now()
		return repos.Sales.UpdatePayment(ctx, v)
	case *entity.Credit:
		v.UpdatedAt = time.Now()
		return repos.Credits.Update(ctx, v)
	}
	return fmt.Errorf("tipo de cuenta no soportado: %T", p)
}
