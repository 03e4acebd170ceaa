package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger-api/internal/application/ports"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Valores por defecto de MarkFullyPaid.
const (
	DefaultSettleMethod = entity.PaymentMethodCash
	DefaultSettleNote   = "auto"
)

// PaymentLedger registra pagos contra ventas y créditos y mantiene
// paid_amount igual a la suma de sus registros de pago.
type PaymentLedger struct {
	txRunner   ports.TxRunner
	reconciler *PayableReconciler
}

// NewPaymentLedger construye el ledger de pagos.
func NewPaymentLedger(txRunner ports.TxRunner, reconciler *PayableReconciler) *PaymentLedger {
	return &PaymentLedger{txRunner: txRunner, reconciler: reconciler}
}

// PaymentInput entrada para registrar un pago.
type PaymentInput struct {
	Payable entity.PayableRef
	Amount  decimal.Decimal
	Method  string
	Date    time.Time // cero = ahora
	Note    string
	UserID  string

	systemGenerated bool
}

// PayableSummary estado de una cuenta junto con la suma de su historial de pagos.
type PayableSummary struct {
	Ref           entity.PayableRef
	Total         decimal.Decimal
	Paid          decimal.Decimal
	Remaining     decimal.Decimal
	State         entity.PayableState
	PaymentsTotal decimal.Decimal
}

// Consistent indica si paid_amount coincide con la suma de pagos.
func (s PayableSummary) Consistent() bool { return s.Paid.Equal(s.PaymentsTotal) }

// RecordPayment registra un pago en su propia transacción.
func (l *PaymentLedger) RecordPayment(ctx context.Context, in PaymentInput) (*entity.PaymentRecord, error) {
	var rec *entity.PaymentRecord
	err := l.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		rec, _, err = l.RecordInTx(ctx, repos, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// RecordInTx: bloquea la cuenta, valida el monto contra el saldo, guarda el registro
// de pago y luego los totales recalculados. Todo con los repos del caller.
func (l *PaymentLedger) RecordInTx(
	ctx context.Context,
	repos repository.Repositories,
	in PaymentInput,
) (*entity.PaymentRecord, entity.Payable, error) {
	if !entity.ValidPaymentMethod(in.Method) {
		return nil, nil, domain.NewLedgerError(domain.ErrInvalidInput, in.Payable.ID, "método de pago inválido: "+in.Method)
	}
	payable, err := l.reconciler.Load(ctx, repos, in.Payable)
	if err != nil {
		return nil, nil, err
	}
	if err := l.reconciler.Check(payable, in.Amount); err != nil {
		return nil, nil, err
	}
	in.Amount = in.Amount.Round(entity.MoneyScale)

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	rec := &entity.PaymentRecord{
		ID:              uuid.New().String(),
		Payable:         payable.Ref(),
		Amount:          in.Amount,
		Method:          in.Method,
		PaymentDate:     date,
		Note:            in.Note,
		SystemGenerated: in.systemGenerated,
		CreatedBy:       in.UserID,
		CreatedAt:       now,
	}
	if err := repos.Payments.Create(ctx, rec); err != nil {
		return nil, nil, err
	}

	if err := l.reconciler.Apply(payable, in.Amount); err != nil {
		return nil, nil, err
	}
	if err := l.reconciler.Save(ctx, repos, payable); err != nil {
		return nil, nil, err
	}
	return rec, payable, nil
}

// MarkFullyPaid salda la cuenta con un pago generado por el sistema.
// Si el saldo ya es 0 no hace nada y retorna (nil, nil).
func (l *PaymentLedger) MarkFullyPaid(ctx context.Context, ref entity.PayableRef, method, note, userID string) (*entity.PaymentRecord, error) {
	var rec *entity.PaymentRecord
	err := l.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		rec, err = l.MarkFullyPaidInTx(ctx, repos, ref, method, note, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// MarkFullyPaidInTx variante transaccional de MarkFullyPaid.
func (l *PaymentLedger) MarkFullyPaidInTx(
	ctx context.Context,
	repos repository.Repositories,
	ref entity.PayableRef,
	method, note, userID string,
) (*entity.PaymentRecord, error) {
	if method == "" {
		method = DefaultSettleMethod
	}
	if note == "" {
		note = DefaultSettleNote
	}
	payable, err := l.reconciler.Load(ctx, repos, ref)
	if err != nil {
		return nil, err
	}
	remaining := payable.Remaining()
	if !remaining.GreaterThan(decimal.Zero) {
		return nil, nil
	}
	rec, _, err := l.RecordInTx(ctx, repos, PaymentInput{
		Payable:         ref,
		Amount:          remaining,
		Method:          method,
		Note:            note,
		UserID:          userID,
		systemGenerated: true,
	})
	return rec, err
}

// ListPayments lista el historial de pagos de una cuenta.
func (l *PaymentLedger) ListPayments(ctx context.Context, ref entity.PayableRef) ([]*entity.PaymentRecord, error) {
	var list []*entity.PaymentRecord
	err := l.txRunner.Run(ctx, func(repos repository.Repositories) error {
		if _, err := l.reconciler.Load(ctx, repos, ref); err != nil {
			return err
		}
		var err error
		list, err = repos.Payments.ListByPayable(ctx, ref)
		return err
	})
	return list, err
}

// GetSummary devuelve totales, estado y suma de pagos de una cuenta.
func (l *PaymentLedger) GetSummary(ctx context.Context, ref entity.PayableRef) (PayableSummary, error) {
	var sum PayableSummary
	err := l.txRunner.Run(ctx, func(repos repository.Repositories) error {
		p, err := l.reconciler.Load(ctx, repos, ref)
		if err != nil {
			return err
		}
		paymentsTotal, err := repos.Payments.SumByPayable(ctx, ref)
		if err != nil {
			return err
		}
		sum = PayableSummary{
			Ref:           p.Ref(),
			Total:         p.Total(),
			Paid:          p.Paid(),
			Remaining:     p.Remaining(),
			State:         p.State(),
			PaymentsTotal: paymentsTotal,
		}
		return nil
	})
	return sum, err
}

// UpdateCreditAmount edición explícita del monto de un crédito. El nuevo monto no puede
// quedar por debajo de lo ya pagado; Statut se recalcula.
func (l *PaymentLedger) UpdateCreditAmount(ctx context.Context, id string, amount *decimal.Decimal, description *string) (*entity.Credit, error) {
	var out *entity.Credit
	err := l.txRunner.Run(ctx, func(repos repository.Repositories) error {
		c, err := repos.Credits.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewLedgerError(domain.ErrPayableNotFound, id, "crédito")
		}
		if amount != nil {
			if !amount.GreaterThan(decimal.Zero) || !entity.ValidMoneyScale(*amount) {
				return domain.NewLedgerError(domain.ErrInvalidInput, id, "el monto debe ser positivo y con máximo dos decimales")
			}
			if amount.LessThan(c.PaidAmount) {
				return domain.NewLedgerError(domain.ErrInvalidInput, id, "el monto no puede ser menor a lo pagado")
			}
			c.Amount = amount.Round(entity.MoneyScale)
		}
		if description != nil {
			c.Description = *description
		}
		c.RefreshStatut()
		c.UpdatedAt = time.Now()
		if err := repos.Credits.Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}
