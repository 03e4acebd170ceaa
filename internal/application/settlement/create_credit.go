package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger-api/internal/application/billing"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CreateCreditInput entrada de CreateCredit.
type CreateCreditInput struct {
	ClientID       string
	Amount         decimal.Decimal
	InitialPayment decimal.Decimal // 0 = sin abono inicial
	Method         string          // vacío = cash
	Note           string
	Description    string
	DueDate        *time.Time
	UserID         string
}

// CreateCredit crea un crédito para un cliente y, si hay abono inicial, su registro de pago.
func (c *Coordinator) CreateCredit(ctx context.Context, in CreateCreditInput) (*entity.Credit, error) {
	if in.ClientID == "" || !in.Amount.GreaterThan(decimal.Zero) || in.InitialPayment.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidMoneyScale(in.Amount) || !entity.ValidMoneyScale(in.InitialPayment) {
		return nil, domain.NewLedgerError(domain.ErrInvalidInput, in.ClientID, "los montos admiten máximo dos decimales")
	}
	method := in.Method
	if method == "" {
		method = entity.PaymentMethodCash
	}

	var credit *entity.Credit
	err := c.txRunner.Run(ctx, func(repos repository.Repositories) error {
		if err := c.requireClient(ctx, repos, in.ClientID); err != nil {
			return err
		}
		now := time.Now()
		credit = &entity.Credit{
			ID:          uuid.New().String(),
			ClientID:    in.ClientID,
			Amount:      in.Amount.Round(entity.MoneyScale),
			PaidAmount:  decimal.Zero,
			Statut:      entity.CreditStatutActive,
			Description: in.Description,
			DueDate:     in.DueDate,
			CreatedBy:   in.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.Credits.Create(ctx, credit); err != nil {
			return err
		}

		if in.InitialPayment.GreaterThan(decimal.Zero) {
			_, payable, err := c.payments.RecordInTx(ctx, repos, billing.PaymentInput{
				Payable: credit.Ref(),
				Amount:  in.InitialPayment,
				Method:  method,
				Note:    in.Note,
				UserID:  in.UserID,
			})
			if err != nil {
				return err
			}
			updated, _ := payable.(*entity.Credit)
			if updated != nil {
				credit = updated
			}
		}

		return writeHistory(ctx, repos, entity.HistoryCreditCreated, string(entity.PayableCredit), credit.ID, in.UserID, map[string]any{
			"amount":      credit.Amount.StringFixed(2),
			"paid_amount": credit.PaidAmount.StringFixed(2),
			"client_id":   credit.ClientID,
		})
	})
	if err != nil {
		return nil, err
	}
	c.log.Info().
		Str("credit_id", credit.ID).
		Str("amount", credit.Amount.StringFixed(2)).
		Msg("crédito registrado")
	return credit, nil
}

// MarkFullyPaid salda una venta o crédito y deja constancia en el historial.
// Retorna (nil, nil) si la cuenta ya estaba saldada.
func (c *Coordinator) MarkFullyPaid(ctx context.Context, ref entity.PayableRef, method, note, userID string) (*entity.PaymentRecord, error) {
	var rec *entity.PaymentRecord
	err := c.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		rec, err = c.payments.MarkFullyPaidInTx(ctx, repos, ref, method, note, userID)
		if err != nil || rec == nil {
			return err
		}
		return writeHistory(ctx, repos, entity.HistoryMarkedPaid, string(rec.Payable.Kind), rec.Payable.ID, userID, map[string]any{
			"payment_id": rec.ID,
			"amount":     rec.Amount.StringFixed(2),
			"method":     rec.Method,
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
