package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo historial de pagos. Cada fila apunta a sale_id o a credit_id, nunca a ambos.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// payableColumn columna FK según el tipo de cuenta.
func payableColumn(kind entity.PayableKind) string {
	if kind == entity.PayableSale {
		return "sale_id"
	}
	return "credit_id"
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.PaymentRecord) error {
	var saleID, creditID *string
	if p.Payable.Kind == entity.PayableSale {
		saleID = &p.Payable.ID
	} else {
		creditID = &p.Payable.ID
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO payment_histories (id, sale_id, credit_id, amount, method, payment_date, note, system_generated, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, saleID, creditID, p.Amount, p.Method, p.PaymentDate, p.Note, p.SystemGenerated, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListByPayable pagos de la cuenta en orden cronológico.
func (r *PaymentRepo) ListByPayable(ctx context.Context, ref entity.PayableRef) ([]*entity.PaymentRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, amount, method, payment_date, note, system_generated, created_by, created_at
		FROM payment_histories WHERE `+payableColumn(ref.Kind)+` = $1
		ORDER BY payment_date, created_at`, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.PaymentRecord
	for rows.Next() {
		p := entity.PaymentRecord{Payable: ref}
		if err := rows.Scan(&p.ID, &p.Amount, &p.Method, &p.PaymentDate, &p.Note, &p.SystemGenerated, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *PaymentRepo) SumByPayable(ctx context.Context, ref entity.PayableRef) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payment_histories WHERE `+payableColumn(ref.Kind)+` = $1`,
		ref.ID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return total, nil
}
