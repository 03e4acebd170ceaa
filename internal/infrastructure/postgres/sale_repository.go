package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, client_id, discount, total_amount, paid_amount, remaining_amount, note, sale_date, created_by, created_at, updated_at`

// SaleRepo persistencia de ventas (cabecera, líneas y cargos extra).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta solo la cabecera; líneas y cargos van con CreateItem / CreateExtraCharge.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, nullString(s.ClientID), s.Discount, s.TotalAmount, s.PaidAmount, s.RemainingAmount,
		s.Note, s.SaleDate, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewLedgerError(domain.ErrNotFound, s.ClientID, "cliente")
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		it.ID, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewLedgerError(domain.ErrNotFound, it.ProductID, "producto")
		}
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

func (r *SaleRepo) CreateExtraCharge(ctx context.Context, ch *entity.ExtraCharge) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_extra_charges (id, sale_id, label, price)
		VALUES ($1, $2, $3, $4)`,
		ch.ID, ch.SaleID, ch.Label, ch.Price,
	)
	if err != nil {
		return fmt.Errorf("insert sale extra charge: %w", err)
	}
	return nil
}

// GetByID obtiene la venta con sus líneas y cargos.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	if err != nil || s == nil {
		return s, err
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	// La conexión de la tx no admite dos result sets abiertos.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	chRows, err := r.q.Query(ctx, `
		SELECT id, sale_id, label, price FROM sale_extra_charges WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale extra charges: %w", err)
	}
	defer chRows.Close()
	for chRows.Next() {
		var ch entity.ExtraCharge
		if err := chRows.Scan(&ch.ID, &ch.SaleID, &ch.Label, &ch.Price); err != nil {
			return nil, fmt.Errorf("scan sale extra charge: %w", err)
		}
		s.ExtraCharges = append(s.ExtraCharges, ch)
	}
	return s, chRows.Err()
}

// GetForUpdate bloquea la cabecera de la venta.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	var s entity.Sale
	var clientID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &clientID, &s.Discount, &s.TotalAmount, &s.PaidAmount, &s.RemainingAmount,
		&s.Note, &s.SaleDate, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.ClientID = derefString(clientID)
	return &s, nil
}

// UpdatePayment persiste paid_amount y remaining_amount.
func (r *SaleRepo) UpdatePayment(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sales SET paid_amount = $2, remaining_amount = $3, updated_at = $4 WHERE id = $1`,
		s.ID, s.PaidAmount, s.RemainingAmount, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale payment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
