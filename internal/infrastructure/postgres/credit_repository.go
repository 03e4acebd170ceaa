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

var _ repository.CreditRepository = (*CreditRepo)(nil)

const creditColumns = `id, client_id, amount, paid_amount, statut, description, due_date, created_by, created_at, updated_at`

// CreditRepo persistencia de créditos.
type CreditRepo struct {
	q Querier
}

// NewCreditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditRepository(q Querier) *CreditRepo {
	return &CreditRepo{q: q}
}

func (r *CreditRepo) Create(ctx context.Context, c *entity.Credit) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO credits (`+creditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.ClientID, c.Amount, c.PaidAmount, c.Statut, c.Description, c.DueDate, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewLedgerError(domain.ErrNotFound, c.ClientID, "cliente")
		}
		return fmt.Errorf("insert credit: %w", err)
	}
	return nil
}

func (r *CreditRepo) GetByID(ctx context.Context, id string) (*entity.Credit, error) {
	return r.get(ctx, `SELECT `+creditColumns+` FROM credits WHERE id = $1`, id)
}

func (r *CreditRepo) GetForUpdate(ctx context.Context, id string) (*entity.Credit, error) {
	return r.get(ctx, `SELECT `+creditColumns+` FROM credits WHERE id = $1 FOR UPDATE`, id)
}

func (r *CreditRepo) get(ctx context.Context, query, id string) (*entity.Credit, error) {
	var c entity.Credit
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ClientID, &c.Amount, &c.PaidAmount, &c.Statut, &c.Description, &c.DueDate, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit: %w", err)
	}
	return &c, nil
}

// Update persiste monto, pagado, estado y descripción.
func (r *CreditRepo) Update(ctx context.Context, c *entity.Credit) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE credits
		SET amount = $2, paid_amount = $3, statut = $4, description = $5, due_date = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Amount, c.PaidAmount, c.Statut, c.Description, c.DueDate, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update credit: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
