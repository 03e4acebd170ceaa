package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo historial de auditoría; details se guarda como jsonb.
type HistoryRepo struct {
	q Querier
}

func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

func (r *HistoryRepo) Create(ctx context.Context, h *entity.History) error {
	details := h.Details
	if details == nil {
		details = map[string]any{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO histories (id, action, entity_type, entity_id, details, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.Action, h.EntityType, h.EntityID, details, h.CreatedBy, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (r *HistoryRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.History, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, action, entity_type, entity_id, details, created_by, created_at
		FROM histories WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at`,
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list histories: %w", err)
	}
	defer rows.Close()
	var list []*entity.History
	for rows.Next() {
		var h entity.History
		if err := rows.Scan(&h.ID, &h.Action, &h.EntityType, &h.EntityID, &h.Details, &h.CreatedBy, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
