package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// HistoryRepository persiste el historial de auditoría.
type HistoryRepository interface {
	Create(ctx context.Context, h *entity.History) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.History, error)
}
