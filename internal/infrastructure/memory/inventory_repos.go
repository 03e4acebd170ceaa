package memory

import (
	"context"
	"slices"
	"time"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
)

type productRepo struct{ d *data }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.d.products[p.ID]; ok {
		return domain.ErrConflict
	}
	r.d.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.d.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate no necesita bloqueo: Store.Run ya serializa.
func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) UpdateStock(_ context.Context, id string, quantity int64) error {
	p, ok := r.d.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = quantity
	p.UpdatedAt = time.Now()
	r.d.products[id] = p
	return nil
}

type movementRepo struct{ d *data }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if _, ok := r.d.movements[m.ID]; ok {
		return domain.ErrConflict
	}
	r.d.movements[m.ID] = *m
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	m, ok := r.d.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *movementRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.GetByID(ctx, id)
}

func (r *movementRepo) Update(_ context.Context, m *entity.StockMovement) error {
	if _, ok := r.d.movements[m.ID]; !ok {
		return domain.ErrNotFound
	}
	r.d.movements[m.ID] = *m
	return nil
}

func (r *movementRepo) Delete(_ context.Context, id string) error {
	delete(r.d.movements, id)
	return nil
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.d.movements {
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		m := m
		list = append(list, &m)
	}
	// Más recientes primero, igual que el ORDER BY de postgres.
	slices.SortFunc(list, func(a, b *entity.StockMovement) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *movementRepo) TotalsByProduct(_ context.Context, productID string) (repository.MovementTotals, error) {
	var t repository.MovementTotals
	for _, m := range r.d.movements {
		if m.ProductID != productID {
			continue
		}
		switch m.Type {
		case entity.MovementTypeIN:
			t.In += m.Quantity
		case entity.MovementTypeOUT:
			t.Out += m.Quantity
		case entity.MovementTypeADJUST:
			t.Adjust += m.Quantity
		}
	}
	return t, nil
}
