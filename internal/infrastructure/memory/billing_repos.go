package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.SaleRepository    = (*saleRepo)(nil)
	_ repository.CreditRepository  = (*creditRepo)(nil)
	_ repository.PaymentRepository = (*paymentRepo)(nil)
	_ repository.HistoryRepository = (*historyRepo)(nil)
	_ repository.ClientRepository  = (*clientRepo)(nil)
)

type saleRepo struct{ d *data }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	if _, ok := r.d.sales[s.ID]; ok {
		return domain.ErrConflict
	}
	header := *s
	header.Items, header.ExtraCharges = nil, nil
	r.d.sales[s.ID] = header
	return nil
}

func (r *saleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	if _, ok := r.d.sales[item.SaleID]; !ok {
		return domain.ErrNotFound
	}
	r.d.items[item.SaleID] = append(r.d.items[item.SaleID], *item)
	return nil
}

func (r *saleRepo) CreateExtraCharge(_ context.Context, ch *entity.ExtraCharge) error {
	if _, ok := r.d.sales[ch.SaleID]; !ok {
		return domain.ErrNotFound
	}
	r.d.charges[ch.SaleID] = append(r.d.charges[ch.SaleID], *ch)
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	s, ok := r.d.sales[id]
	if !ok {
		return nil, nil
	}
	s.Items = append([]entity.SaleItem(nil), r.d.items[id]...)
	s.ExtraCharges = append([]entity.ExtraCharge(nil), r.d.charges[id]...)
	return &s, nil
}

func (r *saleRepo) GetForUpdate(_ context.Context, id string) (*entity.Sale, error) {
	s, ok := r.d.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *saleRepo) UpdatePayment(_ context.Context, s *entity.Sale) error {
	cur, ok := r.d.sales[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.PaidAmount = s.PaidAmount
	cur.RemainingAmount = s.RemainingAmount
	cur.UpdatedAt = s.UpdatedAt
	r.d.sales[s.ID] = cur
	return nil
}

type creditRepo struct{ d *data }

func (r *creditRepo) Create(_ context.Context, c *entity.Credit) error {
	if _, ok := r.d.credits[c.ID]; ok {
		return domain.ErrConflict
	}
	r.d.credits[c.ID] = *c
	return nil
}

func (r *creditRepo) GetByID(_ context.Context, id string) (*entity.Credit, error) {
	c, ok := r.d.credits[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *creditRepo) GetForUpdate(ctx context.Context, id string) (*entity.Credit, error) {
	return r.GetByID(ctx, id)
}

func (r *creditRepo) Update(_ context.Context, c *entity.Credit) error {
	if _, ok := r.d.credits[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.d.credits[c.ID] = *c
	return nil
}

type paymentRepo struct{ d *data }

func (r *paymentRepo) Create(_ context.Context, p *entity.PaymentRecord) error {
	r.d.payments = append(r.d.payments, *p)
	return nil
}

func (r *paymentRepo) ListByPayable(_ context.Context, ref entity.PayableRef) ([]*entity.PaymentRecord, error) {
	var list []*entity.PaymentRecord
	for _, p := range r.d.payments {
		if p.Payable == ref {
			p := p
			list = append(list, &p)
		}
	}
	slices.SortStableFunc(list, func(a, b *entity.PaymentRecord) int {
		return a.PaymentDate.Compare(b.PaymentDate)
	})
	return list, nil
}

func (r *paymentRepo) SumByPayable(_ context.Context, ref entity.PayableRef) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.d.payments {
		if p.Payable == ref {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

type historyRepo struct{ d *data }

func (r *historyRepo) Create(_ context.Context, h *entity.History) error {
	r.d.histories = append(r.d.histories, *h)
	return nil
}

func (r *historyRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]*entity.History, error) {
	var list []*entity.History
	for _, h := range r.d.histories {
		if h.EntityType == entityType && h.EntityID == entityID {
			h := h
			list = append(list, &h)
		}
	}
	return list, nil
}

type clientRepo struct{ d *data }

func (r *clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	c, ok := r.d.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}
