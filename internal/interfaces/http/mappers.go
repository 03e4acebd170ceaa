package http

import (
	"github.com/jhoicas/pos-ledger-api/internal/application/billing"
	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/application/inventory"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Unit:          p.Unit,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toStockCheckResponse(chk inventory.StockCheck) dto.StockCheckResponse {
	return dto.StockCheckResponse{
		ProductID:     chk.ProductID,
		StockQuantity: chk.StockQuantity,
		TotalIn:       chk.TotalIn,
		TotalOut:      chk.TotalOut,
		Expected:      chk.Expected,
		Drift:         chk.Drift,
		Consistent:    chk.Consistent(),
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Reference:   m.Reference,
		Date:        m.Date,
		Description: m.Description,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:              s.ID,
		ClientID:        s.ClientID,
		Discount:        s.Discount,
		TotalAmount:     s.TotalAmount,
		PaidAmount:      s.PaidAmount,
		RemainingAmount: s.Remaining(),
		State:           string(s.State()),
		Note:            s.Note,
		SaleDate:        s.SaleDate,
		Items:           make([]dto.SaleItemResponse, 0, len(s.Items)),
		ExtraCharges:    make([]dto.ExtraChargeResponse, 0, len(s.ExtraCharges)),
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	for _, ch := range s.ExtraCharges {
		out.ExtraCharges = append(out.ExtraCharges, dto.ExtraChargeResponse{ID: ch.ID, Label: ch.Label, Price: ch.Price})
	}
	return out
}

func toCreditResponse(c *entity.Credit) dto.CreditResponse {
	return dto.CreditResponse{
		ID:              c.ID,
		ClientID:        c.ClientID,
		Amount:          c.Amount,
		PaidAmount:      c.PaidAmount,
		RemainingAmount: c.Remaining(),
		Statut:          c.Statut,
		State:           string(c.State()),
		Description:     c.Description,
		DueDate:         c.DueDate,
		CreatedBy:       c.CreatedBy,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toPaymentResponse(p *entity.PaymentRecord) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:              p.ID,
		PayableType:     string(p.Payable.Kind),
		PayableID:       p.Payable.ID,
		Amount:          p.Amount,
		Method:          p.Method,
		PaymentDate:     p.PaymentDate,
		Note:            p.Note,
		SystemGenerated: p.SystemGenerated,
		CreatedBy:       p.CreatedBy,
		CreatedAt:       p.CreatedAt,
	}
}

func toPaymentListResponse(sum billing.PayableSummary, list []*entity.PaymentRecord) dto.PaymentListResponse {
	out := dto.PaymentListResponse{
		PayableType:   string(sum.Ref.Kind),
		PayableID:     sum.Ref.ID,
		Total:         sum.Total,
		Paid:          sum.Paid,
		Remaining:     sum.Remaining,
		State:         string(sum.State),
		PaymentsTotal: sum.PaymentsTotal,
		Payments:      make([]dto.PaymentResponse, 0, len(list)),
	}
	for _, p := range list {
		out.Payments = append(out.Payments, toPaymentResponse(p))
	}
	return out
}

func toHistoryResponses(list []*entity.History) []dto.HistoryResponse {
	out := make([]dto.HistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, dto.HistoryResponse{
			ID:         h.ID,
			Action:     h.Action,
			EntityType: h.EntityType,
			EntityID:   h.EntityID,
			Details:    h.Details,
			CreatedBy:  h.CreatedBy,
			CreatedAt:  h.CreatedAt,
		})
	}
	return out
}
