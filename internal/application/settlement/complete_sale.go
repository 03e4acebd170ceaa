package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger-api/internal/application/billing"
	"github.com/jhoicas/pos-ledger-api/internal/application/inventory"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SaleLine línea de venta solicitada. UnitPrice cero = precio de venta del producto.
type SaleLine struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// ExtraChargeInput cargo adicional de la venta.
type ExtraChargeInput struct {
	Label string
	Price decimal.Decimal
}

// PaymentInfo pago inicial de la venta. Con MarkPaid se ignora PaidAmount.
type PaymentInfo struct {
	MarkPaid   bool
	PaidAmount decimal.Decimal // se recorta a [0, total]
	Method     string          // vacío = cash
	Note       string
	Date       time.Time
}

// CompleteSaleInput entrada de CompleteSale.
type CompleteSaleInput struct {
	ClientID     string
	Lines        []SaleLine
	ExtraCharges []ExtraChargeInput
	Discount     decimal.Decimal
	Payment      PaymentInfo
	Note         string
	SaleDate     time.Time
	// AllowInsufficientStock descuenta hasta 0 en vez de fallar; el faltante queda
	// en el log y en el historial de la venta.
	AllowInsufficientStock bool
	UserID                 string
}

// StockShortfall unidades de una línea que no pudieron descontarse.
type StockShortfall struct {
	ProductID string
	Requested int64
	Deducted  int64
}

func validateSale(in CompleteSaleInput) error {
	if len(in.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || l.UnitPrice.LessThan(decimal.Zero) || !entity.ValidMoneyScale(l.UnitPrice) {
			return domain.ErrInvalidInput
		}
		if l.Quantity <= 0 {
			return domain.NewLedgerError(domain.ErrInvalidQuantity, l.ProductID,
				fmt.Sprintf("la cantidad debe ser un entero positivo, recibido %d", l.Quantity))
		}
	}
	for _, ch := range in.ExtraCharges {
		if ch.Price.LessThan(decimal.Zero) || !entity.ValidMoneyScale(ch.Price) {
			return domain.ErrInvalidInput
		}
	}
	if in.Discount.LessThan(decimal.Zero) || !entity.ValidMoneyScale(in.Discount) {
		return domain.ErrInvalidInput
	}
	if !entity.ValidMoneyScale(in.Payment.PaidAmount) {
		return domain.ErrInvalidInput
	}
	if in.Payment.Method != "" && !entity.ValidPaymentMethod(in.Payment.Method) {
		return domain.ErrInvalidInput
	}
	return nil
}

// CompleteSale crea la venta, una línea y una salida de inventario por ítem, el pago
// inicial (si lo hay) y un registro de historial, todo en una transacción.
func (c *Coordinator) CompleteSale(ctx context.Context, in CompleteSaleInput) (*entity.Sale, error) {
	if err := validateSale(in); err != nil {
		return nil, err
	}
	policy := inventory.StockPolicyReject
	if in.AllowInsufficientStock {
		policy = inventory.StockPolicyClamp
	}

	var sale *entity.Sale
	var shortfalls []StockShortfall

	err := c.txRunner.Run(ctx, func(repos repository.Repositories) error {
		shortfalls = nil
		if in.ClientID != "" {
			if err := c.requireClient(ctx, repos, in.ClientID); err != nil {
				return err
			}
		}

		now := time.Now()
		saleDate := in.SaleDate
		if saleDate.IsZero() {
			saleDate = now
		}
		sale = &entity.Sale{
			ID:        uuid.New().String(),
			ClientID:  in.ClientID,
			Discount:  in.Discount,
			Note:      in.Note,
			SaleDate:  saleDate,
			CreatedBy: in.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		// 1) Precios y total (fuera de toda escritura)
		gross := decimal.Zero
		for _, l := range in.Lines {
			price := l.UnitPrice
			if price.IsZero() {
				p, err := repos.Products.GetByID(ctx, l.ProductID)
				if err != nil {
					return err
				}
				if p == nil {
					return domain.NewLedgerError(domain.ErrNotFound, l.ProductID, "producto")
				}
				price = p.SalePrice
			}
			subtotal := price.Mul(decimal.NewFromInt(l.Quantity))
			gross = gross.Add(subtotal)
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: price,
				Subtotal:  subtotal,
			})
		}
		for _, ch := range in.ExtraCharges {
			gross = gross.Add(ch.Price)
			sale.ExtraCharges = append(sale.ExtraCharges, entity.ExtraCharge{
				ID:     uuid.New().String(),
				SaleID: sale.ID,
				Label:  ch.Label,
				Price:  ch.Price,
			})
		}
		if in.Discount.GreaterThan(gross) {
			return domain.NewLedgerError(domain.ErrInvalidInput, sale.ID, "el descuento supera el total")
		}
		sale.TotalAmount = gross.Sub(in.Discount).Round(2)
		sale.PaidAmount = decimal.Zero
		sale.RemainingAmount = sale.TotalAmount

		// 2) Cabecera
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		// 3) Líneas + salida de inventario por línea
		reference := "sale:" + sale.ID
		for _, item := range sale.Items {
			item := item
			if err := repos.Sales.CreateItem(ctx, &item); err != nil {
				return err
			}
			_, res, err := c.movements.CreateInTx(ctx, repos, inventory.MovementInput{
				ProductID:   item.ProductID,
				Type:        entity.MovementTypeOUT,
				Quantity:    item.Quantity,
				Reference:   reference,
				Date:        saleDate,
				Description: "venta",
				UserID:      in.UserID,
			}, policy)
			if err != nil {
				return err
			}
			if missing := res.Shortfall(-item.Quantity); missing != 0 {
				shortfalls = append(shortfalls, StockShortfall{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Deducted:  -res.Applied,
				})
			}
		}
		for _, ch := range sale.ExtraCharges {
			ch := ch
			if err := repos.Sales.CreateExtraCharge(ctx, &ch); err != nil {
				return err
			}
		}

		// 4) Pago inicial: pasa por el ledger de pagos para que paid_amount == Σ pagos
		paid := decimal.Max(in.Payment.PaidAmount, decimal.Zero)
		if in.Payment.MarkPaid || paid.GreaterThan(sale.TotalAmount) {
			paid = sale.TotalAmount
		}
		if paid.GreaterThan(decimal.Zero) {
			method := in.Payment.Method
			if method == "" {
				method = entity.PaymentMethodCash
			}
			_, payable, err := c.payments.RecordInTx(ctx, repos, billing.PaymentInput{
				Payable: sale.Ref(),
				Amount:  paid,
				Method:  method,
				Date:    in.Payment.Date,
				Note:    in.Payment.Note,
				UserID:  in.UserID,
			})
			if err != nil {
				return err
			}
			sale.PaidAmount = payable.Paid()
			sale.RemainingAmount = payable.Remaining()
		}

		// 5) Historial
		details := map[string]any{
			"total_amount": sale.TotalAmount.StringFixed(2),
			"paid_amount":  sale.PaidAmount.StringFixed(2),
			"items":        len(sale.Items),
		}
		if len(shortfalls) > 0 {
			missing := make([]map[string]any, 0, len(shortfalls))
			for _, s := range shortfalls {
				missing = append(missing, map[string]any{
					"product_id": s.ProductID,
					"requested":  s.Requested,
					"deducted":   s.Deducted,
				})
			}
			details["stock_shortfalls"] = missing
		}
		return writeHistory(ctx, repos, entity.HistorySaleCreated, string(entity.PayableSale), sale.ID, in.UserID, details)
	})
	if err != nil {
		return nil, err
	}

	for _, s := range shortfalls {
		c.log.Warn().
			Str("sale_id", sale.ID).
			Str("product_id", s.ProductID).
			Int64("requested", s.Requested).
			Int64("deducted", s.Deducted).
			Msg("venta con stock insuficiente: salida recortada a 0")
	}
	c.log.Info().
		Str("sale_id", sale.ID).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Str("paid", sale.PaidAmount.StringFixed(2)).
		Msg("venta registrada")
	return sale, nil
}
