package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger-api/internal/application/ports"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// StockPolicy decide qué hacer cuando un ajuste dejaría el stock por debajo de cero.
type StockPolicy string

const (
	StockPolicyReject        StockPolicy = "reject"         // falla con ErrInsufficientStock
	StockPolicyClamp         StockPolicy = "clamp"          // se detiene en 0 y reporta lo aplicado
	StockPolicyAllowNegative StockPolicy = "allow_negative" // escribe el valor negativo
)

// AdjustResult resultado de un ajuste de stock.
// Applied puede diferir del delta solicitado solo con StockPolicyClamp.
type AdjustResult struct {
	ProductID string
	Previous  int64
	New       int64
	Applied   int64
}

// Shortfall unidades solicitadas que no se pudieron descontar (solo clamp).
func (r AdjustResult) Shortfall(requested int64) int64 {
	return requested - r.Applied
}

// StockCheck compara el stock persistido con la suma de movimientos del producto.
type StockCheck struct {
	ProductID     string
	StockQuantity int64
	TotalIn       int64
	TotalOut      int64
	Expected      int64 // TotalIn - TotalOut
	Drift         int64 // StockQuantity - Expected
}

// Consistent indica si el stock coincide con el historial.
func (c StockCheck) Consistent() bool { return c.Drift == 0 }

// ProductStore es el único escritor de stock_quantity.
type ProductStore struct {
	txRunner ports.TxRunner
}

// NewProductStore construye el almacén de stock.
func NewProductStore(txRunner ports.TxRunner) *ProductStore {
	return &ProductStore{txRunner: txRunner}
}

// GetStock devuelve la cantidad actual de un producto.
func (s *ProductStore) GetStock(ctx context.Context, productID string) (int64, error) {
	var qty int64
	err := s.txRunner.Run(ctx, func(repos repository.Repositories) error {
		p, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewLedgerError(domain.ErrNotFound, productID, "producto")
		}
		qty = p.StockQuantity
		return nil
	})
	return qty, err
}

// GetProduct devuelve el producto con su stock actual.
func (s *ProductStore) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	var out *entity.Product
	err := s.txRunner.Run(ctx, func(repos repository.Repositories) error {
		p, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewLedgerError(domain.ErrNotFound, productID, "producto")
		}
		out = p
		return nil
	})
	return out, err
}

// AdjustStock aplica delta en su propia transacción.
func (s *ProductStore) AdjustStock(ctx context.Context, productID string, delta int64, policy StockPolicy) (AdjustResult, error) {
	var res AdjustResult
	err := s.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		res, err = s.AdjustInTx(ctx, repos, productID, delta, policy)
		return err
	})
	return res, err
}

// AdjustInTx bloquea la fila del producto (SELECT FOR UPDATE) y aplica delta según policy,
// usando los repositorios de la transacción del caller.
func (s *ProductStore) AdjustInTx(
	ctx context.Context,
	repos repository.Repositories,
	productID string,
	delta int64,
	policy StockPolicy,
) (AdjustResult, error) {
	p, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return AdjustResult{}, err
	}
	if p == nil {
		return AdjustResult{}, domain.NewLedgerError(domain.ErrNotFound, productID, "producto")
	}

	res := AdjustResult{ProductID: productID, Previous: p.StockQuantity}
	newQty := p.StockQuantity + delta
	if newQty < 0 {
		switch policy {
		case StockPolicyClamp:
			newQty = 0
		case StockPolicyAllowNegative:
		default:
			return AdjustResult{}, domain.NewLedgerError(domain.ErrInsufficientStock, productID,
				fmt.Sprintf("stock %d, delta %d", p.StockQuantity, delta))
		}
	}
	res.New = newQty
	res.Applied = newQty - p.StockQuantity
	if res.Applied == 0 {
		return res, nil
	}
	if err := repos.Products.UpdateStock(ctx, productID, newQty); err != nil {
		return AdjustResult{}, err
	}
	return res, nil
}

// VerifyStock recalcula el stock esperado desde los movimientos (ADJUST excluido).
func (s *ProductStore) VerifyStock(ctx context.Context, productID string) (StockCheck, error) {
	var check StockCheck
	err := s.txRunner.Run(ctx, func(repos repository.Repositories) error {
		p, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewLedgerError(domain.ErrNotFound, productID, "producto")
		}
		totals, err := repos.Movements.TotalsByProduct(ctx, productID)
		if err != nil {
			return err
		}
		expected := totals.In - totals.Out
		check = StockCheck{
			ProductID:     productID,
			StockQuantity: p.StockQuantity,
			TotalIn:       totals.In,
			TotalOut:      totals.Out,
			Expected:      expected,
			Drift:         p.StockQuantity - expected,
		}
		return nil
	})
	return check, err
}
