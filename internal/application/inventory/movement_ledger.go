package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger-api/internal/application/ports"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// MovementLedger registra, edita y elimina movimientos de inventario manteniendo
// stock_quantity igual a la suma de IN menos OUT. Cada mutación ajusta el stock
// antes de persistir el movimiento, dentro de la misma transacción.
type MovementLedger struct {
	txRunner ports.TxRunner
	store    *ProductStore
}

// NewMovementLedger construye el ledger de movimientos.
func NewMovementLedger(txRunner ports.TxRunner, store *ProductStore) *MovementLedger {
	return &MovementLedger{txRunner: txRunner, store: store}
}

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	ProductID   string
	Type        string
	Quantity    int64
	Reference   string
	Date        time.Time // cero = ahora
	Description string
	UserID      string
}

// MovementPatch campos editables de un movimiento; nil = sin cambio.
type MovementPatch struct {
	ProductID   *string
	Type        *string
	Quantity    *int64
	Reference   *string
	Date        *time.Time
	Description *string
}

func validateMovement(productID, movementType string, quantity int64) error {
	if productID == "" || !entity.ValidMovementType(movementType) {
		return domain.ErrInvalidInput
	}
	if quantity <= 0 {
		return domain.NewLedgerError(domain.ErrInvalidQuantity, productID,
			fmt.Sprintf("la cantidad debe ser un entero positivo, recibido %d", quantity))
	}
	return nil
}

// CreateMovement registra un movimiento en su propia transacción. Una salida sin stock
// suficiente falla con ErrInsufficientStock y no deja registro.
func (l *MovementLedger) CreateMovement(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := l.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		mov, _, err = l.CreateInTx(ctx, repos, in, StockPolicyReject)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// CreateInTx ajusta el stock y luego persiste el movimiento con los repos del caller.
// Con StockPolicyClamp el movimiento registra solo la cantidad realmente descontada
// y, si no se descontó nada, no se crea movimiento (retorna nil).
func (l *MovementLedger) CreateInTx(
	ctx context.Context,
	repos repository.Repositories,
	in MovementInput,
	policy StockPolicy,
) (*entity.StockMovement, AdjustResult, error) {
	if err := validateMovement(in.ProductID, in.Type, in.Quantity); err != nil {
		return nil, AdjustResult{}, err
	}

	quantity := in.Quantity
	var res AdjustResult
	if delta := entity.MovementEffect(in.Type, in.Quantity); delta != 0 {
		var err error
		res, err = l.store.AdjustInTx(ctx, repos, in.ProductID, delta, policy)
		if err != nil {
			return nil, AdjustResult{}, err
		}
		if res.Applied != delta {
			quantity = abs(res.Applied)
		}
		if quantity == 0 {
			return nil, res, nil
		}
	} else {
		// ADJUST: solo se valida que el producto exista
		p, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, AdjustResult{}, err
		}
		if p == nil {
			return nil, AdjustResult{}, domain.NewLedgerError(domain.ErrNotFound, in.ProductID, "producto")
		}
		res = AdjustResult{ProductID: p.ID, Previous: p.StockQuantity, New: p.StockQuantity}
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		Type:        in.Type,
		Quantity:    quantity,
		Reference:   in.Reference,
		Date:        date,
		Description: in.Description,
		CreatedBy:   in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, AdjustResult{}, err
	}
	return mov, res, nil
}

// UpdateMovement revierte el efecto anterior y aplica el nuevo en una transacción.
func (l *MovementLedger) UpdateMovement(ctx context.Context, id string, patch MovementPatch) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := l.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		mov, err = l.UpdateInTx(ctx, repos, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// UpdateInTx: bloquea el movimiento, revierte su efecto (ErrStockReversionConflict si el
// stock quedaría negativo), aplica el efecto nuevo (ErrInsufficientStock) y guarda.
func (l *MovementLedger) UpdateInTx(
	ctx context.Context,
	repos repository.Repositories,
	id string,
	patch MovementPatch,
) (*entity.StockMovement, error) {
	old, err := repos.Movements.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, domain.NewLedgerError(domain.ErrNotFound, id, "movimiento")
	}

	updated := *old
	if patch.ProductID != nil {
		updated.ProductID = *patch.ProductID
	}
	if patch.Type != nil {
		updated.Type = *patch.Type
	}
	if patch.Quantity != nil {
		updated.Quantity = *patch.Quantity
	}
	if patch.Reference != nil {
		updated.Reference = *patch.Reference
	}
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if err := validateMovement(updated.ProductID, updated.Type, updated.Quantity); err != nil {
		return nil, err
	}

	if err := l.revert(ctx, repos, old); err != nil {
		return nil, err
	}
	if delta := updated.StockEffect(); delta != 0 {
		if _, err := l.store.AdjustInTx(ctx, repos, updated.ProductID, delta, StockPolicyReject); err != nil {
			return nil, err
		}
	} else if updated.ProductID != old.ProductID {
		p, err := repos.Products.GetByID(ctx, updated.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NewLedgerError(domain.ErrNotFound, updated.ProductID, "producto")
		}
	}

	updated.UpdatedAt = time.Now()
	if err := repos.Movements.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMovement revierte el efecto del movimiento y lo elimina.
func (l *MovementLedger) DeleteMovement(ctx context.Context, id string) error {
	return l.txRunner.Run(ctx, func(repos repository.Repositories) error {
		return l.DeleteInTx(ctx, repos, id)
	})
}

// DeleteInTx variante transaccional de DeleteMovement.
func (l *MovementLedger) DeleteInTx(ctx context.Context, repos repository.Repositories, id string) error {
	mov, err := repos.Movements.GetForUpdate(ctx, id)
	if err != nil {
		return err
	}
	if mov == nil {
		return domain.NewLedgerError(domain.ErrNotFound, id, "movimiento")
	}
	if err := l.revert(ctx, repos, mov); err != nil {
		return err
	}
	return repos.Movements.Delete(ctx, id)
}

// revert aplica el inverso del efecto de mov. Nunca recorta: si el stock quedaría
// negativo el historial y el stock se desincronizarían.
func (l *MovementLedger) revert(ctx context.Context, repos repository.Repositories, mov *entity.StockMovement) error {
	delta := -mov.StockEffect()
	if delta == 0 {
		return nil
	}
	_, err := l.store.AdjustInTx(ctx, repos, mov.ProductID, delta, StockPolicyReject)
	if errors.Is(err, domain.ErrInsufficientStock) {
		return domain.NewLedgerError(domain.ErrStockReversionConflict, mov.ID,
			fmt.Sprintf("producto %s: revertir %s de %d", mov.ProductID, mov.Type, mov.Quantity))
	}
	return err
}

// GetMovement obtiene un movimiento por ID.
func (l *MovementLedger) GetMovement(ctx context.Context, id string) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := l.txRunner.Run(ctx, func(repos repository.Repositories) error {
		m, err := repos.Movements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.NewLedgerError(domain.ErrNotFound, id, "movimiento")
		}
		mov = m
		return nil
	})
	return mov, err
}

// ListMovements lista los movimientos de un producto en un rango de fechas.
func (l *MovementLedger) ListMovements(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var list []*entity.StockMovement
	err := l.txRunner.Run(ctx, func(repos repository.Repositories) error {
		var err error
		list, err = repos.Movements.ListByProduct(ctx, productID, from, to, limit, offset)
		return err
	})
	return list, err
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
