package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/pos-ledger-api/internal/application/inventory"
	"github.com/jhoicas/pos-ledger-api/internal/domain"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	productA = "prod-a"
	productB = "prod-b"
)

type fixture struct {
	store  *memory.Store
	stock  *inventory.ProductStore
	ledger *inventory.MovementLedger
	ctx    context.Context
	t      *testing.T
}

func newFixture(t *testing.T, stocks map[string]int64) *fixture {
	t.Helper()
	store := memory.New()
	for id, qty := range stocks {
		store.SeedProduct(entity.Product{
			ID:            id,
			Name:          "Producto " + id,
			SalePrice:     decimal.NewFromInt(10),
			Unit:          "pieza",
			StockQuantity: qty,
		})
	}
	ps := inventory.NewProductStore(store)
	return &fixture{
		store:  store,
		stock:  ps,
		ledger: inventory.NewMovementLedger(store, ps),
		ctx:    context.Background(),
		t:      t,
	}
}

func (f *fixture) create(productID, movementType string, qty int64) *entity.StockMovement {
	f.t.Helper()
	m, err := f.ledger.CreateMovement(f.ctx, inventory.MovementInput{
		ProductID: productID,
		Type:      movementType,
		Quantity:  qty,
		Reference: "test",
	})
	require.NoError(f.t, err)
	return m
}

func (f *fixture) stockOf(productID string) int64 {
	f.t.Helper()
	q, err := f.stock.GetStock(f.ctx, productID)
	require.NoError(f.t, err)
	return q
}

func (f *fixture) assertConsistent(productID string) {
	f.t.Helper()
	check, err := f.stock.VerifyStock(f.ctx, productID)
	require.NoError(f.t, err)
	assert.True(f.t, check.Consistent(), "stock %d, esperado %d", check.StockQuantity, check.Expected)
}

// ────────────────────────────────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────────────────────────────────

func TestCreateMovement_EntradaYSalida(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})

	f.create(productA, entity.MovementTypeIN, 10)
	assert.Equal(t, int64(10), f.stockOf(productA))

	f.create(productA, entity.MovementTypeOUT, 4)
	assert.Equal(t, int64(6), f.stockOf(productA))
	f.assertConsistent(productA)
}

func TestCreateMovement_SalidaSinStockNoDejaRegistro(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})
	f.create(productA, entity.MovementTypeIN, 3)

	_, err := f.ledger.CreateMovement(f.ctx, inventory.MovementInput{
		ProductID: productA, Type: entity.MovementTypeOUT, Quantity: 4,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, productA, domain.EntityIDOf(err))

	assert.Equal(t, int64(3), f.stockOf(productA))
	list, err := f.ledger.ListMovements(f.ctx, productA, nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateMovement_CantidadInvalida(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 5})

	for _, qty := range []int64{0, -3} {
		_, err := f.ledger.CreateMovement(f.ctx, inventory.MovementInput{
			ProductID: productA, Type: entity.MovementTypeIN, Quantity: qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "qty=%d", qty)
	}
	assert.Equal(t, int64(5), f.stockOf(productA))
}

func TestCreateMovement_TipoInvalido(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 5})

	_, err := f.ledger.CreateMovement(f.ctx, inventory.MovementInput{
		ProductID: productA, Type: "TRANSFER", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateMovement_ProductoInexistente(t *testing.T) {
	f := newFixture(t, nil)

	for _, typ := range []string{entity.MovementTypeIN, entity.MovementTypeADJUST} {
		_, err := f.ledger.CreateMovement(f.ctx, inventory.MovementInput{
			ProductID: "nope", Type: typ, Quantity: 1,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound, typ)
	}
}

func TestCreateMovement_AdjustNoTocaStock(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})
	f.create(productA, entity.MovementTypeIN, 7)

	adj := f.create(productA, entity.MovementTypeADJUST, 3)
	assert.Equal(t, int64(7), f.stockOf(productA))

	check, err := f.stock.VerifyStock(f.ctx, productA)
	require.NoError(t, err)
	assert.True(t, check.Consistent())
	assert.Equal(t, int64(7), check.TotalIn)

	// revertir un ADJUST tampoco toca el stock
	require.NoError(t, f.ledger.DeleteMovement(f.ctx, adj.ID))
	assert.Equal(t, int64(7), f.stockOf(productA))
}

// ────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ────────────────────────────────────────────────────────────────────────────

// Producto en 20, salida de 5 editada a 8: el stock queda en 12, no en 7.
func TestUpdateMovement_RevierteAntesDeAplicar(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})
	f.create(productA, entity.MovementTypeIN, 20)

	out := f.create(productA, entity.MovementTypeOUT, 5)
	assert.Equal(t, int64(15), f.stockOf(productA))

	qty := int64(8)
	updated, err := f.ledger.UpdateMovement(f.ctx, out.ID, inventory.MovementPatch{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(8), updated.Quantity)
	assert.Equal(t, int64(12), f.stockOf(productA))
	f.assertConsistent(productA)
}

func TestUpdateMovement_CambioDeTipo(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})
	f.create(productA, entity.MovementTypeIN, 10)
	out := f.create(productA, entity.MovementTypeOUT, 4)

	typ := entity.MovementTypeIN
	_, err := f.ledger.UpdateMovement(f.ctx, out.ID, inventory.MovementPatch{Type: &typ})
	require.NoError(t, err)
	assert.Equal(t, int64(14), f.stockOf(productA))
	f.assertConsistent(productA)
}

func TestUpdateMovement_CambioDeProducto(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0, productB: 0})
	in := f.create(productA, entity.MovementTypeIN, 5)

	pid := productB
	_, err := f.ledger.UpdateMovement(f.ctx, in.ID, inventory.MovementPatch{ProductID: &pid})
	require.NoError(t, err)

	assert.Equal(t, int64(0), f.stockOf(productA))
	assert.Equal(t, int64(5), f.stockOf(productB))
	f.assertConsistent(productA)
	f.assertConsistent(productB)
}

func TestUpdateMovement_ReversionConflictiva(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})
	in := f.create(productA, entity.MovementTypeIN, 5)
	f.create(productA, entity.MovementTypeOUT, 3)

	// revertir la entrada de 5 con stock 2 quedaría en -3
	qty := int64(4)
	_, err := f.ledger.UpdateMovement(f.ctx, in.ID, inventory.MovementPatch{Quantity: &qty})
	require.ErrorIs(t, err, domain.ErrStockReversionConflict)
	assert.Equal(t, in.ID, domain.EntityIDOf(err))

	assert.Equal(t, int64(2), f.stockOf(productA))
	got, err := f.ledger.GetMovement(f.ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)
}

func TestUpdateMovement_NuevoEfectoSinStock(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})
	f.create(productA, entity.MovementTypeIN, 5)
	out := f.create(productA, entity.MovementTypeOUT, 2)

	qty := int64(6)
	_, err := f.ledger.UpdateMovement(f.ctx, out.ID, inventory.MovementPatch{Quantity: &qty})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), f.stockOf(productA))
}

func TestUpdateMovement_CantidadCero(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})
	in := f.create(productA, entity.MovementTypeIN, 5)

	qty := int64(0)
	_, err := f.ledger.UpdateMovement(f.ctx, in.ID, inventory.MovementPatch{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, int64(5), f.stockOf(productA))
}

func TestDeleteMovement_IdaYVuelta(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 4})
	before := f.stockOf(productA)

	in := f.create(productA, entity.MovementTypeIN, 10)
	require.NoError(t, f.ledger.DeleteMovement(f.ctx, in.ID))

	assert.Equal(t, before, f.stockOf(productA))
	_, err := f.ledger.GetMovement(f.ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Borrar una salida de 5 con stock 2 sube el stock a 7.
func TestDeleteMovement_SalidaDevuelveStock(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})
	f.create(productA, entity.MovementTypeIN, 7)
	out := f.create(productA, entity.MovementTypeOUT, 5)
	assert.Equal(t, int64(2), f.stockOf(productA))

	require.NoError(t, f.ledger.DeleteMovement(f.ctx, out.ID))
	assert.Equal(t, int64(7), f.stockOf(productA))
	f.assertConsistent(productA)
}

func TestDeleteMovement_EntradaYaConsumidaFalla(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})
	in := f.create(productA, entity.MovementTypeIN, 5)
	f.create(productA, entity.MovementTypeOUT, 5)

	err := f.ledger.DeleteMovement(f.ctx, in.ID)
	require.ErrorIs(t, err, domain.ErrStockReversionConflict)

	assert.Equal(t, int64(0), f.stockOf(productA))
	_, err = f.ledger.GetMovement(f.ctx, in.ID)
	assert.NoError(t, err)
	f.assertConsistent(productA)
}

func TestDeleteMovement_Inexistente(t *testing.T) {
	f := newFixture(t, nil)
	assert.ErrorIs(t, f.ledger.DeleteMovement(f.ctx, "nope"), domain.ErrNotFound)
}

// ────────────────────────────────────────────────────────────────────────────
// Listado, invariante y concurrencia
// ────────────────────────────────────────────────────────────────────────────

func TestListMovements_OrdenYFiltro(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := f.ledger.CreateMovement(f.ctx, inventory.MovementInput{
			ProductID: productA, Type: entity.MovementTypeIN, Quantity: int64(i + 1),
			Date: base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	all, err := f.ledger.ListMovements(f.ctx, productA, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].Quantity)

	from := base.AddDate(0, 0, 1)
	filtered, err := f.ledger.ListMovements(f.ctx, productA, &from, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	page, err := f.ledger.ListMovements(f.ctx, productA, nil, nil, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(2), page[0].Quantity)
}

func TestInvariante_SecuenciaMixta(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})

	in1 := f.create(productA, entity.MovementTypeIN, 12)
	out1 := f.create(productA, entity.MovementTypeOUT, 3)
	f.create(productA, entity.MovementTypeADJUST, 9)
	in2 := f.create(productA, entity.MovementTypeIN, 4)

	qty := int64(15)
	_, err := f.ledger.UpdateMovement(f.ctx, in1.ID, inventory.MovementPatch{Quantity: &qty})
	require.NoError(t, err)
	qty = int64(6)
	_, err = f.ledger.UpdateMovement(f.ctx, out1.ID, inventory.MovementPatch{Quantity: &qty})
	require.NoError(t, err)
	require.NoError(t, f.ledger.DeleteMovement(f.ctx, in2.ID))

	assert.Equal(t, int64(9), f.stockOf(productA))
	f.assertConsistent(productA)
}

func TestCreateMovement_SalidasConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture(t, map[string]int64{productA: 0})
	f.create(productA, entity.MovementTypeIN, 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.CreateMovement(f.ctx, inventory.MovementInput{
				ProductID: productA, Type: entity.MovementTypeOUT, Quantity: 1,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 15, rejected)
	assert.Equal(t, int64(0), f.stockOf(productA))
	f.assertConsistent(productA)
}
