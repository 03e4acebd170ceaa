package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger-api/internal/application/billing"
	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/application/inventory"
	"github.com/jhoicas/pos-ledger-api/internal/application/settlement"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/pos-ledger-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-ledger-api/internal/interfaces/http"
)

const (
	apiProduct = "prod-1"
	apiClient  = "cli-1"
)

type apiFixture struct {
	t   *testing.T
	app *fiber.App
}

// newAPI monta la API completa sobre el store en memoria con un producto (precio 10) y un cliente.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.New()
	store.SeedProduct(entity.Product{ID: apiProduct, Name: "Tornillo", SKU: "TOR-1", SalePrice: decimal.NewFromInt(10)})
	store.SeedClient(entity.Client{ID: apiClient, Name: "Cliente"})

	idem := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idem.Close() })

	ps := inventory.NewProductStore(store)
	ml := inventory.NewMovementLedger(store, ps)
	pl := billing.NewPaymentLedger(store, billing.NewPayableReconciler())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductStore:   ps,
		MovementLedger: ml,
		PaymentLedger:  pl,
		Coordinator:    settlement.NewCoordinator(store, ml, pl, zerolog.Nop()),
		Idempotency:    idem,
		IdempotencyTTL: time.Hour,
		JWTSecret:      testJWTSecret,
		Log:            zerolog.Nop(),
	})
	return &apiFixture{t: t, app: app}
}

func (f *apiFixture) do(method, path, role string, body any, headers ...string) (*http.Response, []byte) {
	f.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(f.t, role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(f.t, err)
	return resp, out
}

func (f *apiFixture) decode(raw []byte, v any) {
	f.t.Helper()
	require.NoError(f.t, json.Unmarshal(raw, v), string(raw))
}

func (f *apiFixture) stock() int64 {
	f.t.Helper()
	resp, raw := f.do(http.MethodGet, "/api/products/"+apiProduct+"/stock", "cashier", nil)
	require.Equal(f.t, http.StatusOK, resp.StatusCode, string(raw))
	var s dto.StockResponse
	f.decode(raw, &s)
	return s.StockQuantity
}

func (f *apiFixture) movement(typ string, qty int64, headers ...string) (*http.Response, []byte) {
	return f.do(http.MethodPost, "/api/stock-movements", "cashier",
		map[string]any{"product_id": apiProduct, "type": typ, "quantity": qty}, headers...)
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(http.MethodGet, "/api/products/"+apiProduct, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_Movimientos_CicloCompleto(t *testing.T) {
	f := newAPI(t)

	resp, raw := f.movement("IN", 10)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var in dto.MovementResponse
	f.decode(raw, &in)
	assert.Equal(t, int64(10), f.stock())

	// OUT mayor al stock: 409 con el producto en entity_id, sin efecto
	resp, raw = f.movement("OUT", 20)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	f.decode(raw, &e)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Equal(t, apiProduct, e.EntityID)
	assert.Equal(t, int64(10), f.stock())

	resp, raw = f.movement("OUT", 4)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.MovementResponse
	f.decode(raw, &out)
	assert.Equal(t, int64(6), f.stock())

	// Editar requiere supervisor
	resp, _ = f.do(http.MethodPut, "/api/stock-movements/"+out.ID, "cashier", map[string]any{"quantity": 5})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = f.do(http.MethodPut, "/api/stock-movements/"+out.ID, "manager", map[string]any{"quantity": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, int64(5), f.stock())

	// Borrar la entrada dejaría el stock en -5
	resp, raw = f.do(http.MethodDelete, "/api/stock-movements/"+in.ID, "admin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	f.decode(raw, &e)
	assert.Equal(t, "STOCK_REVERSION_CONFLICT", e.Code)
	assert.Equal(t, in.ID, e.EntityID)
	assert.Equal(t, int64(5), f.stock())

	resp, raw = f.do(http.MethodGet, "/api/products/"+apiProduct+"/stock/verify", "cashier", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chk dto.StockCheckResponse
	f.decode(raw, &chk)
	assert.True(t, chk.Consistent)
	assert.Equal(t, int64(10), chk.TotalIn)
	assert.Equal(t, int64(5), chk.TotalOut)

	// Borrar la salida devuelve las unidades
	resp, _ = f.do(http.MethodDelete, "/api/stock-movements/"+out.ID, "admin", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, int64(10), f.stock())

	resp, _ = f.do(http.MethodGet, "/api/stock-movements/"+out.ID, "cashier", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = f.do(http.MethodGet, "/api/products/"+apiProduct+"/movements?limit=1", "cashier", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.MovementListResponse
	f.decode(raw, &list)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Limit)
}

func TestAPI_Movimientos_Validacion(t *testing.T) {
	f := newAPI(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"cantidad cero", map[string]any{"product_id": apiProduct, "type": "IN", "quantity": 0}},
		{"cantidad negativa", map[string]any{"product_id": apiProduct, "type": "OUT", "quantity": -3}},
		{"tipo desconocido", map[string]any{"product_id": apiProduct, "type": "TRANSFER", "quantity": 1}},
		{"sin producto", map[string]any{"type": "IN", "quantity": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := f.do(http.MethodPost, "/api/stock-movements", "cashier", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Equal(t, int64(0), f.stock())
}

func TestAPI_ProductoInexistente_Retorna404(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.do(http.MethodGet, "/api/products/nope", "cashier", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var e dto.ErrorResponse
	f.decode(raw, &e)
	assert.Equal(t, "NOT_FOUND", e.Code)
	assert.Equal(t, "nope", e.EntityID)
}

func TestAPI_Venta_PagosYMarcarPagado(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.movement("IN", 10)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := f.do(http.MethodPost, "/api/sales", "cashier", map[string]any{
		"client_id":      apiClient,
		"items":          []map[string]any{{"product_id": apiProduct, "quantity": 3}},
		"paid_amount":    "10",
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var sale dto.SaleResponse
	f.decode(raw, &sale)
	assert.True(t, decimal.NewFromInt(30).Equal(sale.TotalAmount))
	assert.True(t, decimal.NewFromInt(10).Equal(sale.PaidAmount))
	assert.True(t, decimal.NewFromInt(20).Equal(sale.RemainingAmount))
	assert.Equal(t, string(entity.PayableStatePartiallyPaid), sale.State)
	assert.Equal(t, int64(7), f.stock())

	// Sobrepago: 422 y nada cambia
	resp, raw = f.do(http.MethodPost, "/api/sales/"+sale.ID+"/payments", "cashier",
		map[string]any{"amount": "20.01", "method": "card"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var e dto.ErrorResponse
	f.decode(raw, &e)
	assert.Equal(t, "OVERPAYMENT_REJECTED", e.Code)
	assert.Equal(t, sale.ID, e.EntityID)

	// Más de dos decimales: 400 antes de tocar la cuenta
	resp, raw = f.do(http.MethodPost, "/api/sales/"+sale.ID+"/payments", "cashier",
		map[string]any{"amount": "0.001", "method": "card"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

	resp, raw = f.do(http.MethodPost, "/api/sales/"+sale.ID+"/payments", "cashier",
		map[string]any{"amount": "5", "method": "card"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = f.do(http.MethodPost, "/api/sales/"+sale.ID+"/mark-paid", "cashier", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var mp dto.MarkPaidResponse
	f.decode(raw, &mp)
	require.NotNil(t, mp.Payment)
	assert.True(t, decimal.NewFromInt(15).Equal(mp.Payment.Amount))
	assert.True(t, mp.Payment.SystemGenerated)

	resp, raw = f.do(http.MethodPost, "/api/sales/"+sale.ID+"/mark-paid", "cashier", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f.decode(raw, &mp)
	assert.True(t, mp.AlreadyPaid)
	assert.Nil(t, mp.Payment)

	resp, raw = f.do(http.MethodGet, "/api/sales/"+sale.ID+"/payments", "cashier", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pl dto.PaymentListResponse
	f.decode(raw, &pl)
	assert.Len(t, pl.Payments, 3)
	assert.True(t, pl.Paid.Equal(pl.PaymentsTotal))
	assert.True(t, pl.Remaining.IsZero())
	assert.Equal(t, string(entity.PayableStateClosed), pl.State)

	resp, raw = f.do(http.MethodGet, "/api/sales/"+sale.ID+"/history", "cashier", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist []dto.HistoryResponse
	f.decode(raw, &hist)
	require.Len(t, hist, 2)
	assert.Equal(t, entity.HistorySaleCreated, hist[0].Action)
	assert.Equal(t, entity.HistoryMarkedPaid, hist[1].Action)
}

func TestAPI_Venta_SinStock_Retorna409(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.movement("IN", 2)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := f.do(http.MethodPost, "/api/sales", "cashier", map[string]any{
		"items":     []map[string]any{{"product_id": apiProduct, "quantity": 5}},
		"mark_paid": true,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	f.decode(raw, &e)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Equal(t, int64(2), f.stock())
}

func TestAPI_VentaInexistente_Retorna404(t *testing.T) {
	f := newAPI(t)
	for _, path := range []string{"/api/sales/x", "/api/sales/x/payments", "/api/credits/x"} {
		resp, raw := f.do(http.MethodGet, path, "cashier", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		var e dto.ErrorResponse
		f.decode(raw, &e)
		assert.Equal(t, "PAYABLE_NOT_FOUND", e.Code, path)
	}
}

func TestAPI_Credito_CicloCompleto(t *testing.T) {
	f := newAPI(t)

	resp, raw := f.do(http.MethodPost, "/api/credits", "cashier", map[string]any{
		"client_id":       apiClient,
		"amount":          "100.50",
		"initial_payment": "50",
		"description":     "fiado",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var cr dto.CreditResponse
	f.decode(raw, &cr)
	assert.Equal(t, entity.CreditStatutActive, cr.Statut)
	assert.True(t, decimal.RequireFromString("50.50").Equal(cr.RemainingAmount))

	// Monto por debajo de lo pagado
	resp, _ = f.do(http.MethodPatch, "/api/credits/"+cr.ID, "manager", map[string]any{"amount": "40"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(http.MethodPatch, "/api/credits/"+cr.ID, "cashier", map[string]any{"amount": "120"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = f.do(http.MethodPatch, "/api/credits/"+cr.ID, "manager", map[string]any{"amount": "120"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	f.decode(raw, &cr)
	assert.True(t, decimal.NewFromInt(70).Equal(cr.RemainingAmount))

	resp, raw = f.do(http.MethodPost, "/api/credits/"+cr.ID+"/payments", "cashier",
		map[string]any{"amount": "70", "method": "transfer"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = f.do(http.MethodGet, "/api/credits/"+cr.ID, "cashier", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f.decode(raw, &cr)
	assert.Equal(t, entity.CreditStatutClosed, cr.Statut)
	assert.True(t, cr.RemainingAmount.IsZero())

	resp, raw = f.do(http.MethodPost, "/api/credits/"+cr.ID+"/mark-paid", "cashier", map[string]any{"method": "cash"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
}

func TestAPI_Credito_ClienteInexistente_Retorna404(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.do(http.MethodPost, "/api/credits", "cashier", map[string]any{"client_id": "nadie", "amount": "10"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var e dto.ErrorResponse
	f.decode(raw, &e)
	assert.Equal(t, "nadie", e.EntityID)
}

func TestAPI_IdempotencyKey_RepiteRespuesta(t *testing.T) {
	f := newAPI(t)

	resp1, raw1 := f.movement("IN", 5, apphttp.HeaderIdempotencyKey, "abc-1")
	require.Equal(t, http.StatusCreated, resp1.StatusCode)

	resp2, raw2 := f.movement("IN", 5, apphttp.HeaderIdempotencyKey, "abc-1")
	require.Equal(t, http.StatusCreated, resp2.StatusCode)
	assert.Equal(t, "true", resp2.Header.Get(apphttp.HeaderReplayed))
	assert.JSONEq(t, string(raw1), string(raw2))
	assert.Equal(t, int64(5), f.stock(), "el reintento no debe registrar otra entrada")

	// Otra llave sí ejecuta
	resp3, _ := f.movement("IN", 5, apphttp.HeaderIdempotencyKey, "abc-2")
	require.Equal(t, http.StatusCreated, resp3.StatusCode)
	assert.Empty(t, resp3.Header.Get(apphttp.HeaderReplayed))
	assert.Equal(t, int64(10), f.stock())
}

func TestAPI_IdempotencyKey_ErrorLiberaLlave(t *testing.T) {
	f := newAPI(t)

	resp, _ := f.movement("OUT", 1, apphttp.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	_, _ = f.movement("IN", 3)
	resp, _ = f.movement("OUT", 1, apphttp.HeaderIdempotencyKey, "k-1")
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "tras un error la misma llave puede reintentarse")
	assert.Equal(t, int64(2), f.stock())
}
