package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger-api/internal/application/billing"
	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/application/settlement"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// PaymentHandler registra y lista pagos de ventas y créditos. Cada ruta se monta con
// el tipo de cuenta fijo (sale o credit) y toma el ID del path.
type PaymentHandler struct {
	payments *billing.PaymentLedger
	coord    *settlement.Coordinator
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(payments *billing.PaymentLedger, coord *settlement.Coordinator) *PaymentHandler {
	return &PaymentHandler{payments: payments, coord: coord}
}

// Record godoc
// @Summary      Registrar pago
// @Description  El pago no puede exceder el saldo pendiente (422). Misma ruta para /api/credits/{id}/payments.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                    true   "ID de la venta"
// @Param        Idempotency-Key  header  string                    false  "Llave de idempotencia"
// @Param        body             body    dto.RecordPaymentRequest  true   "amount, method"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/payments [post]
func (h *PaymentHandler) Record(kind entity.PayableKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := requireUser(c)
		if !ok {
			return err
		}
		var in dto.RecordPaymentRequest
		if ok, err := bindBody(c, &in); !ok {
			return err
		}
		rec, err := h.payments.RecordPayment(c.Context(), billing.PaymentInput{
			Payable: entity.PayableRef{Kind: kind, ID: c.Params("id")},
			Amount:  in.Amount,
			Method:  in.Method,
			Date:    optionalDate(in.PaymentDate),
			Note:    in.Note,
			UserID:  userID,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(rec))
	}
}

// MarkPaid godoc
// @Summary      Marcar como pagado
// @Description  Registra un pago por el saldo pendiente. Si ya estaba saldada responde 200 con already_paid=true.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID de la venta o crédito"
// @Param        body  body  dto.MarkPaidRequest  false  "method y note opcionales"
// @Success      200   {object}  dto.MarkPaidResponse
// @Success      201   {object}  dto.MarkPaidResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/mark-paid [post]
func (h *PaymentHandler) MarkPaid(kind entity.PayableKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := requireUser(c)
		if !ok {
			return err
		}
		var in dto.MarkPaidRequest
		if len(c.Body()) > 0 {
			if ok, err := bindBody(c, &in); !ok {
				return err
			}
		}
		ref := entity.PayableRef{Kind: kind, ID: c.Params("id")}
		rec, err := h.coord.MarkFullyPaid(c.Context(), ref, in.Method, in.Note, userID)
		if err != nil {
			return writeError(c, err)
		}
		if rec == nil {
			return c.JSON(dto.MarkPaidResponse{AlreadyPaid: true})
		}
		p := toPaymentResponse(rec)
		return c.Status(fiber.StatusCreated).JSON(dto.MarkPaidResponse{Payment: &p})
	}
}

// List godoc
// @Summary      Historial de pagos
// @Description  Pagos de la cuenta en orden cronológico junto con total, pagado y saldo.
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta o crédito"
// @Success      200  {object}  dto.PaymentListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/payments [get]
func (h *PaymentHandler) List(kind entity.PayableKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref := entity.PayableRef{Kind: kind, ID: c.Params("id")}
		sum, err := h.payments.GetSummary(c.Context(), ref)
		if err != nil {
			return writeError(c, err)
		}
		list, err := h.payments.ListPayments(c.Context(), ref)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(toPaymentListResponse(sum, list))
	}
}

func optionalDate(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
