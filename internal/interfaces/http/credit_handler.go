package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger-api/internal/application/billing"
	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/application/settlement"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// CreditHandler maneja las peticiones HTTP de créditos de clientes (protegido).
type CreditHandler struct {
	coord    *settlement.Coordinator
	payments *billing.PaymentLedger
}

// NewCreditHandler construye el handler.
func NewCreditHandler(coord *settlement.Coordinator, payments *billing.PaymentLedger) *CreditHandler {
	return &CreditHandler{coord: coord, payments: payments}
}

// Create godoc
// @Summary      Registrar crédito
// @Tags         credits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                   false  "Llave de idempotencia"
// @Param        body             body    dto.CreateCreditRequest  true   "client_id, amount, abono inicial opcional"
// @Success      201   {object}  dto.CreditResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/credits [post]
func (h *CreditHandler) Create(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	var in dto.CreateCreditRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	credit, err := h.coord.CreateCredit(c.Context(), settlement.CreateCreditInput{
		ClientID:       in.ClientID,
		Amount:         in.Amount,
		InitialPayment: in.InitialPayment,
		Method:         in.PaymentMethod,
		Note:           in.PaymentNote,
		Description:    in.Description,
		DueDate:        in.DueDate,
		UserID:         userID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCreditResponse(credit))
}

// GetByID godoc
// @Summary      Obtener crédito
// @Tags         credits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del crédito"
// @Success      200  {object}  dto.CreditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credits/{id} [get]
func (h *CreditHandler) GetByID(c *fiber.Ctx) error {
	credit, err := h.coord.GetCredit(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCreditResponse(credit))
}

// Update godoc
// @Summary      Editar monto o descripción del crédito
// @Description  El monto no puede quedar por debajo de lo pagado; el statut se recalcula.
// @Tags         credits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del crédito"
// @Param        body  body  dto.UpdateCreditRequest  true  "amount y/o description"
// @Success      200   {object}  dto.CreditResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/credits/{id} [patch]
func (h *CreditHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCreditRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	credit, err := h.payments.UpdateCreditAmount(c.Context(), c.Params("id"), in.Amount, in.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCreditResponse(credit))
}

// History godoc
// @Summary      Historial de auditoría del crédito
// @Tags         credits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del crédito"
// @Success      200  {array}   dto.HistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credits/{id}/history [get]
func (h *CreditHandler) History(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.coord.GetCredit(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	list, err := h.coord.ListHistory(c.Context(), string(entity.PayableCredit), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toHistoryResponses(list))
}
