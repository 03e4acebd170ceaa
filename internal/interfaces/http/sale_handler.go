package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/application/settlement"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	coord *settlement.Coordinator
}

// NewSaleHandler construye el handler.
func NewSaleHandler(coord *settlement.Coordinator) *SaleHandler {
	return &SaleHandler{coord: coord}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Crea la venta, descuenta el stock de cada línea y registra el pago inicial en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Llave de idempotencia"
// @Param        body             body    dto.CreateSaleRequest  true   "Líneas, cargos, descuento y pago"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID, ok, err := requireUser(c)
	if !ok {
		return err
	}
	var in dto.CreateSaleRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}

	input := settlement.CompleteSaleInput{
		ClientID: in.ClientID,
		Discount: in.Discount,
		Payment: settlement.PaymentInfo{
			MarkPaid:   in.MarkPaid,
			PaidAmount: in.PaidAmount,
			Method:     in.PaymentMethod,
			Note:       in.PaymentNote,
		},
		Note:                   in.Note,
		AllowInsufficientStock: in.AllowInsufficientStock,
		UserID:                 userID,
	}
	if in.SaleDate != nil {
		input.SaleDate = *in.SaleDate
		input.Payment.Date = *in.SaleDate
	}
	for _, l := range in.Items {
		input.Lines = append(input.Lines, settlement.SaleLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	for _, ch := range in.ExtraCharges {
		input.ExtraCharges = append(input.ExtraCharges, settlement.ExtraChargeInput{Label: ch.Label, Price: ch.Price})
	}

	sale, err := h.coord.CompleteSale(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.coord.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// History godoc
// @Summary      Historial de auditoría de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {array}   dto.HistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/history [get]
func (h *SaleHandler) History(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.coord.GetSale(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	list, err := h.coord.ListHistory(c.Context(), string(entity.PayableSale), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toHistoryResponses(list))
}
