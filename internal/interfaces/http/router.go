package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger-api/internal/application/billing"
	"github.com/jhoicas/pos-ledger-api/internal/application/inventory"
	"github.com/jhoicas/pos-ledger-api/internal/application/ports"
	"github.com/jhoicas/pos-ledger-api/internal/application/settlement"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductStore   *inventory.ProductStore
	MovementLedger *inventory.MovementLedger
	PaymentLedger  *billing.PaymentLedger
	Coordinator    *settlement.Coordinator
	Idempotency    ports.IdempotencyStore // nil = sin soporte de Idempotency-Key
	IdempotencyTTL time.Duration
	JWTSecret      string
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	if deps.Idempotency != nil {
		api.Use(Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Log))
	}
	supervisors := RequireRole(RoleAdmin, RoleManager)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductStore, deps.MovementLedger)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/stock", productHandler.GetStock)
	products.Get("/:id/stock/verify", productHandler.VerifyStock)
	products.Get("/:id/movements", productHandler.ListMovements)

	// Stock movements: editar y borrar solo admin/manager
	movements := api.Group("/stock-movements")
	movementHandler := NewStockMovementHandler(deps.MovementLedger)
	movements.Post("/", movementHandler.Create)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", supervisors, movementHandler.Update)
	movements.Delete("/:id", supervisors, movementHandler.Delete)

	paymentHandler := NewPaymentHandler(deps.PaymentLedger, deps.Coordinator)

	// Sales
	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.Coordinator)
	sales.Post("/", saleHandler.Create)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/history", saleHandler.History)
	sales.Post("/:id/payments", paymentHandler.Record(entity.PayableSale))
	sales.Get("/:id/payments", paymentHandler.List(entity.PayableSale))
	sales.Post("/:id/mark-paid", paymentHandler.MarkPaid(entity.PayableSale))

	// Credits
	credits := api.Group("/credits")
	creditHandler := NewCreditHandler(deps.Coordinator, deps.PaymentLedger)
	credits.Post("/", creditHandler.Create)
	credits.Get("/:id", creditHandler.GetByID)
	credits.Patch("/:id", supervisors, creditHandler.Update)
	credits.Get("/:id/history", creditHandler.History)
	credits.Post("/:id/payments", paymentHandler.Record(entity.PayableCredit))
	credits.Get("/:id/payments", paymentHandler.List(entity.PayableCredit))
	credits.Post("/:id/mark-paid", paymentHandler.MarkPaid(entity.PayableCredit))
}
