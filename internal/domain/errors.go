package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Motor de ledgers (stock y pagos).
	ErrInvalidQuantity        = errors.New("cantidad inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrStockReversionConflict = errors.New("la reversión del movimiento dejaría el stock en negativo")
	ErrOverpaymentRejected    = errors.New("el pago excede el saldo pendiente")
	ErrPayableNotFound        = errors.New("venta o crédito no encontrado")
	ErrTransactionAborted     = errors.New("transacción abortada")
)

// LedgerError asocia un error de dominio (Kind) con la entidad afectada.
// errors.Is(err, domain.ErrInsufficientStock) sigue funcionando gracias a Unwrap.
type LedgerError struct {
	Kind     error
	EntityID string
	Detail   string
}

func (e *LedgerError) Error() string {
	msg := e.Kind.Error()
	if e.EntityID != "" {
		msg = fmt.Sprintf("%s (id=%s)", msg, e.EntityID)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *LedgerError) Unwrap() error { return e.Kind }

// NewLedgerError construye un LedgerError. detail es opcional.
func NewLedgerError(kind error, entityID, detail string) error {
	return &LedgerError{Kind: kind, EntityID: entityID, Detail: detail}
}

// EntityIDOf devuelve el ID de entidad de un LedgerError envuelto, o "".
func EntityIDOf(err error) string {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.EntityID
	}
	return ""
}
