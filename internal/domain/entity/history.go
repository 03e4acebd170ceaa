package entity

import "time"

// Acciones registradas en el historial de auditoría.
const (
	HistorySaleCreated   = "sale_created"
	HistoryCreditCreated = "credit_created"
	HistoryMarkedPaid    = "payable_marked_paid"
)

// History es un registro de auditoría de una operación del motor.
type History struct {
	ID         string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
	CreatedBy  string
	CreatedAt  time.Time
}
