package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIN     = "IN"     // entrada
	MovementTypeOUT    = "OUT"    // salida
	MovementTypeADJUST = "ADJUST" // nota de inventario, no altera el stock
)

// ValidMovementType indica si t es un tipo de movimiento soportado.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUST:
		return true
	}
	return false
}

// StockMovement representa un movimiento de inventario sobre un producto.
// Quantity siempre es positiva; el signo lo decide Type.
type StockMovement struct {
	ID          string
	ProductID   string
	Type        string
	Quantity    int64
	Reference   string
	Date        time.Time
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StockEffect devuelve el delta que el movimiento aplica al stock del producto.
// ADJUST es neutro.
func (m *StockMovement) StockEffect() int64 {
	return MovementEffect(m.Type, m.Quantity)
}

// MovementEffect calcula el delta de stock para un tipo y cantidad.
func MovementEffect(movementType string, quantity int64) int64 {
	switch movementType {
	case MovementTypeIN:
		return quantity
	case MovementTypeOUT:
		return -quantity
	default:
		return 0
	}
}
