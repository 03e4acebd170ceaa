package dto

import "time"

// CreateMovementRequest body para POST /api/stock-movements.
type CreateMovementRequest struct {
	ProductID   string     `json:"product_id" validate:"required"`
	Type        string     `json:"type" validate:"required,movement_type"` // IN | OUT | ADJUST
	Quantity    int64      `json:"quantity" validate:"gt=0"`
	Reference   string     `json:"reference,omitempty" validate:"max=120"`
	Date        *time.Time `json:"movement_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

// UpdateMovementRequest body para PUT /api/stock-movements/:id. Campos ausentes no cambian.
type UpdateMovementRequest struct {
	ProductID   *string    `json:"product_id,omitempty" validate:"omitempty,min=1"`
	Type        *string    `json:"type,omitempty" validate:"omitempty,movement_type"`
	Quantity    *int64     `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Reference   *string    `json:"reference,omitempty" validate:"omitempty,max=120"`
	Date        *time.Time `json:"movement_date,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// MovementResponse respuesta de movimiento de inventario.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Reference   string    `json:"reference,omitempty"`
	Date        time.Time `json:"movement_date"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MovementListResponse listado paginado de movimientos de un producto.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
