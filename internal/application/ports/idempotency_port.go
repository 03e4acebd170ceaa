package ports

import (
	"context"
	"time"
)

// StoredResponse respuesta guardada para un Idempotency-Key.
// Status 0 indica que la solicitud original sigue en proceso.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Pending indica si la llave está reservada pero sin respuesta todavía.
func (r StoredResponse) Pending() bool { return r.Status == 0 }

// IdempotencyStore guarda la respuesta de una operación de escritura para que
// un reintento con la misma llave no la ejecute dos veces.
type IdempotencyStore interface {
	// Reserve marca la llave como en proceso. false si ya existía (en proceso o completada).
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Get devuelve la respuesta guardada; nil si la llave no existe o expiró.
	Get(ctx context.Context, key string) (*StoredResponse, error)
	// Complete guarda la respuesta final de la llave.
	Complete(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error
	// Release libera una reserva cuya operación falló, para permitir reintentar.
	Release(ctx context.Context, key string) error
	Close() error
}
