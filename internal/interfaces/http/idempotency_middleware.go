package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/application/ports"
	"github.com/rs/zerolog"
)

// HeaderIdempotencyKey header opcional de los POST de escritura.
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
)

// Idempotency guarda la respuesta 2xx de un POST con Idempotency-Key y la repite ante
// reintentos con la misma llave, sin volver a ejecutar el handler. La llave se aísla por
// usuario, método y ruta. Si el handler falla la reserva se libera.
func Idempotency(store ports.IdempotencyStore, ttl time.Duration, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" || c.Method() != fiber.MethodPost {
			return c.Next()
		}
		if len(key) > 255 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_IDEMPOTENCY_KEY", Message: "Idempotency-Key demasiado larga"})
		}
		scoped := GetUserID(c) + ":" + c.Method() + ":" + c.Path() + ":" + key
		ctx := c.UserContext()

		reserved, err := store.Reserve(ctx, scoped, ttl)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("idempotencia: reservar llave")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "almacén de idempotencia no disponible"})
		}
		if !reserved {
			stored, err := store.Get(ctx, scoped)
			if err != nil {
				log.Error().Err(err).Str("key", key).Msg("idempotencia: leer respuesta")
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "almacén de idempotencia no disponible"})
			}
			if stored == nil || stored.Pending() {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "la solicitud con esta Idempotency-Key sigue en proceso"})
			}
			c.Set(HeaderReplayed, "true")
			if stored.ContentType != "" {
				c.Set(fiber.HeaderContentType, stored.ContentType)
			}
			return c.Status(stored.Status).Send(stored.Body)
		}

		if err := c.Next(); err != nil {
			releaseKey(ctx, store, scoped, log)
			return err
		}
		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			releaseKey(ctx, store, scoped, log)
			return nil
		}
		resp := ports.StoredResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Complete(ctx, scoped, resp, ttl); err != nil {
			log.Error().Err(err).Str("key", key).Msg("idempotencia: guardar respuesta")
		}
		return nil
	}
}

func releaseKey(ctx context.Context, store ports.IdempotencyStore, key string, log zerolog.Logger) {
	if err := store.Release(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("idempotencia: liberar llave")
	}
}
