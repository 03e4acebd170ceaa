package ports

import (
	"context"

	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn retorna error se hace rollback completo; si no, commit. Es el único límite
// transaccional del motor: cada operación pública usa exactamente un Run.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}
