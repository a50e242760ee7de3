package inventory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
		lotRepo repository.LotRepository,
	) error) error
}
