package memory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones y restaura el estado previo si fn falla.
type TxRunner struct{ s *Store }

func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	snap := r.s.snapshot()
	err := fn(NewMovementRepository(r.s), NewLedgerRepository(r.s), NewProductRepository(r.s), NewLotRepository(r.s))
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}
