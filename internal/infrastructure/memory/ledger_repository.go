package memory

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo aplica el fold de internal/domain/kardex sobre los movimientos en memoria.
type LedgerRepo struct {
	s *Store
}

// NewLedgerRepository construye el adaptador.
func NewLedgerRepository(s *Store) *LedgerRepo {
	return &LedgerRepo{s: s}
}

func (r *LedgerRepo) NetStock(ctx context.Context, f kardex.StockFilter) (n int64, err error) {
	err = r.s.read(ctx, func() error {
		n = kardex.NetStock(r.s.movements, f)
		return nil
	})
	return n, err
}

func (r *LedgerRepo) StockByLot(ctx context.Context, productID string, policy kardex.LotZeroPolicy) (out []entity.LotStock, err error) {
	err = r.s.read(ctx, func() error {
		out = kardex.StockByLot(r.s.movements, productID, policy)
		return nil
	})
	return out, err
}

func (r *LedgerRepo) StockAllProducts(ctx context.Context) (out []entity.ProductStock, err error) {
	err = r.s.read(ctx, func() error {
		out = kardex.StockAllProducts(r.s.productList(), r.s.movements)
		return nil
	})
	return out, err
}

func (r *LedgerRepo) ProductsEverInEnvironment(ctx context.Context, environmentID string) (out []entity.EnvironmentProduct, err error) {
	err = r.s.read(ctx, func() error {
		out = kardex.ProductsEverIn(r.s.movements, environmentID)
		return nil
	})
	return out, err
}

func (r *LedgerRepo) ProductsCurrentlyInEnvironment(ctx context.Context, environmentID string) (out []entity.EnvironmentProduct, err error) {
	err = r.s.read(ctx, func() error {
		out = kardex.ProductsCurrentlyIn(r.s.movements, environmentID)
		return nil
	})
	return out, err
}

func (r *LedgerRepo) DamagedProductCount(ctx context.Context) (n int64, err error) {
	err = r.s.read(ctx, func() error {
		n = kardex.DamagedProductCount(r.s.productList())
		return nil
	})
	return n, err
}

func (r *LedgerRepo) DamagedMovementCount(ctx context.Context) (n int64, err error) {
	err = r.s.read(ctx, func() error {
		n = kardex.DamagedMovementCount(r.s.movements)
		return nil
	})
	return n, err
}

func (r *LedgerRepo) CountMovementsOnDate(ctx context.Context, date time.Time, kind string) (n int64, err error) {
	err = r.s.read(ctx, func() error {
		n = int64(len(kardex.MovementsOnDate(r.s.movements, date, kind)))
		return nil
	})
	return n, err
}

func (r *LedgerRepo) ListMovementsOnDate(ctx context.Context, date time.Time, kind string) (out []entity.Movement, err error) {
	err = r.s.read(ctx, func() error {
		out = kardex.MovementsOnDate(r.s.movements, date, kind)
		return nil
	})
	return out, err
}

func (r *LedgerRepo) SimProductCount(ctx context.Context, operator *string) (n int64, err error) {
	err = r.s.read(ctx, func() error {
		n = kardex.SimProductCount(r.s.productList(), operator)
		return nil
	})
	return n, err
}

func (r *LedgerRepo) SimNetStock(ctx context.Context, operator *string) (n int64, err error) {
	err = r.s.read(ctx, func() error {
		n = kardex.SimNetStock(r.s.productList(), r.s.movements, operator)
		return nil
	})
	return n, err
}
