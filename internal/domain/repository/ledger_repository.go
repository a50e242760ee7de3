package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// LedgerRepository consultas de solo lectura sobre el kardex. Cada método ejecuta una
// única consulta agregada; los resultados vacíos se devuelven como cero o slice vacío.
type LedgerRepository interface {
	// NetStock stock neto del alcance (producto y, opcionalmente, lote y entorno).
	NetStock(ctx context.Context, f kardex.StockFilter) (int64, error)

	// StockByLot desglose por lote ordenado por código de lote.
	StockByLot(ctx context.Context, productID string, policy kardex.LotZeroPolicy) ([]entity.LotStock, error)

	// StockAllProducts stock neto de todos los productos (LEFT JOIN: sin movimientos = 0).
	StockAllProducts(ctx context.Context) ([]entity.ProductStock, error)

	ProductsEverInEnvironment(ctx context.Context, environmentID string) ([]entity.EnvironmentProduct, error)
	ProductsCurrentlyInEnvironment(ctx context.Context, environmentID string) ([]entity.EnvironmentProduct, error)

	DamagedProductCount(ctx context.Context) (int64, error)
	DamagedMovementCount(ctx context.Context) (int64, error)

	CountMovementsOnDate(ctx context.Context, date time.Time, kind string) (int64, error)
	ListMovementsOnDate(ctx context.Context, date time.Time, kind string) ([]entity.Movement, error)

	// SimProductCount y SimNetStock reciben el operador ya normalizado (mayúsculas) o nil.
	SimProductCount(ctx context.Context, operator *string) (int64, error)
	SimNetStock(ctx context.Context, operator *string) (int64, error)
}
