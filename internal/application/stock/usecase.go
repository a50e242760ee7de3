// Package stock casos de uso de consulta de stock derivado del kardex.
package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// StockUseCase capa de derivación de stock. No guarda estado entre llamadas: toda lectura
// es idempotente y puede reintentarse ante domain.ErrStore.
type StockUseCase struct {
	ledger    repository.LedgerRepository
	products  repository.ProductRepository
	lotPolicy kardex.LotZeroPolicy
	envPolicy kardex.EnvironmentPolicy
}

// NewStockUseCase construye el caso de uso con las políticas configuradas (KARDEX_*).
func NewStockUseCase(
	ledger repository.LedgerRepository,
	products repository.ProductRepository,
	lotPolicy kardex.LotZeroPolicy,
	envPolicy kardex.EnvironmentPolicy,
) *StockUseCase {
	if lotPolicy == "" {
		lotPolicy = kardex.LotZeroExclude
	}
	if envPolicy == "" {
		envPolicy = kardex.EnvironmentCurrent
	}
	return &StockUseCase{ledger: ledger, products: products, lotPolicy: lotPolicy, envPolicy: envPolicy}
}

// ProductDetails producto con su desglose de stock por lote.
type ProductDetails struct {
	Product entity.Product
	Lots    []entity.LotStock
	Total   int64
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStore, op, err)
}

// NetStock stock neto del alcance. Sin movimientos devuelve 0, también para productos inexistentes.
// El entorno se compara normalizado (mayúsculas) y el lote recortado, igual que al registrar.
func (uc *StockUseCase) NetStock(ctx context.Context, f kardex.StockFilter) (int64, error) {
	f.ProductID = strings.TrimSpace(f.ProductID)
	f.LotID = kardex.OptionalID(f.LotID)
	f.EnvironmentID = kardex.OptionalCode(f.EnvironmentID)
	if err := f.Validate(); err != nil {
		return 0, err
	}
	n, err := uc.ledger.NetStock(ctx, f)
	if err != nil {
		return 0, storeErr("net stock", err)
	}
	return n, nil
}

// StockByLot desglose por lote según la política de lotes en cero configurada.
func (uc *StockUseCase) StockByLot(ctx context.Context, productID string) ([]entity.LotStock, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	lots, err := uc.ledger.StockByLot(ctx, productID, uc.lotPolicy)
	if err != nil {
		return nil, storeErr("stock by lot", err)
	}
	return lots, nil
}

// StockAllProducts stock de todos los productos del catálogo.
func (uc *StockUseCase) StockAllProducts(ctx context.Context) ([]entity.ProductStock, error) {
	list, err := uc.ledger.StockAllProducts(ctx)
	if err != nil {
		return nil, storeErr("stock all products", err)
	}
	return list, nil
}

// EnvironmentPolicy política de entorno configurada.
func (uc *StockUseCase) EnvironmentPolicy() kardex.EnvironmentPolicy { return uc.envPolicy }

// ProductsInEnvironment aplica la política indicada; vacía = la configurada.
func (uc *StockUseCase) ProductsInEnvironment(ctx context.Context, environmentID string, policy kardex.EnvironmentPolicy) ([]entity.EnvironmentProduct, error) {
	if policy == "" {
		policy = uc.envPolicy
	}
	if policy == kardex.EnvironmentEver {
		return uc.ProductsEverInEnvironment(ctx, environmentID)
	}
	return uc.ProductsCurrentlyInEnvironment(ctx, environmentID)
}

// ProductsEverInEnvironment productos que tuvieron algún movimiento en el entorno.
func (uc *StockUseCase) ProductsEverInEnvironment(ctx context.Context, environmentID string) ([]entity.EnvironmentProduct, error) {
	environmentID = kardex.NormalizeCode(environmentID)
	if environmentID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.ledger.ProductsEverInEnvironment(ctx, environmentID)
	if err != nil {
		return nil, storeErr("products ever in environment", err)
	}
	return list, nil
}

// ProductsCurrentlyInEnvironment productos cuyo último movimiento está en el entorno.
func (uc *StockUseCase) ProductsCurrentlyInEnvironment(ctx context.Context, environmentID string) ([]entity.EnvironmentProduct, error) {
	environmentID = kardex.NormalizeCode(environmentID)
	if environmentID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.ledger.ProductsCurrentlyInEnvironment(ctx, environmentID)
	if err != nil {
		return nil, storeErr("products currently in environment", err)
	}
	return list, nil
}

// DamagedCount cantidad de dispositivos dañados (productos distintos, no filas del kardex).
func (uc *StockUseCase) DamagedCount(ctx context.Context) (int64, error) {
	return uc.DamagedProductCount(ctx)
}

func (uc *StockUseCase) DamagedProductCount(ctx context.Context) (int64, error) {
	n, err := uc.ledger.DamagedProductCount(ctx)
	if err != nil {
		return 0, storeErr("damaged product count", err)
	}
	return n, nil
}

// DamagedMovementCount filas del kardex con estado posterior DAÑADO.
func (uc *StockUseCase) DamagedMovementCount(ctx context.Context) (int64, error) {
	n, err := uc.ledger.DamagedMovementCount(ctx)
	if err != nil {
		return 0, storeErr("damaged movement count", err)
	}
	return n, nil
}

// Damaged despacha según la definición pedida.
func (uc *StockUseCase) Damaged(ctx context.Context, def kardex.DamagedDefinition) (int64, error) {
	if def == kardex.DamagedMovements {
		return uc.DamagedMovementCount(ctx)
	}
	return uc.DamagedProductCount(ctx)
}

// CountMovementsOnDate cuenta los movimientos del tipo en la fecha (YYYY-MM-DD).
func (uc *StockUseCase) CountMovementsOnDate(ctx context.Context, date, kind string) (int64, error) {
	d, k, err := parseDateKind(date, kind)
	if err != nil {
		return 0, err
	}
	n, err := uc.ledger.CountMovementsOnDate(ctx, d, k)
	if err != nil {
		return 0, storeErr("count movements on date", err)
	}
	return n, nil
}

// ListMovementsOnDate detalle de los movimientos del tipo en la fecha, por secuencia.
func (uc *StockUseCase) ListMovementsOnDate(ctx context.Context, date, kind string) ([]entity.Movement, error) {
	d, k, err := parseDateKind(date, kind)
	if err != nil {
		return nil, err
	}
	list, err := uc.ledger.ListMovementsOnDate(ctx, d, k)
	if err != nil {
		return nil, storeErr("list movements on date", err)
	}
	return list, nil
}

func parseDateKind(date, kind string) (d time.Time, k string, err error) {
	if d, err = kardex.ParseDate(date); err != nil {
		return d, "", err
	}
	if k, err = kardex.ParseKind(kind); err != nil {
		return d, "", err
	}
	return d, k, nil
}

// SimProductCount cantidad de productos SIM registrados (filas del catálogo).
func (uc *StockUseCase) SimProductCount(ctx context.Context, operator *string) (int64, error) {
	n, err := uc.ledger.SimProductCount(ctx, kardex.OptionalCode(operator))
	if err != nil {
		return 0, storeErr("sim product count", err)
	}
	return n, nil
}

// SimNetStock unidades SIM en stock según el kardex.
func (uc *StockUseCase) SimNetStock(ctx context.Context, operator *string) (int64, error) {
	n, err := uc.ledger.SimNetStock(ctx, kardex.OptionalCode(operator))
	if err != nil {
		return 0, storeErr("sim net stock", err)
	}
	return n, nil
}

// ProductDetails devuelve domain.ErrNotFound si el producto no existe; así se distingue
// "sin stock" de "producto inexistente".
func (uc *StockUseCase) ProductDetails(ctx context.Context, productID string) (*ProductDetails, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, storeErr("get product", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	lots, err := uc.StockByLot(ctx, productID)
	if err != nil {
		return nil, err
	}
	total, err := uc.NetStock(ctx, kardex.StockFilter{ProductID: productID})
	if err != nil {
		return nil, err
	}
	return &ProductDetails{Product: *p, Lots: lots, Total: total}, nil
}

// ProductExists indica si el código corresponde a un producto del catálogo.
func (uc *StockUseCase) ProductExists(ctx context.Context, productID string) (bool, error) {
	p, err := uc.products.GetByID(ctx, strings.TrimSpace(productID))
	if err != nil {
		return false, storeErr("get product", err)
	}
	return p != nil, nil
}
