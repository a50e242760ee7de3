package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo consultas de derivación de stock sobre kardex_movements (read-only).
// Cada método ejecuta una sola sentencia; el pool entrega y recupera la conexión.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// NetStock usa COALESCE para devolver cero cuando el alcance no tiene movimientos.
func (r *LedgerRepo) NetStock(ctx context.Context, f kardex.StockFilter) (int64, error) {
	where, args := stockFilterClause(f)
	query := fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0)::bigint FROM kardex_movements WHERE %s`, signedQuantity(""), where)
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("net stock: %w", err)
	}
	return n, nil
}

// StockByLot agrupa por lote; los movimientos sin lote quedan bajo ''. Con LotZeroExclude
// el HAVING descarta los lotes con neto cero.
func (r *LedgerRepo) StockByLot(ctx context.Context, productID string, policy kardex.LotZeroPolicy) ([]entity.LotStock, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(lot_id, '') AS lot, SUM(%[1]s)::bigint AS stock
		FROM kardex_movements
		WHERE product_id = $1
		GROUP BY COALESCE(lot_id, '')`, signedQuantity(""))
	if policy != kardex.LotZeroInclude {
		query += fmt.Sprintf(` HAVING SUM(%s) <> 0`, signedQuantity(""))
	}
	query += ` ORDER BY lot`

	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("stock by lot: %w", err)
	}
	defer rows.Close()
	out := make([]entity.LotStock, 0)
	for rows.Next() {
		var ls entity.LotStock
		if err := rows.Scan(&ls.LotID, &ls.Stock); err != nil {
			return nil, fmt.Errorf("scan lot stock: %w", err)
		}
		out = append(out, ls)
	}
	return out, rows.Err()
}

// StockAllProducts una sola agregación agrupada; LEFT JOIN para incluir productos sin movimientos.
func (r *LedgerRepo) StockAllProducts(ctx context.Context) ([]entity.ProductStock, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.description, COALESCE(SUM(%s), 0)::bigint AS stock
		FROM products p
		LEFT JOIN kardex_movements m ON m.product_id = p.id
		GROUP BY p.id, p.description
		ORDER BY p.id`, signedQuantity("m"))
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock all products: %w", err)
	}
	defer rows.Close()
	out := make([]entity.ProductStock, 0)
	for rows.Next() {
		var ps entity.ProductStock
		if err := rows.Scan(&ps.ProductID, &ps.Description, &ps.Stock); err != nil {
			return nil, fmt.Errorf("scan product stock: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

// ProductsEverInEnvironment productos con algún movimiento en el entorno; estado del último de ellos.
func (r *LedgerRepo) ProductsEverInEnvironment(ctx context.Context, environmentID string) ([]entity.EnvironmentProduct, error) {
	query := `
		SELECT m.product_id, m.post_status, m.seq
		FROM kardex_movements m
		JOIN (
			SELECT product_id, MAX(seq) AS seq
			FROM kardex_movements
			WHERE environment_id = $1
			GROUP BY product_id
		) last ON last.seq = m.seq
		ORDER BY m.product_id`
	return r.environmentProducts(ctx, "products ever in environment", query, environmentID)
}

// ProductsCurrentlyInEnvironment productos cuyo último movimiento global está en el entorno.
func (r *LedgerRepo) ProductsCurrentlyInEnvironment(ctx context.Context, environmentID string) ([]entity.EnvironmentProduct, error) {
	query := `
		SELECT m.product_id, m.post_status, m.seq
		FROM kardex_movements m
		JOIN (
			SELECT product_id, MAX(seq) AS seq
			FROM kardex_movements
			GROUP BY product_id
		) last ON last.seq = m.seq
		WHERE m.environment_id = $1
		ORDER BY m.product_id`
	return r.environmentProducts(ctx, "products currently in environment", query, environmentID)
}

func (r *LedgerRepo) environmentProducts(ctx context.Context, op, query, environmentID string) ([]entity.EnvironmentProduct, error) {
	rows, err := r.q.Query(ctx, query, environmentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	out := make([]entity.EnvironmentProduct, 0)
	for rows.Next() {
		var ep entity.EnvironmentProduct
		if err := rows.Scan(&ep.ProductID, &ep.PostStatus, &ep.LastSeq); err != nil {
			return nil, fmt.Errorf("scan %s: %w", op, err)
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}

func (r *LedgerRepo) DamagedProductCount(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(DISTINCT id) FROM products WHERE type = $1 AND status = $2`
	var n int64
	if err := r.q.QueryRow(ctx, query, entity.ProductTypeDevice, entity.StatusDamaged).Scan(&n); err != nil {
		return 0, fmt.Errorf("damaged product count: %w", err)
	}
	return n, nil
}

func (r *LedgerRepo) DamagedMovementCount(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM kardex_movements WHERE post_status = $1`
	var n int64
	if err := r.q.QueryRow(ctx, query, entity.StatusDamaged).Scan(&n); err != nil {
		return 0, fmt.Errorf("damaged movement count: %w", err)
	}
	return n, nil
}

func (r *LedgerRepo) CountMovementsOnDate(ctx context.Context, date time.Time, kind string) (int64, error) {
	query := `SELECT COUNT(*) FROM kardex_movements WHERE date = $1 AND kind = $2`
	var n int64
	if err := r.q.QueryRow(ctx, query, date, kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements on date: %w", err)
	}
	return n, nil
}

func (r *LedgerRepo) ListMovementsOnDate(ctx context.Context, date time.Time, kind string) ([]entity.Movement, error) {
	query := `
		SELECT seq, product_id, quantity, lot_id, environment_id, post_status, kind, date
		FROM kardex_movements
		WHERE date = $1 AND kind = $2
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, date, kind)
	if err != nil {
		return nil, fmt.Errorf("list movements on date: %w", err)
	}
	defer rows.Close()
	out := make([]entity.Movement, 0)
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.Seq, &m.ProductID, &m.Quantity, &m.LotID, &m.EnvironmentID,
			&m.PostStatus, &m.Kind, &m.Date); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SimProductCount cuenta filas de productos SIM (no unidades en stock).
func (r *LedgerRepo) SimProductCount(ctx context.Context, operator *string) (int64, error) {
	query := `SELECT COUNT(*) FROM products WHERE type = $1`
	args := []any{entity.ProductTypeSIM}
	if operator != nil {
		query += ` AND UPPER(TRIM(operator)) = $2`
		args = append(args, *operator)
	}
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("sim product count: %w", err)
	}
	return n, nil
}

// SimNetStock stock neto de los movimientos de productos SIM (join por producto).
func (r *LedgerRepo) SimNetStock(ctx context.Context, operator *string) (int64, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(%s), 0)::bigint
		FROM kardex_movements m
		JOIN products p ON p.id = m.product_id
		WHERE p.type = $1`, signedQuantity("m"))
	args := []any{entity.ProductTypeSIM}
	if operator != nil {
		query += ` AND UPPER(TRIM(p.operator)) = $2`
		args = append(args, *operator)
	}
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("sim net stock: %w", err)
	}
	return n, nil
}
