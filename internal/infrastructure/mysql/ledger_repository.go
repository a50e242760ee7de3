package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo consultas de derivación de stock sobre kardex_movements.
type LedgerRepo struct {
	db DBTX
}

func NewLedgerRepository(db DBTX) *LedgerRepo {
	return &LedgerRepo{db: db}
}

// signedQuantity +qty ENTRADA, -qty SALIDA, 0 en otro caso.
func signedQuantity(alias string) string {
	if alias != "" {
		alias += "."
	}
	return fmt.Sprintf("CASE WHEN %[1]skind = '%[2]s' THEN %[1]squantity WHEN %[1]skind = '%[3]s' THEN -%[1]squantity ELSE 0 END",
		alias, entity.MovementKindEntrada, entity.MovementKindSalida)
}

// stockFilterClause WHERE del alcance de stock con placeholders '?'.
func stockFilterClause(f kardex.StockFilter) (string, []any) {
	where := "product_id = ?"
	args := []any{f.ProductID}
	if f.LotID != nil {
		where += " AND lot_id = ?"
		args = append(args, *f.LotID)
	}
	if f.EnvironmentID != nil {
		where += " AND environment_id = ?"
		args = append(args, *f.EnvironmentID)
	}
	return where, args
}

func (r *LedgerRepo) scalar(ctx context.Context, op, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (r *LedgerRepo) NetStock(ctx context.Context, f kardex.StockFilter) (int64, error) {
	where, args := stockFilterClause(f)
	query := fmt.Sprintf(`SELECT CAST(COALESCE(SUM(%s), 0) AS SIGNED) FROM kardex_movements WHERE %s`, signedQuantity(""), where)
	return r.scalar(ctx, "net stock", query, args...)
}

func (r *LedgerRepo) StockByLot(ctx context.Context, productID string, policy kardex.LotZeroPolicy) ([]entity.LotStock, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(lot_id, '') AS lot, CAST(SUM(%s) AS SIGNED) AS stock
		FROM kardex_movements
		WHERE product_id = ?
		GROUP BY COALESCE(lot_id, '')`, signedQuantity(""))
	if policy != kardex.LotZeroInclude {
		query += ` HAVING stock <> 0`
	}
	query += ` ORDER BY lot`

	rows, err := r.db.QueryContext(ctx, query, productID)
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

func (r *LedgerRepo) StockAllProducts(ctx context.Context) ([]entity.ProductStock, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.description, CAST(COALESCE(SUM(%s), 0) AS SIGNED) AS stock
		FROM products p
		LEFT JOIN kardex_movements m ON m.product_id = p.id
		GROUP BY p.id, p.description
		ORDER BY p.id`, signedQuantity("m"))
	rows, err := r.db.QueryContext(ctx, query)
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

func (r *LedgerRepo) ProductsEverInEnvironment(ctx context.Context, environmentID string) ([]entity.EnvironmentProduct, error) {
	query := `
		SELECT m.product_id, m.post_status, m.seq
		FROM kardex_movements m
		JOIN (
			SELECT product_id, MAX(seq) AS seq
			FROM kardex_movements
			WHERE environment_id = ?
			GROUP BY product_id
		) last ON last.seq = m.seq
		ORDER BY m.product_id`
	return r.environmentProducts(ctx, "products ever in environment", query, environmentID)
}

func (r *LedgerRepo) ProductsCurrentlyInEnvironment(ctx context.Context, environmentID string) ([]entity.EnvironmentProduct, error) {
	query := `
		SELECT m.product_id, m.post_status, m.seq
		FROM kardex_movements m
		JOIN (
			SELECT product_id, MAX(seq) AS seq
			FROM kardex_movements
			GROUP BY product_id
		) last ON last.seq = m.seq
		WHERE m.environment_id = ?
		ORDER BY m.product_id`
	return r.environmentProducts(ctx, "products currently in environment", query, environmentID)
}

func (r *LedgerRepo) environmentProducts(ctx context.Context, op, query, environmentID string) ([]entity.EnvironmentProduct, error) {
	rows, err := r.db.QueryContext(ctx, query, environmentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	out := make([]entity.EnvironmentProduct, 0)
	for rows.Next() {
		var ep entity.EnvironmentProduct
		var status sql.NullString
		if err := rows.Scan(&ep.ProductID, &status, &ep.LastSeq); err != nil {
			return nil, fmt.Errorf("scan %s: %w", op, err)
		}
		ep.PostStatus = fromNull(status)
		out = append(out, ep)
	}
	return out, rows.Err()
}

func (r *LedgerRepo) DamagedProductCount(ctx context.Context) (int64, error) {
	return r.scalar(ctx, "damaged product count",
		`SELECT COUNT(DISTINCT id) FROM products WHERE type = ? AND status = ?`,
		entity.ProductTypeDevice, entity.StatusDamaged)
}

func (r *LedgerRepo) DamagedMovementCount(ctx context.Context) (int64, error) {
	return r.scalar(ctx, "damaged movement count",
		`SELECT COUNT(*) FROM kardex_movements WHERE post_status = ?`, entity.StatusDamaged)
}

// Las fechas se envían como 'YYYY-MM-DD' para comparar contra la columna DATE sin conversión de zona.
func (r *LedgerRepo) CountMovementsOnDate(ctx context.Context, date time.Time, kind string) (int64, error) {
	return r.scalar(ctx, "count movements on date",
		`SELECT COUNT(*) FROM kardex_movements WHERE date = ? AND kind = ?`,
		date.Format(kardex.DateLayout), kind)
}

func (r *LedgerRepo) ListMovementsOnDate(ctx context.Context, date time.Time, kind string) ([]entity.Movement, error) {
	query := `
		SELECT seq, product_id, quantity, lot_id, environment_id, post_status, kind, date
		FROM kardex_movements
		WHERE date = ? AND kind = ?
		ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, date.Format(kardex.DateLayout), kind)
	if err != nil {
		return nil, fmt.Errorf("list movements on date: %w", err)
	}
	defer rows.Close()
	out := make([]entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows.Scan, false)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *LedgerRepo) SimProductCount(ctx context.Context, operator *string) (int64, error) {
	query := `SELECT COUNT(*) FROM products WHERE type = ?`
	args := []any{entity.ProductTypeSIM}
	if operator != nil {
		query += ` AND UPPER(TRIM(operator)) = ?`
		args = append(args, *operator)
	}
	return r.scalar(ctx, "sim product count", query, args...)
}

func (r *LedgerRepo) SimNetStock(ctx context.Context, operator *string) (int64, error) {
	query := fmt.Sprintf(`
		SELECT CAST(COALESCE(SUM(%s), 0) AS SIGNED)
		FROM kardex_movements m
		JOIN products p ON p.id = m.product_id
		WHERE p.type = ?`, signedQuantity("m"))
	args := []any{entity.ProductTypeSIM}
	if operator != nil {
		query += ` AND UPPER(TRIM(p.operator)) = ?`
		args = append(args, *operator)
	}
	return r.scalar(ctx, "sim net stock", query, args...)
}

// scanMovement lee seq, product_id, quantity, lot_id, environment_id, post_status, kind, date
// y, si full, created_by y compensates_seq.
func scanMovement(scan func(dest ...any) error, full bool) (*entity.Movement, error) {
	var m entity.Movement
	var lot, env, status, createdBy sql.NullString
	var compensates sql.NullInt64
	dest := []any{&m.Seq, &m.ProductID, &m.Quantity, &lot, &env, &status, &m.Kind, &m.Date}
	if full {
		dest = append(dest, &createdBy, &compensates)
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}
	m.LotID, m.EnvironmentID = ptrFromNull(lot), ptrFromNull(env)
	m.PostStatus, m.CreatedBy = fromNull(status), fromNull(createdBy)
	if compensates.Valid {
		seq := compensates.Int64
		m.CompensatesSeq = &seq
	}
	return &m, nil
}
