package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo lotes de proveedor sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `INSERT INTO lots (id, product_id, expires_at, quantity) VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, lot.ID, lot.ProductID, lot.ExpiresAt, lot.Quantity); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

func (r *LotRepo) Get(ctx context.Context, productID, lotID string) (*entity.Lot, error) {
	query := `SELECT id, product_id, expires_at, quantity FROM lots WHERE product_id = $1 AND id = $2`
	var l entity.Lot
	err := r.q.QueryRow(ctx, query, productID, lotID).Scan(&l.ID, &l.ProductID, &l.ExpiresAt, &l.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

func (r *LotRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Lot, error) {
	query := `SELECT id, product_id, expires_at, quantity FROM lots WHERE product_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ExpiresAt, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
