package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo escritura append-only sobre kardex_movements.
type MovementRepo struct {
	db DBTX
}

func NewMovementRepository(db DBTX) *MovementRepo {
	return &MovementRepo{db: db}
}

// Append inserta el movimiento; Seq toma el AUTO_INCREMENT asignado.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO kardex_movements (product_id, quantity, kind, lot_id, environment_id, date, post_status, created_by, compensates_seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ProductID, m.Quantity, m.Kind, m.LotID, m.EnvironmentID, m.Date.Format(kardex.DateLayout),
		m.PostStatus, nullable(m.CreatedBy), m.CompensatesSeq)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append movement: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append movement: last insert id: %w", err)
	}
	m.Seq = seq
	return nil
}

const movementColumns = `seq, product_id, quantity, lot_id, environment_id, post_status, kind, date, created_by, compensates_seq`

func (r *MovementRepo) GetBySeq(ctx context.Context, seq int64) (*entity.Movement, error) {
	return r.getOne(ctx, "get movement", `SELECT `+movementColumns+` FROM kardex_movements WHERE seq = ?`, seq)
}

func (r *MovementRepo) GetCompensation(ctx context.Context, seq int64) (*entity.Movement, error) {
	return r.getOne(ctx, "get compensation", `SELECT `+movementColumns+` FROM kardex_movements WHERE compensates_seq = ?`, seq)
}

func (r *MovementRepo) getOne(ctx context.Context, op, query string, seq int64) (*entity.Movement, error) {
	m, err := scanMovement(r.db.QueryRowContext(ctx, query, seq).Scan, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// LockProduct SELECT ... FOR UPDATE sobre el producto (InnoDB) hasta el fin de la transacción.
func (r *MovementRepo) LockProduct(ctx context.Context, productID string) error {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM products WHERE id = ? FOR UPDATE`, productID).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lock product: %w", err)
	}
	return nil
}
