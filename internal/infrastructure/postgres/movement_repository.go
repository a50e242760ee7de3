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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo escritura append-only sobre kardex_movements (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el movimiento y devuelve la secuencia asignada por la base (bigserial).
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO kardex_movements (product_id, quantity, kind, lot_id, environment_id, date, post_status, created_by, compensates_seq)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.Quantity, m.Kind, m.LotID, m.EnvironmentID, m.Date, m.PostStatus, nullable(m.CreatedBy), m.CompensatesSeq,
	).Scan(&m.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

const movementColumns = `seq, product_id, quantity, kind, lot_id, environment_id, date, post_status, created_by, compensates_seq`

// GetBySeq obtiene un movimiento por su secuencia.
func (r *MovementRepo) GetBySeq(ctx context.Context, seq int64) (*entity.Movement, error) {
	return r.getOne(ctx, "get movement", `SELECT `+movementColumns+` FROM kardex_movements WHERE seq = $1`, seq)
}

// GetCompensation busca por compensates_seq (índice único).
func (r *MovementRepo) GetCompensation(ctx context.Context, seq int64) (*entity.Movement, error) {
	return r.getOne(ctx, "get compensation", `SELECT `+movementColumns+` FROM kardex_movements WHERE compensates_seq = $1`, seq)
}

func (r *MovementRepo) getOne(ctx context.Context, op, query string, seq int64) (*entity.Movement, error) {
	var m entity.Movement
	var createdBy *string
	err := r.q.QueryRow(ctx, query, seq).Scan(
		&m.Seq, &m.ProductID, &m.Quantity, &m.Kind, &m.LotID, &m.EnvironmentID, &m.Date, &m.PostStatus, &createdBy, &m.CompensatesSeq,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.CreatedBy = deref(createdBy)
	return &m, nil
}

// LockProduct bloquea la fila del producto (SELECT FOR UPDATE) hasta el Commit/Rollback.
func (r *MovementRepo) LockProduct(ctx context.Context, productID string) error {
	var id string
	err := r.q.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("lock product: %w", err)
	}
	return nil
}
