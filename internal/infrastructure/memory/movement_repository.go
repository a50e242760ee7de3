package memory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo escritura append-only del kardex en memoria.
type MovementRepo struct{ s *Store }

func NewMovementRepository(s *Store) *MovementRepo { return &MovementRepo{s: s} }

func (r *MovementRepo) Append(ctx context.Context, movement *entity.Movement) error {
	return r.s.write(ctx, func() error {
		if movement.CompensatesSeq != nil && r.s.compensationOf(*movement.CompensatesSeq) != nil {
			return domain.ErrDuplicate
		}
		movement.Seq = r.s.nextSeq
		r.s.nextSeq++
		m := *movement
		m.LotID = copyPtr(movement.LotID)
		m.EnvironmentID = copyPtr(movement.EnvironmentID)
		if movement.CompensatesSeq != nil {
			orig := *movement.CompensatesSeq
			m.CompensatesSeq = &orig
		}
		r.s.movements = append(r.s.movements, m)
		return nil
	})
}

func (r *MovementRepo) GetCompensation(ctx context.Context, seq int64) (m *entity.Movement, err error) {
	err = r.s.read(ctx, func() error {
		m = r.s.compensationOf(seq)
		return nil
	})
	return m, err
}

func (r *MovementRepo) GetBySeq(ctx context.Context, seq int64) (m *entity.Movement, err error) {
	err = r.s.read(ctx, func() error {
		for i := range r.s.movements {
			if r.s.movements[i].Seq == seq {
				found := r.s.movements[i]
				m = &found
				return nil
			}
		}
		return nil
	})
	return m, err
}

// LockProduct no hace nada: TxRunner ya serializa las transacciones en memoria.
func (r *MovementRepo) LockProduct(ctx context.Context, _ string) error {
	return r.s.read(ctx, func() error { return nil })
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
