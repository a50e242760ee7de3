package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementRepository puerto de escritura del kardex. Solo se agregan filas: no hay Update ni Delete.
type MovementRepository interface {
	// Append inserta el movimiento y asigna movement.Seq. domain.ErrDuplicate si
	// CompensatesSeq ya tiene una compensación registrada.
	Append(ctx context.Context, movement *entity.Movement) error
	// GetBySeq devuelve (nil, nil) si no existe.
	GetBySeq(ctx context.Context, seq int64) (*entity.Movement, error)
	// GetCompensation devuelve el movimiento que compensa a seq, o (nil, nil) si no fue compensado.
	GetCompensation(ctx context.Context, seq int64) (*entity.Movement, error)
	// LockProduct serializa los registros concurrentes sobre un producto hasta el fin de la transacción.
	LockProduct(ctx context.Context, productID string) error
}
