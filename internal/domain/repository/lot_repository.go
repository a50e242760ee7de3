package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LotRepository puerto de lectura/alta de lotes de proveedor.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	// Get devuelve (nil, nil) si el lote no existe para ese producto.
	Get(ctx context.Context, productID, lotID string) (*entity.Lot, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Lot, error)
}
