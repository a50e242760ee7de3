package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// GetByID busca por alias; (nil, nil) si no existe.
	GetByID(ctx context.Context, alias string) (*entity.User, error)
}
