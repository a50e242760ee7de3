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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. PasswordHash vacío se guarda como NULL.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (alias, role, password_hash) VALUES ($1, $2, $3)`
	if _, err := r.q.Exec(ctx, query, user.ID, user.Role, nullable(user.PasswordHash)); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por alias.
func (r *UserRepo) GetByID(ctx context.Context, alias string) (*entity.User, error) {
	query := `SELECT alias, role, password_hash FROM users WHERE alias = $1`
	var u entity.User
	var hash *string
	if err := r.q.QueryRow(ctx, query, alias).Scan(&u.ID, &u.Role, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.PasswordHash = deref(hash)
	return &u, nil
}
