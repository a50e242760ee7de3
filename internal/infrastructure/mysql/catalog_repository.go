package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.LotRepository     = (*LotRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
)

const productColumns = `id, description, type, model, operator, serial_number, iccid, mac, technology, ownership, status, image_path, image_name`

// ProductRepo catálogo de productos sobre MySQL.
type ProductRepo struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Description, p.Type, p.Model, p.Operator, p.SerialNumber, p.ICCID, p.MAC,
		p.Technology, p.Ownership, p.Status, nullable(p.ImagePath), nullable(p.ImageName),
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(scan func(dest ...any) error) (*entity.Product, error) {
	var p entity.Product
	var cols [10]sql.NullString
	err := scan(&p.ID, &p.Description, &p.Type, &cols[0], &cols[1], &cols[2], &cols[3], &cols[4],
		&cols[5], &cols[6], &cols[7], &cols[8], &cols[9])
	if err != nil {
		return nil, err
	}
	p.Model, p.Operator, p.SerialNumber = fromNull(cols[0]), fromNull(cols[1]), fromNull(cols[2])
	p.ICCID, p.MAC, p.Technology = fromNull(cols[3]), fromNull(cols[4]), fromNull(cols[5])
	p.Ownership, p.Status = fromNull(cols[6]), fromNull(cols[7])
	p.ImagePath, p.ImageName = fromNull(cols[8]), fromNull(cols[9])
	return &p, nil
}

// LotRepo lotes de proveedor sobre MySQL.
type LotRepo struct {
	db DBTX
}

func NewLotRepository(db DBTX) *LotRepo {
	return &LotRepo{db: db}
}

func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO lots (id, product_id, expires_at, quantity) VALUES (?, ?, ?, ?)`,
		lot.ID, lot.ProductID, lot.ExpiresAt, lot.Quantity)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

func (r *LotRepo) Get(ctx context.Context, productID, lotID string) (*entity.Lot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, product_id, expires_at, quantity FROM lots WHERE product_id = ? AND id = ?`, productID, lotID)
	l, err := scanLot(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

func (r *LotRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Lot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, expires_at, quantity FROM lots WHERE product_id = ? ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanLot(scan func(dest ...any) error) (*entity.Lot, error) {
	var l entity.Lot
	var expires sql.NullTime
	var qty sql.NullInt64
	if err := scan(&l.ID, &l.ProductID, &expires, &qty); err != nil {
		return nil, err
	}
	if expires.Valid {
		l.ExpiresAt = &expires.Time
	}
	if qty.Valid {
		l.Quantity = &qty.Int64
	}
	return &l, nil
}

// UserRepo usuarios sobre MySQL.
type UserRepo struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (alias, role, password_hash) VALUES (?, ?, ?)`,
		user.ID, user.Role, nullable(user.PasswordHash))
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, alias string) (*entity.User, error) {
	var u entity.User
	var hash sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT alias, role, password_hash FROM users WHERE alias = ?`, alias).
		Scan(&u.ID, &u.Role, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.PasswordHash = fromNull(hash)
	return &u, nil
}
