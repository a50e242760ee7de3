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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, description, type, model, operator, serial_number, iccid, mac, technology, ownership, status, image_path, image_name`

// Create persiste un producto (usado por el seed; el catálogo lo administran otras herramientas).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Description, p.Type, p.Model, p.Operator, p.SerialNumber, p.ICCID, p.MAC,
		p.Technology, p.Ownership, p.Status, nullable(p.ImagePath), nullable(p.ImageName),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por código.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List devuelve el catálogo completo ordenado por código.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var model, operator, serial, iccid, mac, technology, ownership, status, imagePath, imageName *string
	err := row.Scan(&p.ID, &p.Description, &p.Type, &model, &operator, &serial, &iccid, &mac,
		&technology, &ownership, &status, &imagePath, &imageName)
	if err != nil {
		return nil, err
	}
	p.Model, p.Operator, p.SerialNumber = deref(model), deref(operator), deref(serial)
	p.ICCID, p.MAC, p.Technology = deref(iccid), deref(mac), deref(technology)
	p.Ownership, p.Status = deref(ownership), deref(status)
	p.ImagePath, p.ImageName = deref(imagePath), deref(imageName)
	return &p, nil
}
