package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.LotRepository     = (*LotRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
)

// ProductRepo catálogo de productos en memoria.
type ProductRepo struct{ s *Store }

func NewProductRepository(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		r.s.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (p *entity.Product, err error) {
	err = r.s.read(ctx, func() error {
		if found, ok := r.s.products[id]; ok {
			p = &found
		}
		return nil
	})
	return p, err
}

func (r *ProductRepo) List(ctx context.Context) (list []*entity.Product, err error) {
	err = r.s.read(ctx, func() error {
		for _, p := range r.s.productList() {
			p := p
			list = append(list, &p)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, err
}

// LotRepo lotes en memoria.
type LotRepo struct{ s *Store }

func NewLotRepository(s *Store) *LotRepo { return &LotRepo{s: s} }

func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	return r.s.write(ctx, func() error {
		key := lotKey{lot.ProductID, lot.ID}
		if _, ok := r.s.lots[key]; ok {
			return domain.ErrDuplicate
		}
		r.s.lots[key] = *lot
		return nil
	})
}

func (r *LotRepo) Get(ctx context.Context, productID, lotID string) (l *entity.Lot, err error) {
	err = r.s.read(ctx, func() error {
		if found, ok := r.s.lots[lotKey{productID, lotID}]; ok {
			l = &found
		}
		return nil
	})
	return l, err
}

func (r *LotRepo) ListByProduct(ctx context.Context, productID string) (list []*entity.Lot, err error) {
	err = r.s.read(ctx, func() error {
		for k, l := range r.s.lots {
			if k.productID == productID {
				l := l
				list = append(list, &l)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, err
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func NewUserRepository(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.users[user.ID]; ok {
			return domain.ErrDuplicate
		}
		r.s.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, alias string) (u *entity.User, err error) {
	err = r.s.read(ctx, func() error {
		if found, ok := r.s.users[alias]; ok {
			u = &found
		}
		return nil
	})
	return u, err
}
