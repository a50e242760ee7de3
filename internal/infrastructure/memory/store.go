// Package memory implementa los puertos de persistencia en memoria. Lo usan los tests y el
// driver DB_DRIVER=memory (demo local sin base de datos).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Store datos compartidos por los repositorios en memoria.
type Store struct {
	txMu sync.Mutex   // serializa transacciones (TxRunner.Run)
	mu   sync.RWMutex // protege los datos

	products  map[string]entity.Product
	lots      map[lotKey]entity.Lot
	movements []entity.Movement
	users     map[string]entity.User
	nextSeq   int64

	fail error
}

type lotKey struct {
	productID string
	lotID     string
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		lots:     make(map[lotKey]entity.Lot),
		users:    make(map[string]entity.User),
		nextSeq:  1,
	}
}

// FailWith hace que toda operación posterior devuelva err (nil restablece). Simula caídas del almacén.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	s.fail = err
	s.mu.Unlock()
}

// read ejecuta fn con bloqueo de lectura, respetando FailWith y la cancelación del contexto.
func (s *Store) read(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fail != nil {
		return s.fail
	}
	return fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	return fn()
}

// compensationOf copia del movimiento que compensa a seq, o nil (llamar con el lock tomado).
func (s *Store) compensationOf(seq int64) *entity.Movement {
	for i := range s.movements {
		if c := s.movements[i].CompensatesSeq; c != nil && *c == seq {
			found := s.movements[i]
			return &found
		}
	}
	return nil
}

// productList copia del catálogo (llamar con el lock tomado).
func (s *Store) productList() []entity.Product {
	out := make([]entity.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out
}

type snapshot struct {
	products  map[string]entity.Product
	lots      map[lotKey]entity.Lot
	movements []entity.Movement
	users     map[string]entity.User
	nextSeq   int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		products:  make(map[string]entity.Product, len(s.products)),
		lots:      make(map[lotKey]entity.Lot, len(s.lots)),
		movements: append([]entity.Movement(nil), s.movements...),
		users:     make(map[string]entity.User, len(s.users)),
		nextSeq:   s.nextSeq,
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.lots {
		snap.lots[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.lots = snap.lots
	s.movements = snap.movements
	s.users = snap.users
	s.nextSeq = snap.nextSeq
}
