// Package storage arma los repositorios del kardex según DB_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/mysql"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-api/pkg/config"
)

// Repositories puertos de persistencia sobre un mismo almacén.
type Repositories struct {
	Driver   string
	Ledger   repository.LedgerRepository
	Products repository.ProductRepository
	Lots     repository.LotRepository
	Users    repository.UserRepository
	Tx       inventory.TxRunner // única vía de escritura del kardex

	close func()
}

// Close libera el pool de conexiones.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// Open conecta con el almacén configurado. El driver memory arranca vacío.
func Open(ctx context.Context, cfg config.DBConfig) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &Repositories{
			Driver:   cfg.Driver,
			Ledger:   postgres.NewLedgerRepository(pool),
			Products: postgres.NewProductRepository(pool),
			Lots:     postgres.NewLotRepository(pool),
			Users:    postgres.NewUserRepository(pool),
			Tx:       postgres.NewTxRunner(pool),
			close:    pool.Close,
		}, nil
	case config.DriverMySQL:
		db, err := mysql.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a MySQL: %w", err)
		}
		return &Repositories{
			Driver:   cfg.Driver,
			Ledger:   mysql.NewLedgerRepository(db),
			Products: mysql.NewProductRepository(db),
			Lots:     mysql.NewLotRepository(db),
			Users:    mysql.NewUserRepository(db),
			Tx:       mysql.NewTxRunner(db),
			close:    func() { _ = db.Close() },
		}, nil
	case config.DriverMemory:
		return InMemory(), nil
	}
	return nil, fmt.Errorf("driver de base de datos no soportado: %q", cfg.Driver)
}

// InMemory repositorios sobre un memory.Store nuevo.
func InMemory() *Repositories {
	s := memory.NewStore()
	return &Repositories{
		Driver:   config.DriverMemory,
		Ledger:   memory.NewLedgerRepository(s),
		Products: memory.NewProductRepository(s),
		Lots:     memory.NewLotRepository(s),
		Users:    memory.NewUserRepository(s),
		Tx:       memory.NewTxRunner(s),
	}
}
