package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

func strp(s string) *string { return &s }

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	products := memory.NewProductRepository(s)
	movs := memory.NewMovementRepository(s)

	require.NoError(t, products.Create(ctx, &entity.Product{ID: "P1", Description: "Router", Type: entity.ProductTypeDevice}))
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "P2", Description: "Modem", Type: entity.ProductTypeDevice, Status: entity.StatusDamaged}))

	d1 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)
	for _, m := range []entity.Movement{
		{ProductID: "P1", Kind: entity.MovementKindEntrada, Quantity: 10, LotID: strp("L1"), EnvironmentID: strp("BODEGA"), Date: d1, PostStatus: "OPERATIVO"},
		{ProductID: "P1", Kind: entity.MovementKindSalida, Quantity: 3, LotID: strp("L1"), EnvironmentID: strp("BODEGA"), Date: d2, PostStatus: "OPERATIVO"},
	} {
		m := m
		require.NoError(t, movs.Append(ctx, &m))
	}
	return s
}

func TestLedgerRepo_NetStockYDesglose(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedgerRepository(seed(t))

	n, err := ledger.NetStock(ctx, kardex.StockFilter{ProductID: "P1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	lots, err := ledger.StockByLot(ctx, "P1", kardex.LotZeroExclude)
	require.NoError(t, err)
	assert.Equal(t, []entity.LotStock{{LotID: "L1", Stock: 7}}, lots)

	all, err := ledger.StockAllProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.ProductStock{
		{ProductID: "P1", Description: "Router", Stock: 7},
		{ProductID: "P2", Description: "Modem", Stock: 0},
	}, all)
}

func TestMovementRepo_AppendAsignaSecuencia(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	movs := memory.NewMovementRepository(s)

	a := &entity.Movement{ProductID: "P1", Kind: entity.MovementKindEntrada, Quantity: 1}
	b := &entity.Movement{ProductID: "P1", Kind: entity.MovementKindEntrada, Quantity: 2}
	require.NoError(t, movs.Append(ctx, a))
	require.NoError(t, movs.Append(ctx, b))
	assert.Equal(t, int64(1), a.Seq)
	assert.Equal(t, int64(2), b.Seq)

	got, err := movs.GetBySeq(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.Quantity)

	missing, err := movs.GetBySeq(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTxRunner_RollbackRestauraEstado(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	runner := memory.NewTxRunner(s)
	boom := errors.New("boom")

	err := runner.Run(ctx, func(movRepo repository.MovementRepository, _ repository.LedgerRepository, _ repository.ProductRepository, _ repository.LotRepository) error {
		require.NoError(t, movRepo.Append(ctx, &entity.Movement{ProductID: "P1", Kind: entity.MovementKindEntrada, Quantity: 100}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := memory.NewLedgerRepository(s).NetStock(ctx, kardex.StockFilter{ProductID: "P1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestStore_FailWith(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	down := errors.New("connection refused")
	s.FailWith(down)

	_, err := memory.NewLedgerRepository(s).DamagedProductCount(ctx)
	assert.ErrorIs(t, err, down)

	s.FailWith(nil)
	n, err := memory.NewLedgerRepository(s).DamagedProductCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
