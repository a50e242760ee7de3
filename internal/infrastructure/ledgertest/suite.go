// Package ledgertest batería común para los adaptadores del kardex (memory, postgres, mysql).
// Carga el mismo conjunto de movimientos y verifica que cada adaptador derive los mismos números.
package ledgertest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Repos adaptadores bajo prueba, todos sobre un almacén vacío.
type Repos struct {
	Ledger    repository.LedgerRepository
	Products  repository.ProductRepository
	Lots      repository.LotRepository
	Movements repository.MovementRepository
}

func strp(s string) *string { return &s }

func day(s string) time.Time {
	d, err := kardex.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// loaded secuencias asignadas por el almacén, en el orden de carga.
type loaded struct {
	seqs []int64
}

func (l loaded) seq(i int) int64 { return l.seqs[i-1] }

func load(t *testing.T, r Repos) loaded {
	t.Helper()
	ctx := context.Background()
	for _, p := range []entity.Product{
		{ID: "P1", Description: "Router", Type: entity.ProductTypeDevice},
		{ID: "P2", Description: "Router dañado", Type: entity.ProductTypeDevice, Status: entity.StatusDamaged},
		{ID: "P9", Description: "Sin movimientos", Type: entity.ProductTypeDevice},
		{ID: "S1", Description: "SIM Claro", Type: entity.ProductTypeSIM, Operator: "Claro"},
		{ID: "S2", Description: "SIM Tigo", Type: entity.ProductTypeSIM, Operator: " tigo"},
	} {
		p := p
		require.NoError(t, r.Products.Create(ctx, &p))
	}
	for _, l := range []entity.Lot{
		{ID: "L1", ProductID: "P1"}, {ID: "L2", ProductID: "P1"},
		{ID: "LS1", ProductID: "S1"}, {ID: "LS2", ProductID: "S2"},
	} {
		l := l
		require.NoError(t, r.Lots.Create(ctx, &l))
	}

	var out loaded
	for _, m := range []entity.Movement{
		{ProductID: "P1", Kind: entity.MovementKindEntrada, Quantity: 10, LotID: strp("L1"), EnvironmentID: strp("BODEGA"), Date: day("2025-01-01"), PostStatus: "OPERATIVO"},
		{ProductID: "P1", Kind: entity.MovementKindSalida, Quantity: 3, LotID: strp("L1"), EnvironmentID: strp("BODEGA"), Date: day("2025-01-02"), PostStatus: "OPERATIVO"},
		{ProductID: "P1", Kind: entity.MovementKindEntrada, Quantity: 4, LotID: strp("L2"), EnvironmentID: strp("BODEGA"), Date: day("2025-02-01"), PostStatus: "OPERATIVO"},
		{ProductID: "P1", Kind: entity.MovementKindSalida, Quantity: 4, LotID: strp("L2"), EnvironmentID: strp("CAMPO"), Date: day("2025-02-01"), PostStatus: entity.StatusDamaged},
		{ProductID: "P1", Kind: entity.MovementKindEntrada, Quantity: 2, Date: day("2025-02-01"), PostStatus: "OPERATIVO"},
		{ProductID: "S1", Kind: entity.MovementKindEntrada, Quantity: 100, LotID: strp("LS1"), EnvironmentID: strp("BODEGA"), Date: day("2025-02-01"), PostStatus: "OPERATIVO"},
		{ProductID: "S2", Kind: entity.MovementKindEntrada, Quantity: 20, LotID: strp("LS2"), EnvironmentID: strp("BODEGA"), Date: day("2025-02-02"), PostStatus: "OPERATIVO"},
		{ProductID: "P2", Kind: entity.MovementKindEntrada, Quantity: 1, EnvironmentID: strp("BODEGA"), Date: day("2025-01-15"), PostStatus: entity.StatusDamaged},
	} {
		m := m
		require.NoError(t, r.Movements.Append(ctx, &m))
		out.seqs = append(out.seqs, m.Seq)
	}
	for i := 1; i < len(out.seqs); i++ {
		require.Greater(t, out.seqs[i], out.seqs[i-1], "seq crece con cada movimiento")
	}
	return out
}

// Run carga los datos con r y ejecuta la batería. Los subtests corren en orden; el último escribe.
func Run(t *testing.T, r Repos) {
	ctx := context.Background()
	l := load(t, r)

	t.Run("NetStock", func(t *testing.T) {
		cases := []struct {
			name string
			f    kardex.StockFilter
			want int64
		}{
			{"producto", kardex.StockFilter{ProductID: "P1"}, 9},
			{"lote", kardex.StockFilter{ProductID: "P1", LotID: strp("L1")}, 7},
			{"lote en cero", kardex.StockFilter{ProductID: "P1", LotID: strp("L2")}, 0},
			{"lote y entorno", kardex.StockFilter{ProductID: "P1", LotID: strp("L1"), EnvironmentID: strp("BODEGA")}, 7},
			{"entorno", kardex.StockFilter{ProductID: "P1", EnvironmentID: strp("BODEGA")}, 11},
			{"sin movimientos", kardex.StockFilter{ProductID: "P9"}, 0},
			{"inexistente", kardex.StockFilter{ProductID: "NO-EXISTE"}, 0},
		}
		for _, tc := range cases {
			n, err := r.Ledger.NetStock(ctx, tc.f)
			require.NoError(t, err, tc.name)
			assert.Equal(t, tc.want, n, tc.name)
		}
	})

	t.Run("StockByLot", func(t *testing.T) {
		lots, err := r.Ledger.StockByLot(ctx, "P1", kardex.LotZeroExclude)
		require.NoError(t, err)
		assert.Equal(t, []entity.LotStock{{LotID: "", Stock: 2}, {LotID: "L1", Stock: 7}}, lots)

		lots, err = r.Ledger.StockByLot(ctx, "P1", kardex.LotZeroInclude)
		require.NoError(t, err)
		assert.Equal(t, []entity.LotStock{{LotID: "", Stock: 2}, {LotID: "L1", Stock: 7}, {LotID: "L2", Stock: 0}}, lots)

		var sum int64
		for _, ls := range lots {
			sum += ls.Stock
		}
		net, err := r.Ledger.NetStock(ctx, kardex.StockFilter{ProductID: "P1"})
		require.NoError(t, err)
		assert.Equal(t, net, sum, "la suma por lote coincide con el neto")

		lots, err = r.Ledger.StockByLot(ctx, "P9", kardex.LotZeroInclude)
		require.NoError(t, err)
		assert.Empty(t, lots)
	})

	t.Run("StockAllProducts", func(t *testing.T) {
		all, err := r.Ledger.StockAllProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []entity.ProductStock{
			{ProductID: "P1", Description: "Router", Stock: 9},
			{ProductID: "P2", Description: "Router dañado", Stock: 1},
			{ProductID: "P9", Description: "Sin movimientos", Stock: 0},
			{ProductID: "S1", Description: "SIM Claro", Stock: 100},
			{ProductID: "S2", Description: "SIM Tigo", Stock: 20},
		}, all)
	})

	t.Run("Entornos", func(t *testing.T) {
		ever, err := r.Ledger.ProductsEverInEnvironment(ctx, "BODEGA")
		require.NoError(t, err)
		assert.Equal(t, []entity.EnvironmentProduct{
			{ProductID: "P1", PostStatus: "OPERATIVO", LastSeq: l.seq(3)},
			{ProductID: "P2", PostStatus: entity.StatusDamaged, LastSeq: l.seq(8)},
			{ProductID: "S1", PostStatus: "OPERATIVO", LastSeq: l.seq(6)},
			{ProductID: "S2", PostStatus: "OPERATIVO", LastSeq: l.seq(7)},
		}, ever)

		// El último movimiento de P1 no tiene entorno: ya no está en BODEGA.
		current, err := r.Ledger.ProductsCurrentlyInEnvironment(ctx, "BODEGA")
		require.NoError(t, err)
		assert.Equal(t, []entity.EnvironmentProduct{
			{ProductID: "P2", PostStatus: entity.StatusDamaged, LastSeq: l.seq(8)},
			{ProductID: "S1", PostStatus: "OPERATIVO", LastSeq: l.seq(6)},
			{ProductID: "S2", PostStatus: "OPERATIVO", LastSeq: l.seq(7)},
		}, current)

		campo, err := r.Ledger.ProductsEverInEnvironment(ctx, "CAMPO")
		require.NoError(t, err)
		assert.Equal(t, []entity.EnvironmentProduct{{ProductID: "P1", PostStatus: entity.StatusDamaged, LastSeq: l.seq(4)}}, campo)

		campo, err = r.Ledger.ProductsCurrentlyInEnvironment(ctx, "CAMPO")
		require.NoError(t, err)
		assert.Empty(t, campo)
	})

	t.Run("Dañados", func(t *testing.T) {
		n, err := r.Ledger.DamagedProductCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = r.Ledger.DamagedMovementCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("MovimientosDelDia", func(t *testing.T) {
		n, err := r.Ledger.CountMovementsOnDate(ctx, day("2025-02-01"), entity.MovementKindEntrada)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		n, err = r.Ledger.CountMovementsOnDate(ctx, day("2025-02-01"), entity.MovementKindSalida)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		list, err := r.Ledger.ListMovementsOnDate(ctx, day("2025-02-01"), entity.MovementKindEntrada)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []int64{l.seq(3), l.seq(5), l.seq(6)}, []int64{list[0].Seq, list[1].Seq, list[2].Seq})

		first := list[0]
		assert.Equal(t, "P1", first.ProductID)
		assert.Equal(t, int64(4), first.Quantity)
		require.NotNil(t, first.LotID)
		assert.Equal(t, "L2", *first.LotID)
		require.NotNil(t, first.EnvironmentID)
		assert.Equal(t, "BODEGA", *first.EnvironmentID)
		assert.Equal(t, "OPERATIVO", first.PostStatus)
		assert.Equal(t, "2025-02-01", first.Date.Format(kardex.DateLayout))
		assert.Nil(t, list[1].LotID, "movimiento sin lote")
		assert.Nil(t, list[1].EnvironmentID)

		n, err = r.Ledger.CountMovementsOnDate(ctx, day("2024-12-31"), entity.MovementKindEntrada)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Sims", func(t *testing.T) {
		n, err := r.Ledger.SimProductCount(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = r.Ledger.SimProductCount(ctx, strp("TIGO"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "el operador se compara recortado y en mayúsculas")

		n, err = r.Ledger.SimNetStock(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(120), n)

		n, err = r.Ledger.SimNetStock(ctx, strp("CLARO"))
		require.NoError(t, err)
		assert.Equal(t, int64(100), n)

		n, err = r.Ledger.SimNetStock(ctx, strp("MOVISTAR"))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Compensacion", func(t *testing.T) {
		salida := l.seq(2)
		comp := &entity.Movement{
			ProductID: "P1", Kind: entity.MovementKindEntrada, Quantity: 3, LotID: strp("L1"),
			EnvironmentID: strp("BODEGA"), Date: day("2025-02-03"), PostStatus: "OPERATIVO", CompensatesSeq: &salida,
		}
		require.NoError(t, r.Movements.Append(ctx, comp))

		got, err := r.Movements.GetBySeq(ctx, comp.Seq)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.CompensatesSeq)
		assert.Equal(t, salida, *got.CompensatesSeq)

		found, err := r.Movements.GetCompensation(ctx, salida)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, comp.Seq, found.Seq)

		none, err := r.Movements.GetCompensation(ctx, l.seq(1))
		require.NoError(t, err)
		assert.Nil(t, none)

		again := *comp
		again.Seq = 0
		err = r.Movements.Append(ctx, &again)
		assert.ErrorIs(t, err, domain.ErrDuplicate, "un movimiento admite una sola compensación")

		n, err := r.Ledger.NetStock(ctx, kardex.StockFilter{ProductID: "P1", LotID: strp("L1")})
		require.NoError(t, err)
		assert.Equal(t, int64(10), n)
	})
}
