package kardex_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

func ptr(s string) *string { return &s }

func day(s string) time.Time {
	d, _ := time.Parse(kardex.DateLayout, s)
	return d
}

func mov(seq int64, product, kind string, qty int64, lot, env, date string) entity.Movement {
	m := entity.Movement{Seq: seq, ProductID: product, Kind: kind, Quantity: qty, Date: day(date), PostStatus: "OPERATIVO"}
	if lot != "" {
		m.LotID = ptr(lot)
	}
	if env != "" {
		m.EnvironmentID = ptr(env)
	}
	return m
}

func TestNetStock_EntradaMenosSalida(t *testing.T) {
	ledger := []entity.Movement{
		mov(1, "P1", entity.MovementKindEntrada, 10, "L1", "E1", "2025-01-01"),
		mov(2, "P1", entity.MovementKindSalida, 3, "L1", "E1", "2025-01-02"),
	}

	assert.Equal(t, int64(7), kardex.NetStock(ledger, kardex.StockFilter{ProductID: "P1"}))
	assert.Equal(t, []entity.LotStock{{LotID: "L1", Stock: 7}},
		kardex.StockByLot(ledger, "P1", kardex.LotZeroExclude))
}

func TestNetStock_ProductoSinMovimientosEsCero(t *testing.T) {
	ledger := []entity.Movement{mov(1, "P1", entity.MovementKindEntrada, 10, "L1", "", "2025-01-01")}

	assert.Equal(t, int64(0), kardex.NetStock(ledger, kardex.StockFilter{ProductID: "P2"}))
	assert.Empty(t, kardex.StockByLot(ledger, "P2", kardex.LotZeroExclude))
	assert.Equal(t, int64(0), kardex.NetStock(nil, kardex.StockFilter{ProductID: "P2"}))
}

func TestNetStock_TipoDesconocidoAportaCero(t *testing.T) {
	ledger := []entity.Movement{
		mov(1, "P1", entity.MovementKindEntrada, 10, "", "", "2025-01-01"),
		mov(2, "P1", "AJUSTE", 99, "", "", "2025-01-01"),
	}
	assert.Equal(t, int64(10), kardex.NetStock(ledger, kardex.StockFilter{ProductID: "P1"}))
}

func TestNetStock_FiltroLoteYEntorno(t *testing.T) {
	ledger := []entity.Movement{
		mov(1, "P1", entity.MovementKindEntrada, 10, "L1", "E1", "2025-01-01"),
		mov(2, "P1", entity.MovementKindEntrada, 5, "L1", "E2", "2025-01-01"),
		mov(3, "P1", entity.MovementKindEntrada, 4, "L2", "E1", "2025-01-01"),
		mov(4, "P1", entity.MovementKindSalida, 2, "L1", "E1", "2025-01-02"),
		mov(5, "P1", entity.MovementKindEntrada, 1, "", "", "2025-01-02"),
	}

	assert.Equal(t, int64(18), kardex.NetStock(ledger, kardex.StockFilter{ProductID: "P1"}))
	assert.Equal(t, int64(13), kardex.NetStock(ledger, kardex.StockFilter{ProductID: "P1", LotID: ptr("L1")}))
	assert.Equal(t, int64(8), kardex.NetStock(ledger, kardex.StockFilter{ProductID: "P1", LotID: ptr("L1"), EnvironmentID: ptr("E1")}))
	assert.Equal(t, int64(12), kardex.NetStock(ledger, kardex.StockFilter{ProductID: "P1", EnvironmentID: ptr("E1")}))
	assert.Equal(t, int64(0), kardex.NetStock(ledger, kardex.StockFilter{ProductID: "P1", LotID: ptr("L9")}))
}

func TestStockByLot_PoliticaLoteEnCero(t *testing.T) {
	ledger := []entity.Movement{
		mov(1, "P1", entity.MovementKindEntrada, 5, "L2", "", "2025-01-01"),
		mov(2, "P1", entity.MovementKindSalida, 5, "L2", "", "2025-01-02"),
		mov(3, "P1", entity.MovementKindEntrada, 3, "L1", "", "2025-01-02"),
	}

	assert.Equal(t, []entity.LotStock{{LotID: "L1", Stock: 3}},
		kardex.StockByLot(ledger, "P1", kardex.LotZeroExclude))
	assert.Equal(t, []entity.LotStock{{LotID: "L1", Stock: 3}, {LotID: "L2", Stock: 0}},
		kardex.StockByLot(ledger, "P1", kardex.LotZeroInclude))
}

func TestStockByLot_MovimientosSinLoteSeAgrupanBajoVacio(t *testing.T) {
	ledger := []entity.Movement{
		mov(1, "P1", entity.MovementKindEntrada, 2, "", "", "2025-01-01"),
		mov(2, "P1", entity.MovementKindEntrada, 3, "L1", "", "2025-01-01"),
	}
	assert.Equal(t, []entity.LotStock{{LotID: "", Stock: 2}, {LotID: "L1", Stock: 3}},
		kardex.StockByLot(ledger, "P1", kardex.LotZeroExclude))
}

// La suma del desglose por lote coincide con el total del producto para cualquier secuencia
// de movimientos con lote, bajo ambas políticas.
func TestStockByLot_SumaIgualAlTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	lots := []string{"L1", "L2", "L3"}
	products := []string{"P1", "P2"}
	kinds := []string{entity.MovementKindEntrada, entity.MovementKindSalida, "OTRO"}

	for round := 0; round < 50; round++ {
		var ledger []entity.Movement
		for i := 0; i < rng.Intn(40); i++ {
			ledger = append(ledger, mov(int64(i+1),
				products[rng.Intn(len(products))],
				kinds[rng.Intn(len(kinds))],
				int64(rng.Intn(20)),
				lots[rng.Intn(len(lots))], "", "2025-03-01"))
		}
		for _, p := range products {
			total := kardex.NetStock(ledger, kardex.StockFilter{ProductID: p})
			for _, policy := range []kardex.LotZeroPolicy{kardex.LotZeroExclude, kardex.LotZeroInclude} {
				var sum int64
				for _, ls := range kardex.StockByLot(ledger, p, policy) {
					sum += ls.Stock
				}
				require.Equal(t, total, sum, "ronda %d producto %s política %s", round, p, policy)
			}
		}
	}
}

func TestStockAllProducts_IncluyeProductosSinMovimientos(t *testing.T) {
	products := []entity.Product{{ID: "P2", Description: "SIM Claro"}, {ID: "P1", Description: "Router"}}
	ledger := []entity.Movement{
		mov(1, "P1", entity.MovementKindEntrada, 4, "L1", "", "2025-01-01"),
		mov(2, "PX", entity.MovementKindEntrada, 9, "", "", "2025-01-01"),
	}

	assert.Equal(t, []entity.ProductStock{
		{ProductID: "P1", Description: "Router", Stock: 4},
		{ProductID: "P2", Description: "SIM Claro", Stock: 0},
	}, kardex.StockAllProducts(products, ledger))
}

func TestProductsInEnvironment_Politicas(t *testing.T) {
	ledger := []entity.Movement{
		mov(1, "P1", entity.MovementKindEntrada, 1, "", "BODEGA", "2025-01-01"),
		mov(2, "P2", entity.MovementKindEntrada, 1, "", "BODEGA", "2025-01-01"),
		mov(3, "P1", entity.MovementKindSalida, 1, "", "CAMPO", "2025-01-02"),
		mov(4, "P3", entity.MovementKindEntrada, 1, "", "CAMPO", "2025-01-02"),
	}

	ever := kardex.ProductsEverIn(ledger, "BODEGA")
	require.Len(t, ever, 2)
	assert.Equal(t, "P1", ever[0].ProductID)
	assert.Equal(t, int64(1), ever[0].LastSeq)
	assert.Equal(t, "P2", ever[1].ProductID)

	current := kardex.ProductsCurrentlyIn(ledger, "BODEGA")
	require.Len(t, current, 1, "P1 salió de BODEGA en su último movimiento")
	assert.Equal(t, "P2", current[0].ProductID)

	campo := kardex.ProductsCurrentlyIn(ledger, "CAMPO")
	assert.Equal(t, []entity.EnvironmentProduct{
		{ProductID: "P1", PostStatus: "OPERATIVO", LastSeq: 3},
		{ProductID: "P3", PostStatus: "OPERATIVO", LastSeq: 4},
	}, campo)

	assert.Empty(t, kardex.ProductsEverIn(ledger, "NINGUNO"))
}

func TestDamagedCounts_DefinicionesDistintas(t *testing.T) {
	products := []entity.Product{
		{ID: "D1", Type: entity.ProductTypeDevice, Status: entity.StatusDamaged},
		{ID: "D2", Type: entity.ProductTypeDevice, Status: "OPERATIVO"},
		{ID: "S1", Type: entity.ProductTypeSIM, Status: entity.StatusDamaged},
	}
	damaged := func(seq int64, p string) entity.Movement {
		m := mov(seq, p, entity.MovementKindSalida, 1, "", "", "2025-01-01")
		m.PostStatus = entity.StatusDamaged
		return m
	}
	ledger := []entity.Movement{damaged(1, "D1"), damaged(2, "D1"), damaged(3, "D2")}

	assert.Equal(t, int64(1), kardex.DamagedProductCount(products))
	assert.Equal(t, int64(3), kardex.DamagedMovementCount(ledger))
}

func TestMovementsOnDate_FiltraPorFechaYTipo(t *testing.T) {
	ledger := []entity.Movement{
		mov(3, "P1", entity.MovementKindEntrada, 5, "L1", "E1", "2025-02-01"),
		mov(1, "P2", entity.MovementKindEntrada, 2, "L2", "E1", "2025-02-01"),
		mov(2, "P1", entity.MovementKindSalida, 1, "L1", "E1", "2025-02-01"),
		mov(4, "P1", entity.MovementKindEntrada, 7, "L1", "E1", "2025-02-02"),
	}

	in := kardex.MovementsOnDate(ledger, day("2025-02-01"), entity.MovementKindEntrada)
	require.Len(t, in, 2)
	assert.Equal(t, int64(1), in[0].Seq)
	assert.Equal(t, int64(3), in[1].Seq)

	out := kardex.MovementsOnDate(ledger, day("2025-02-01"), entity.MovementKindSalida)
	assert.Len(t, out, 1)
	assert.Empty(t, kardex.MovementsOnDate(ledger, day("2025-03-01"), entity.MovementKindEntrada))
}

func TestSimCounts_ConteoVsStock(t *testing.T) {
	products := []entity.Product{
		{ID: "S1", Type: entity.ProductTypeSIM, Operator: "Claro"},
		{ID: "S2", Type: entity.ProductTypeSIM, Operator: "Movistar"},
		{ID: "S3", Type: entity.ProductTypeSIM, Operator: "claro"},
		{ID: "D1", Type: entity.ProductTypeDevice, Operator: "Claro"},
	}
	ledger := []entity.Movement{
		mov(1, "S1", entity.MovementKindEntrada, 100, "L1", "", "2025-01-01"),
		mov(2, "S1", entity.MovementKindSalida, 30, "L1", "", "2025-01-02"),
		mov(3, "S2", entity.MovementKindEntrada, 50, "L2", "", "2025-01-02"),
		mov(4, "D1", entity.MovementKindEntrada, 8, "L3", "", "2025-01-02"),
	}

	assert.Equal(t, int64(3), kardex.SimProductCount(products, nil))
	assert.Equal(t, int64(2), kardex.SimProductCount(products, ptr("CLARO")), "el operador se compara sin distinguir mayúsculas")
	assert.Equal(t, int64(120), kardex.SimNetStock(products, ledger, nil))
	assert.Equal(t, int64(70), kardex.SimNetStock(products, ledger, ptr("Claro")))
	assert.Equal(t, int64(0), kardex.SimNetStock(products, ledger, ptr("Tigo")))
}
