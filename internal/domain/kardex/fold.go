package kardex

import (
	"sort"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Signed aporte de un movimiento al stock: +cantidad en ENTRADA, -cantidad en SALIDA, 0 en otro caso.
func Signed(m *entity.Movement) int64 {
	switch m.Kind {
	case entity.MovementKindEntrada:
		return m.Quantity
	case entity.MovementKindSalida:
		return -m.Quantity
	}
	return 0
}

// NetStock suma con signo los movimientos que caen en el alcance del filtro.
// Sin movimientos el resultado es 0.
func NetStock(movements []entity.Movement, f StockFilter) int64 {
	var total int64
	for i := range movements {
		if f.Matches(&movements[i]) {
			total += Signed(&movements[i])
		}
	}
	return total
}

// StockByLot agrupa el stock neto del producto por lote, ordenado por código de lote.
// Los movimientos sin lote se agrupan bajo el código vacío. Con LotZeroExclude se omiten
// los lotes cuyo neto es cero.
func StockByLot(movements []entity.Movement, productID string, policy LotZeroPolicy) []entity.LotStock {
	totals := make(map[string]int64)
	for i := range movements {
		m := &movements[i]
		if m.ProductID != productID {
			continue
		}
		lot := ""
		if m.LotID != nil {
			lot = *m.LotID
		}
		totals[lot] += Signed(m)
	}
	out := make([]entity.LotStock, 0, len(totals))
	for lot, stock := range totals {
		if stock == 0 && policy != LotZeroInclude {
			continue
		}
		out = append(out, entity.LotStock{LotID: lot, Stock: stock})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LotID < out[j].LotID })
	return out
}

// StockAllProducts stock neto de cada producto del catálogo (cero si no tiene movimientos),
// ordenado por código de producto.
func StockAllProducts(products []entity.Product, movements []entity.Movement) []entity.ProductStock {
	totals := make(map[string]int64, len(products))
	for i := range movements {
		totals[movements[i].ProductID] += Signed(&movements[i])
	}
	out := make([]entity.ProductStock, 0, len(products))
	for _, p := range products {
		out = append(out, entity.ProductStock{ProductID: p.ID, Description: p.Description, Stock: totals[p.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// ProductsEverIn productos con al menos un movimiento en el entorno. El estado y la
// secuencia corresponden al último movimiento del producto dentro de ese entorno.
func ProductsEverIn(movements []entity.Movement, environmentID string) []entity.EnvironmentProduct {
	latest := make(map[string]*entity.Movement)
	for i := range movements {
		m := &movements[i]
		if m.EnvironmentID == nil || *m.EnvironmentID != environmentID {
			continue
		}
		if cur, ok := latest[m.ProductID]; !ok || m.Seq > cur.Seq {
			latest[m.ProductID] = m
		}
	}
	return environmentProducts(latest)
}

// ProductsCurrentlyIn productos cuyo último movimiento (mayor Seq, en cualquier entorno)
// fue registrado en el entorno dado.
func ProductsCurrentlyIn(movements []entity.Movement, environmentID string) []entity.EnvironmentProduct {
	latest := make(map[string]*entity.Movement)
	for i := range movements {
		m := &movements[i]
		if cur, ok := latest[m.ProductID]; !ok || m.Seq > cur.Seq {
			latest[m.ProductID] = m
		}
	}
	for id, m := range latest {
		if m.EnvironmentID == nil || *m.EnvironmentID != environmentID {
			delete(latest, id)
		}
	}
	return environmentProducts(latest)
}

func environmentProducts(latest map[string]*entity.Movement) []entity.EnvironmentProduct {
	out := make([]entity.EnvironmentProduct, 0, len(latest))
	for id, m := range latest {
		out = append(out, entity.EnvironmentProduct{ProductID: id, PostStatus: m.PostStatus, LastSeq: m.Seq})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// DamagedProductCount productos distintos de tipo DISPOSITIVO con estado DAÑADO.
func DamagedProductCount(products []entity.Product) int64 {
	var n int64
	for i := range products {
		if products[i].IsDamagedDevice() {
			n++
		}
	}
	return n
}

// DamagedMovementCount filas del kardex cuyo estado posterior es DAÑADO.
func DamagedMovementCount(movements []entity.Movement) int64 {
	var n int64
	for i := range movements {
		if movements[i].PostStatus == entity.StatusDamaged {
			n++
		}
	}
	return n
}

// MovementsOnDate movimientos del tipo dado registrados en la fecha, en orden de secuencia.
func MovementsOnDate(movements []entity.Movement, date time.Time, kind string) []entity.Movement {
	out := make([]entity.Movement, 0)
	for _, m := range movements {
		if m.Kind == kind && SameDay(m.Date, date) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// SimProductCount productos de tipo SIM, opcionalmente del operador dado.
func SimProductCount(products []entity.Product, operator *string) int64 {
	var n int64
	for i := range products {
		if isSimOf(&products[i], operator) {
			n++
		}
	}
	return n
}

// SimNetStock stock neto sumado de todos los productos SIM (opcionalmente de un operador).
func SimNetStock(products []entity.Product, movements []entity.Movement, operator *string) int64 {
	sims := make(map[string]struct{})
	for i := range products {
		if isSimOf(&products[i], operator) {
			sims[products[i].ID] = struct{}{}
		}
	}
	var total int64
	for i := range movements {
		if _, ok := sims[movements[i].ProductID]; ok {
			total += Signed(&movements[i])
		}
	}
	return total
}

func isSimOf(p *entity.Product, operator *string) bool {
	if p.Type != entity.ProductTypeSIM {
		return false
	}
	return operator == nil || NormalizeCode(p.Operator) == NormalizeCode(*operator)
}
