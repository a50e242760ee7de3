package kardex

import (
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockFilter alcance de un cálculo de stock neto. ProductID es obligatorio;
// LotID y EnvironmentID acotan el alcance cuando no son nil.
type StockFilter struct {
	ProductID     string
	LotID         *string
	EnvironmentID *string
}

// Validate devuelve domain.ErrInvalidInput si falta el producto.
func (f StockFilter) Validate() error {
	if f.ProductID == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// Matches indica si el movimiento cae dentro del alcance del filtro.
func (f StockFilter) Matches(m *entity.Movement) bool {
	if m.ProductID != f.ProductID {
		return false
	}
	if f.LotID != nil && (m.LotID == nil || *m.LotID != *f.LotID) {
		return false
	}
	if f.EnvironmentID != nil && (m.EnvironmentID == nil || *m.EnvironmentID != *f.EnvironmentID) {
		return false
	}
	return true
}
