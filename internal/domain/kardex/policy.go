package kardex

import (
	"strings"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// LotZeroPolicy decide si un lote con stock neto cero aparece en el desglose por lote.
type LotZeroPolicy string

const (
	LotZeroExclude LotZeroPolicy = "exclude" // un lote en cero se trata como lote sin actividad
	LotZeroInclude LotZeroPolicy = "include" // todo lote con al menos un movimiento aparece
)

// ParseLotZeroPolicy interpreta la política; vacío equivale a exclude.
func ParseLotZeroPolicy(s string) (LotZeroPolicy, error) {
	switch LotZeroPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", LotZeroExclude:
		return LotZeroExclude, nil
	case LotZeroInclude:
		return LotZeroInclude, nil
	}
	return "", domain.ErrInvalidInput
}

// EnvironmentPolicy decide qué significa que un producto "está" en un entorno.
type EnvironmentPolicy string

const (
	// EnvironmentEver: el producto tuvo algún movimiento registrado en el entorno.
	EnvironmentEver EnvironmentPolicy = "ever"
	// EnvironmentCurrent: el último movimiento del producto (por número de secuencia) es del entorno.
	EnvironmentCurrent EnvironmentPolicy = "current"
)

// ParseEnvironmentPolicy interpreta la política; vacío equivale a current.
func ParseEnvironmentPolicy(s string) (EnvironmentPolicy, error) {
	switch EnvironmentPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", EnvironmentCurrent:
		return EnvironmentCurrent, nil
	case EnvironmentEver:
		return EnvironmentEver, nil
	}
	return "", domain.ErrInvalidInput
}

// DamagedDefinition las dos definiciones de "cantidad de dañados" que existen en el inventario.
type DamagedDefinition string

const (
	// DamagedProducts: productos distintos de tipo DISPOSITIVO con estado DAÑADO.
	// Es la definición usada por DamagedCount en todos los reportes.
	DamagedProducts DamagedDefinition = "products"
	// DamagedMovements: filas del kardex cuyo estado posterior es DAÑADO.
	DamagedMovements DamagedDefinition = "movements"
)

// ParseDamagedDefinition interpreta la definición; vacío equivale a products.
func ParseDamagedDefinition(s string) (DamagedDefinition, error) {
	switch DamagedDefinition(strings.ToLower(strings.TrimSpace(s))) {
	case "", DamagedProducts:
		return DamagedProducts, nil
	case DamagedMovements:
		return DamagedMovements, nil
	}
	return "", domain.ErrInvalidInput
}
