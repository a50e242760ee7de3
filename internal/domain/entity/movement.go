package entity

import "time"

// Tipos de movimiento del kardex.
const (
	MovementKindEntrada = "ENTRADA" // entrada: suma al stock
	MovementKindSalida  = "SALIDA"  // salida: resta del stock
)

// Movement registro inmutable del kardex. La cantidad se guarda siempre positiva;
// el signo lo determina Kind. Las correcciones se registran como movimientos compensatorios.
type Movement struct {
	Seq           int64
	ProductID     string
	Quantity      int64
	Kind          string
	LotID         *string // nil si el movimiento no tiene lote
	EnvironmentID *string // nil si no se registró el entorno
	Date          time.Time
	PostStatus    string // estado del artículo después del movimiento
	CreatedBy     string

	// CompensatesSeq seq del movimiento que este corrige; nil si no es compensatorio.
	// Cada movimiento admite a lo sumo una compensación.
	CompensatesSeq *int64
}

// Opposite devuelve el tipo contrario (ENTRADA <-> SALIDA). Vacío si el tipo no es reconocido.
func Opposite(kind string) string {
	switch kind {
	case MovementKindEntrada:
		return MovementKindSalida
	case MovementKindSalida:
		return MovementKindEntrada
	}
	return ""
}

// IsValidKind indica si kind es ENTRADA o SALIDA.
func IsValidKind(kind string) bool {
	return kind == MovementKindEntrada || kind == MovementKindSalida
}
