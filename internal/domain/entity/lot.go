package entity

import "time"

// Lot lote de proveedor; su código es único dentro de un producto.
type Lot struct {
	ID        string
	ProductID string
	ExpiresAt *time.Time // nil = sin vencimiento
	Quantity  *int64     // cantidad declarada por el proveedor (informativa)
}
