package entity

// LotStock stock neto de un producto dentro de un lote.
// LotID vacío agrupa los movimientos sin lote.
type LotStock struct {
	LotID string
	Stock int64
}

// ProductStock stock neto de un producto (reporte de todos los productos).
type ProductStock struct {
	ProductID   string
	Description string
	Stock       int64
}

// EnvironmentProduct producto presente en un entorno de almacenamiento, con el estado
// registrado en el movimiento que lo ubica allí.
type EnvironmentProduct struct {
	ProductID  string
	PostStatus string
	LastSeq    int64
}
