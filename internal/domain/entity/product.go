package entity

// Tipos de producto conocidos (la columna admite otros valores).
const (
	ProductTypeDevice = "DISPOSITIVO"
	ProductTypeSIM    = "SIM"
)

// StatusDamaged marca de estado dañado, tanto en productos como en movimientos.
const StatusDamaged = "DAÑADO"

// Product representa un artículo inventariado (dispositivo, SIM, accesorio...).
// Lo administran herramientas externas; el kardex solo lo lee.
type Product struct {
	ID           string // código del producto
	Description  string
	Type         string // DISPOSITIVO, SIM, ...
	Model        string
	Operator     string
	SerialNumber string
	ICCID        string
	MAC          string
	Technology   string
	Ownership    string
	Status       string // DAÑADO o estado normal
	ImagePath    string // ruta en disco de la imagen asociada (vacío si no tiene)
	ImageName    string
}

// IsDamagedDevice indica si el producto cuenta como dispositivo dañado.
func (p *Product) IsDamagedDevice() bool {
	return p.Type == ProductTypeDevice && p.Status == StatusDamaged
}
