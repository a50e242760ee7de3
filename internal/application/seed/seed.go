// Package seed carga datos de demostración y productos importados desde CSV.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Seeder escribe a través de los mismos puertos y casos de uso que la API,
// de modo que los movimientos de demostración pasan por las validaciones del kardex.
type Seeder struct {
	products  repository.ProductRepository
	lots      repository.LotRepository
	movements *inventory.RegisterMovementUseCase
	auth      *auth.AuthUseCase
}

// Summary resultado de una carga.
type Summary struct {
	Products  int
	Lots      int
	Movements int
	Users     int
	Skipped   bool // el catálogo ya tenía los datos de demostración
}

func New(
	products repository.ProductRepository,
	lots repository.LotRepository,
	movements *inventory.RegisterMovementUseCase,
	authUC *auth.AuthUseCase,
) *Seeder {
	return &Seeder{products: products, lots: lots, movements: movements, auth: authUC}
}

var demoProducts = []entity.Product{
	{ID: "RTR-001", Description: "Router 4G", Type: entity.ProductTypeDevice, Model: "MF286", Technology: "4G", Ownership: "PROPIO", Status: "OPERATIVO"},
	{ID: "RTR-002", Description: "Router 4G", Type: entity.ProductTypeDevice, Model: "MF286", Technology: "4G", Ownership: "PROPIO", Status: entity.StatusDamaged},
	{ID: "GPS-010", Description: "Rastreador GPS", Type: entity.ProductTypeDevice, Model: "TK103", Ownership: "ARRENDADO", Status: "OPERATIVO"},
	{ID: "SIM-CLA-01", Description: "SIM datos", Type: entity.ProductTypeSIM, Operator: "CLARO", ICCID: "8957101000000000001"},
	{ID: "SIM-TIG-01", Description: "SIM datos", Type: entity.ProductTypeSIM, Operator: "TIGO", ICCID: "8957103000000000001"},
}

var demoLots = []entity.Lot{
	{ID: "L2025-01", ProductID: "RTR-001"},
	{ID: "L2025-02", ProductID: "RTR-001"},
	{ID: "L2025-01", ProductID: "GPS-010"},
	{ID: "LS-100", ProductID: "SIM-CLA-01"},
	{ID: "LS-200", ProductID: "SIM-TIG-01"},
}

type demoMovement struct {
	product, kind, lot, env, date, status string
	qty                                   int64
}

var demoMovements = []demoMovement{
	{"RTR-001", entity.MovementKindEntrada, "L2025-01", "BODEGA", "2025-01-10", "OPERATIVO", 10},
	{"RTR-001", entity.MovementKindSalida, "L2025-01", "BODEGA", "2025-01-15", "OPERATIVO", 3},
	{"RTR-001", entity.MovementKindEntrada, "L2025-02", "BODEGA", "2025-02-01", "OPERATIVO", 5},
	{"GPS-010", entity.MovementKindEntrada, "L2025-01", "BODEGA", "2025-02-01", "OPERATIVO", 4},
	{"GPS-010", entity.MovementKindSalida, "L2025-01", "BODEGA", "2025-02-01", entity.StatusDamaged, 1},
	{"SIM-CLA-01", entity.MovementKindEntrada, "LS-100", "BODEGA", "2025-02-02", "OPERATIVO", 100},
	{"SIM-TIG-01", entity.MovementKindEntrada, "LS-200", "BODEGA", "2025-02-02", "OPERATIVO", 40},
	{"SIM-TIG-01", entity.MovementKindSalida, "LS-200", "BODEGA", "2025-02-03", "OPERATIVO", 15},
	{"SIM-TIG-01", entity.MovementKindEntrada, "LS-200", "CAMPO", "2025-02-03", "OPERATIVO", 15},
}

// Demo carga el catálogo, lotes, movimientos y los usuarios alonso (encargado, con contraseña)
// y andre (usuario, sin contraseña). Si el primer producto ya existe no hace nada.
func (s *Seeder) Demo(ctx context.Context, adminUser, adminPassword string) (*Summary, error) {
	existing, err := s.products.GetByID(ctx, demoProducts[0].ID)
	if err != nil {
		return nil, fmt.Errorf("%w: get product: %w", domain.ErrStore, err)
	}
	if existing != nil {
		return &Summary{Skipped: true}, nil
	}

	sum := &Summary{}
	for i := range demoProducts {
		p := demoProducts[i]
		if err := s.products.Create(ctx, &p); err != nil {
			return sum, fmt.Errorf("producto %s: %w", p.ID, err)
		}
		sum.Products++
	}
	for i := range demoLots {
		l := demoLots[i]
		if err := s.lots.Create(ctx, &l); err != nil {
			return sum, fmt.Errorf("lote %s/%s: %w", l.ProductID, l.ID, err)
		}
		sum.Lots++
	}
	for _, m := range demoMovements {
		date, err := kardex.ParseDate(m.date)
		if err != nil {
			return sum, err
		}
		lot, env := m.lot, m.env
		_, err = s.movements.RegisterMovement(ctx, inventory.MovementInput{
			UserID:        adminUser,
			ProductID:     m.product,
			Kind:          m.kind,
			Quantity:      m.qty,
			LotID:         &lot,
			EnvironmentID: &env,
			Date:          &date,
			PostStatus:    m.status,
		})
		if err != nil {
			return sum, fmt.Errorf("movimiento %s %s: %w", m.kind, m.product, err)
		}
		sum.Movements++
	}

	for _, u := range []struct{ alias, password, role string }{
		{adminUser, adminPassword, entity.RoleEncargado},
		{"andre", "", entity.RoleUsuario},
	} {
		if _, err := s.auth.RegisterUser(ctx, u.alias, u.password, u.role); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			return sum, fmt.Errorf("usuario %s: %w", u.alias, err)
		}
		sum.Users++
	}
	return sum, nil
}

// Charsets aceptados por ImportProducts.
const (
	CharsetUTF8   = "utf-8"
	CharsetLatin1 = "latin1"
)

// productRow fila del CSV de productos exportado por el sistema heredado.
type productRow struct {
	ID          string `csv:"id"`
	Description string `csv:"descripcion"`
	Type        string `csv:"tipo"`
	Model       string `csv:"modelo"`
	Operator    string `csv:"operador"`
	Serial      string `csv:"serial"`
	ICCID       string `csv:"iccid"`
	MAC         string `csv:"mac"`
	Technology  string `csv:"tecnologia"`
	Ownership   string `csv:"propiedad"`
	Status      string `csv:"estado"`
}

// ImportProducts lee un CSV con cabecera id;descripcion;tipo;modelo;operador;serial;iccid;mac;
// tecnologia;propiedad;estado (separador ';'). Las columnas se toman por nombre de cabecera y
// pueden faltar al final de la fila. Las filas cuyo id ya existe se omiten. Devuelve la
// cantidad de productos creados.
func (s *Seeder) ImportProducts(ctx context.Context, r io.Reader, charset string) (int, error) {
	switch strings.ToLower(charset) {
	case "", CharsetUTF8:
	case CharsetLatin1, "iso-8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return 0, fmt.Errorf("%w: charset %q", domain.ErrInvalidInput, charset)
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []*productRow
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return 0, nil
		}
		return 0, fmt.Errorf("csv: %w", err)
	}

	created := 0
	for i, row := range rows {
		p, ok := row.product()
		if !ok {
			// +2: la cabecera es la línea 1.
			return created, fmt.Errorf("%w: csv línea %d: id y tipo son requeridos", domain.ErrInvalidInput, i+2)
		}
		if err := s.products.Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("producto %s: %w", p.ID, err)
		}
		created++
	}
	return created, nil
}

func (row *productRow) product() (*entity.Product, bool) {
	p := &entity.Product{
		ID:           strings.TrimSpace(row.ID),
		Description:  strings.TrimSpace(row.Description),
		Type:         kardex.NormalizeCode(row.Type),
		Model:        strings.TrimSpace(row.Model),
		Operator:     kardex.NormalizeCode(row.Operator),
		SerialNumber: strings.TrimSpace(row.Serial),
		ICCID:        strings.TrimSpace(row.ICCID),
		MAC:          strings.TrimSpace(row.MAC),
		Technology:   strings.TrimSpace(row.Technology),
		Ownership:    kardex.NormalizeCode(row.Ownership),
		Status:       kardex.NormalizeCode(row.Status),
	}
	return p, p.ID != "" && p.Type != ""
}
