package stock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Formatos de exportación del reporte de stock.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// StockReport foto del inventario en un instante.
type StockReport struct {
	GeneratedAt  time.Time
	Products     []entity.ProductStock
	TotalUnits   int64
	DamagedCount int64
	SimUnits     int64
	SimProducts  int64
}

// ReportRenderer convierte el reporte en un documento (PDF, XLSX...).
type ReportRenderer interface {
	Render(ctx context.Context, report *StockReport) ([]byte, error)
	ContentType() string
}

// ReportFile documento listo para descargar o guardar.
type ReportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReportUseCase arma el reporte de stock con la capa de derivación y lo entrega renderizado.
type ReportUseCase struct {
	stock     *StockUseCase
	renderers map[string]ReportRenderer
	now       func() time.Time
}

// NewReportUseCase renderers indexados por formato (FormatPDF, FormatXLSX).
func NewReportUseCase(stock *StockUseCase, renderers map[string]ReportRenderer) *ReportUseCase {
	return &ReportUseCase{stock: stock, renderers: renderers, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// Build consulta el stock de todos los productos, los dañados y las SIM.
func (uc *ReportUseCase) Build(ctx context.Context) (*StockReport, error) {
	products, err := uc.stock.StockAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	damaged, err := uc.stock.DamagedCount(ctx)
	if err != nil {
		return nil, err
	}
	simUnits, err := uc.stock.SimNetStock(ctx, nil)
	if err != nil {
		return nil, err
	}
	simProducts, err := uc.stock.SimProductCount(ctx, nil)
	if err != nil {
		return nil, err
	}
	r := &StockReport{
		GeneratedAt:  uc.now(),
		Products:     products,
		DamagedCount: damaged,
		SimUnits:     simUnits,
		SimProducts:  simProducts,
	}
	for _, p := range products {
		r.TotalUnits += p.Stock
	}
	return r, nil
}

// Export genera el reporte en el formato pedido. Formato desconocido = domain.ErrInvalidInput.
func (uc *ReportUseCase) Export(ctx context.Context, format string) (*ReportFile, error) {
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato de reporte %q", domain.ErrInvalidInput, format)
	}
	report, err := uc.Build(ctx)
	if err != nil {
		return nil, err
	}
	data, err := renderer.Render(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return &ReportFile{
		Name:        fmt.Sprintf("stock_%s.%s", report.GeneratedAt.Format("20060102_150405"), format),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

// Snapshot exporta en el formato dado y escribe el archivo en dir. Devuelve la ruta escrita.
func (uc *ReportUseCase) Snapshot(ctx context.Context, dir, format string) (string, error) {
	file, err := uc.Export(ctx, format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot: crear directorio: %w", err)
	}
	path := filepath.Join(dir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return "", fmt.Errorf("snapshot: escribir %s: %w", path, err)
	}
	return path, nil
}
