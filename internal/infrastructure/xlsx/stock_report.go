// Package xlsx exporta el reporte de stock a Excel con excelize.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/kardex-api/internal/application/stock"
)

const (
	sheetStock   = "Stock"
	sheetSummary = "Resumen"
)

var _ stock.ReportRenderer = (*StockReportRenderer)(nil)

// StockReportRenderer hoja "Stock" (una fila por producto) y hoja "Resumen".
type StockReportRenderer struct{}

func NewStockReportRenderer() *StockReportRenderer { return &StockReportRenderer{} }

func (r *StockReportRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *StockReportRenderer) Render(_ context.Context, report *stock.StockReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetStock); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := f.SetSheetRow(sheetStock, "A1", &[]any{"Código", "Descripción", "Stock"}); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	if err := f.SetCellStyle(sheetStock, "A1", "C1", header); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}
	for i, p := range report.Products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetStock, cell, &[]any{p.ProductID, p.Description, p.Stock}); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(sheetStock, "A", "A", 18)
	_ = f.SetColWidth(sheetStock, "B", "B", 40)
	if err := f.SetPanes(sheetStock, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("xlsx: panes: %w", err)
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	summary := [][]any{
		{"Generado", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Productos", len(report.Products)},
		{"Unidades totales", report.TotalUnits},
		{"Dispositivos dañados", report.DamagedCount},
		{"Productos SIM", report.SimProducts},
		{"Unidades SIM", report.SimUnits},
	}
	for i, row := range summary {
		if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("xlsx: resumen: %w", err)
		}
	}
	_ = f.SetColWidth(sheetSummary, "A", "A", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
