// Package pdf genera el reporte de stock en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación       │
//	│  RESUMEN: unidades, dañados, SIM            │
//	│  TABLA: Código | Descripción | Stock        │
//	└─────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/kardex-api/internal/application/stock"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 238, Green: 242, Blue: 247}
)

var _ stock.ReportRenderer = (*StockReportRenderer)(nil)

// StockReportRenderer implementa stock.ReportRenderer usando Maroto v2.
type StockReportRenderer struct {
	title string
}

// NewStockReportRenderer construye el generador. title aparece en el encabezado y en los metadatos.
func NewStockReportRenderer(title string) *StockReportRenderer {
	if title == "" {
		title = "Reporte de stock"
	}
	return &StockReportRenderer{title: title}
}

func (g *StockReportRenderer) ContentType() string { return "application/pdf" }

// Render genera el PDF y devuelve sus bytes.
func (g *StockReportRenderer) Render(_ context.Context, report *stock.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(report.Products)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *StockReportRenderer) headerRow(report *stock.StockReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(text.New(g.title, props.Text{
			Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Top: 5, Color: colorGray,
		})),
	)
}

func summaryRow(report *stock.StockReport) core.Row {
	item := func(label string, value int64) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(thousands(value), props.Text{Style: fontstyle.Bold, Size: 11, Top: 5, Align: align.Center}),
		)
	}
	return row.New(14).Add(
		item("Unidades en stock", report.TotalUnits),
		item("Dispositivos dañados", report.DamagedCount),
		item("Productos SIM", report.SimProducts),
		item("Unidades SIM", report.SimUnits),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 3, align.Left),
		h("Descripción", 7, align.Left),
		h("Stock", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRows(products []entity.ProductStock) []core.Row {
	rows := make([]core.Row, 0, len(products))
	for i, p := range products {
		r := row.New(6).Add(
			col.New(3).Add(text.New(p.ProductID, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(7).Add(text.New(p.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(thousands(p.Stock), props.Text{Size: 8, Top: 1, Right: 1, Align: align.Right})),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		rows = append(rows, r)
	}
	return rows
}

// thousands inserta puntos de miles: 1000000 -> "1.000.000", -2500 -> "-2.500".
func thousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
