package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/stock"
)

// ReportHandler descarga del reporte de stock en PDF o XLSX.
type ReportHandler struct {
	uc *stock.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *stock.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockPDF godoc
// @Summary      Reporte de stock en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/stock.pdf [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	return h.send(c, stock.FormatPDF)
}

// StockXLSX godoc
// @Summary      Reporte de stock en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/stock.xlsx [get]
func (h *ReportHandler) StockXLSX(c *fiber.Ctx) error {
	return h.send(c, stock.FormatXLSX)
}

func (h *ReportHandler) send(c *fiber.Ctx, format string) error {
	file, err := h.uc.Export(c.UserContext(), format)
	if err != nil {
		return writeError(c, err, "")
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Attachment(file.Name)
	return c.Send(file.Data)
}
