package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/stock"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP del catálogo de productos (protegido).
type ProductHandler struct {
	uc    *usecase.ProductUseCase
	stock *stock.StockUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, stockUC *stock.StockUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, stock: stockUC}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ProductResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// Details godoc
// @Summary      Detalle de producto con stock por lote
// @Description  404 distingue un producto inexistente de uno sin stock.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Código del producto"
// @Success      200  {object}  dto.ProductDetailsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Details(c *fiber.Ctx) error {
	d, err := h.stock.ProductDetails(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "producto no encontrado")
	}
	return c.JSON(dto.ProductDetailsResponse{
		Product: dto.ToProductResponse(&d.Product),
		Stock:   d.Total,
		Lots:    dto.ToLotStocks(d.Lots),
	})
}

// Exists godoc
// @Summary      Verificar si el producto existe
// @Description  200 si el código está en el catálogo, 404 si no. Sin cuerpo.
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "Código del producto"
// @Success      200
// @Failure      404
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [head]
func (h *ProductHandler) Exists(c *fiber.Ctx) error {
	ok, err := h.stock.ProductExists(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "")
	}
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendStatus(fiber.StatusOK)
}

// Image godoc
// @Summary      Imagen del producto (miniatura JPEG)
// @Tags         products
// @Security     Bearer
// @Produce      jpeg
// @Param        id     path   string  true   "Código del producto"
// @Param        width  query  int     false  "Ancho en píxeles (máx. 1024)"  default(200)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/image [get]
func (h *ProductHandler) Image(c *fiber.Ctx) error {
	width := c.QueryInt("width", usecase.DefaultThumbnailWidth)
	data, err := h.uc.Thumbnail(c.UserContext(), c.Params("id"), width)
	if err != nil {
		return writeError(c, err, "el producto no tiene imagen")
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(data)
}
