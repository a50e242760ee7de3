package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/stock"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// StockHandler expone la capa de derivación de stock (protegido, solo lectura).
type StockHandler struct {
	uc *stock.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// NetStock godoc
// @Summary      Stock neto de un producto
// @Description  Suma de ENTRADA menos SALIDA. Lote y entorno son filtros opcionales. Sin movimientos = 0.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId       path   string  true   "Código del producto"
// @Param        lot_id          query  string  false  "Lote"
// @Param        environment_id  query  string  false  "Entorno"
// @Success      200  {object}  dto.NetStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId} [get]
func (h *StockHandler) NetStock(c *fiber.Ctx) error {
	f := kardex.StockFilter{
		ProductID:     c.Params("productId"),
		LotID:         optionalQuery(c, "lot_id"),
		EnvironmentID: optionalQuery(c, "environment_id"),
	}
	n, err := h.uc.NetStock(c.UserContext(), f)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(dto.NetStockResponse{
		ProductID:     strings.TrimSpace(f.ProductID),
		LotID:         kardex.OptionalID(f.LotID),
		EnvironmentID: kardex.OptionalCode(f.EnvironmentID),
		Stock:         n,
	})
}

// StockByLot godoc
// @Summary      Stock de un producto desglosado por lote
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "Código del producto"
// @Success      200  {array}   dto.LotStockDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/lots [get]
func (h *StockHandler) StockByLot(c *fiber.Ctx) error {
	lots, err := h.uc.StockByLot(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(dto.ToLotStocks(lots))
}

// StockAllProducts godoc
// @Summary      Stock de todos los productos
// @Description  Incluye productos sin movimientos (stock 0), ordenados por código.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ProductStockDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) StockAllProducts(c *fiber.Ctx) error {
	list, err := h.uc.StockAllProducts(c.UserContext())
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(dto.ToProductStocks(list))
}

// EnvironmentProducts godoc
// @Summary      Productos de un entorno
// @Description  policy=current: el último movimiento del producto es del entorno. policy=ever: tuvo algún movimiento en él.
// @Tags         environments
// @Security     Bearer
// @Produce      json
// @Param        envId   path   string  true   "Entorno"
// @Param        policy  query  string  false  "current | ever"
// @Success      200  {object}  dto.EnvironmentProductsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/environments/{envId}/products [get]
func (h *StockHandler) EnvironmentProducts(c *fiber.Ctx) error {
	var policy kardex.EnvironmentPolicy
	if q := c.Query("policy"); q != "" {
		p, err := kardex.ParseEnvironmentPolicy(q)
		if err != nil {
			return badRequest(c, "VALIDATION", "policy debe ser current o ever")
		}
		policy = p
	}
	env := c.Params("envId")
	list, err := h.uc.ProductsInEnvironment(c.UserContext(), env, policy)
	if err != nil {
		return writeError(c, err, "")
	}
	if policy == "" {
		policy = h.uc.EnvironmentPolicy()
	}
	return c.JSON(dto.EnvironmentProductsResponse{
		EnvironmentID: kardex.NormalizeCode(env),
		Policy:        string(policy),
		Products:      dto.ToEnvironmentProducts(list),
	})
}

// Damaged godoc
// @Summary      Cantidad de dañados
// @Description  definition=products (por defecto): dispositivos distintos en estado DAÑADO. definition=movements: filas del kardex con estado posterior DAÑADO.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        definition  query  string  false  "products | movements"
// @Success      200  {object}  dto.CountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/damaged [get]
func (h *StockHandler) Damaged(c *fiber.Ctx) error {
	def, err := kardex.ParseDamagedDefinition(c.Query("definition"))
	if err != nil {
		return badRequest(c, "VALIDATION", "definition debe ser products o movements")
	}
	n, err := h.uc.Damaged(c.UserContext(), def)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(dto.CountResponse{Count: n})
}

// MovementsOnDate godoc
// @Summary      Movimientos de un día
// @Description  Conteo y detalle (seq, producto, cantidad, lote, entorno, estado) de las entradas o salidas de la fecha.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  true  "YYYY-MM-DD"
// @Param        kind  query  string  true  "ENTRADA | SALIDA"
// @Success      200  {object}  dto.MovementsOnDateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *StockHandler) MovementsOnDate(c *fiber.Ctx) error {
	date, kind := c.Query("date"), c.Query("kind")
	if date == "" || kind == "" {
		return badRequest(c, "VALIDATION", "date y kind son requeridos")
	}
	count, err := h.uc.CountMovementsOnDate(c.UserContext(), date, kind)
	if err != nil {
		return writeError(c, err, "")
	}
	list, err := h.uc.ListMovementsOnDate(c.UserContext(), date, kind)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(dto.MovementsOnDateResponse{
		Date:      date,
		Kind:      kardex.NormalizeCode(kind),
		Count:     count,
		Movements: dto.ToMovementResponses(list),
	})
}

// SimCount godoc
// @Summary      Cantidad de productos SIM
// @Description  Filas del catálogo con tipo SIM, opcionalmente de un operador.
// @Tags         sims
// @Security     Bearer
// @Produce      json
// @Param        operator  query  string  false  "Operador"
// @Success      200  {object}  dto.CountResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sims/count [get]
func (h *StockHandler) SimCount(c *fiber.Ctx) error {
	n, err := h.uc.SimProductCount(c.UserContext(), optionalQuery(c, "operator"))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(dto.CountResponse{Count: n})
}

// SimStock godoc
// @Summary      Stock neto de las SIM
// @Tags         sims
// @Security     Bearer
// @Produce      json
// @Param        operator  query  string  false  "Operador"
// @Success      200  {object}  dto.CountResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sims/stock [get]
func (h *StockHandler) SimStock(c *fiber.Ctx) error {
	n, err := h.uc.SimNetStock(c.UserContext(), optionalQuery(c, "operator"))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(dto.CountResponse{Count: n})
}
