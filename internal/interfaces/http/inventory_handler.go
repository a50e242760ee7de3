package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
)

// InventoryHandler registro de movimientos del kardex (protegido, rol encargado).
type InventoryHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  ENTRADA o SALIDA. Una SALIDA no puede superar el stock del producto en el lote y entorno indicados.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, kind, quantity, lot_id, environment_id, date"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.RegisterMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err, "producto o lote no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Compensate godoc
// @Summary      Compensar un movimiento
// @Description  Registra el movimiento opuesto. Los movimientos nunca se modifican ni se borran.
// @Description  Cada movimiento se compensa una sola vez (409 DUPLICATE); una compensación no se compensa (400).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        seq  path  int  true  "Secuencia del movimiento"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{seq}/compensate [post]
func (h *InventoryHandler) Compensate(c *fiber.Ctx) error {
	seq, err := strconv.ParseInt(c.Params("seq"), 10, 64)
	if err != nil || seq <= 0 {
		return badRequest(c, "VALIDATION", "seq debe ser un entero positivo")
	}
	mov, err := h.uc.Compensate(c.UserContext(), seq, GetUserID(c))
	if err != nil {
		return writeError(c, err, "movimiento no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}
