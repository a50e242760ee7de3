package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/stock"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName      string
	StockUC          *stock.StockUseCase
	ReportUC         *stock.ReportUseCase
	ProductUC        *usecase.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
	Logger           *logger.Logger // nil = sin access log
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Logger != nil {
		app.Use(AccessLog(deps.Logger))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stock derivado del kardex
	stockHandler := NewStockHandler(deps.StockUC)
	protected.Get("/stock", stockHandler.StockAllProducts)
	protected.Get("/stock/:productId", stockHandler.NetStock)
	protected.Get("/stock/:productId/lots", stockHandler.StockByLot)
	protected.Get("/environments/:envId/products", stockHandler.EnvironmentProducts)
	protected.Get("/movements", stockHandler.MovementsOnDate)
	protected.Get("/sims/count", stockHandler.SimCount)
	protected.Get("/sims/stock", stockHandler.SimStock)

	// Reportes
	reports := protected.Group("/reports")
	reports.Get("/damaged", stockHandler.Damaged)
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/stock.pdf", reportHandler.StockPDF)
	reports.Get("/stock.xlsx", reportHandler.StockXLSX)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC)
	products.Get("/", productHandler.List)
	// HEAD antes que GET: fiber registra HEAD implícito en cada Get.
	products.Head("/:id", productHandler.Exists)
	products.Get("/:id", productHandler.Details)
	products.Get("/:id/image", productHandler.Image)

	// Inventory movements (solo encargado)
	invGroup := protected.Group("/inventory", RequireRole(RoleEncargado))
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Post("/movements/:seq/compensate", inventoryHandler.Compensate)
}
