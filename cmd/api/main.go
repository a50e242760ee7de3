package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/seed"
	"github.com/jhoicas/kardex-api/internal/application/stock"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	infraimaging "github.com/jhoicas/kardex-api/internal/infrastructure/imaging"
	infrapdf "github.com/jhoicas/kardex-api/internal/infrastructure/pdf"
	"github.com/jhoicas/kardex-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/kardex-api/internal/infrastructure/storage"
	infraxlsx "github.com/jhoicas/kardex-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacén del kardex")
	}
	defer repos.Close()

	// Las políticas ya fueron validadas por config.Load.
	lotPolicy, _ := kardex.ParseLotZeroPolicy(cfg.Kardex.LotZeroPolicy)
	envPolicy, _ := kardex.ParseEnvironmentPolicy(cfg.Kardex.EnvironmentPolicy)

	stockUC := stock.NewStockUseCase(repos.Ledger, repos.Products, lotPolicy, envPolicy)
	reportUC := stock.NewReportUseCase(stockUC, map[string]stock.ReportRenderer{
		stock.FormatPDF:  infrapdf.NewStockReportRenderer(cfg.App.Name),
		stock.FormatXLSX: infraxlsx.NewStockReportRenderer(),
	})
	registerMovementUC := inventory.NewRegisterMovementUseCase(repos.Tx)
	productUC := usecase.NewProductUseCase(repos.Products, infraimaging.NewThumbnailer())
	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Sin base de datos: se cargan los datos de demostración para poder usar la API.
	if repos.Driver == config.DriverMemory {
		sum, err := seed.New(repos.Products, repos.Lots, registerMovementUC, authUC).
			Demo(ctx, "alonso", os.Getenv("SEED_ADMIN_PASSWORD"))
		if err != nil {
			log.Fatal().Err(err).Msg("datos de demostración")
		}
		log.Info().Int("products", sum.Products).Int("movements", sum.Movements).Msg("almacén en memoria con datos de demostración")
	}

	var jobs *scheduler.Scheduler
	if cfg.Reports.Cron != "" {
		jobs, err = scheduler.New(cfg.Reports.Location, log.Component("scheduler"))
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler")
		}
		err = jobs.AddSnapshot(cfg.Reports.Cron, "stock-xlsx", func(ctx context.Context) (string, error) {
			return reportUC.Snapshot(ctx, cfg.Reports.OutputDir, stock.FormatXLSX)
		})
		if err != nil {
			log.Fatal().Err(err).Msg("REPORT_CRON inválido")
		}
		jobs.Start()
		log.Info().Str("cron", cfg.Reports.Cron).Str("dir", cfg.Reports.OutputDir).Msg("snapshot de stock programado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName:      cfg.App.Name,
		StockUC:          stockUC,
		ReportUC:         reportUC,
		ProductUC:        productUC,
		RegisterMovement: registerMovementUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
		Logger:           log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if jobs != nil {
		jobs.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
