// seed carga datos de demostración en el almacén configurado (DB_DRIVER) y, opcionalmente,
// importa productos desde un CSV exportado del sistema heredado.
//
// Uso: go run ./cmd/seed [-csv productos.csv] [-charset latin1] [-admin alonso]
// La contraseña del encargado se lee de SEED_ADMIN_PASSWORD (vacía = usuario sin contraseña).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/seed"
	"github.com/jhoicas/kardex-api/internal/infrastructure/storage"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	csvPath := flag.String("csv", "", "CSV de productos separado por ';'")
	charset := flag.String("charset", seed.CharsetLatin1, "codificación del CSV: latin1 | utf-8")
	admin := flag.String("admin", "alonso", "alias del usuario encargado")
	skipDemo := flag.Bool("skip-demo", false, "no cargar los datos de demostración")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repos, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacén del kardex")
	}
	defer repos.Close()

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	s := seed.New(repos.Products, repos.Lots, inventory.NewRegisterMovementUseCase(repos.Tx), authUC)

	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Str("csv", *csvPath).Msg("abrir CSV")
		}
		n, err := s.ImportProducts(ctx, f, *charset)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Int("created", n).Msg("importar productos")
		}
		log.Info().Int("created", n).Str("csv", *csvPath).Msg("productos importados")
	}

	if *skipDemo {
		return
	}
	sum, err := s.Demo(ctx, *admin, os.Getenv("SEED_ADMIN_PASSWORD"))
	if err != nil {
		log.Fatal().Err(err).Msg("datos de demostración")
	}
	if sum.Skipped {
		log.Info().Msg("datos de demostración ya cargados")
		return
	}
	log.Info().
		Int("products", sum.Products).
		Int("lots", sum.Lots).
		Int("movements", sum.Movements).
		Int("users", sum.Users).
		Msg("datos de demostración cargados")
}
