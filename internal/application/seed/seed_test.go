package seed_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/seed"
	"github.com/jhoicas/kardex-api/internal/application/stock"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/infrastructure/storage"
)

func newSeeder(t *testing.T) (*seed.Seeder, *storage.Repositories, *auth.AuthUseCase) {
	t.Helper()
	repos := storage.InMemory()
	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{Secret: "s", ExpMinutes: 5, Issuer: "seed-test"})
	s := seed.New(repos.Products, repos.Lots, inventory.NewRegisterMovementUseCase(repos.Tx), authUC)
	return s, repos, authUC
}

func TestDemo_CargaYEsIdempotente(t *testing.T) {
	ctx := context.Background()
	s, repos, authUC := newSeeder(t)

	sum, err := s.Demo(ctx, "alonso", "clave")
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Products)
	assert.Equal(t, 9, sum.Movements)
	assert.Equal(t, 2, sum.Users)

	uc := stock.NewStockUseCase(repos.Ledger, repos.Products, kardex.LotZeroExclude, kardex.EnvironmentCurrent)
	n, err := uc.NetStock(ctx, kardex.StockFilter{ProductID: "RTR-001"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	damaged, err := uc.DamagedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), damaged)

	sims, err := uc.SimNetStock(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(140), sims)

	_, err = authUC.Login(ctx, dto.LoginRequest{Alias: "andre"})
	require.NoError(t, err, "andre no tiene contraseña")

	again, err := s.Demo(ctx, "alonso", "clave")
	require.NoError(t, err)
	assert.True(t, again.Skipped)
}

func TestImportProducts_Latin1(t *testing.T) {
	ctx := context.Background()
	s, repos, _ := newSeeder(t)

	csv := "id;descripcion;tipo;modelo;operador;serial;iccid;mac;tecnologia;propiedad;estado\n" +
		"CAM-01;Cámara térmica;dispositivo;X1;;SN1;;;;propio;dañado\n" +
		"SIM-9;SIM;sim;;movistar;;8957;;;;\n" +
		"CAM-01;duplicado;dispositivo\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(csv)
	require.NoError(t, err)

	n, err := s.ImportProducts(ctx, strings.NewReader(encoded), seed.CharsetLatin1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p, err := repos.Products.GetByID(ctx, "CAM-01")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Cámara térmica", p.Description)
	assert.Equal(t, "DAÑADO", p.Status)
	assert.Equal(t, "DISPOSITIVO", p.Type)
}

func TestImportProducts_ColumnasPorNombre(t *testing.T) {
	ctx := context.Background()
	s, repos, _ := newSeeder(t)

	// Otro orden de columnas y sin las opcionales.
	csv := "tipo;id;operador;descripcion\n" +
		"SIM;SIM-77; tigo ;SIM prepago\n"
	n, err := s.ImportProducts(ctx, strings.NewReader(csv), seed.CharsetUTF8)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p, err := repos.Products.GetByID(ctx, "SIM-77")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "SIM prepago", p.Description)
	assert.Equal(t, "TIGO", p.Operator)
	assert.Empty(t, p.Model)
}

func TestImportProducts_Errores(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSeeder(t)

	_, err := s.ImportProducts(ctx, strings.NewReader("id\n"), "ebcdic")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.ImportProducts(ctx, strings.NewReader("id;descripcion;tipo\n;sin id;SIM\n"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorContains(t, err, "línea 2")

	n, err := s.ImportProducts(ctx, strings.NewReader(""), "")
	require.NoError(t, err)
	assert.Zero(t, n)
}
