package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/auth"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/stock"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/infrastructure/imaging"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/kardex-api/internal/interfaces/http"
)

type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

func strp(s string) *string { return &s }

// newTestAPI levanta el router completo sobre repositorios en memoria:
// P1 con L1 (10 - 3 = 7), P2 dañado, S1 SIM sin movimientos, usuario "alonso" encargado.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	products := memory.NewProductRepository(s)
	lots := memory.NewLotRepository(s)
	movs := memory.NewMovementRepository(s)
	users := memory.NewUserRepository(s)

	imgPath := filepath.Join(t.TempDir(), "p1.png")
	writePNG(t, imgPath, 400, 300)

	for _, p := range []entity.Product{
		{ID: "P1", Description: "Router", Type: entity.ProductTypeDevice, ImagePath: imgPath, ImageName: "p1.png"},
		{ID: "P2", Description: "Router dañado", Type: entity.ProductTypeDevice, Status: entity.StatusDamaged},
		{ID: "S1", Description: "SIM Claro", Type: entity.ProductTypeSIM, Operator: "CLARO"},
	} {
		p := p
		require.NoError(t, products.Create(ctx, &p))
	}
	require.NoError(t, lots.Create(ctx, &entity.Lot{ID: "L1", ProductID: "P1"}))

	date, _ := kardex.ParseDate("2025-02-01")
	for _, m := range []entity.Movement{
		{ProductID: "P1", Kind: entity.MovementKindEntrada, Quantity: 10, LotID: strp("L1"), EnvironmentID: strp("BODEGA"), Date: date, PostStatus: "OPERATIVO"},
		{ProductID: "P1", Kind: entity.MovementKindSalida, Quantity: 3, LotID: strp("L1"), EnvironmentID: strp("BODEGA"), Date: date, PostStatus: "OPERATIVO"},
	} {
		m := m
		require.NoError(t, movs.Append(ctx, &m))
	}

	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	_, err := authUC.RegisterUser(ctx, "alonso", "clave-segura", entity.RoleEncargado)
	require.NoError(t, err)
	_, err = authUC.RegisterUser(ctx, "invitado", "", entity.RoleUsuario)
	require.NoError(t, err)

	stockUC := stock.NewStockUseCase(memory.NewLedgerRepository(s), products, kardex.LotZeroExclude, kardex.EnvironmentCurrent)
	reportUC := stock.NewReportUseCase(stockUC, map[string]stock.ReportRenderer{
		stock.FormatXLSX: xlsx.NewStockReportRenderer(),
	}).WithClock(func() time.Time { return time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC) })

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName:      "kardex-api-test",
		StockUC:          stockUC,
		ReportUC:         reportUC,
		ProductUC:        usecase.NewProductUseCase(products, imaging.NewThumbnailer()),
		RegisterMovement: inventory.NewRegisterMovementUseCase(memory.NewTxRunner(s)),
		AuthUC:           authUC,
		JWTSecret:        testJWTSecret,
	})
	return &testAPI{app: app, store: s}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func (a *testAPI) do(t *testing.T, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestRouter_Health(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/health", "", nil)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_RutasProtegidasSinToken(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(t, http.MethodGet, "/api/stock/P1", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_NetStock(t *testing.T) {
	api := newTestAPI(t)

	var out dto.NetStockResponse
	resp := api.do(t, http.MethodGet, "/api/stock/P1", apphttp.RoleUsuario, nil)
	decode(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(7), out.Stock)

	resp = api.do(t, http.MethodGet, "/api/stock/P1?lot_id=L1&environment_id=BODEGA", apphttp.RoleUsuario, nil)
	decode(t, resp, &out)
	assert.Equal(t, int64(7), out.Stock)
	require.NotNil(t, out.LotID)
	assert.Equal(t, "L1", *out.LotID)

	resp = api.do(t, http.MethodGet, "/api/stock/P1?lot_id=%20L1%20&environment_id=bodega", apphttp.RoleUsuario, nil)
	decode(t, resp, &out)
	assert.Equal(t, int64(7), out.Stock)
	require.NotNil(t, out.LotID)
	assert.Equal(t, "L1", *out.LotID)

	// Producto sin movimientos: 0, no 404.
	resp = api.do(t, http.MethodGet, "/api/stock/NOEXISTE", apphttp.RoleUsuario, nil)
	decode(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), out.Stock)
}

func TestRouter_StockByLotYTodos(t *testing.T) {
	api := newTestAPI(t)

	var lots []dto.LotStockDTO
	resp := api.do(t, http.MethodGet, "/api/stock/P1/lots", apphttp.RoleUsuario, nil)
	decode(t, resp, &lots)
	assert.Equal(t, []dto.LotStockDTO{{LotID: "L1", Stock: 7}}, lots)

	var all []dto.ProductStockDTO
	resp = api.do(t, http.MethodGet, "/api/stock", apphttp.RoleUsuario, nil)
	decode(t, resp, &all)
	require.Len(t, all, 3)
	assert.Equal(t, "P1", all[0].ProductID)
	assert.Equal(t, int64(7), all[0].Stock)
	assert.Equal(t, int64(0), all[2].Stock)
}

func TestRouter_EnvironmentProducts(t *testing.T) {
	api := newTestAPI(t)

	var out dto.EnvironmentProductsResponse
	resp := api.do(t, http.MethodGet, "/api/environments/BODEGA/products", apphttp.RoleUsuario, nil)
	decode(t, resp, &out)
	assert.Equal(t, "current", out.Policy)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "P1", out.Products[0].ProductID)

	resp = api.do(t, http.MethodGet, "/api/environments/BODEGA/products?policy=otra", apphttp.RoleUsuario, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_DamagedYSims(t *testing.T) {
	api := newTestAPI(t)

	var count dto.CountResponse
	resp := api.do(t, http.MethodGet, "/api/reports/damaged", apphttp.RoleUsuario, nil)
	decode(t, resp, &count)
	assert.Equal(t, int64(1), count.Count)

	resp = api.do(t, http.MethodGet, "/api/reports/damaged?definition=movements", apphttp.RoleUsuario, nil)
	decode(t, resp, &count)
	assert.Equal(t, int64(0), count.Count)

	resp = api.do(t, http.MethodGet, "/api/sims/count?operator=claro", apphttp.RoleUsuario, nil)
	decode(t, resp, &count)
	assert.Equal(t, int64(1), count.Count)

	resp = api.do(t, http.MethodGet, "/api/sims/stock", apphttp.RoleUsuario, nil)
	decode(t, resp, &count)
	assert.Equal(t, int64(0), count.Count)
}

func TestRouter_MovementsOnDate(t *testing.T) {
	api := newTestAPI(t)

	var out dto.MovementsOnDateResponse
	resp := api.do(t, http.MethodGet, "/api/movements?date=2025-02-01&kind=entrada", apphttp.RoleUsuario, nil)
	decode(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ENTRADA", out.Kind)
	assert.Equal(t, int64(1), out.Count)
	require.Len(t, out.Movements, 1)
	assert.Equal(t, int64(10), out.Movements[0].Quantity)

	for _, q := range []string{"date=01/02/2025&kind=ENTRADA", "date=2025-02-01&kind=AJUSTE", "kind=ENTRADA"} {
		resp = api.do(t, http.MethodGet, "/api/movements?"+q, apphttp.RoleUsuario, nil)
		var e dto.ErrorResponse
		decode(t, resp, &e)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		assert.Equal(t, "VALIDATION", e.Code, q)
	}
}

func TestRouter_ProductDetailsEImagen(t *testing.T) {
	api := newTestAPI(t)

	var out dto.ProductDetailsResponse
	resp := api.do(t, http.MethodGet, "/api/products/P1", apphttp.RoleUsuario, nil)
	decode(t, resp, &out)
	assert.Equal(t, int64(7), out.Stock)
	assert.True(t, out.Product.HasImage)

	resp = api.do(t, http.MethodGet, "/api/products/NOEXISTE", apphttp.RoleUsuario, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(t, http.MethodHead, "/api/products/P2", apphttp.RoleUsuario, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = api.do(t, http.MethodHead, "/api/products/NOEXISTE", apphttp.RoleUsuario, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/products/P1/image?width=100", apphttp.RoleUsuario, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	img, _, err := image.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())

	resp = api.do(t, http.MethodGet, "/api/products/P2/image", apphttp.RoleUsuario, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ReporteXLSX(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/reports/stock.xlsx", apphttp.RoleUsuario, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "stock_20250201_080000.xlsx")

	// Sin renderer PDF configurado: formato inválido.
	resp = api.do(t, http.MethodGet, "/api/reports/stock.pdf", apphttp.RoleUsuario, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_RegistrarMovimiento(t *testing.T) {
	api := newTestAPI(t)
	salida := dto.RegisterMovementRequest{ProductID: "P1", Kind: "SALIDA", Quantity: 2, LotID: strp("L1"), EnvironmentID: strp("BODEGA")}

	resp := api.do(t, http.MethodPost, "/api/inventory/movements", apphttp.RoleUsuario, salida)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo el encargado registra movimientos")

	var mov dto.MovementResponse
	resp = api.do(t, http.MethodPost, "/api/inventory/movements", apphttp.RoleEncargado, salida)
	decode(t, resp, &mov)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(3), mov.Seq)
	assert.Equal(t, testUserID, mov.CreatedBy)

	salida.Quantity = 50
	var e dto.ErrorResponse
	resp = api.do(t, http.MethodPost, "/api/inventory/movements", apphttp.RoleEncargado, salida)
	decode(t, resp, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)

	resp = api.do(t, http.MethodPost, "/api/inventory/movements", apphttp.RoleEncargado,
		dto.RegisterMovementRequest{ProductID: "NOEXISTE", Kind: "ENTRADA", Quantity: 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/inventory/movements/3/compensate", apphttp.RoleEncargado, nil)
	decode(t, resp, &mov)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "ENTRADA", mov.Kind)
	require.NotNil(t, mov.CompensatesSeq)
	assert.Equal(t, int64(3), *mov.CompensatesSeq)
	compSeq := mov.Seq

	// Reintento del mismo POST: no agrega otra entrada.
	resp = api.do(t, http.MethodPost, "/api/inventory/movements/3/compensate", apphttp.RoleEncargado, nil)
	decode(t, resp, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", e.Code)

	resp = api.do(t, http.MethodPost, fmt.Sprintf("/api/inventory/movements/%d/compensate", compSeq), apphttp.RoleEncargado, nil)
	decode(t, resp, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var ns dto.NetStockResponse
	resp = api.do(t, http.MethodGet, "/api/stock/P1", apphttp.RoleUsuario, nil)
	decode(t, resp, &ns)
	assert.Equal(t, int64(7), ns.Stock)

	resp = api.do(t, http.MethodPost, "/api/inventory/movements/999/compensate", apphttp.RoleEncargado, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Login(t *testing.T) {
	api := newTestAPI(t)

	var out dto.LoginResponse
	resp := api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Alias: "alonso", Password: "clave-segura"})
	decode(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "encargado", out.User.Role)

	resp = api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Alias: "invitado"})
	decode(t, resp, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Alias: "alonso", Password: "otra"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_AlmacenCaidoResponde503(t *testing.T) {
	api := newTestAPI(t)
	api.store.FailWith(errors.New("connection refused"))

	var e dto.ErrorResponse
	resp := api.do(t, http.MethodGet, "/api/stock", apphttp.RoleUsuario, nil)
	decode(t, resp, &e)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "STORE_UNAVAILABLE", e.Code)
	assert.Equal(t, "5", resp.Header.Get("Retry-After"))
}
