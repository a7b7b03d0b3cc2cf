package http_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ti/internal/application/analytics"
	"github.com/jhoicas/inventario-ti/internal/application/auth"
	"github.com/jhoicas/inventario-ti/internal/application/dto"
	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/internal/application/usecase"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
	"github.com/jhoicas/inventario-ti/internal/domain/repository/memrepo"
	"github.com/jhoicas/inventario-ti/internal/infrastructure/filestore"
	apphttp "github.com/jhoicas/inventario-ti/internal/interfaces/http"
	"github.com/jhoicas/inventario-ti/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de prueba: memrepo + sesiones en memoria + comprobantes en afero
// ──────────────────────────────────────────────────────────────────────────────

type stubGenerator struct{}

func (stubGenerator) GenerateReceipt(_ context.Context, m *entity.Movement, item *entity.Item) ([]byte, error) {
	return []byte("%PDF-1.4 " + m.Type + " " + item.Name), nil
}

type testEnv struct {
	app   *fiber.App
	store *memrepo.Store
	files afero.Fs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memrepo.New()
	store.Seed(
		entity.Item{ID: "a", Name: "Monitor Dell 24", SKU: "MON-24", Barcode: "4001", Quantity: 10, MinQuantity: 2},
		entity.Item{ID: "c", Name: "Teclado USB", SKU: "TEC-01", Barcode: "4003", Quantity: 1, MinQuantity: 5},
	)
	fs := afero.NewMemMapFs()

	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}).
		WithBcryptCost(bcrypt.MinCost)
	_, err := authUC.Register(context.Background(), dto.RegisterRequest{
		Username: testUsername, Password: "secreto1", ConfirmPassword: "secreto1", FirstName: "Luis", LastName: "Pérez",
	})
	require.NoError(t, err)

	receiptUC := inventory.NewReceiptUseCase(store.Movements(), store.Items(), stubGenerator{}, filestore.NewReceiptStore(fs, "receipts"), nil, nil, nil).
		WithArchiver(filestore.ZipArchiver{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		ItemUC:      usecase.NewItemUseCase(store.Items(), store.Movements(), store, nil),
		MovementUC:  usecase.NewMovementUseCase(store.Movements(), store.Items()),
		CheckoutUC:  inventory.NewCheckoutUseCase(store, nil, nil),
		ReceiptUC:   receiptUC,
		DashboardUC: analytics.NewDashboardUseCase(store.Items()),
		ItemLookup:  store.Items(),
		Sessions:    apphttp.NewSessionStore(nil, config.SessionConfig{CookieName: "inventario_session", Expiration: time.Hour}),
		JWTSecret:   testJWTSecret,
	})
	return &testEnv{app: app, store: store, files: fs}
}

// client conserva las cookies entre peticiones, como un navegador.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func (e *testEnv) login(t *testing.T) *client {
	t.Helper()
	cl := &client{t: t, app: e.app, cookies: map[string]string{}}
	resp := cl.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: testUsername, Password: "secreto1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, cl.cookies[apphttp.AuthCookieName], "el login deja el token en cookie")
	return cl
}

func (cl *client) do(method, path string, body interface{}) *http.Response {
	cl.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(cl.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range cl.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Value == "" || ck.MaxAge < 0 {
			delete(cl.cookies, ck.Name)
			continue
		}
		cl.cookies[ck.Name] = ck.Value
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrito
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_SinToken_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/cart", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCart_AgregarFusionaYValidaStock(t *testing.T) {
	env := newTestEnv(t)
	cl := env.login(t)

	add := decode[dto.AddToCartResponse](t, cl.do(http.MethodPost, "/api/cart", dto.AddToCartRequest{Code: "4001", Quantity: 3}))
	assert.True(t, add.Success)
	assert.Equal(t, 1, add.Count)

	// Mismo artículo por SKU: se fusiona en la misma línea
	add = decode[dto.AddToCartResponse](t, cl.do(http.MethodPost, "/api/cart", dto.AddToCartRequest{Code: "MON-24", Quantity: 2}))
	assert.True(t, add.Success)
	assert.Equal(t, 1, add.Count)

	resp := cl.do(http.MethodPost, "/api/cart", dto.AddToCartRequest{Code: "4003", Quantity: 2})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	add = decode[dto.AddToCartResponse](t, resp)
	assert.False(t, add.Success)
	assert.Equal(t, 1, add.Count)

	resp = cl.do(http.MethodPost, "/api/cart", dto.AddToCartRequest{Code: "no-existe"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cart := decode[dto.CartResponse](t, cl.do(http.MethodGet, "/api/cart", nil))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "a", cart.Lines[0].ItemID)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
	assert.Equal(t, 5, cart.TotalUnits)
}

func TestCart_QuitarYVaciar(t *testing.T) {
	env := newTestEnv(t)
	cl := env.login(t)
	cl.do(http.MethodPost, "/api/cart", dto.AddToCartRequest{Code: "4001"})
	cl.do(http.MethodPost, "/api/cart", dto.AddToCartRequest{Code: "4003"})

	cart := decode[dto.CartResponse](t, cl.do(http.MethodDelete, "/api/cart/a", nil))
	assert.Equal(t, 1, cart.Count)

	cart = decode[dto.CartResponse](t, cl.do(http.MethodDelete, "/api/cart", nil))
	assert.Equal(t, 0, cart.Count)
	assert.Empty(t, cart.Lines)
}

func TestCart_SesionesIndependientes(t *testing.T) {
	env := newTestEnv(t)
	uno := env.login(t)
	dos := env.login(t)
	uno.do(http.MethodPost, "/api/cart", dto.AddToCartRequest{Code: "4001"})

	cart := decode[dto.CartResponse](t, dos.do(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, 0, cart.Count)
}

func TestLogout_DescartaCarrito(t *testing.T) {
	env := newTestEnv(t)
	cl := env.login(t)
	cl.do(http.MethodPost, "/api/cart", dto.AddToCartRequest{Code: "4001"})
	session := cl.cookies["inventario_session"]
	require.NotEmpty(t, session)

	resp := cl.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Nuevo login con la cookie de sesión anterior: el carrito ya no existe
	cl2 := env.login(t)
	cl2.cookies["inventario_session"] = session
	cart := decode[dto.CartResponse](t, cl2.do(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, 0, cart.Count)
}

func TestLogin_ReiniciaSesionDelNavegador(t *testing.T) {
	env := newTestEnv(t)
	cl := env.login(t)
	cl.do(http.MethodPost, "/api/cart", dto.AddToCartRequest{Code: "4001", Quantity: 2})
	cart := decode[dto.CartResponse](t, cl.do(http.MethodPost, "/api/checkout/issue-type", dto.IssueTypeRequest{IssueType: "Reemplazo"}))
	require.Equal(t, "Reemplazo", cart.IssueType)

	// Otro login desde el mismo navegador, con las mismas cookies
	resp := cl.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: testUsername, Password: "secreto1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cart = decode[dto.CartResponse](t, cl.do(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, 0, cart.Count)
	assert.Empty(t, cart.Lines)
	assert.Empty(t, cart.IssueType)

	resp = cl.do(http.MethodPost, "/api/checkout/issue", dto.IssueRequest{FirstName: "Ana", LastName: "Gómez"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 10, env.store.Quantity("a"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_CarritoVacio_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	cl := env.login(t)

	resp := cl.do(http.MethodPost, "/api/checkout/return", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_CART", decode[dto.ErrorResponse](t, resp).Code)
	assert.Empty(t, env.store.AllMovements())
}

func TestCheckout_DevolucionSumaStockYGeneraComprobante(t *testing.T) {
	env := newTestEnv(t)
	cl := env.login(t)
	cl.do(http.MethodPost, "/api/cart", dto.AddToCartRequest{Code: "4003", Quantity: 3, Mode: entity.MovementTypeReturn})

	resp := cl.do(http.MethodPost, "/api/checkout/return", dto.ReturnRequest{Reason: "Fin de préstamo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.CheckoutResponse](t, resp)
	require.Len(t, out.MovementIDs, 1)
	assert.Equal(t, 1, out.Receipts)
	assert.Equal(t, 4, env.store.Quantity("c"))

	cart := decode[dto.CartResponse](t, cl.do(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, 0, cart.Count, "el carrito se vacía tras confirmar")

	pdf := cl.do(http.MethodGet, "/api/movements/"+out.MovementIDs[0]+"/receipt", nil)
	require.Equal(t, http.StatusOK, pdf.StatusCode)
	assert.Equal(t, "application/pdf", pdf.Header.Get("Content-Type"))
	assert.Contains(t, pdf.Header.Get("Content-Disposition"), inventory.ReceiptFilename(out.MovementIDs[0]))
	body, err := io.ReadAll(pdf.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Teclado USB")

	zipResp := cl.do(http.MethodGet, "/api/movements/batch/"+out.BatchID+"/receipts", nil)
	require.Equal(t, http.StatusOK, zipResp.StatusCode)
	assert.Equal(t, "application/zip", zipResp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(zipResp.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, inventory.ReceiptFilename(out.MovementIDs[0]), zr.File[0].Name)
}

func TestCheckout_EntregaEnDosPasos(t *testing.T) {
	env := newTestEnv(t)
	cl := env.login(t)
	cl.do(http.MethodPost, "/api/cart", dto.AddToCartRequest{Code: "4001", Quantity: 2})

	// Sin tipo de entrega elegido
	resp := cl.do(http.MethodPost, "/api/checkout/issue", dto.IssueRequest{FirstName: "Ana", LastName: "Gómez"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ISSUE_TYPE_REQUIRED", decode[dto.ErrorResponse](t, resp).Code)

	cart := decode[dto.CartResponse](t, cl.do(http.MethodPost, "/api/checkout/issue-type", dto.IssueTypeRequest{IssueType: "Nuevo ingreso"}))
	assert.Equal(t, "Nuevo ingreso", cart.IssueType)

	// Receptor incompleto: no se toca nada y el carrito sigue ahí
	resp = cl.do(http.MethodPost, "/api/checkout/issue", dto.IssueRequest{FirstName: "Ana"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_RECIPIENT", decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, 10, env.store.Quantity("a"))

	resp = cl.do(http.MethodPost, "/api/checkout/issue", dto.IssueRequest{
		FirstName: "Ana", LastName: "Gómez", Department: "Finanzas", HasKeyboard: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 8, env.store.Quantity("a"))

	movs := env.store.AllMovements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIssue, movs[0].Type)
	assert.Equal(t, "Nuevo ingreso", movs[0].Reason)
	assert.Equal(t, "Ana", movs[0].RecipientFirstName)

	cart = decode[dto.CartResponse](t, cl.do(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, 0, cart.Count)
	assert.Empty(t, cart.IssueType)
}

func TestCheckout_TipoDeEntregaConCarritoVacio(t *testing.T) {
	env := newTestEnv(t)
	cl := env.login(t)
	resp := cl.do(http.MethodPost, "/api/checkout/issue-type", dto.IssueTypeRequest{IssueType: "Reemplazo"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Items y movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestItems_LowStockNoChocaConID(t *testing.T) {
	env := newTestEnv(t)
	cl := env.login(t)
	resp := cl.do(http.MethodGet, "/api/items/low-stock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = cl.do(http.MethodGet, "/api/items/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItems_CrearValidaCuerpo(t *testing.T) {
	env := newTestEnv(t)
	cl := env.login(t)
	resp := cl.do(http.MethodPost, "/api/items", dto.CreateItemRequest{Name: "Hub", Quantity: -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = cl.do(http.MethodPost, "/api/items", dto.CreateItemRequest{Name: "Hub", SKU: "MON-24"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMovements_ComprobanteInexistente_Retorna404(t *testing.T) {
	env := newTestEnv(t)
	cl := env.login(t)
	resp := cl.do(http.MethodGet, "/api/movements/no-existe/receipt", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
