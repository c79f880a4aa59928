package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma la aplicación Fiber completa sobre el store en memoria.
func buildTestApp() *fiber.App {
	store := memory.NewStore()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC:    usecase.NewCategoryUseCase(store.Categories()),
		ProductUC:     usecase.NewProductUseCase(store.Products(), store.Categories(), store.Movements()),
		StockUC:       inventory.NewStockUseCase(store),
		MovementQuery: inventory.NewMovementQueryUseCase(store.Movements()),
		AlertEngine:   alert.NewEngine(store, store.Alerts()),
		ReportUC:      report.NewReportUseCase(store.Reports()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

// createProduct da de alta un producto vía API y devuelve su id.
func createProduct(t *testing.T, app *fiber.App, name, barcode string) string {
	t.Helper()
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/products", fiber.Map{
		"name":    name,
		"barcode": barcode,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return body["id"].(string)
}

// increaseStock registra una entrada vía API.
func increaseStock(t *testing.T, app *fiber.App, productID string, qty int64) {
	t.Helper()
	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/movements/in", fiber.Map{
		"product_id": productID,
		"quantity":   qty,
		"reason":     "purchase",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CategoryLifecycle(t *testing.T) {
	app := buildTestApp()

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/categories", fiber.Map{"name": "Informática"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id := body["id"].(string)

	// Nombre duplicado
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/categories", fiber.Map{"name": "Informática"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", body["code"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/categories/"+id, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Informática", body["name"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/categories/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestAPI_MovementFlowAndErrorMapping(t *testing.T) {
	app := buildTestApp()
	id := createProduct(t, app, "Monitor", "111")

	increaseStock(t, app, id, 10)

	// Salida válida
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/movements/out", fiber.Map{
		"product_id": id,
		"quantity":   4,
		"reason":     "sale",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "out", body["type"])

	// Stock insuficiente
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/movements/out", fiber.Map{
		"product_id": id,
		"quantity":   100,
		"reason":     "sale",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	// Motivo inválido
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/movements/in", fiber.Map{
		"product_id": id,
		"quantity":   1,
		"reason":     "regalo",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])

	// Producto inexistente
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/movements/in", fiber.Map{
		"product_id": "no-existe",
		"quantity":   1,
		"reason":     "purchase",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])

	// La cantidad quedó en 6
	resp, body = doJSON(t, app, fiber.MethodGet, "/api/products/"+id, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(6), body["current_quantity"])

	// Listado del ledger
	resp, body = doJSON(t, app, fiber.MethodGet, "/api/movements?product_id="+id, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 2)

	// Ventana malformada
	resp, body = doJSON(t, app, fiber.MethodGet, "/api/movements?from=ayer", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestAPI_AlertFlow(t *testing.T) {
	app := buildTestApp()
	id := createProduct(t, app, "Papel", "222")
	increaseStock(t, app, id, 3) // umbral por defecto 10: queda en stock bajo

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/alerts/evaluate", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["created"])

	// GET /api/alerts evalúa de nuevo y lista: idempotente
	resp, body = doJSON(t, app, fiber.MethodGet, "/api/alerts", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	alertID := items[0].(map[string]any)["id"].(string)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/alerts/"+alertID+"/read", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/alerts/no-existe/read", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/alerts/read-all", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["affected"], "la única alerta ya estaba leída")
}

func TestAPI_ProductDeleteMapping(t *testing.T) {
	app := buildTestApp()

	// Sin movimientos: hard delete
	id := createProduct(t, app, "Efímero", "")
	resp, body := doJSON(t, app, fiber.MethodDelete, "/api/products/"+id, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["deleted"])

	// Con movimientos: soft delete
	id = createProduct(t, app, "Persistente", "")
	increaseStock(t, app, id, 1)
	resp, body = doJSON(t, app, fiber.MethodDelete, "/api/products/"+id, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["deactivated"])

	resp, body = doJSON(t, app, fiber.MethodDelete, "/api/products/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestAPI_ReportsAndSnapshot(t *testing.T) {
	app := buildTestApp()
	id := createProduct(t, app, "Resma", "333")
	increaseStock(t, app, id, 2)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/reports/valuation", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["active_products"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/reports/movements?days=30", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["rows"], 1)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/reports/top-products", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(fiber.MethodGet, "/api/stock", nil)
	snapResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, snapResp.StatusCode)
	raw, err := io.ReadAll(snapResp.Body)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, true, rows[0]["low_stock"], "2 unidades con umbral 10")

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["active_products"])
	assert.Len(t, body["recent_movements"], 1)
}

func TestAPI_InvalidBody(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(fiber.MethodPost, "/api/products", bytes.NewReader([]byte("{no es json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
