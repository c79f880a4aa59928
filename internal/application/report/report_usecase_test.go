package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

type fixture struct {
	store *memory.Store
	stock *inventory.StockUseCase
	uc    *report.ReportUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		store: store,
		stock: inventory.NewStockUseCase(store),
		uc:    report.NewReportUseCase(store.Reports()),
	}
}

func (f *fixture) product(t *testing.T, name string, cost int64, minQty int64, active bool) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		Name:        name,
		CostPrice:   decimal.NewFromInt(cost),
		MinQuantity: minQty,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, f.store.Products().Create(p))
	return p
}

func (f *fixture) increase(t *testing.T, productID string, qty int64, reason string) {
	t.Helper()
	_, err := f.stock.ApplyIncrease(context.Background(), inventory.MovementInput{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(1),
		Reason:    reason,
	})
	require.NoError(t, err)
}

func (f *fixture) decrease(t *testing.T, productID string, qty int64, reason string) {
	t.Helper()
	_, err := f.stock.ApplyDecrease(context.Background(), inventory.MovementInput{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(1),
		Reason:    reason,
	})
	require.NoError(t, err)
}

func window() (time.Time, time.Time) {
	now := time.Now()
	return now.Add(-time.Hour), now.Add(time.Hour)
}

func TestReports_Valuation(t *testing.T) {
	f := newFixture()
	a := f.product(t, "A", 10, 5, true)
	b := f.product(t, "B", 3, 5, true)
	inactive := f.product(t, "C", 100, 5, false)
	_ = inactive

	f.increase(t, a.ID, 20, entity.ReasonPurchase) // valor 200, por encima del umbral
	f.increase(t, b.ID, 4, entity.ReasonPurchase)  // valor 12, en stock bajo

	out, err := f.uc.Valuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.ActiveProducts)
	assert.Equal(t, int64(1), out.LowStockProducts)
	assert.True(t, decimal.NewFromInt(212).Equal(out.TotalValue), "valor total: %s", out.TotalValue)
}

func TestReports_MovementSummaryGroupsByTypeAndReason(t *testing.T) {
	f := newFixture()
	p := f.product(t, "A", 1, 5, true)

	f.increase(t, p.ID, 10, entity.ReasonPurchase)
	f.increase(t, p.ID, 5, entity.ReasonPurchase)
	f.increase(t, p.ID, 2, entity.ReasonReturn)
	f.decrease(t, p.ID, 3, entity.ReasonSale)

	from, to := window()
	out, err := f.uc.MovementSummary(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, out.Rows, 3)

	byKey := map[string]int64{}
	for _, r := range out.Rows {
		byKey[r.Type+"/"+r.Reason] = r.TotalQuantity
	}
	assert.Equal(t, int64(15), byKey["in/purchase"])
	assert.Equal(t, int64(2), byKey["in/return"])
	assert.Equal(t, int64(3), byKey["out/sale"])
}

func TestReports_MovementSummaryRejectsInvertedWindow(t *testing.T) {
	f := newFixture()
	from, to := window()

	_, err := f.uc.MovementSummary(context.Background(), to, from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.TopProducts(context.Background(), to, from, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReports_TopProductsOrderAndLimit(t *testing.T) {
	f := newFixture()
	a := f.product(t, "A", 1, 5, true)
	b := f.product(t, "B", 1, 5, true)
	c := f.product(t, "C", 1, 5, true)

	// a: 3 movimientos, b: 2, c: 1
	f.increase(t, a.ID, 1, entity.ReasonPurchase)
	f.increase(t, a.ID, 1, entity.ReasonPurchase)
	f.decrease(t, a.ID, 1, entity.ReasonSale)
	f.increase(t, b.ID, 9, entity.ReasonPurchase)
	f.decrease(t, b.ID, 2, entity.ReasonSale)
	f.increase(t, c.ID, 1, entity.ReasonPurchase)

	from, to := window()
	out, err := f.uc.TopProducts(context.Background(), from, to, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, a.ID, out[0].ProductID)
	assert.Equal(t, int64(3), out[0].TotalMovements)
	assert.Equal(t, int64(2), out[0].InQuantity)
	assert.Equal(t, int64(1), out[0].OutQuantity)
	assert.Equal(t, b.ID, out[1].ProductID)
}

func TestReports_TopProductsTieBreakByID(t *testing.T) {
	f := newFixture()
	a := f.product(t, "A", 1, 5, true)
	b := f.product(t, "B", 1, 5, true)

	f.increase(t, a.ID, 1, entity.ReasonPurchase)
	f.increase(t, b.ID, 1, entity.ReasonPurchase)

	from, to := window()
	out, err := f.uc.TopProducts(context.Background(), from, to, 10)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Less(t, out[0].ProductID, out[1].ProductID)
}

func TestReports_Snapshot(t *testing.T) {
	f := newFixture()
	low := f.product(t, "Bajo", 2, 10, true)
	ok := f.product(t, "Sano", 3, 5, true)
	f.product(t, "Inactivo", 1, 5, false)

	f.increase(t, low.ID, 4, entity.ReasonPurchase)
	f.increase(t, ok.ID, 20, entity.ReasonPurchase)

	out, err := f.uc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Orden por nombre
	assert.Equal(t, "Bajo", out[0].Name)
	assert.True(t, out[0].LowStock)
	assert.True(t, decimal.NewFromInt(8).Equal(out[0].TotalValue))
	assert.Equal(t, "Sano", out[1].Name)
	assert.False(t, out[1].LowStock)
}

func TestEndToEnd_MovementsAlertsAndValuation(t *testing.T) {
	f := newFixture()
	engine := alert.NewEngine(f.store, f.store.Alerts())
	ctx := context.Background()

	// Producto con umbral 10 y stock 0; entra 5, sale 3
	p := f.product(t, "Grapadora", 7, 10, true)
	f.increase(t, p.ID, 5, entity.ReasonPurchase)
	f.decrease(t, p.ID, 3, entity.ReasonSale)

	got, err := f.store.Products().GetByID(p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), got.CurrentQuantity)

	// Stock 2: alerta low_stock, no zero_stock
	created, err := engine.EvaluateAndGenerate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	alerts, err := engine.List()
	require.NoError(t, err)
	require.Len(t, alerts.Items, 1)
	assert.Equal(t, entity.AlertKindLowStock, alerts.Items[0].Kind)

	// La valorización incluye 2 × precio de costo
	val, err := f.uc.Valuation(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(14).Equal(val.TotalValue))
}

func TestReports_DashboardSummary(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.Categories().Create(&entity.Category{Name: "Oficina"}))
	p := f.product(t, "Resma", 2, 10, true)
	f.increase(t, p.ID, 3, entity.ReasonPurchase)

	out, err := f.uc.DashboardSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.ActiveProducts)
	assert.Equal(t, int64(1), out.Categories)
	assert.Equal(t, int64(1), out.LowStock)
	assert.Equal(t, int64(0), out.UnreadAlerts)
	assert.True(t, decimal.NewFromInt(6).Equal(out.StockValue))
	require.Len(t, out.RecentMovements, 1)
	assert.Equal(t, "Resma", out.RecentMovements[0].ProductName)
}
