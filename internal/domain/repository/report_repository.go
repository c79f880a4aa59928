package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ValuationResult valorización del stock activo.
// TotalValue usa la cantidad cacheada de cada producto, no una re-derivación
// del ledger, para coincidir exactamente con lo último que el mutador commiteó.
type ValuationResult struct {
	TotalValue       decimal.Decimal
	ActiveProducts   int64
	LowStockProducts int64
}

// MovementSummaryRow agregado de movimientos por (tipo, motivo) en una ventana.
type MovementSummaryRow struct {
	Type          string
	Reason        string
	Movements     int64
	TotalQuantity int64
}

// TopProductRow producto con su actividad de movimientos en una ventana.
type TopProductRow struct {
	ProductID      string
	ProductName    string
	InQuantity     int64
	OutQuantity    int64
	TotalMovements int64
}

// StockSnapshotRow fila del snapshot de stock para consumo programático.
type StockSnapshotRow struct {
	ProductID       string
	Name            string
	Barcode         string
	CategoryName    string
	CurrentQuantity int64
	MinQuantity     int64
	CostPrice       decimal.Decimal
	TotalValue      decimal.Decimal
	LowStock        bool
}

// RecentMovementRow movimiento reciente con el nombre del producto (dashboard).
type RecentMovementRow struct {
	Movement    entity.StockMovement
	ProductName string
}

// ReportRepository consultas de solo lectura sobre catálogo y ledger.
// No tiene invariantes propios más allá de agregar correctamente.
type ReportRepository interface {
	Valuation(ctx context.Context) (*ValuationResult, error)
	MovementSummary(ctx context.Context, from, to time.Time) ([]*MovementSummaryRow, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*TopProductRow, error)
	Snapshot(ctx context.Context) ([]*StockSnapshotRow, error)
	CountCategories(ctx context.Context) (int64, error)
	CountUnreadAlerts(ctx context.Context) (int64, error)
	RecentMovements(ctx context.Context, limit int) ([]*RecentMovementRow, error)
}
