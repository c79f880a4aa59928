package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationDTO valorización del stock activo.
type ValuationDTO struct {
	TotalValue       decimal.Decimal `json:"total_value"`
	ActiveProducts   int64           `json:"active_products"`
	LowStockProducts int64           `json:"low_stock_products"`
}

// MovementSummaryRowDTO agregado por (tipo, motivo) dentro de la ventana.
type MovementSummaryRowDTO struct {
	Type          string `json:"type"`
	Reason        string `json:"reason"`
	Movements     int64  `json:"movements"`
	TotalQuantity int64  `json:"total_quantity"`
}

// MovementSummaryDTO resumen de movimientos del período.
type MovementSummaryDTO struct {
	From time.Time               `json:"from"`
	To   time.Time               `json:"to"`
	Rows []MovementSummaryRowDTO `json:"rows"`
}

// TopProductDTO producto más movido del período.
type TopProductDTO struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	InQuantity     int64  `json:"in_quantity"`
	OutQuantity    int64  `json:"out_quantity"`
	TotalMovements int64  `json:"total_movements"`
}

// StockSnapshotDTO fila del snapshot de stock (GET /api/stock).
type StockSnapshotDTO struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Barcode         string          `json:"barcode,omitempty"`
	Category        string          `json:"category,omitempty"`
	CurrentQuantity int64           `json:"current_quantity"`
	MinQuantity     int64           `json:"min_quantity"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStock        bool            `json:"low_stock"`
}

// RecentMovementDTO movimiento reciente con nombre de producto (dashboard).
type RecentMovementDTO struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

// DashboardSummaryDTO estadísticas generales para la pantalla principal.
type DashboardSummaryDTO struct {
	ActiveProducts  int64               `json:"active_products"`
	Categories      int64               `json:"categories"`
	StockValue      decimal.Decimal     `json:"stock_value"`
	LowStock        int64               `json:"low_stock"`
	UnreadAlerts    int64               `json:"unread_alerts"`
	RecentMovements []RecentMovementDTO `json:"recent_movements"`
}
