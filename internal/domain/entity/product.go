package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
//
// CurrentQuantity es un valor derivado cacheado: siempre debe ser igual a la
// suma neta de los movimientos del producto. Solo el motor de stock
// (StockUseCase) lo escribe; el CRUD de catálogo nunca lo toca.
type Product struct {
	ID              string
	CategoryID      string // vacío si no tiene categoría
	Name            string
	Barcode         string // código externo único; vacío = sin código
	CostPrice       decimal.Decimal
	SalePrice       decimal.Decimal
	MinQuantity     int64 // umbral de alerta, default 10
	CurrentQuantity int64 // nunca negativo
	TechSpecs       string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLowStock indica si el producto está en o por debajo de su umbral mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentQuantity <= p.MinQuantity
}
