package entity

import "time"

// Tipos de alerta de stock.
const (
	AlertKindLowStock  = "low_stock"
	AlertKindZeroStock = "zero_stock"
	AlertKindReorder   = "reorder" // reservado: el motor no lo genera todavía
)

// Alert representa una alerta derivada de cruzar un umbral de stock.
// El mensaje es un snapshot del contexto al momento de generarla; no se
// recalcula después. A lo sumo una alerta NO leída por (producto, tipo).
type Alert struct {
	ID        string
	ProductID string
	Kind      string
	Message   string
	Read      bool
	CreatedAt time.Time
}
