package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// Motivos de movimiento. Cerrados semánticamente, no por constraint de BD.
const (
	ReasonPurchase   = "purchase"
	ReasonSale       = "sale"
	ReasonReturn     = "return"
	ReasonTransfer   = "transfer"
	ReasonLoss       = "loss"
	ReasonAdjustment = "adjustment"
)

// DefaultActor se usa cuando el movimiento no indica usuario.
const DefaultActor = "system"

// StockMovement representa un movimiento de stock (entrada o salida).
// Es append-only: nunca se actualiza ni se borra; es la pista de auditoría
// desde la cual la cantidad actual es reconstruible.
type StockMovement struct {
	ID        string
	ProductID string
	Type      string // in, out
	Quantity  int64  // siempre positivo; el tipo da el signo
	UnitPrice decimal.Decimal
	Reason    string
	Notes     string
	CreatedBy string
	CreatedAt time.Time
}

// ValidReason verifica que el motivo esté dentro del conjunto conocido.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonPurchase, ReasonSale, ReasonReturn, ReasonTransfer, ReasonLoss, ReasonAdjustment:
		return true
	}
	return false
}
