package repository

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para movimientos.
// El ledger es append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	CountByProduct(productID string) (int64, error)
	// NetQuantity devuelve la suma con signo de los movimientos del producto
	// (entradas − salidas). Debe coincidir con product.current_quantity.
	NetQuantity(productID string) (int64, error)
}
