package alert

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner misma forma que inventory.TxRunner; la evaluación corre en una
// transacción propia para leer un snapshot consistente del catálogo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
	) error) error
}
