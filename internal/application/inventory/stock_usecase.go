package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// StockUseCase es el mutador de stock: registra un movimiento y actualiza la
// cantidad cacheada del producto como una sola unidad atómica.
//
// Invariantes que sostiene:
//   - current_quantity == suma neta de movimientos, tras cada llamada exitosa
//   - current_quantity >= 0, garantizado por el pre-chequeo sobre la fila
//     bloqueada (SELECT FOR UPDATE), no por clamping
//
// El caso de uso no genera alertas; eso es una pasada separada del motor de
// alertas para no acoplar la latencia de escritura al bookkeeping.
type StockUseCase struct {
	txRunner TxRunner
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner) *StockUseCase {
	return &StockUseCase{txRunner: txRunner}
}

// MovementInput entrada para registrar un movimiento de stock.
type MovementInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Reason    string
	Notes     string
	CreatedBy string
}

// ApplyIncrease registra una entrada de stock: valida, bloquea la fila del
// producto, inserta el movimiento y suma la cantidad, todo en una transacción.
func (uc *StockUseCase) ApplyIncrease(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	return uc.apply(ctx, entity.MovementTypeIn, input)
}

// ApplyDecrease registra una salida de stock. Exige stock suficiente evaluado
// sobre la fila bloqueada: si no alcanza devuelve ErrInsufficientStock y no
// deja ningún efecto (ni movimiento ni cambio de cantidad).
func (uc *StockUseCase) ApplyDecrease(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	return uc.apply(ctx, entity.MovementTypeOut, input)
}

func (uc *StockUseCase) apply(ctx context.Context, movType string, input MovementInput) (*entity.StockMovement, error) {
	if input.ProductID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidReason(input.Reason) {
		return nil, domain.ErrInvalidInput
	}
	if input.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.CreatedBy == "" {
		input.CreatedBy = entity.DefaultActor
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Type:      movType,
		Quantity:  input.Quantity,
		UnitPrice: input.UnitPrice,
		Reason:    input.Reason,
		Notes:     input.Notes,
		CreatedBy: input.CreatedBy,
		CreatedAt: now,
	}

	// Transacción: bloquear fila, pre-chequear, insertar movimiento y
	// actualizar cantidad. Commit o Rollback lo maneja el TxRunner.
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.AlertRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		newQty := product.CurrentQuantity + input.Quantity
		if movType == entity.MovementTypeOut {
			if product.CurrentQuantity < input.Quantity {
				return domain.ErrInsufficientStock
			}
			newQty = product.CurrentQuantity - input.Quantity
		}

		if err := movRepo.Create(mov); err != nil {
			return err
		}
		return productRepo.UpdateQuantity(product.ID, newQty, now)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}
