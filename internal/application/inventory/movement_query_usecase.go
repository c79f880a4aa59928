package inventory

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// MovementQueryUseCase consultas de solo lectura sobre el ledger de movimientos.
type MovementQueryUseCase struct {
	movRepo repository.StockMovementRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(movRepo repository.StockMovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movRepo: movRepo}
}

// List lista movimientos, opcionalmente filtrados por producto y rango de fechas.
func (uc *MovementQueryUseCase) List(productID string, from, to *time.Time, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.ErrInvalidInput
	}

	var (
		list []*entity.StockMovement
		err  error
	)
	if productID != "" {
		list, err = uc.movRepo.ListByProduct(productID, from, to, page.Limit, page.Offset)
	} else {
		list, err = uc.movRepo.List(from, to, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}

	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Limit: page.Limit, Offset: page.Offset}, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Reason:    m.Reason,
		Notes:     m.Notes,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}
