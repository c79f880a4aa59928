package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Umbral de alerta por defecto cuando el alta no lo indica.
const defaultMinQuantity = 10

// ProductUseCase casos de uso CRUD para productos. La cantidad actual se
// maneja exclusivamente vía movimientos (StockUseCase); acá nunca se escribe.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movRepo      repository.StockMovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movRepo repository.StockMovementRepository,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, movRepo: movRepo}
}

// Create crea un producto con stock 0. El código de barras, si viene, debe ser
// único (ErrDuplicate en colisión). La categoría es opcional pero debe existir.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CostPrice.LessThan(decimal.Zero) || in.SalePrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	minQty := int64(defaultMinQuantity)
	if in.MinQuantity != nil {
		if *in.MinQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		minQty = *in.MinQuantity
	}
	if in.CategoryID != "" {
		category, err := uc.categoryRepo.GetByID(in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
	}
	if in.Barcode != "" {
		existing, err := uc.repo.GetByBarcode(in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		CategoryID:      in.CategoryID,
		Name:            in.Name,
		Barcode:         in.Barcode,
		CostPrice:       in.CostPrice,
		SalePrice:       in.SalePrice,
		MinQuantity:     minQty,
		CurrentQuantity: 0,
		TechSpecs:       in.TechSpecs,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product, ""), nil
}

// GetByID obtiene un producto por ID. ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product, ""), nil
}

// Update actualiza los campos de catálogo de un producto. No toca la cantidad
// actual; refresca updated_at en cualquier mutación.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.CategoryID != nil {
		if *in.CategoryID != "" {
			category, err := uc.categoryRepo.GetByID(*in.CategoryID)
			if err != nil {
				return nil, err
			}
			if category == nil {
				return nil, domain.ErrNotFound
			}
		}
		product.CategoryID = *in.CategoryID
	}
	if in.Barcode != nil && *in.Barcode != product.Barcode {
		if *in.Barcode != "" {
			existing, err := uc.repo.GetByBarcode(*in.Barcode)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				return nil, domain.ErrDuplicate
			}
		}
		product.Barcode = *in.Barcode
	}
	if in.CostPrice != nil {
		if in.CostPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.CostPrice = *in.CostPrice
	}
	if in.SalePrice != nil {
		if in.SalePrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.SalePrice = *in.SalePrice
	}
	if in.MinQuantity != nil {
		if *in.MinQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinQuantity = *in.MinQuantity
	}
	if in.TechSpecs != nil {
		product.TechSpecs = *in.TechSpecs
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product, ""), nil
}

// ListActive lista los productos activos con el nombre de su categoría.
func (uc *ProductUseCase) ListActive() (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListActive()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, row := range list {
		items = append(items, *toProductResponse(&row.Product, row.CategoryName))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Delete elimina el producto solo si no tiene movimientos; con historial lo
// desactiva (soft delete) para preservar la pista de auditoría.
func (uc *ProductUseCase) Delete(id string) (*dto.DeleteProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	count, err := uc.movRepo.CountByProduct(id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		if err := uc.repo.Deactivate(id, time.Now()); err != nil {
			return nil, err
		}
		return &dto.DeleteProductResponse{Deactivated: true}, nil
	}
	if err := uc.repo.Delete(id); err != nil {
		return nil, err
	}
	return &dto.DeleteProductResponse{Deleted: true}, nil
}

func toProductResponse(p *entity.Product, categoryName string) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		CategoryID:      p.CategoryID,
		CategoryName:    categoryName,
		Barcode:         p.Barcode,
		CostPrice:       p.CostPrice,
		SalePrice:       p.SalePrice,
		MinQuantity:     p.MinQuantity,
		CurrentQuantity: p.CurrentQuantity,
		TechSpecs:       p.TechSpecs,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
