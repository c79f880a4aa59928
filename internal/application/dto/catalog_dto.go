package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest body para POST /api/categories.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateCategoryRequest body para PUT /api/categories/{id}. Campos nil no se tocan.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CategoryResponse representación de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductRequest body para POST /api/products.
// MinQuantity nil aplica el default (10). El stock inicial siempre es 0:
// entra por movimientos, nunca por el CRUD.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	CategoryID  string          `json:"category_id,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	MinQuantity *int64          `json:"min_quantity,omitempty"`
	TechSpecs   string          `json:"tech_specs,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/{id}. Campos nil no se tocan.
// No existe campo de cantidad: current_quantity solo lo escribe el motor de stock.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
	Barcode     *string          `json:"barcode,omitempty"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	MinQuantity *int64           `json:"min_quantity,omitempty"`
	TechSpecs   *string          `json:"tech_specs,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// ProductResponse representación de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	CategoryID      string          `json:"category_id,omitempty"`
	CategoryName    string          `json:"category_name,omitempty"`
	Barcode         string          `json:"barcode,omitempty"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	MinQuantity     int64           `json:"min_quantity"`
	CurrentQuantity int64           `json:"current_quantity"`
	TechSpecs       string          `json:"tech_specs,omitempty"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse listado de productos activos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// DeleteProductResponse resultado del borrado: hard delete si no hay
// movimientos, soft delete (inactivo) si el producto tiene historial.
type DeleteProductResponse struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}
