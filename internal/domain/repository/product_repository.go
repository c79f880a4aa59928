package repository

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductWithCategory producto junto con el nombre de su categoría (LEFT JOIN).
type ProductWithCategory struct {
	Product      entity.Product
	CategoryName string // vacío si el producto no tiene categoría
}

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) dentro de la
// transacción activa; es la pieza que serializa los mutadores concurrentes
// sobre un mismo producto. UpdateQuantity es de uso exclusivo del motor de
// stock: el CRUD de catálogo nunca escribe current_quantity.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByBarcode(barcode string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateQuantity(productID string, quantity int64, updatedAt time.Time) error
	ListActive() ([]*ProductWithCategory, error)
	Delete(id string) error
	Deactivate(id string, updatedAt time.Time) error
}
