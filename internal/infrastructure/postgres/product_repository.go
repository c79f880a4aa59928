package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
// Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, category_id, name, barcode, cost_price, sale_price,
	min_quantity, current_quantity, tech_specs, active, created_at, updated_at`

// Create persiste un nuevo producto. El stock inicia en 0.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, category_id, name, barcode, cost_price, sale_price, min_quantity, current_quantity, tech_specs, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, nullIfEmpty(product.CategoryID), product.Name, nullIfEmpty(product.Barcode),
		product.CostPrice, product.SalePrice, product.MinQuantity, product.CurrentQuantity,
		product.TechSpecs, product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByBarcode obtiene un producto por su código externo (único).
func (r *ProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, barcode))
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE).
// Serializa los mutadores concurrentes sobre el mismo producto: el pre-chequeo
// de stock y la escritura posterior quedan atómicos frente a otros mutadores.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update actualiza los campos de catálogo. No toca current_quantity: eso es
// exclusivo de UpdateQuantity dentro del motor de stock.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET category_id = $2, name = $3, barcode = $4, cost_price = $5,
			sale_price = $6, min_quantity = $7, tech_specs = $8, active = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, nullIfEmpty(product.CategoryID), product.Name, nullIfEmpty(product.Barcode),
		product.CostPrice, product.SalePrice, product.MinQuantity, product.TechSpecs,
		product.Active, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateQuantity escribe la cantidad cacheada y refresca updated_at.
// Solo lo llama el motor de stock dentro de la transacción del movimiento.
func (r *ProductRepo) UpdateQuantity(productID string, quantity int64, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET current_quantity = $2, updated_at = $3 WHERE id = $1`,
		productID, quantity, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product quantity: %w", err)
	}
	return nil
}

// ListActive lista los productos activos con el nombre de su categoría, ordenados por nombre.
func (r *ProductRepo) ListActive() ([]*repository.ProductWithCategory, error) {
	query := `
		SELECT p.id, p.category_id, p.name, p.barcode, p.cost_price, p.sale_price,
			p.min_quantity, p.current_quantity, p.tech_specs, p.active, p.created_at, p.updated_at,
			COALESCE(c.name, '')
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.active = true
		ORDER BY p.name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	defer rows.Close()
	var list []*repository.ProductWithCategory
	for rows.Next() {
		var row repository.ProductWithCategory
		var categoryID, barcode *string
		if err := rows.Scan(
			&row.Product.ID, &categoryID, &row.Product.Name, &barcode,
			&row.Product.CostPrice, &row.Product.SalePrice, &row.Product.MinQuantity,
			&row.Product.CurrentQuantity, &row.Product.TechSpecs, &row.Product.Active,
			&row.Product.CreatedAt, &row.Product.UpdatedAt, &row.CategoryName,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		row.Product.CategoryID = deref(categoryID)
		row.Product.Barcode = deref(barcode)
		list = append(list, &row)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID. Solo usar cuando no tiene movimientos.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// Deactivate marca el producto como inactivo (soft delete).
func (r *ProductRepo) Deactivate(id string, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET active = false, updated_at = $2 WHERE id = $1`,
		id, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgxRow) (*entity.Product, error) {
	var p entity.Product
	var categoryID, barcode *string
	err := row.Scan(
		&p.ID, &categoryID, &p.Name, &barcode, &p.CostPrice, &p.SalePrice,
		&p.MinQuantity, &p.CurrentQuantity, &p.TechSpecs, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.CategoryID = deref(categoryID)
	p.Barcode = deref(barcode)
	return &p, nil
}

// pgxRow evita depender del tipo concreto de fila en scanOne.
type pgxRow interface {
	Scan(dest ...any) error
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
