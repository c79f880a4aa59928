package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes y dashboard.
// Opera directo sobre el pool: no participa en transacciones.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// Valuation valoriza el stock activo con la cantidad cacheada (no re-deriva
// del ledger) para coincidir exactamente con lo último que commiteó el mutador.
func (r *ReportRepo) Valuation(ctx context.Context) (*repository.ValuationResult, error) {
	const query = `
	SELECT
	    COALESCE(SUM(current_quantity * cost_price), 0)                          AS total_value,
	    COUNT(*)                                                                 AS active_products,
	    COALESCE(SUM(CASE WHEN current_quantity <= min_quantity THEN 1 ELSE 0 END), 0) AS low_stock
	FROM products
	WHERE active = true`

	var v repository.ValuationResult
	err := r.pool.QueryRow(ctx, query).Scan(&v.TotalValue, &v.ActiveProducts, &v.LowStockProducts)
	if err != nil {
		return nil, fmt.Errorf("report.Valuation: %w", err)
	}
	return &v, nil
}

// MovementSummary agrupa movimientos por (tipo, motivo) dentro de la ventana.
func (r *ReportRepo) MovementSummary(ctx context.Context, from, to time.Time) ([]*repository.MovementSummaryRow, error) {
	const query = `
	SELECT type, reason, COUNT(*) AS movements, COALESCE(SUM(quantity), 0) AS total_quantity
	FROM stock_movements
	WHERE created_at BETWEEN $1 AND $2
	GROUP BY type, reason
	ORDER BY type, reason`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("report.MovementSummary: %w", err)
	}
	defer rows.Close()
	var results []*repository.MovementSummaryRow
	for rows.Next() {
		var row repository.MovementSummaryRow
		if err := rows.Scan(&row.Type, &row.Reason, &row.Movements, &row.TotalQuantity); err != nil {
			return nil, fmt.Errorf("report.MovementSummary scan: %w", err)
		}
		results = append(results, &row)
	}
	return results, rows.Err()
}

// TopProducts devuelve los productos con más movimientos en la ventana.
// Orden: total de movimientos descendente, desempate determinista por id.
func (r *ReportRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*repository.TopProductRow, error) {
	const query = `
	SELECT p.id, p.name,
	    COALESCE(SUM(CASE WHEN m.type = 'in'  THEN m.quantity ELSE 0 END), 0) AS in_quantity,
	    COALESCE(SUM(CASE WHEN m.type = 'out' THEN m.quantity ELSE 0 END), 0) AS out_quantity,
	    COUNT(m.id)                                                           AS total_movements
	FROM products p
	JOIN stock_movements m ON m.product_id = p.id
	WHERE m.created_at BETWEEN $1 AND $2
	GROUP BY p.id, p.name
	ORDER BY total_movements DESC, p.id ASC
	LIMIT $3`

	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("report.TopProducts: %w", err)
	}
	defer rows.Close()
	var results []*repository.TopProductRow
	for rows.Next() {
		var row repository.TopProductRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.InQuantity,
			&row.OutQuantity, &row.TotalMovements); err != nil {
			return nil, fmt.Errorf("report.TopProducts scan: %w", err)
		}
		results = append(results, &row)
	}
	return results, rows.Err()
}

// Snapshot devuelve el estado de stock de todos los productos activos con el
// flag de stock bajo calculado, para polling programático.
func (r *ReportRepo) Snapshot(ctx context.Context) ([]*repository.StockSnapshotRow, error) {
	const query = `
	SELECT p.id, p.name, COALESCE(p.barcode, ''), COALESCE(c.name, ''),
	    p.current_quantity, p.min_quantity, p.cost_price,
	    p.current_quantity * p.cost_price          AS total_value,
	    p.current_quantity <= p.min_quantity       AS low_stock
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
	WHERE p.active = true
	ORDER BY p.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("report.Snapshot: %w", err)
	}
	defer rows.Close()
	var results []*repository.StockSnapshotRow
	for rows.Next() {
		var row repository.StockSnapshotRow
		if err := rows.Scan(&row.ProductID, &row.Name, &row.Barcode, &row.CategoryName,
			&row.CurrentQuantity, &row.MinQuantity, &row.CostPrice,
			&row.TotalValue, &row.LowStock); err != nil {
			return nil, fmt.Errorf("report.Snapshot scan: %w", err)
		}
		results = append(results, &row)
	}
	return results, rows.Err()
}

// CountCategories cuenta todas las categorías.
func (r *ReportRepo) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("report.CountCategories: %w", err)
	}
	return count, nil
}

// CountUnreadAlerts cuenta las alertas no leídas.
func (r *ReportRepo) CountUnreadAlerts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM alerts WHERE read = false`).Scan(&count); err != nil {
		return 0, fmt.Errorf("report.CountUnreadAlerts: %w", err)
	}
	return count, nil
}

// RecentMovements devuelve los últimos movimientos con el nombre del producto.
func (r *ReportRepo) RecentMovements(ctx context.Context, limit int) ([]*repository.RecentMovementRow, error) {
	const query = `
	SELECT m.id, m.product_id, m.type, m.quantity, m.unit_price, m.reason,
	    m.notes, m.created_by, m.created_at, p.name
	FROM stock_movements m
	JOIN products p ON m.product_id = p.id
	ORDER BY m.created_at DESC
	LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("report.RecentMovements: %w", err)
	}
	defer rows.Close()
	var results []*repository.RecentMovementRow
	for rows.Next() {
		var row repository.RecentMovementRow
		if err := rows.Scan(&row.Movement.ID, &row.Movement.ProductID, &row.Movement.Type,
			&row.Movement.Quantity, &row.Movement.UnitPrice, &row.Movement.Reason,
			&row.Movement.Notes, &row.Movement.CreatedBy, &row.Movement.CreatedAt,
			&row.ProductName); err != nil {
			return nil, fmt.Errorf("report.RecentMovements scan: %w", err)
		}
		results = append(results, &row)
	}
	return results, rows.Err()
}
