package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una nueva alerta.
func (r *AlertRepo) Create(alert *entity.Alert) error {
	query := `
		INSERT INTO alerts (id, product_id, kind, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.ProductID, alert.Kind, alert.Message, alert.Read, alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(id string) (*entity.Alert, error) {
	query := `
		SELECT id, product_id, kind, message, read, created_at
		FROM alerts WHERE id = $1`
	var a entity.Alert
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.ProductID, &a.Kind, &a.Message, &a.Read, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return &a, nil
}

// ExistsUnread indica si hay una alerta no leída para (producto, tipo).
func (r *AlertRepo) ExistsUnread(productID, kind string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM alerts WHERE product_id = $1 AND kind = $2 AND read = false)`,
		productID, kind,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists unread alert: %w", err)
	}
	return exists, nil
}

// List lista todas las alertas con datos del producto, no leídas primero y
// luego las más recientes.
func (r *AlertRepo) List() ([]*repository.AlertWithProduct, error) {
	query := `
		SELECT a.id, a.product_id, a.kind, a.message, a.read, a.created_at,
			p.name, COALESCE(p.barcode, '')
		FROM alerts a
		JOIN products p ON a.product_id = p.id
		ORDER BY a.read ASC, a.created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*repository.AlertWithProduct
	for rows.Next() {
		var row repository.AlertWithProduct
		if err := rows.Scan(
			&row.Alert.ID, &row.Alert.ProductID, &row.Alert.Kind, &row.Alert.Message,
			&row.Alert.Read, &row.Alert.CreatedAt, &row.ProductName, &row.Barcode,
		); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// MarkRead marca la alerta como leída (flip de un solo campo).
func (r *AlertRepo) MarkRead(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE alerts SET read = true WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	return nil
}

// MarkAllRead marca todas las no leídas en un solo UPDATE y devuelve cuántas
// afectó. Alertas creadas concurrentemente después del statement no se tocan.
func (r *AlertRepo) MarkAllRead() (int64, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE alerts SET read = true WHERE read = false`,
	)
	if err != nil {
		return 0, fmt.Errorf("mark all alerts read: %w", err)
	}
	return tag.RowsAffected(), nil
}
