// Package alert contiene el motor de alertas de stock: deriva alertas del
// estado del catálogo y las deduplica por (producto, tipo) sobre las no leídas.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Engine evalúa umbrales y administra el ciclo de vida de las alertas.
//
// La evaluación es idempotente y se dispara por demanda (no hay trabajo en
// background): dos pasadas seguidas sin mutaciones intermedias producen el
// mismo conjunto de alertas. Marcar como leída no borra; habilita una alerta
// nueva del mismo tipo en la próxima evaluación si la condición persiste.
type Engine struct {
	txRunner  TxRunner
	alertRepo repository.AlertRepository
}

// NewEngine construye el motor.
func NewEngine(txRunner TxRunner, alertRepo repository.AlertRepository) *Engine {
	return &Engine{txRunner: txRunner, alertRepo: alertRepo}
}

// EvaluateAndGenerate recorre los productos activos y genera las alertas que
// falten. low_stock y zero_stock son buckets de deduplicación independientes:
// la presencia de uno no suprime la generación del otro. Productos por encima
// de su umbral no se evalúan. Devuelve cuántas alertas se crearon.
func (e *Engine) EvaluateAndGenerate(ctx context.Context) (int, error) {
	created := 0
	err := e.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		products, err := productRepo.ListActive()
		if err != nil {
			return err
		}
		now := time.Now()
		for _, row := range products {
			p := row.Product
			if p.CurrentQuantity == 0 {
				n, err := e.generate(alertRepo, &p, entity.AlertKindZeroStock,
					fmt.Sprintf("Stock agotado: %s", p.Name), now)
				if err != nil {
					return err
				}
				created += n
				continue
			}
			if p.CurrentQuantity <= p.MinQuantity {
				n, err := e.generate(alertRepo, &p, entity.AlertKindLowStock,
					fmt.Sprintf("Stock bajo: %s (%d unidades)", p.Name, p.CurrentQuantity), now)
				if err != nil {
					return err
				}
				created += n
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// generate crea la alerta solo si no existe una no leída del mismo tipo.
func (e *Engine) generate(alertRepo repository.AlertRepository, p *entity.Product, kind, message string, now time.Time) (int, error) {
	exists, err := alertRepo.ExistsUnread(p.ID, kind)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}
	a := &entity.Alert{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		Kind:      kind,
		Message:   message,
		Read:      false,
		CreatedAt: now,
	}
	if err := alertRepo.Create(a); err != nil {
		return 0, err
	}
	return 1, nil
}

// List devuelve todas las alertas con datos del producto, no leídas primero.
func (e *Engine) List() (*dto.AlertListResponse, error) {
	list, err := e.alertRepo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(list))
	unread := 0
	for _, row := range list {
		if !row.Alert.Read {
			unread++
		}
		items = append(items, dto.AlertResponse{
			ID:          row.Alert.ID,
			ProductID:   row.Alert.ProductID,
			ProductName: row.ProductName,
			Barcode:     row.Barcode,
			Kind:        row.Alert.Kind,
			Message:     row.Alert.Message,
			Read:        row.Alert.Read,
			CreatedAt:   row.Alert.CreatedAt,
		})
	}
	return &dto.AlertListResponse{Items: items, Unread: unread}, nil
}

// MarkRead marca una alerta como leída. ErrNotFound si el id no existe.
func (e *Engine) MarkRead(id string) error {
	a, err := e.alertRepo.GetByID(id)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	return e.alertRepo.MarkRead(id)
}

// MarkAllRead marca todas las alertas no leídas en una sola pasada. Solo
// afecta las que estaban sin leer al momento de la operación.
func (e *Engine) MarkAllRead() (int64, error) {
	return e.alertRepo.MarkAllRead()
}
