package repository

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// AlertWithProduct alerta junto con datos del producto para el listado.
type AlertWithProduct struct {
	Alert       entity.Alert
	ProductName string
	Barcode     string
}

// AlertRepository define el puerto de persistencia para alertas.
type AlertRepository interface {
	Create(alert *entity.Alert) error
	GetByID(id string) (*entity.Alert, error)
	// ExistsUnread indica si ya hay una alerta no leída para (producto, tipo).
	// Es el chequeo de deduplicación del motor de alertas.
	ExistsUnread(productID, kind string) (bool, error)
	List() ([]*AlertWithProduct, error)
	MarkRead(id string) error
	// MarkAllRead marca todas las alertas no leídas y devuelve cuántas afectó.
	MarkAllRead() (int64, error)
}
