package dto

import "time"

// AlertResponse alerta con datos del producto para el listado.
type AlertResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Barcode     string    `json:"barcode,omitempty"`
	Kind        string    `json:"kind"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// AlertListResponse listado de alertas (no leídas primero).
type AlertListResponse struct {
	Items  []AlertResponse `json:"items"`
	Unread int             `json:"unread"`
}

// EvaluateAlertsResponse resultado de una pasada de evaluación.
type EvaluateAlertsResponse struct {
	Created int `json:"created"`
}

// MarkAllReadResponse cuántas alertas pasaron a leídas.
type MarkAllReadResponse struct {
	Affected int64 `json:"affected"`
}
