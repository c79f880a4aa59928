package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// AlertHandler maneja las peticiones HTTP del motor de alertas.
type AlertHandler struct {
	engine *alert.Engine
}

// NewAlertHandler construye el handler.
func NewAlertHandler(engine *alert.Engine) *AlertHandler {
	return &AlertHandler{engine: engine}
}

// List godoc
// @Summary      Listar alertas
// @Description  Corre una pasada de evaluación antes de listar, así la vista
//	siempre refleja el stock actual. No leídas primero.
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  dto.AlertListResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	if _, err := h.engine.EvaluateAndGenerate(c.Context()); err != nil {
		return respondError(c, err)
	}
	out, err := h.engine.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Evaluate godoc
// @Summary      Evaluar umbrales y generar alertas
// @Description  Pasada explícita: una alerta nueva por cada producto activo que
//	cruce su umbral y no tenga ya una alerta no leída del mismo tipo.
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  dto.EvaluateAlertsResponse
// @Router       /api/alerts/evaluate [post]
func (h *AlertHandler) Evaluate(c *fiber.Ctx) error {
	created, err := h.engine.EvaluateAndGenerate(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.EvaluateAlertsResponse{Created: created})
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         alerts
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/read [post]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.engine.MarkRead(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "alerta marcada como leída"})
}

// MarkAllRead godoc
// @Summary      Marcar todas las alertas como leídas
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  dto.MarkAllReadResponse
// @Router       /api/alerts/read-all [post]
func (h *AlertHandler) MarkAllRead(c *fiber.Ctx) error {
	affected, err := h.engine.MarkAllRead()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MarkAllReadResponse{Affected: affected})
}
