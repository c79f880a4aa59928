package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/report"
)

// defaultWindowDays ventana por defecto de los reportes de movimientos.
const defaultWindowDays = 30

// ReportHandler maneja las peticiones HTTP de reportes y dashboard.
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Valuation godoc
// @Summary      Valorización del stock activo
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.ValuationDTO
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.uc.Valuation(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MovementSummary godoc
// @Summary      Resumen de movimientos por tipo y motivo
// @Tags         reports
// @Produce      json
// @Param        days  query  int  false  "Días hacia atrás"  default(30)
// @Success      200   {object}  dto.MovementSummaryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) MovementSummary(c *fiber.Ctx) error {
	from, to := windowFromDays(c.QueryInt("days", defaultWindowDays))
	out, err := h.uc.MovementSummary(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos con más movimientos del período
// @Tags         reports
// @Produce      json
// @Param        days   query  int  false  "Días hacia atrás"  default(30)
// @Param        limit  query  int  false  "Cantidad de productos"  default(10)
// @Success      200    {array}   dto.TopProductDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	from, to := windowFromDays(c.QueryInt("days", defaultWindowDays))
	out, err := h.uc.TopProducts(c.Context(), from, to, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Snapshot godoc
// @Summary      Snapshot del stock actual
// @Description  Una fila por producto activo con cantidad, umbral, valorización
//	y el flag low_stock. Para consumo programático.
// @Tags         reports
// @Produce      json
// @Success      200  {array}  dto.StockSnapshotDTO
// @Router       /api/stock [get]
func (h *ReportHandler) Snapshot(c *fiber.Ctx) error {
	out, err := h.uc.Snapshot(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Estadísticas generales
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.DashboardSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func windowFromDays(days int) (time.Time, time.Time) {
	if days <= 0 {
		days = defaultWindowDays
	}
	now := time.Now()
	return now.AddDate(0, 0, -days), now
}
