package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC    *usecase.CategoryUseCase
	ProductUC     *usecase.ProductUseCase
	StockUC       *inventory.StockUseCase
	MovementQuery *inventory.MovementQueryUseCase
	AlertEngine   *alert.Engine
	ReportUC      *report.ReportUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Stock movements (ledger)
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.StockUC, deps.MovementQuery)
	movements.Get("/", movementHandler.List)
	movements.Post("/in", movementHandler.RegisterIn)
	movements.Post("/out", movementHandler.RegisterOut)

	// Alerts
	alerts := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertEngine)
	alerts.Get("/", alertHandler.List)
	alerts.Post("/evaluate", alertHandler.Evaluate)
	alerts.Post("/read-all", alertHandler.MarkAllRead)
	alerts.Post("/:id/read", alertHandler.MarkRead)

	// Reports y dashboard
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := api.Group("/reports")
	reports.Get("/valuation", reportHandler.Valuation)
	reports.Get("/movements", reportHandler.MovementSummary)
	reports.Get("/top-products", reportHandler.TopProducts)
	api.Get("/stock", reportHandler.Snapshot)
	api.Get("/dashboard", reportHandler.Dashboard)
}
