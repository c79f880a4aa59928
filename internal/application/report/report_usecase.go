// Package report contiene el agregador de reportes: vistas derivadas de solo
// lectura sobre catálogo y ledger (valorización, movimientos por período,
// productos más movidos, snapshot de stock y dashboard).
package report

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const (
	defaultTopProducts = 10
	maxTopProducts     = 100
)

// ReportUseCase casos de uso de reportes. Sin estado propio: delega todo en
// el repositorio de reportes.
type ReportUseCase struct {
	reportRepo repository.ReportRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reportRepo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{reportRepo: reportRepo}
}

// Valuation devuelve la valorización del stock activo usando la cantidad
// cacheada de cada producto (coincide con lo último commiteado por el mutador).
func (uc *ReportUseCase) Valuation(ctx context.Context) (*dto.ValuationDTO, error) {
	v, err := uc.reportRepo.Valuation(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ValuationDTO{
		TotalValue:       v.TotalValue,
		ActiveProducts:   v.ActiveProducts,
		LowStockProducts: v.LowStockProducts,
	}, nil
}

// MovementSummary agrupa movimientos por (tipo, motivo) en la ventana dada.
// ErrInvalidInput si to es anterior a from.
func (uc *ReportUseCase) MovementSummary(ctx context.Context, from, to time.Time) (*dto.MovementSummaryDTO, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.reportRepo.MovementSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := &dto.MovementSummaryDTO{From: from, To: to, Rows: make([]dto.MovementSummaryRowDTO, 0, len(rows))}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.MovementSummaryRowDTO{
			Type:          r.Type,
			Reason:        r.Reason,
			Movements:     r.Movements,
			TotalQuantity: r.TotalQuantity,
		})
	}
	return out, nil
}

// TopProducts devuelve los productos con más movimientos en la ventana,
// ordenados por total descendente con desempate estable por id de producto.
func (uc *ReportUseCase) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]dto.TopProductDTO, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultTopProducts
	}
	if limit > maxTopProducts {
		limit = maxTopProducts
	}
	rows, err := uc.reportRepo.TopProducts(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductDTO{
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			InQuantity:     r.InQuantity,
			OutQuantity:    r.OutQuantity,
			TotalMovements: r.TotalMovements,
		})
	}
	return out, nil
}

// Snapshot devuelve todos los productos activos con su flag de stock bajo,
// pensado para polling programático de consumidores externos.
func (uc *ReportUseCase) Snapshot(ctx context.Context) ([]dto.StockSnapshotDTO, error) {
	rows, err := uc.reportRepo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockSnapshotDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockSnapshotDTO{
			ProductID:       r.ProductID,
			Name:            r.Name,
			Barcode:         r.Barcode,
			Category:        r.CategoryName,
			CurrentQuantity: r.CurrentQuantity,
			MinQuantity:     r.MinQuantity,
			CostPrice:       r.CostPrice,
			TotalValue:      r.TotalValue,
			LowStock:        r.LowStock,
		})
	}
	return out, nil
}

// DashboardSummary arma las estadísticas de la pantalla principal.
//
// Tres consultas en paralelo: valorización, conteos (categorías + alertas no
// leídas) y movimientos recientes.
func (uc *ReportUseCase) DashboardSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type valuationResult struct {
		v   *repository.ValuationResult
		err error
	}
	type countsResult struct {
		categories int64
		unread     int64
		err        error
	}
	type recentResult struct {
		rows []*repository.RecentMovementRow
		err  error
	}

	valCh := make(chan valuationResult, 1)
	countsCh := make(chan countsResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		v, err := uc.reportRepo.Valuation(ctx)
		valCh <- valuationResult{v, err}
	}()
	go func() {
		categories, err := uc.reportRepo.CountCategories(ctx)
		if err != nil {
			countsCh <- countsResult{err: err}
			return
		}
		unread, err := uc.reportRepo.CountUnreadAlerts(ctx)
		countsCh <- countsResult{categories: categories, unread: unread, err: err}
	}()
	go func() {
		rows, err := uc.reportRepo.RecentMovements(ctx, 10)
		recentCh <- recentResult{rows, err}
	}()

	val := <-valCh
	counts := <-countsCh
	recent := <-recentCh
	if val.err != nil {
		return nil, val.err
	}
	if counts.err != nil {
		return nil, counts.err
	}
	if recent.err != nil {
		return nil, recent.err
	}

	movements := make([]dto.RecentMovementDTO, 0, len(recent.rows))
	for _, r := range recent.rows {
		movements = append(movements, dto.RecentMovementDTO{
			ID:          r.Movement.ID,
			ProductID:   r.Movement.ProductID,
			ProductName: r.ProductName,
			Type:        r.Movement.Type,
			Quantity:    r.Movement.Quantity,
			Reason:      r.Movement.Reason,
			CreatedAt:   r.Movement.CreatedAt,
		})
	}
	return &dto.DashboardSummaryDTO{
		ActiveProducts:  val.v.ActiveProducts,
		Categories:      counts.categories,
		StockValue:      val.v.TotalValue,
		LowStock:        val.v.LowStockProducts,
		UnreadAlerts:    counts.unread,
		RecentMovements: movements,
	}, nil
}
