package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*reportStore)(nil)

// Reports devuelve la vista ReportRepository del store.
func (s *Store) Reports() repository.ReportRepository { return &reportStore{s} }

type reportStore struct{ s *Store }

func (r *reportStore) Valuation(ctx context.Context) (*repository.ValuationResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := &repository.ValuationResult{TotalValue: decimal.Zero}
	for _, p := range r.s.d.products {
		if !p.Active {
			continue
		}
		out.ActiveProducts++
		out.TotalValue = out.TotalValue.Add(p.CostPrice.Mul(decimal.NewFromInt(p.CurrentQuantity)))
		if p.CurrentQuantity <= p.MinQuantity {
			out.LowStockProducts++
		}
	}
	return out, nil
}

func (r *reportStore) MovementSummary(ctx context.Context, from, to time.Time) ([]*repository.MovementSummaryRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	type key struct{ typ, reason string }
	agg := make(map[key]*repository.MovementSummaryRow)
	for _, m := range r.s.d.movements {
		if m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
			continue
		}
		k := key{m.Type, m.Reason}
		row, ok := agg[k]
		if !ok {
			row = &repository.MovementSummaryRow{Type: m.Type, Reason: m.Reason}
			agg[k] = row
		}
		row.Movements++
		row.TotalQuantity += m.Quantity
	}
	rows := make([]*repository.MovementSummaryRow, 0, len(agg))
	for _, row := range agg {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Type != rows[j].Type {
			return rows[i].Type < rows[j].Type
		}
		return rows[i].Reason < rows[j].Reason
	})
	return rows, nil
}

func (r *reportStore) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*repository.TopProductRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	agg := make(map[string]*repository.TopProductRow)
	for _, m := range r.s.d.movements {
		if m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
			continue
		}
		row, ok := agg[m.ProductID]
		if !ok {
			row = &repository.TopProductRow{ProductID: m.ProductID}
			if p, found := r.s.d.products[m.ProductID]; found {
				row.ProductName = p.Name
			}
			agg[m.ProductID] = row
		}
		switch m.Type {
		case entity.MovementTypeIn:
			row.InQuantity += m.Quantity
		default:
			row.OutQuantity += m.Quantity
		}
		row.TotalMovements++
	}
	rows := make([]*repository.TopProductRow, 0, len(agg))
	for _, row := range agg {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalMovements != rows[j].TotalMovements {
			return rows[i].TotalMovements > rows[j].TotalMovements
		}
		return rows[i].ProductID < rows[j].ProductID
	})
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *reportStore) Snapshot(ctx context.Context) ([]*repository.StockSnapshotRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []*repository.StockSnapshotRow
	for _, p := range r.s.d.products {
		if !p.Active {
			continue
		}
		row := &repository.StockSnapshotRow{
			ProductID:       p.ID,
			Name:            p.Name,
			Barcode:         p.Barcode,
			CurrentQuantity: p.CurrentQuantity,
			MinQuantity:     p.MinQuantity,
			CostPrice:       p.CostPrice,
			TotalValue:      p.CostPrice.Mul(decimal.NewFromInt(p.CurrentQuantity)),
			LowStock:        p.CurrentQuantity <= p.MinQuantity,
		}
		if c, ok := r.s.d.categories[p.CategoryID]; ok {
			row.CategoryName = c.Name
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	return rows, nil
}

func (r *reportStore) CountCategories(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.d.categories)), nil
}

func (r *reportStore) CountUnreadAlerts(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, a := range r.s.d.alerts {
		if !a.Read {
			count++
		}
	}
	return count, nil
}

func (r *reportStore) RecentMovements(ctx context.Context, limit int) ([]*repository.RecentMovementRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	idx := make([]int, len(r.s.d.movements))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return r.s.d.movements[idx[i]].CreatedAt.After(r.s.d.movements[idx[j]].CreatedAt)
	})
	if limit > 0 && limit < len(idx) {
		idx = idx[:limit]
	}
	rows := make([]*repository.RecentMovementRow, 0, len(idx))
	for _, i := range idx {
		m := r.s.d.movements[i]
		row := &repository.RecentMovementRow{Movement: m}
		if p, ok := r.s.d.products[m.ProductID]; ok {
			row.ProductName = p.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}
