// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria, con el mismo contrato transaccional que el adaptador PostgreSQL.
// Se usa en los tests de aplicación para correr sin base de datos.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)
var _ alert.TxRunner = (*Store)(nil)
var _ repository.CategoryRepository = (*categoryStore)(nil)
var _ repository.ProductRepository = (*productStore)(nil)
var _ repository.StockMovementRepository = (*movementStore)(nil)
var _ repository.AlertRepository = (*alertStore)(nil)

// Store guarda el estado completo bajo un mutex. Run toma el lock por toda la
// transacción, de modo que los mutadores quedan serializados igual que con el
// row lock de PostgreSQL; en caso de error se restaura el snapshot previo
// (equivalente al Rollback).
type Store struct {
	mu sync.Mutex
	d  *data
}

type data struct {
	categories map[string]entity.Category
	products   map[string]entity.Product
	movements  []entity.StockMovement
	alerts     []entity.Alert
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{d: &data{
		categories: make(map[string]entity.Category),
		products:   make(map[string]entity.Product),
	}}
}

// Categories devuelve la vista CategoryRepository del store.
func (s *Store) Categories() repository.CategoryRepository { return &categoryStore{s} }

// Products devuelve la vista ProductRepository del store.
func (s *Store) Products() repository.ProductRepository { return &productStore{s} }

// Movements devuelve la vista StockMovementRepository del store.
func (s *Store) Movements() repository.StockMovementRepository { return &movementStore{s} }

// Alerts devuelve la vista AlertRepository del store.
func (s *Store) Alerts() repository.AlertRepository { return &alertStore{s} }

// Run ejecuta fn con vistas atadas al estado bajo lock. Si fn devuelve error
// se restaura el snapshot: todo o nada, como la transacción real.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.d.clone()
	if err := fn(&txProducts{s.d}, &txMovements{s.d}, &txAlerts{s.d}); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

func (d *data) clone() *data {
	c := &data{
		categories: make(map[string]entity.Category, len(d.categories)),
		products:   make(map[string]entity.Product, len(d.products)),
		movements:  append([]entity.StockMovement(nil), d.movements...),
		alerts:     append([]entity.Alert(nil), d.alerts...),
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	return c
}

// ── vistas con lock por llamada (equivalente a repos sobre el pool) ──────────

type categoryStore struct{ s *Store }

func (r *categoryStore) Create(c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.createCategory(c)
}

func (r *categoryStore) GetByID(id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.categoryByID(id)
}

func (r *categoryStore) GetByName(name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.categoryByName(name)
}

func (r *categoryStore) Update(c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.updateCategory(c)
}

func (r *categoryStore) List() ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.listCategories()
}

type productStore struct{ s *Store }

func (r *productStore) Create(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.createProduct(p)
}

func (r *productStore) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.productByID(id)
}

func (r *productStore) GetByBarcode(barcode string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.productByBarcode(barcode)
}

func (r *productStore) GetForUpdate(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.productByID(id)
}

func (r *productStore) Update(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.updateProduct(p)
}

func (r *productStore) UpdateQuantity(id string, quantity int64, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.updateQuantity(id, quantity, updatedAt)
}

func (r *productStore) ListActive() ([]*repository.ProductWithCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.listActiveProducts()
}

func (r *productStore) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.deleteProduct(id)
}

func (r *productStore) Deactivate(id string, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.deactivateProduct(id, updatedAt)
}

type movementStore struct{ s *Store }

func (r *movementStore) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.createMovement(m)
}

func (r *movementStore) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.listMovements(productID, from, to, limit, offset)
}

func (r *movementStore) List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.listMovements("", from, to, limit, offset)
}

func (r *movementStore) CountByProduct(productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.countMovements(productID), nil
}

func (r *movementStore) NetQuantity(productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.netQuantity(productID), nil
}

type alertStore struct{ s *Store }

func (r *alertStore) Create(a *entity.Alert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.createAlert(a)
}

func (r *alertStore) GetByID(id string) (*entity.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.alertByID(id)
}

func (r *alertStore) ExistsUnread(productID, kind string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.existsUnread(productID, kind), nil
}

func (r *alertStore) List() ([]*repository.AlertWithProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.listAlerts()
}

func (r *alertStore) MarkRead(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.markRead(id)
}

func (r *alertStore) MarkAllRead() (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.markAllRead(), nil
}

// ── vistas transaccionales (sin lock: lo sostiene Run) ───────────────────────

type txProducts struct{ d *data }

func (v *txProducts) Create(p *entity.Product) error { return v.d.createProduct(p) }
func (v *txProducts) GetByID(id string) (*entity.Product, error) { return v.d.productByID(id) }
func (v *txProducts) GetByBarcode(b string) (*entity.Product, error) {
	return v.d.productByBarcode(b)
}
func (v *txProducts) GetForUpdate(id string) (*entity.Product, error) { return v.d.productByID(id) }
func (v *txProducts) Update(p *entity.Product) error { return v.d.updateProduct(p) }
func (v *txProducts) UpdateQuantity(id string, q int64, t time.Time) error {
	return v.d.updateQuantity(id, q, t)
}
func (v *txProducts) ListActive() ([]*repository.ProductWithCategory, error) {
	return v.d.listActiveProducts()
}
func (v *txProducts) Delete(id string) error { return v.d.deleteProduct(id) }
func (v *txProducts) Deactivate(id string, t time.Time) error { return v.d.deactivateProduct(id, t) }

type txMovements struct{ d *data }

func (v *txMovements) Create(m *entity.StockMovement) error { return v.d.createMovement(m) }
func (v *txMovements) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return v.d.listMovements(productID, from, to, limit, offset)
}
func (v *txMovements) List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return v.d.listMovements("", from, to, limit, offset)
}
func (v *txMovements) CountByProduct(productID string) (int64, error) {
	return v.d.countMovements(productID), nil
}
func (v *txMovements) NetQuantity(productID string) (int64, error) {
	return v.d.netQuantity(productID), nil
}

type txAlerts struct{ d *data }

func (v *txAlerts) Create(a *entity.Alert) error { return v.d.createAlert(a) }
func (v *txAlerts) GetByID(id string) (*entity.Alert, error) { return v.d.alertByID(id) }
func (v *txAlerts) ExistsUnread(productID, kind string) (bool, error) {
	return v.d.existsUnread(productID, kind), nil
}
func (v *txAlerts) List() ([]*repository.AlertWithProduct, error) { return v.d.listAlerts() }
func (v *txAlerts) MarkRead(id string) error { return v.d.markRead(id) }
func (v *txAlerts) MarkAllRead() (int64, error) { return v.d.markAllRead(), nil }

// ── operaciones sobre data ───────────────────────────────────────────────────

func (d *data) createCategory(c *entity.Category) error {
	for _, existing := range d.categories {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	d.categories[c.ID] = *c
	return nil
}

func (d *data) categoryByID(id string) (*entity.Category, error) {
	if c, ok := d.categories[id]; ok {
		out := c
		return &out, nil
	}
	return nil, nil
}

func (d *data) categoryByName(name string) (*entity.Category, error) {
	for _, c := range d.categories {
		if c.Name == name {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (d *data) updateCategory(c *entity.Category) error {
	if _, ok := d.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range d.categories {
		if id != c.ID && existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	d.categories[c.ID] = *c
	return nil
}

func (d *data) listCategories() ([]*entity.Category, error) {
	list := make([]*entity.Category, 0, len(d.categories))
	for _, c := range d.categories {
		out := c
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (d *data) createProduct(p *entity.Product) error {
	if p.Barcode != "" {
		for _, existing := range d.products {
			if existing.Barcode == p.Barcode {
				return domain.ErrDuplicate
			}
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	d.products[p.ID] = *p
	return nil
}

func (d *data) productByID(id string) (*entity.Product, error) {
	if p, ok := d.products[id]; ok {
		out := p
		return &out, nil
	}
	return nil, nil
}

func (d *data) productByBarcode(barcode string) (*entity.Product, error) {
	for _, p := range d.products {
		if p.Barcode != "" && p.Barcode == barcode {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (d *data) updateProduct(p *entity.Product) error {
	if _, ok := d.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if p.Barcode != "" {
		for id, existing := range d.products {
			if id != p.ID && existing.Barcode == p.Barcode {
				return domain.ErrDuplicate
			}
		}
	}
	d.products[p.ID] = *p
	return nil
}

func (d *data) updateQuantity(id string, quantity int64, updatedAt time.Time) error {
	p, ok := d.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentQuantity = quantity
	p.UpdatedAt = updatedAt
	d.products[id] = p
	return nil
}

func (d *data) listActiveProducts() ([]*repository.ProductWithCategory, error) {
	var list []*repository.ProductWithCategory
	for _, p := range d.products {
		if !p.Active {
			continue
		}
		row := &repository.ProductWithCategory{Product: p}
		if c, ok := d.categories[p.CategoryID]; ok {
			row.CategoryName = c.Name
		}
		list = append(list, row)
	}
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].Product.Name) < strings.ToLower(list[j].Product.Name)
	})
	return list, nil
}

func (d *data) deleteProduct(id string) error {
	delete(d.products, id)
	return nil
}

func (d *data) deactivateProduct(id string, updatedAt time.Time) error {
	p, ok := d.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Active = false
	p.UpdatedAt = updatedAt
	d.products[id] = p
	return nil
}

func (d *data) createMovement(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	d.movements = append(d.movements, *m)
	return nil
}

func (d *data) listMovements(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var filtered []entity.StockMovement
	for _, m := range d.movements {
		if productID != "" && m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		filtered = append(filtered, m)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	out := make([]*entity.StockMovement, 0, len(filtered))
	for i := range filtered {
		m := filtered[i]
		out = append(out, &m)
	}
	return out, nil
}

func (d *data) countMovements(productID string) int64 {
	var count int64
	for _, m := range d.movements {
		if m.ProductID == productID {
			count++
		}
	}
	return count
}

func (d *data) netQuantity(productID string) int64 {
	var net int64
	for _, m := range d.movements {
		if m.ProductID != productID {
			continue
		}
		if m.Type == entity.MovementTypeIn {
			net += m.Quantity
		} else {
			net -= m.Quantity
		}
	}
	return net
}

func (d *data) createAlert(a *entity.Alert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	d.alerts = append(d.alerts, *a)
	return nil
}

func (d *data) alertByID(id string) (*entity.Alert, error) {
	for _, a := range d.alerts {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (d *data) existsUnread(productID, kind string) bool {
	for _, a := range d.alerts {
		if a.ProductID == productID && a.Kind == kind && !a.Read {
			return true
		}
	}
	return false
}

func (d *data) listAlerts() ([]*repository.AlertWithProduct, error) {
	list := make([]*repository.AlertWithProduct, 0, len(d.alerts))
	for _, a := range d.alerts {
		row := &repository.AlertWithProduct{Alert: a}
		if p, ok := d.products[a.ProductID]; ok {
			row.ProductName = p.Name
			row.Barcode = p.Barcode
		}
		list = append(list, row)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Alert.Read != list[j].Alert.Read {
			return !list[i].Alert.Read
		}
		return list[i].Alert.CreatedAt.After(list[j].Alert.CreatedAt)
	})
	return list, nil
}

func (d *data) markRead(id string) error {
	for i := range d.alerts {
		if d.alerts[i].ID == id {
			d.alerts[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (d *data) markAllRead() int64 {
	var affected int64
	for i := range d.alerts {
		if !d.alerts[i].Read {
			d.alerts[i].Read = true
			affected++
		}
	}
	return affected
}
