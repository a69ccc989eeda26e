package service_test

// In-memory repository stubs shared by the service unit tests. The stub
// transaction manager serializes callers with a mutex and restores a snapshot
// on error, mirroring what the database gives us: per-product serialization
// via row locks, and rollback on failure.

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kyler004/inventory-system/internal/dto"
	"github.com/kyler004/inventory-system/internal/model"
	"github.com/kyler004/inventory-system/internal/repository"
)

// ── Transaction manager stub ─────────────────────────────────────────────────

type stubTxManager struct {
	mu        sync.Mutex
	products  *stubProductRepo
	movements *stubMovementRepo
}

var _ repository.TxManager = (*stubTxManager)(nil)

func newStubTxManager(products *stubProductRepo, movements *stubMovementRepo) *stubTxManager {
	return &stubTxManager{products: products, movements: movements}
}

func (m *stubTxManager) WithinTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	productSnap := m.products.snapshot()
	movementSnap := m.movements.snapshot()

	if err := fn(nil); err != nil {
		m.products.restore(productSnap)
		m.movements.restore(movementSnap)
		return err
	}
	return nil
}

// ── Product repository stub ──────────────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) snapshot() map[uuid.UUID]model.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]model.Product, len(r.products))
	for id, p := range r.products {
		snap[id] = *p
	}
	return snap
}

func (r *stubProductRepo) restore(snap map[uuid.UUID]model.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = make(map[uuid.UUID]*model.Product, len(snap))
	for id, p := range snap {
		cp := p
		r.products[id] = &cp
	}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sku = strings.ToUpper(strings.TrimSpace(sku))
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.CurrentStock <= p.MinimumStock {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) CountBySupplier(_ context.Context, supplierID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.products {
		if p.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	// Callers already hold the stub transaction mutex.
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CurrentStock = stock
	return nil
}

// ── Movement repository stub ─────────────────────────────────────────────────

type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.Movement
	failNext  error // next CreateTx returns this, then resets
}

var _ repository.MovementRepository = (*stubMovementRepo)(nil)

func newStubMovementRepo() *stubMovementRepo {
	return &stubMovementRepo{}
}

func (r *stubMovementRepo) snapshot() []model.Movement {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make([]model.Movement, len(r.movements))
	copy(snap, r.movements)
	return snap
}

func (r *stubMovementRepo) restore(snap []model.Movement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = snap
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, limit int) ([]model.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Movement
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *stubMovementRepo) List(_ context.Context, f dto.MovementFilter) ([]model.Movement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Movement
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if f.ProductID != "" && m.ProductID.String() != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) CountByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

// all returns movements for one product in append (commit) order.
func (r *stubMovementRepo) all(productID uuid.UUID) []model.Movement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Movement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

// ── Supplier repository stub ─────────────────────────────────────────────────

type stubSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]*model.Supplier
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *stubSupplierRepo) FindByName(_ context.Context, name string) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.suppliers {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubSupplierRepo) List(_ context.Context, _ string, _, _ int) ([]model.Supplier, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.suppliers, id)
	return nil
}
