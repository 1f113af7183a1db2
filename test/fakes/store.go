// test/fakes/store.go

// Package fakes holds in-memory implementations of the persistence ports
// for unit and property tests.
package fakes

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

type txKey struct{}

// Store keeps warehouses and items in memory. Transactions are serialized
// and roll back to a snapshot when fn fails or panics, which matches the
// row-locking behaviour of the Postgres adapter closely enough for tests.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	warehouses map[uuid.UUID]domain.Warehouse
	items      map[uuid.UUID]domain.InventoryItem

	// FailItemCreate, when set, is returned by the next item Create call.
	FailItemCreate error
}

var (
	_ ports.WarehouseRepository = (*WarehouseRepo)(nil)
	_ ports.InventoryRepository = (*InventoryRepo)(nil)
	_ ports.Transactor          = (*Store)(nil)
)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		warehouses: make(map[uuid.UUID]domain.Warehouse),
		items:      make(map[uuid.UUID]domain.InventoryItem),
	}
}

// Warehouses returns the warehouse repository view of the store
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s: s} }

// Items returns the inventory repository view of the store
func (s *Store) Items() *InventoryRepo { return &InventoryRepo{s: s} }

// WithinTransaction implements ports.Transactor
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	whs, items := s.snapshot()
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(whs, items)
			panic(p)
		}
		if err != nil {
			s.restore(whs, items)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}

func (s *Store) snapshot() (map[uuid.UUID]domain.Warehouse, map[uuid.UUID]domain.InventoryItem) {
	whs := make(map[uuid.UUID]domain.Warehouse, len(s.warehouses))
	for k, v := range s.warehouses {
		whs[k] = v
	}
	items := make(map[uuid.UUID]domain.InventoryItem, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	return whs, items
}

func (s *Store) restore(whs map[uuid.UUID]domain.Warehouse, items map[uuid.UUID]domain.InventoryItem) {
	s.mu.Lock()
	s.warehouses = whs
	s.items = items
	s.mu.Unlock()
}

// PutWarehouse stores w as-is, including its counters
func (s *Store) PutWarehouse(w domain.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[w.ID] = w
}

// PutItem stores item as-is without touching capacity
func (s *Store) PutItem(item domain.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// Warehouse returns a copy of the stored warehouse
func (s *Store) Warehouse(id uuid.UUID) (domain.Warehouse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.warehouses[id]
	return w, ok
}

// Item returns a copy of the stored item
func (s *Store) Item(id uuid.UUID) (domain.InventoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	return item, ok
}

// ItemsIn returns copies of the items stored in warehouseID ordered by SKU
func (s *Store) ItemsIn(warehouseID uuid.UUID) []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.InventoryItem
	for _, item := range s.items {
		if item.WarehouseID == warehouseID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// QuantityIn sums the quantities stored in warehouseID
func (s *Store) QuantityIn(warehouseID uuid.UUID) int {
	total := 0
	for _, item := range s.ItemsIn(warehouseID) {
		total += item.Quantity
	}
	return total
}

// WarehouseRepo implements ports.WarehouseRepository over a Store
type WarehouseRepo struct {
	s *Store
}

func (r *WarehouseRepo) Create(_ context.Context, w *domain.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.warehouses {
		if other.Name == w.Name && other.Location == w.Location {
			return domain.NewError(domain.KindDuplicateWarehouse,
				"warehouse %q at %q already exists", w.Name, w.Location)
		}
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WarehouseRepo) List(_ context.Context) ([]*domain.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Warehouse, 0, len(r.s.warehouses))
	for _, w := range r.s.warehouses {
		w := w
		out = append(out, &w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Location < out[j].Location
	})
	return out, nil
}

func (r *WarehouseRepo) ExistsByNameLocation(_ context.Context, name, location string, excludeID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, w := range r.s.warehouses {
		if id != excludeID && w.Name == name && w.Location == location {
			return true, nil
		}
	}
	return false, nil
}

func (r *WarehouseRepo) LockForUpdate(_ context.Context, ids ...uuid.UUID) ([]*domain.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Warehouse
	for _, id := range ids {
		if w, ok := r.s.warehouses[id]; ok {
			out = append(out, &w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *WarehouseRepo) UpdateDetails(_ context.Context, w *domain.Warehouse) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.warehouses[w.ID]
	if !ok || current.CurrentCapacity > w.MaxCapacity {
		return false, nil
	}
	current.Name = w.Name
	current.Location = w.Location
	current.MaxCapacity = w.MaxCapacity
	current.Manager = w.Manager
	current.Notes = w.Notes
	current.UpdatedAt = time.Now().UTC()
	r.s.warehouses[w.ID] = current
	*w = current
	return true, nil
}

func (r *WarehouseRepo) DeleteIfEmpty(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.warehouses[id]
	if !ok || w.CurrentCapacity != 0 {
		return false, nil
	}
	for _, item := range r.s.items {
		if item.WarehouseID == id {
			return false, nil
		}
	}
	delete(r.s.warehouses, id)
	return true, nil
}

func (r *WarehouseRepo) AdjustCapacity(_ context.Context, id uuid.UUID, delta int) (*domain.CapacityChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	change := &domain.CapacityChange{WarehouseID: id, Name: w.Name, Current: w.CurrentCapacity, Max: w.MaxCapacity}
	next := w.CurrentCapacity + delta
	if next < 0 || next > w.MaxCapacity {
		return change, nil
	}
	w.CurrentCapacity = next
	w.UpdatedAt = time.Now().UTC()
	r.s.warehouses[id] = w
	change.Current = next
	change.Applied = true
	return change, nil
}

func (r *WarehouseRepo) NextInventorySequence(_ context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	w.InventoryCounter++
	r.s.warehouses[id] = w
	return &w, nil
}

// InventoryRepo implements ports.InventoryRepository over a Store
type InventoryRepo struct {
	s *Store
}

func (r *InventoryRepo) Create(_ context.Context, item *domain.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailItemCreate; err != nil {
		r.s.FailItemCreate = nil
		return err
	}
	if _, ok := r.s.warehouses[item.WarehouseID]; !ok {
		return domain.NotFound("warehouse", item.WarehouseID)
	}
	if r.skuTaken(item.WarehouseID, item.SKU, item.ID) {
		return domain.DuplicateSKU(item.SKU)
	}
	r.s.items[item.ID] = *item
	return nil
}

func (r *InventoryRepo) Update(_ context.Context, item *domain.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.NotFound("inventory item", item.ID)
	}
	if r.skuTaken(item.WarehouseID, item.SKU, item.ID) {
		return domain.DuplicateSKU(item.SKU)
	}
	item.UpdatedAt = time.Now().UTC()
	r.s.items[item.ID] = *item
	return nil
}

func (r *InventoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return domain.NotFound("inventory item", id)
	}
	delete(r.s.items, id)
	return nil
}

func (r *InventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *InventoryRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	return r.FindByID(ctx, id)
}

func (r *InventoryRepo) ExistsBySKU(_ context.Context, warehouseID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.skuTaken(warehouseID, sku, excludeID), nil
}

func (r *InventoryRepo) skuTaken(warehouseID uuid.UUID, sku string, excludeID uuid.UUID) bool {
	for id, item := range r.s.items {
		if id != excludeID && item.WarehouseID == warehouseID && item.SKU == sku {
			return true
		}
	}
	return false
}

func (r *InventoryRepo) ListByWarehouse(_ context.Context, warehouseID uuid.UUID) ([]*domain.InventoryItem, error) {
	out := []*domain.InventoryItem{}
	for _, item := range r.s.ItemsIn(warehouseID) {
		item := item
		out = append(out, &item)
	}
	return out, nil
}

func (r *InventoryRepo) List(_ context.Context, params ports.ListParams) ([]*domain.InventoryItem, int64, error) {
	r.s.mu.Lock()
	var matched []*domain.InventoryItem
	search := strings.ToLower(strings.TrimSpace(params.Search))
	for _, item := range r.s.items {
		item := item
		if params.WarehouseID != nil && item.WarehouseID != *params.WarehouseID {
			continue
		}
		if params.Category != "" && item.Category != params.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.SKU), search) &&
			!strings.Contains(strings.ToLower(item.Description), search) {
			continue
		}
		matched = append(matched, &item)
	}
	r.s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].SKU < matched[j].SKU })

	total := int64(len(matched))
	if params.PageSize > 0 {
		start := (params.Page - 1) * params.PageSize
		if start < 0 {
			start = 0
		}
		if start > len(matched) {
			start = len(matched)
		}
		end := start + params.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *InventoryRepo) TotalsByWarehouse(_ context.Context) (map[uuid.UUID]domain.InventoryTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	totals := make(map[uuid.UUID]domain.InventoryTotals)
	for _, item := range r.s.items {
		t := totals[item.WarehouseID]
		t.ItemCount++
		t.Units += int64(item.Quantity)
		totals[item.WarehouseID] = t
	}
	return totals, nil
}

// ErrInjected is a convenient error for FailItemCreate
var ErrInjected = errors.New("injected failure")
