package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/inventory-api/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of
// ProductRepository and StockStore. Row locking is modelled with one mutex
// per product id, so adjustments against the same product serialize exactly
// like SELECT ... FOR UPDATE while different products proceed in parallel.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[int]models.Product
	rowLocks map[int]*sync.Mutex
	nextID   int
}

func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[int]models.Product),
		rowLocks: make(map[int]*sync.Mutex),
		nextID:   1,
	}
}

func (r *InMemoryProductRepository) Create(_ context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.products {
		if existing.Name == p.Name && existing.Description == p.Description {
			return models.Product{}, ErrProductExists
		}
	}

	now := time.Now().UTC()
	p.ID = r.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	r.nextID++
	r.products[p.ID] = p
	return p, nil
}

func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(models.Product) bool { return true }), nil
}

func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *InMemoryProductRepository) Update(_ context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[p.ID]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	for id, existing := range r.products {
		if id != p.ID && existing.Name == p.Name && existing.Description == p.Description {
			return models.Product{}, ErrProductExists
		}
	}
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	r.products[p.ID] = p
	return p, nil
}

func (r *InMemoryProductRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *InMemoryProductRepository) GetLowStock(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(models.Product.LowStock), nil
}

// Clear removes all products. Test helper.
func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = make(map[int]models.Product)
	r.rowLocks = make(map[int]*sync.Mutex)
	r.nextID = 1
}

// RunInTx runs fn with transaction semantics: writes are staged and applied
// only on commit, and every row lock taken by GetForUpdate is released when
// fn returns.
func (r *InMemoryProductRepository) RunInTx(_ context.Context, fn func(tx StockTx) error) error {
	tx := &memoryStockTx{repo: r, staged: make(map[int]int)}
	defer tx.unlockAll()

	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type memoryStockTx struct {
	repo   *InMemoryProductRepository
	held   []*sync.Mutex
	staged map[int]int // product id -> new quantity
}

func (t *memoryStockTx) GetForUpdate(_ context.Context, id int) (models.Product, error) {
	lock := t.repo.rowLock(id)
	lock.Lock()
	t.held = append(t.held, lock)

	// The product may have been deleted while waiting on the lock.
	t.repo.mu.RLock()
	p, ok := t.repo.products[id]
	t.repo.mu.RUnlock()
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (t *memoryStockTx) SetQuantity(_ context.Context, id, quantity int) error {
	t.staged[id] = quantity
	return nil
}

func (t *memoryStockTx) commit() {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	now := time.Now().UTC()
	for id, qty := range t.staged {
		p, ok := t.repo.products[id]
		if !ok {
			continue
		}
		p.StockQuantity = qty
		p.UpdatedAt = now
		t.repo.products[id] = p
	}
}

func (t *memoryStockTx) unlockAll() {
	for _, lock := range t.held {
		lock.Unlock()
	}
	t.held = nil
}

func (r *InMemoryProductRepository) rowLock(id int) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.rowLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		r.rowLocks[id] = lock
	}
	return lock
}

func (r *InMemoryProductRepository) sorted(keep func(models.Product) bool) []models.Product {
	products := []models.Product{}
	for id := 1; id < r.nextID; id++ {
		if p, ok := r.products[id]; ok && keep(p) {
			products = append(products, p)
		}
	}
	return products
}
