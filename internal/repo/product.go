package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/inventory-api/internal/models"
)

// ErrProductNotFound is returned when a product is not found in the store.
var ErrProductNotFound = errors.New("product not found")

// ErrProductExists is returned when a create would duplicate an existing
// (name, description) pair.
var ErrProductExists = errors.New("product already exists with same name and description")

// ErrStoreUnavailable is returned when the store cannot be reached or a row
// lock could not be acquired in time. Callers may retry.
var ErrStoreUnavailable = errors.New("store unavailable")

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, p models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	Update(ctx context.Context, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id int) error
	GetLowStock(ctx context.Context) ([]models.Product, error)
}

// StockTx is the view of the product store inside an open transaction.
// GetForUpdate holds an exclusive row lock on the product until the
// transaction ends; SetQuantity must run on the same transaction.
type StockTx interface {
	GetForUpdate(ctx context.Context, id int) (models.Product, error)
	SetQuantity(ctx context.Context, id, quantity int) error
}

// StockStore runs callbacks inside a transaction. The transaction is
// committed when fn returns nil and rolled back otherwise; all row locks are
// released either way.
type StockStore interface {
	RunInTx(ctx context.Context, fn func(tx StockTx) error) error
}
