// Package stock implements the stock adjustment engine: atomic, row-locked
// increase and decrease operations against the product store.
package stock

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/rogerio-castellano/inventory-api/internal/alert"
	"github.com/rogerio-castellano/inventory-api/internal/models"
	"github.com/rogerio-castellano/inventory-api/internal/repo"
)

// ErrInvalidAmount is returned when an adjustment amount is not a positive
// integer. Checked before any transaction opens, so malformed requests never
// take a row lock.
var ErrInvalidAmount = errors.New("amount must be a positive integer")

// ErrInsufficientStock is returned when a decrease exceeds the on-hand
// quantity. The transaction is rolled back and the quantity is unchanged.
var ErrInsufficientStock = errors.New("insufficient stock available")

// Engine serializes concurrent adjustments per product: each operation runs
// in its own transaction, takes an exclusive lock on the product row, and
// does a single read-modify-write under that lock. Operations on different
// products proceed fully in parallel.
type Engine struct {
	store    repo.StockStore
	notifier alert.Notifier
	log      zerolog.Logger
}

func NewEngine(store repo.StockStore, notifier alert.Notifier, log zerolog.Logger) *Engine {
	if notifier == nil {
		notifier = alert.Nop{}
	}
	return &Engine{store: store, notifier: notifier, log: log}
}

// Increase adds amount to the product's stock quantity.
func (e *Engine) Increase(ctx context.Context, productID, amount int) error {
	return e.adjust(ctx, productID, amount, func(current int) (int, error) {
		return current + amount, nil
	})
}

// Decrease removes amount from the product's stock quantity, failing with
// ErrInsufficientStock if the on-hand quantity is smaller than amount.
func (e *Engine) Decrease(ctx context.Context, productID, amount int) error {
	return e.adjust(ctx, productID, amount, func(current int) (int, error) {
		if current < amount {
			return 0, ErrInsufficientStock
		}
		return current - amount, nil
	})
}

func (e *Engine) adjust(ctx context.Context, productID, amount int, compute func(current int) (int, error)) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	var after models.Product
	err := e.store.RunInTx(ctx, func(tx repo.StockTx) error {
		p, err := tx.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		newQuantity, err := compute(p.StockQuantity)
		if err != nil {
			return err
		}
		if err := tx.SetQuantity(ctx, productID, newQuantity); err != nil {
			return err
		}
		p.StockQuantity = newQuantity
		after = p
		return nil
	})
	if err != nil {
		return err
	}

	e.log.Debug().Int("product_id", productID).Int("quantity", after.StockQuantity).Msg("stock adjusted")

	if after.LowStock() {
		e.log.Warn().
			Int("product_id", after.ID).
			Str("name", after.Name).
			Int("quantity", after.StockQuantity).
			Int("threshold", after.LowStockThreshold).
			Msg("product below low-stock threshold")
		e.notifier.Notify(ctx, alert.Event{
			ProductID: after.ID,
			Name:      after.Name,
			Quantity:  after.StockQuantity,
			Threshold: after.LowStockThreshold,
		})
	}
	return nil
}
