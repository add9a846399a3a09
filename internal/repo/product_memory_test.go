package repo_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-api/internal/models"
	"github.com/rogerio-castellano/inventory-api/internal/repo"
)

func newProduct(name, description string, qty, threshold int) models.Product {
	return models.Product{
		Name:              name,
		Description:       description,
		StockQuantity:     qty,
		LowStockThreshold: threshold,
	}
}

func TestInMemoryRepository_CreateAssignsIDAndTimestamps(t *testing.T) {
	r := repo.NewInMemoryProductRepository()

	created, err := r.Create(context.Background(), newProduct("Laptop", "14 inch ultrabook", 5, 2))
	require.NoError(t, err)

	assert.Equal(t, 1, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	second, err := r.Create(context.Background(), newProduct("Mouse", "wireless mouse", 10, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
}

func TestInMemoryRepository_DuplicateNameDescription(t *testing.T) {
	r := repo.NewInMemoryProductRepository()
	ctx := context.Background()

	_, err := r.Create(ctx, newProduct("Laptop", "14 inch ultrabook", 5, 2))
	require.NoError(t, err)

	_, err = r.Create(ctx, newProduct("Laptop", "14 inch ultrabook", 9, 1))
	assert.ErrorIs(t, err, repo.ErrProductExists)

	// Same name with a different description is a different product.
	_, err = r.Create(ctx, newProduct("Laptop", "16 inch workstation", 9, 1))
	assert.NoError(t, err)
}

func TestInMemoryRepository_GetByIDNotFound(t *testing.T) {
	r := repo.NewInMemoryProductRepository()

	_, err := r.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, repo.ErrProductNotFound)
}

func TestInMemoryRepository_UpdateAndDelete(t *testing.T) {
	r := repo.NewInMemoryProductRepository()
	ctx := context.Background()

	created, err := r.Create(ctx, newProduct("Laptop", "14 inch ultrabook", 5, 2))
	require.NoError(t, err)

	created.Name = "Laptop Pro"
	updated, err := r.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, r.Delete(ctx, created.ID))
	assert.ErrorIs(t, r.Delete(ctx, created.ID), repo.ErrProductNotFound)
}

func TestInMemoryRepository_GetLowStock(t *testing.T) {
	r := repo.NewInMemoryProductRepository()
	ctx := context.Background()

	low, err := r.Create(ctx, newProduct("Cable", "USB-C cable", 1, 5))
	require.NoError(t, err)
	_, err = r.Create(ctx, newProduct("Charger", "65W charger", 50, 5))
	require.NoError(t, err)
	// Quantity equal to the threshold is not low stock.
	_, err = r.Create(ctx, newProduct("Adapter", "HDMI adapter", 5, 5))
	require.NoError(t, err)

	products, err := r.GetLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)

	for _, p := range products {
		assert.Less(t, p.StockQuantity, p.LowStockThreshold)
	}
}

func TestInMemoryRepository_TxCommitAppliesWrites(t *testing.T) {
	r := repo.NewInMemoryProductRepository()
	ctx := context.Background()

	created, err := r.Create(ctx, newProduct("Laptop", "14 inch ultrabook", 5, 2))
	require.NoError(t, err)

	err = r.RunInTx(ctx, func(tx repo.StockTx) error {
		p, err := tx.GetForUpdate(ctx, created.ID)
		if err != nil {
			return err
		}
		return tx.SetQuantity(ctx, created.ID, p.StockQuantity+3)
	})
	require.NoError(t, err)

	p, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, p.StockQuantity)
}

func TestInMemoryRepository_TxRollbackDiscardsWrites(t *testing.T) {
	r := repo.NewInMemoryProductRepository()
	ctx := context.Background()

	created, err := r.Create(ctx, newProduct("Laptop", "14 inch ultrabook", 5, 2))
	require.NoError(t, err)

	boom := assert.AnError
	err = r.RunInTx(ctx, func(tx repo.StockTx) error {
		if _, err := tx.GetForUpdate(ctx, created.ID); err != nil {
			return err
		}
		if err := tx.SetQuantity(ctx, created.ID, 0); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockQuantity, "rolled-back write must not be visible")
}

func TestInMemoryRepository_TxNotFound(t *testing.T) {
	r := repo.NewInMemoryProductRepository()

	err := r.RunInTx(context.Background(), func(tx repo.StockTx) error {
		_, err := tx.GetForUpdate(context.Background(), 99)
		return err
	})
	assert.ErrorIs(t, err, repo.ErrProductNotFound)
}

func TestInMemoryRepository_TxReleasesLockAfterFailure(t *testing.T) {
	r := repo.NewInMemoryProductRepository()
	ctx := context.Background()

	created, err := r.Create(ctx, newProduct("Laptop", "14 inch ultrabook", 5, 2))
	require.NoError(t, err)

	_ = r.RunInTx(ctx, func(tx repo.StockTx) error {
		_, _ = tx.GetForUpdate(ctx, created.ID)
		return assert.AnError
	})

	// A second transaction on the same row must not deadlock.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.RunInTx(ctx, func(tx repo.StockTx) error {
			_, err := tx.GetForUpdate(ctx, created.ID)
			return err
		})
	}()
	<-done
}

func TestInMemoryRepository_ConcurrentTxSerialize(t *testing.T) {
	r := repo.NewInMemoryProductRepository()
	ctx := context.Background()

	created, err := r.Create(ctx, newProduct("Laptop", "14 inch ultrabook", 100, 2))
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = r.RunInTx(ctx, func(tx repo.StockTx) error {
				p, err := tx.GetForUpdate(ctx, created.ID)
				if err != nil {
					return err
				}
				return tx.SetQuantity(ctx, created.ID, p.StockQuantity+1)
			})
		}()
	}
	wg.Wait()

	p, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, p.StockQuantity, "no increment may be lost")
}
