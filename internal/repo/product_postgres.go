package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rogerio-castellano/inventory-api/internal/models"
)

const queryTimeout = 3 * time.Second

// PostgresProductRepository implements ProductRepository and StockStore on
// top of database/sql with the pgx driver.
type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO products (name, description, stock_quantity, low_stock_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Description, p.StockQuantity, p.LowStockThreshold, now, now).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Product{}, ErrProductExists
		}
		return models.Product{}, classify(err)
	}
	return p, nil
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, name, description, stock_quantity, low_stock_threshold, created_at, updated_at
		FROM products ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	query := `SELECT id, name, description, stock_quantity, low_stock_threshold, created_at, updated_at
		FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.StockQuantity, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, classify(err)
	}
	return p, nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products
		SET name = $1, description = $2, stock_quantity = $3, low_stock_threshold = $4, updated_at = $5
		WHERE id = $6
		RETURNING created_at, updated_at`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, p.Name, p.Description, p.StockQuantity, p.LowStockThreshold, time.Now().UTC(), p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return models.Product{}, ErrProductExists
		}
		return models.Product{}, classify(err)
	}
	return p, nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return classify(err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) GetLowStock(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, name, description, stock_quantity, low_stock_threshold, created_at, updated_at
		FROM products WHERE stock_quantity < low_stock_threshold ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// RunInTx runs fn inside a transaction. Row locks taken via GetForUpdate are
// held until commit or rollback.
func (r *PostgresProductRepository) RunInTx(ctx context.Context, fn func(tx StockTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	// Bound the wait for row locks so a stuck transaction surfaces as a
	// retryable failure instead of blocking the request forever.
	if _, err := tx.ExecContext(ctx, `SET LOCAL lock_timeout = '3s'`); err != nil {
		return classify(fmt.Errorf("set lock_timeout: %w", err))
	}

	if err := fn(&postgresStockTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

type postgresStockTx struct {
	tx *sql.Tx
}

// GetForUpdate reads the product and takes an exclusive row lock
// (SELECT ... FOR UPDATE) held until the transaction ends.
func (t *postgresStockTx) GetForUpdate(ctx context.Context, id int) (models.Product, error) {
	query := `SELECT id, name, description, stock_quantity, low_stock_threshold, created_at, updated_at
		FROM products WHERE id = $1
		FOR UPDATE`
	var p models.Product
	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.StockQuantity, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, classify(fmt.Errorf("get product for update: %w", err))
	}
	return p, nil
}

func (t *postgresStockTx) SetQuantity(ctx context.Context, id, quantity int) error {
	query := `UPDATE products SET stock_quantity = $1, updated_at = $2 WHERE id = $3`
	if _, err := t.tx.ExecContext(ctx, query, quantity, time.Now().UTC(), id); err != nil {
		return classify(fmt.Errorf("set quantity: %w", err))
	}
	return nil
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.StockQuantity, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return products, nil
}

// isUniqueViolation checks for a unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// classify rewraps connectivity and lock-timeout failures as
// ErrStoreUnavailable so the boundary can surface them as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "55P03" { // lock_not_available
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
