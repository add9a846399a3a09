package models

import "time"

// Product represents a stocked item in the inventory system.
type Product struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	StockQuantity     int       `json:"stock_quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// LowStock reports whether the product is below its alert threshold.
func (p Product) LowStock() bool {
	return p.StockQuantity < p.LowStockThreshold
}
